package convex

import "fmt"

// ConnectionError means the peer was unreachable or failed the
// initialization check during Connect.
type ConnectionError struct {
	Reason string
	Err    error
}

func (e *ConnectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("connection failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("connection failed: %s", e.Reason)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError covers non-2xx responses and peer-reported error codes
// on read-only queries.
type QueryError struct {
	StatusCode int
	ErrorCode  string
	Message    string
	Err        error
}

func (e *QueryError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("query failed [%s]: %s", e.ErrorCode, e.Message)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("query failed (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("query failed: %s", e.Message)
}

func (e *QueryError) Unwrap() error { return e.Err }

// TransactionError covers non-2xx responses and peer-reported error codes
// on state-changing transactions.
type TransactionError struct {
	StatusCode int
	ErrorCode  string
	Message    string
	Err        error
}

func (e *TransactionError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("transaction failed [%s]: %s", e.ErrorCode, e.Message)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("transaction failed (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("transaction failed: %s", e.Message)
}

func (e *TransactionError) Unwrap() error { return e.Err }

// NotConnectedError is returned when a transaction is attempted without
// an established session.
type NotConnectedError struct{}

func (e *NotConnectedError) Error() string {
	return "not connected: no session established with the peer"
}
