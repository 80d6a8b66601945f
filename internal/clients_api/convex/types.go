package convex

// Wire types for the peer REST API. The shapes are dictated by the peer;
// `source` payloads are opaque scripting expressions passed through verbatim.

// PeerResponse is the envelope every query/transact call resolves to.
// A non-empty ErrorCode signals failure regardless of HTTP status.
type PeerResponse struct {
	Value     interface{} `json:"value"`
	ErrorCode string      `json:"errorCode,omitempty"`
	Info      string      `json:"info,omitempty"`
}

// IsError reports whether the peer flagged this response as failed.
func (r *PeerResponse) IsError() bool {
	return r != nil && r.ErrorCode != ""
}

// Session tracks the minimal client-side state of one connection.
// SequenceCounter is write-only: it grows once per successful transaction
// and is never read back (kept for parity with the peer's account model).
type Session struct {
	Address         string
	Seed            string
	SequenceCounter int64
}

type queryRequest struct {
	Address string `json:"address,omitempty"`
	Source  string `json:"source"`
}

type transactRequest struct {
	Address string `json:"address"`
	Source  string `json:"source"`
	Seed    string `json:"seed"`
}

type createAccountRequest struct {
	AccountKey string `json:"accountKey"`
}

type createAccountResponse struct {
	Address interface{} `json:"address"`
}

type faucetRequest struct {
	Address string `json:"address"`
	Amount  int64  `json:"amount"`
}
