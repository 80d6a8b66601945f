package config

// Configuration loading, layered the usual way:
// defaults -> config.yaml -> .env -> environment -> command line flags.

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Peer     PeerConfig     `mapstructure:"peer"`
	Swap     SwapConfig     `mapstructure:"swap"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	App      AppConfig      `mapstructure:"app"`
}

// PeerConfig describes the single remote peer the client talks to.
type PeerConfig struct {
	URL            string `mapstructure:"url"`
	Address        string `mapstructure:"address"`
	Seed           string `mapstructure:"seed"`
	RequestTimeout int    `mapstructure:"request_timeout"` // seconds
	FaucetAmount   int64  `mapstructure:"faucet_amount"`
}

type SwapConfig struct {
	FromToken       string   `mapstructure:"from_token"`
	ToToken         string   `mapstructure:"to_token"`
	PollInterval    int      `mapstructure:"poll_interval"` // seconds
	WatchedSymbols  []string `mapstructure:"watched_symbols"`
	HistoryCapacity int      `mapstructure:"history_capacity"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

type AppConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// DefaultPeerURL is the public demo peer.
const DefaultPeerURL = "http://peer.convex.live:8080"

func LoadConfig() (*Config, error) {
	// Best effort, env vars may come from the shell instead.
	godotenv.Load(".env")

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.ReadInConfig() // optional file

	v.SetConfigType("env")
	v.SetConfigFile(".env")
	v.ReadInConfig() // optional file

	v.AutomaticEnv()
	setupEnvAliases(v)
	setupFlags(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Watched symbols may arrive as a comma separated string from .env.
	if raw := v.Get("swap.watched_symbols"); raw != nil {
		if s, ok := raw.(string); ok && s != "" {
			parts := strings.Split(s, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			config.Swap.WatchedSymbols = parts
		}
	}

	if config.Peer.URL == "" {
		config.Peer.URL = DefaultPeerURL
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("peer.url", DefaultPeerURL)
	v.SetDefault("peer.request_timeout", 30)
	v.SetDefault("peer.faucet_amount", int64(100000000))
	v.SetDefault("swap.from_token", "CVX")
	v.SetDefault("swap.to_token", "USDF")
	v.SetDefault("swap.poll_interval", 15)
	v.SetDefault("swap.history_capacity", 96)
	v.SetDefault("app.data_dir", "data")
}

func setupEnvAliases(v *viper.Viper) {
	aliases := map[string]string{
		"peer.url":             "PEER_URL",
		"peer.address":         "PEER_ADDRESS",
		"peer.seed":            "PEER_SEED",
		"peer.request_timeout": "PEER_REQUEST_TIMEOUT",
		"peer.faucet_amount":   "PEER_FAUCET_AMOUNT",
		"swap.from_token":      "SWAP_FROM_TOKEN",
		"swap.to_token":        "SWAP_TO_TOKEN",
		"swap.poll_interval":   "SWAP_POLL_INTERVAL",
		"swap.watched_symbols": "SWAP_WATCHED_SYMBOLS",
		"telegram.bot_token":   "TELEGRAM_BOT_TOKEN",
		"telegram.chat_id":     "TELEGRAM_CHAT_ID",
		"app.data_dir":         "DATA_DIR",
	}
	for key, env := range aliases {
		v.BindEnv(key, env)
	}
}

func setupFlags(v *viper.Viper) {
	flags := pflag.NewFlagSet("vortex-swap", pflag.ContinueOnError)
	flags.String("peer-url", "", "peer base URL")
	flags.String("address", "", "account address on the peer")
	flags.String("seed", "", "account seed (credential)")
	flags.String("data-dir", "", "data directory for session and history files")
	// Unknown flags belong to the cobra layer, skip them here.
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.Parse(os.Args[1:])

	if f := flags.Lookup("peer-url"); f != nil && f.Changed {
		v.Set("peer.url", f.Value.String())
	}
	if f := flags.Lookup("address"); f != nil && f.Changed {
		v.Set("peer.address", f.Value.String())
	}
	if f := flags.Lookup("seed"); f != nil && f.Changed {
		v.Set("peer.seed", f.Value.String())
	}
	if f := flags.Lookup("data-dir"); f != nil && f.Changed {
		v.Set("app.data_dir", f.Value.String())
	}
}
