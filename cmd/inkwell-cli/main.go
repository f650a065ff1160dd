// Command inkwell-cli is an interactive client for the Inkwell
// workspace channel.
//
// It maintains the persistent channel connection, caches the bearer
// token between sessions, and exposes the connection controls on a
// command prompt.
//
// Usage:
//
//	inkwell-cli [flags]
//
// Flags:
//
//	-config string      Configuration file path (YAML)
//	-endpoint string    Channel WebSocket URL (overrides config)
//	-token string       Bearer token (cached for later sessions)
//	-token-file string  Token cache path (default ~/.inkwell/token.json)
//	-event-log string   CBOR event log path (overrides config)
//	-verbose            Mirror channel events to the console
//
// Examples:
//
//	# Connect with a fresh token
//	inkwell-cli -endpoint wss://channel.inkwell.app/ws -token $TOKEN
//
//	# Reuse the cached token with a config file
//	inkwell-cli -config ~/.inkwell/config.yaml
package main

import (
	"flag"
	stdlog "log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/inkwell-app/inkwell-go/pkg/channel"
	"github.com/inkwell-app/inkwell-go/pkg/config"
	"github.com/inkwell-app/inkwell-go/pkg/connection"
	"github.com/inkwell-app/inkwell-go/pkg/credential"
	"github.com/inkwell-app/inkwell-go/pkg/log"
	"github.com/inkwell-app/inkwell-go/pkg/version"
)

type cliFlags struct {
	ConfigFile string
	Endpoint   string
	Token      string
	TokenFile  string
	EventLog   string
	Verbose    bool
}

func main() {
	flags := parseFlags()

	cfg, err := loadConfig(flags)
	if err != nil {
		stdlog.Fatalf("Invalid configuration: %v", err)
	}

	logger, closeLogs, err := buildLogger(cfg)
	if err != nil {
		stdlog.Fatalf("Failed to open event log: %v", err)
	}
	defer closeLogs()

	tokens := credential.NewFileStore(flags.TokenFile)
	store := credential.NewStore()

	token := flags.Token
	if token == "" {
		cached, err := tokens.Load()
		if err != nil {
			stdlog.Printf("Warning: token cache unreadable: %v", err)
		}
		token = cached
	} else if err := tokens.Save(token); err != nil {
		stdlog.Printf("Warning: failed to cache token: %v", err)
	}

	session, err := newSession(cfg, tokens, store, logger)
	if err != nil {
		stdlog.Fatalf("Failed to start: %v", err)
	}

	stdlog.SetFlags(stdlog.Ltime)
	stdlog.Printf("%s (%s)", version.Library, version.Version)
	stdlog.Printf("Endpoint: %s", cfg.Endpoint)

	unbind := session.ch.Bind(store)
	defer unbind()

	if token != "" {
		store.Set(token)
	} else {
		stdlog.Println("No token cached; use 'login <token>' to connect")
	}

	session.Run()

	_ = session.ch.Close()
}

func parseFlags() cliFlags {
	var flags cliFlags
	defaultTokenFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		defaultTokenFile = filepath.Join(home, ".inkwell", "token.json")
	}

	flag.StringVar(&flags.ConfigFile, "config", "", "Configuration file path (YAML)")
	flag.StringVar(&flags.Endpoint, "endpoint", "", "Channel WebSocket URL (overrides config)")
	flag.StringVar(&flags.Token, "token", "", "Bearer token (cached for later sessions)")
	flag.StringVar(&flags.TokenFile, "token-file", defaultTokenFile, "Token cache path")
	flag.StringVar(&flags.EventLog, "event-log", "", "CBOR event log path (overrides config)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Mirror channel events to the console")
	flag.Parse()
	return flags
}

// loadConfig merges the config file with flag overrides.
func loadConfig(flags cliFlags) (*config.Config, error) {
	var cfg *config.Config
	if flags.ConfigFile != "" {
		loaded, err := config.Load(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	if flags.Endpoint != "" {
		cfg.Endpoint = flags.Endpoint
	}
	if flags.EventLog != "" {
		cfg.EventLog = flags.EventLog
	}
	if flags.Verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildLogger assembles the event logger from the config: a CBOR file
// log, a console mirror, both, or neither.
func buildLogger(cfg *config.Config) (log.Logger, func(), error) {
	var loggers []log.Logger
	closeLogs := func() {}

	if cfg.EventLog != "" {
		fl, err := log.NewFileLogger(cfg.EventLog)
		if err != nil {
			return nil, nil, err
		}
		loggers = append(loggers, fl)
		closeLogs = func() { _ = fl.Close() }
	}
	if cfg.Verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		loggers = append(loggers, log.NewSlogAdapter(slog.New(handler)))
	}

	switch len(loggers) {
	case 0:
		return log.NoopLogger{}, closeLogs, nil
	case 1:
		return loggers[0], closeLogs, nil
	default:
		return log.NewMultiLogger(loggers...), closeLogs, nil
	}
}

func channelOptions(cfg *config.Config, logger log.Logger) channel.Options {
	handshake := cfg.HandshakeEnabled()
	return channel.Options{
		Endpoint:          cfg.Endpoint,
		HeartbeatInterval: time.Duration(cfg.HeartbeatInterval),
		RetryPolicy: connection.DelayConfig{
			Initial: time.Duration(cfg.ReconnectDelay),
		},
		Handshake: &handshake,
		Logger:    logger,
	}
}
