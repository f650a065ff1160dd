package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/inkwell-app/inkwell-go/pkg/channel"
	"github.com/inkwell-app/inkwell-go/pkg/config"
	"github.com/inkwell-app/inkwell-go/pkg/credential"
	"github.com/inkwell-app/inkwell-go/pkg/log"
	"github.com/inkwell-app/inkwell-go/pkg/notify"
	"github.com/inkwell-app/inkwell-go/pkg/wire"
)

// session drives the interactive command loop around one channel.
type session struct {
	ch     *channel.Channel
	tokens *credential.FileStore
	store  *credential.Store
	rl     *readline.Instance

	// watching mirrors inbound envelopes to the console.
	watching bool
}

func newSession(cfg *config.Config, tokens *credential.FileStore, store *credential.Store, logger log.Logger) (*session, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "inkwell> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	s := &session{
		tokens: tokens,
		store:  store,
		rl:     rl,
	}

	opts := channelOptions(cfg, logger)
	opts.Notifier = notify.Func(func(level, msg string) {
		fmt.Fprintf(rl.Stdout(), "\n[%s] %s: %s\n", time.Now().Format("15:04:05"), level, msg)
		rl.Refresh()
	})

	ch, err := channel.New(opts)
	if err != nil {
		rl.Close()
		return nil, err
	}
	ch.OnMessage(s.handleMessage)
	s.ch = ch

	return s, nil
}

// Run starts the interactive command loop. It returns when the user
// exits.
func (s *session) Run() {
	defer s.rl.Close()

	s.printHelp()

	for {
		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "status", "st":
			s.cmdStatus()

		case "login":
			s.cmdLogin(args)

		case "logout":
			s.cmdLogout()

		case "connect":
			s.cmdConnect()

		case "disconnect":
			s.cmdDisconnect()

		case "reconnect":
			s.ch.Reconnect()
			fmt.Fprintln(s.rl.Stdout(), "Reconnecting...")

		case "reset":
			s.ch.ResetConnection()
			fmt.Fprintln(s.rl.Stdout(), "Connection reset")

		case "send":
			s.cmdSend(args)

		case "watch":
			s.cmdWatch(args)

		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return

		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *session) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
Inkwell Channel Commands:
  Session:
    login <token>      - Store a bearer token and connect
    logout             - Drop the token and disconnect
    status             - Show connection state

  Connection:
    connect            - Connect with the stored token
    disconnect         - Drop the connection (token kept)
    reconnect          - Redial with the stored token
    reset              - Reset the retry delay and redial

  Traffic:
    send <type> [json] - Send an envelope, e.g. send workspace_info {}
    watch on|off       - Mirror inbound envelopes to the console

  General:
    help               - Show this help
    quit               - Exit`)
}

func (s *session) cmdStatus() {
	snap := s.ch.State()

	fmt.Fprintln(s.rl.Stdout(), "\nChannel Status")
	fmt.Fprintln(s.rl.Stdout(), "-------------------------------------------")
	fmt.Fprintf(s.rl.Stdout(), "  State:      %s\n", snap.State)

	token := s.store.Get()
	if token == "" {
		fmt.Fprintln(s.rl.Stdout(), "  Token:      none")
	} else {
		fmt.Fprintf(s.rl.Stdout(), "  Token:      %s\n", maskToken(token))
	}

	if snap.Conn != nil {
		fmt.Fprintf(s.rl.Stdout(), "  Conn ID:    %s\n", snap.Conn.ID())
		fmt.Fprintf(s.rl.Stdout(), "  Remote:     %s\n", snap.Conn.RemoteAddr())
	}

	watchStatus := "off"
	if s.watching {
		watchStatus = "on"
	}
	fmt.Fprintf(s.rl.Stdout(), "  Watch:      %s\n", watchStatus)
	fmt.Fprintln(s.rl.Stdout())
}

func (s *session) cmdLogin(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: login <token>")
		return
	}

	token := args[0]
	if err := s.tokens.Save(token); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Warning: failed to cache token: %v\n", err)
	}
	s.store.Set(token)
	fmt.Fprintln(s.rl.Stdout(), "Token stored, connecting...")
}

func (s *session) cmdLogout() {
	if err := s.tokens.Clear(); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Warning: failed to clear token cache: %v\n", err)
	}
	s.store.Clear()
	fmt.Fprintln(s.rl.Stdout(), "Logged out")
}

func (s *session) cmdConnect() {
	token := s.store.Get()
	if token == "" {
		fmt.Fprintln(s.rl.Stdout(), "No token stored; use 'login <token>' first")
		return
	}
	s.ch.Connect(token)
	fmt.Fprintln(s.rl.Stdout(), "Connecting...")
}

// cmdDisconnect drops the connection without discarding the token, so
// 'connect' can resume the session later.
func (s *session) cmdDisconnect() {
	s.ch.SetCredential("")
	fmt.Fprintln(s.rl.Stdout(), "Disconnected")
}

func (s *session) cmdSend(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: send <type> [json-content]")
		fmt.Fprintln(s.rl.Stdout(), "  Example: send workspace_info {}")
		return
	}

	env := wire.Envelope{Type: args[0]}
	if len(args) > 1 {
		content := strings.Join(args[1:], " ")
		if !json.Valid([]byte(content)) {
			fmt.Fprintf(s.rl.Stdout(), "Invalid JSON content: %s\n", content)
			return
		}
		env.Content = json.RawMessage(content)
	}

	if err := s.ch.Send(env); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Send failed: %v\n", err)
		return
	}
	fmt.Fprintln(s.rl.Stdout(), "Sent")
}

func (s *session) cmdWatch(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: watch on|off")
		return
	}
	switch strings.ToLower(args[0]) {
	case "on":
		s.watching = true
		fmt.Fprintln(s.rl.Stdout(), "Watching inbound envelopes")
	case "off":
		s.watching = false
		fmt.Fprintln(s.rl.Stdout(), "Watch disabled")
	default:
		fmt.Fprintln(s.rl.Stdout(), "Usage: watch on|off")
	}
}

// handleMessage mirrors inbound envelopes to the console when watching.
// Runs on the channel's read-loop goroutine.
func (s *session) handleMessage(env wire.Envelope) {
	if !s.watching {
		return
	}

	content := ""
	if len(env.Content) > 0 {
		content = " " + string(env.Content)
	}
	fmt.Fprintf(s.rl.Stdout(), "\n[%s] <- %s%s\n",
		time.Now().Format("15:04:05"), env.Type, content)
	s.rl.Refresh()
}

// maskToken shortens a token for display.
func maskToken(token string) string {
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
