// Package testserver provides an in-process workspace channel server
// for tests and local development. It implements just enough of the
// real channel contract to exercise a client: bearer-token checks on
// upgrade, a workspace_info reply, ping/pong, and scripted
// server-initiated closes.
package testserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/inkwell-app/inkwell-go/pkg/wire"
)

// WorkspaceInfo is the payload returned for a workspace_info request.
type WorkspaceInfo struct {
	WorkspaceID string   `json:"workspace_id"`
	Name        string   `json:"name"`
	Projects    []string `json:"projects,omitempty"`
}

// Server is an http.Handler speaking the workspace channel protocol.
type Server struct {
	// Token is the bearer credential the server accepts. Empty accepts
	// anything.
	Token string

	// Workspace is the payload served to workspace_info requests.
	Workspace WorkspaceInfo

	upgrader websocket.Upgrader

	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
	received []wire.Envelope
	upgrades int
}

// New creates a server that accepts the given token.
func New(token string) *Server {
	return &Server{
		Token: token,
		Workspace: WorkspaceInfo{
			WorkspaceID: "ws-local",
			Name:        "Local Workspace",
		},
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 5 * time.Second,
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the request and runs the per-connection loop.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.conns[ws] = struct{}{}
	s.upgrades++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.conns, ws)
		s.mu.Unlock()
		_ = ws.Close()
	}()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		env, err := wire.Decode(data)
		if err != nil {
			continue
		}

		s.mu.Lock()
		s.received = append(s.received, env)
		s.mu.Unlock()

		switch env.Type {
		case wire.TypeWorkspaceInfo:
			content, _ := json.Marshal(s.Workspace)
			s.reply(ws, wire.Envelope{Type: wire.TypeWorkspaceInfo, Content: content})
		case wire.TypePing:
			s.reply(ws, wire.Envelope{Type: wire.TypePong})
		}
	}
}

// authorized checks the bearer header and the token query parameter;
// either is accepted, matching the production channel.
func (s *Server) authorized(r *http.Request) bool {
	if s.Token == "" {
		return true
	}
	if r.URL.Query().Get("token") == s.Token {
		return true
	}
	auth := r.Header.Get("Authorization")
	return strings.TrimPrefix(auth, "Bearer ") == s.Token
}

// reply sends one envelope; write failures end the connection via the
// read loop.
func (s *Server) reply(ws *websocket.Conn, env wire.Envelope) {
	data, err := wire.Encode(env)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = ws.WriteMessage(websocket.TextMessage, data)
}

// Broadcast sends an envelope to every connected client.
func (s *Server) Broadcast(env wire.Envelope) {
	data, err := wire.Encode(env)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for ws := range s.conns {
		_ = ws.WriteMessage(websocket.TextMessage, data)
	}
}

// CloseAll drops every connection from the server side, simulating a
// remote disconnect.
func (s *Server) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ws := range s.conns {
		_ = ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "restart"),
			time.Now().Add(time.Second),
		)
		_ = ws.Close()
	}
}

// ConnCount returns the number of currently connected clients.
func (s *Server) ConnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Upgrades returns the number of successful upgrades since start.
func (s *Server) Upgrades() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upgrades
}

// Received returns a copy of every envelope the server has decoded.
func (s *Server) Received() []wire.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]wire.Envelope, len(s.received))
	copy(out, s.received)
	return out
}

// ReceivedTypes returns the type tags of received envelopes, in order.
func (s *Server) ReceivedTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	types := make([]string, len(s.received))
	for i, env := range s.received {
		types[i] = env.Type
	}
	return types
}

// WSURL converts an http(s) URL (e.g. from httptest.Server) to the
// ws(s) equivalent.
func WSURL(httpURL string) string {
	if strings.HasPrefix(httpURL, "https://") {
		return "wss://" + strings.TrimPrefix(httpURL, "https://")
	}
	return "ws://" + strings.TrimPrefix(httpURL, "http://")
}
