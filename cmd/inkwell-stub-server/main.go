// Command inkwell-stub-server runs a local workspace channel server
// for development and manual testing of channel clients.
//
// It accepts one bearer token, answers workspace_info and ping, and
// can drop all clients on demand to exercise reconnect handling.
//
// Usage:
//
//	inkwell-stub-server [flags]
//
// Flags:
//
//	-listen string     Listen address (default ":8787")
//	-token string      Bearer token to require (empty accepts anything)
//	-workspace string  Workspace name served to workspace_info (default "Local Workspace")
//	-kick duration     Drop all clients every interval (0 disables)
//
// Examples:
//
//	# Accept any token on the default port
//	inkwell-stub-server
//
//	# Require a token and drop clients every 30s to test reconnects
//	inkwell-stub-server -token secret -kick 30s
package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/inkwell-app/inkwell-go/internal/testserver"
	"github.com/inkwell-app/inkwell-go/pkg/version"
)

func main() {
	listen := flag.String("listen", ":8787", "Listen address")
	token := flag.String("token", "", "Bearer token to require (empty accepts anything)")
	workspace := flag.String("workspace", "Local Workspace", "Workspace name served to workspace_info")
	kick := flag.Duration("kick", 0, "Drop all clients every interval (0 disables)")
	flag.Parse()

	log.SetFlags(log.Ltime)

	srv := testserver.New(*token)
	srv.Workspace.Name = *workspace

	if *kick > 0 {
		go func() {
			ticker := time.NewTicker(*kick)
			defer ticker.Stop()
			for range ticker.C {
				n := srv.ConnCount()
				if n > 0 {
					log.Printf("Dropping %d client(s)", n)
					srv.CloseAll()
				}
			}
		}()
	}

	log.Printf("%s stub server (%s)", version.Library, version.Version)
	log.Printf("Listening on %s (endpoint ws://%s/ws)", *listen, hostFor(*listen))
	if *token != "" {
		log.Println("Bearer token required")
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", srv)

	if err := http.ListenAndServe(*listen, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// hostFor makes a bare ":port" listen address printable as a URL host.
func hostFor(listen string) string {
	if len(listen) > 0 && listen[0] == ':' {
		return "localhost" + listen
	}
	return listen
}
