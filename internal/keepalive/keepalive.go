// Package keepalive serves the uptime-ping endpoint that hosting platforms
// poll to keep the process alive.
package keepalive

import (
	"log"
	"net/http"
)

// Handler answers pings with a bare 200.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	return mux
}

// Start runs the ping server in the background. A bind failure is logged,
// never fatal; the bot works without it.
func Start(addr string) {
	if addr == "" {
		return
	}
	go func() {
		log.Printf("Keep-alive server listening on %s", addr)
		if err := http.ListenAndServe(addr, Handler()); err != nil {
			log.Printf("Keep-alive server stopped: %v", err)
		}
	}()
}
