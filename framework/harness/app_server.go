// Package harness serves an http.Handler on a real TCP port, so that a browser running outside
// this process can reach the demo application.
package harness

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/pomkit/pom-test-harness/framework"
)

const (
	httpListenerTimeout = time.Second * 10
	shutdownTimeout     = time.Second * 5
)

// AppServer is a running HTTP listener. It answers HEAD requests itself, so that startup can
// confirm the listener is active, and passes everything else to the wrapped handler.
type AppServer struct {
	server  *http.Server
	baseURL string
	logger  framework.Logger
	done    chan struct{}
}

// StartAppServer listens on the given port, or on an arbitrary free port if port is zero, and
// does not return until the listener is answering requests. The base URL it reports uses host as
// the hostname, which should be whatever name the browser can reach this machine by.
func StartAppServer(host string, port int, handler http.Handler, debugLogger framework.Logger) (*AppServer, error) {
	if debugLogger == nil {
		debugLogger = framework.NullLogger()
	}
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("could not listen on port %d: %w", port, err)
	}
	actualPort := listener.Addr().(*net.TCPAddr).Port

	s := &AppServer{
		server: &http.Server{
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method == http.MethodHead {
					w.WriteHeader(http.StatusOK)
					return
				}
				handler.ServeHTTP(w, r)
			}),
			ReadHeaderTimeout: 10 * time.Second, // arbitrary but non-infinite timeout to avoid Slowloris Attack
		},
		baseURL: fmt.Sprintf("http://%s:%d", host, actualPort),
		logger:  debugLogger,
		done:    make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			debugLogger.Printf("Demo application server stopped: %s", err)
		}
	}()

	if err := waitForListener(fmt.Sprintf("http://localhost:%d", actualPort)); err != nil {
		_ = s.Close()
		return nil, err
	}
	debugLogger.Printf("Serving demo application at %s", s.baseURL)
	return s, nil
}

// BaseURL is the URL a browser should use to reach the server.
func (s *AppServer) BaseURL() string { return s.baseURL }

// Close stops the listener, waiting briefly for requests in progress to finish.
func (s *AppServer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.server.Shutdown(ctx)
	<-s.done
	return err
}

func waitForListener(url string) error {
	transport := &http.Transport{DisableKeepAlives: true}
	defer transport.CloseIdleConnections()
	client := &http.Client{Transport: transport, Timeout: time.Second}

	deadline := time.NewTimer(httpListenerTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(time.Millisecond * 10)
	defer ticker.Stop()
	for {
		select {
		case <-deadline.C:
			return fmt.Errorf("could not detect own listener at %s", url)
		case <-ticker.C:
			resp, err := client.Head(url)
			if err == nil {
				_ = resp.Body.Close()
				return nil
			}
		}
	}
}
