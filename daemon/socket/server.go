package socket

import (
	"context"
	"fmt"
	"net"
	"os"

	"gopkg.in/tomb.v2"

	"github.com/xenago/libnss-shim/daemon/logging"
)

// Server accepts connections on a unix socket and hands each one to a
// Handler in its own goroutine.
type Server struct {
	path     string
	handler  *Handler
	listener net.Listener
	tomb     tomb.Tomb
	logger   *logging.Logger
}

func NewServer(path string, handler *Handler) *Server {
	return &Server{
		path:    path,
		handler: handler,
		logger:  logging.NewLogger("server"),
	}
}

// Path returns the socket path the server listens on.
func (s *Server) Path() string {
	return s.path
}

// Start replaces any stale socket file, starts listening and begins
// accepting connections.
func (s *Server) Start() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", s.path)
	if err != nil {
		return fmt.Errorf("failed to create socket: %w", err)
	}

	if err := os.Chmod(s.path, 0666); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.listener = listener
	s.tomb.Go(s.serve)
	s.logger.Info("Listening on %s", s.path)
	return nil
}

func (s *Server) serve() error {
	ctx := s.tomb.Context(context.Background())
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.tomb.Dying():
				return nil
			default:
			}
			return fmt.Errorf("failed to accept connection: %w", err)
		}

		s.tomb.Go(func() error {
			s.handler.HandleConnection(ctx, conn)
			return nil
		})
	}
}

// Stop closes the listener, cancels in-flight lookups, waits for them to
// finish and removes the socket file.
func (s *Server) Stop() error {
	if s.listener == nil {
		return nil
	}
	s.tomb.Kill(nil)
	s.listener.Close()
	err := s.tomb.Wait()
	if rmErr := os.Remove(s.path); rmErr != nil && !os.IsNotExist(rmErr) {
		s.logger.Warn("Failed to remove socket %s: %v", s.path, rmErr)
	}
	return err
}

// Dead returns a channel closed once the server has stopped.
func (s *Server) Dead() <-chan struct{} {
	return s.tomb.Dead()
}

// Err returns the reason the server stopped, if any.
func (s *Server) Err() error {
	return s.tomb.Err()
}
