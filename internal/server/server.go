package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/rzbill/taskqd/internal/protocol"
	"github.com/rzbill/taskqd/internal/queue"
)

// readChunkSize is how much of a request is consumed per read. ADD payloads
// larger than one chunk arrive through continuation reads.
const readChunkSize = 1024

// Server owns the TCP listener and drives the protocol against the registry.
// Each connection carries exactly one request; the response is written and
// the connection closed.
type Server struct {
	reg        *queue.Registry
	logger     *logrus.Entry
	maxPending int

	mu  sync.Mutex
	lis net.Listener
	wg  sync.WaitGroup
}

// New constructs a server for the given registry. maxPending caps how many
// connections are handled concurrently.
func New(reg *queue.Registry, logger *logrus.Logger, maxPending int) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	if maxPending <= 0 {
		maxPending = 10
	}
	return &Server{
		reg:        reg,
		logger:     logger.WithField("component", "server"),
		maxPending: maxPending,
	}
}

// ListenAndServe binds to addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.mu.Lock()
	s.lis = l
	s.mu.Unlock()
	s.logger.WithField("addr", l.Addr().String()).Info("task queue listening")

	go func() {
		<-ctx.Done()
		_ = l.Close()
	}()

	sem := make(chan struct{}, s.maxPending)
	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				return nil
			}
			s.logger.WithError(err).Warn("accept failed")
			continue
		}
		sem <- struct{}{}
		s.wg.Add(1)
		go func() {
			defer func() { <-sem; s.wg.Done() }()
			s.handleConn(conn)
		}()
	}
}

// Addr returns the bound listener address, or nil before ListenAndServe.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lis == nil {
		return nil
	}
	return s.lis.Addr()
}

// Close stops the listener. In-flight connections finish on their own.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	buf := make([]byte, readChunkSize)
	n, err := conn.Read(buf)
	if err != nil {
		s.logger.WithError(err).Debug("request read failed")
		return
	}

	req, err := protocol.Parse(buf[:n])
	if err != nil {
		s.respond(conn, protocol.RespError)
		return
	}
	if req.Command == protocol.CmdAdd {
		payload, err := s.readPayload(conn, req.Payload, req.DeclaredLen)
		if err != nil {
			s.respond(conn, protocol.RespError)
			return
		}
		req.Payload = payload
	}

	s.respond(conn, s.dispatch(req))
}

// readPayload appends continuation reads to the first-chunk payload until
// the declared length is satisfied. Each chunk must decode as UTF-8 text.
func (s *Server) readPayload(conn net.Conn, initial string, declared int) (string, error) {
	var b strings.Builder
	b.WriteString(initial)
	buf := make([]byte, readChunkSize)
	for b.Len() < declared {
		n, err := conn.Read(buf)
		if err != nil {
			return "", fmt.Errorf("read payload: %w", err)
		}
		if !utf8.Valid(buf[:n]) {
			return "", protocol.ErrMalformed
		}
		b.Write(buf[:n])
	}
	return b.String(), nil
}

// dispatch routes a fully assembled request to the registry and encodes the
// outcome as a wire response.
func (s *Server) dispatch(req protocol.Request) []byte {
	switch req.Command {
	case protocol.CmdAdd:
		id := s.reg.Add(req.Queue, req.DeclaredLen, req.Payload)
		return []byte(id)
	case protocol.CmdGet:
		d, err := s.reg.NextAvailable(req.Queue)
		if err != nil {
			return protocol.RespUnknownQueue
		}
		if d == nil {
			return protocol.RespNone
		}
		return []byte(fmt.Sprintf("%s %d %s", d.ID, d.Length, d.Payload))
	case protocol.CmdIn:
		ok, err := s.reg.Contains(req.Queue, req.TaskID)
		if err != nil {
			return protocol.RespUnknownQueue
		}
		if ok {
			return protocol.RespYes
		}
		return protocol.RespNo
	case protocol.CmdAck:
		ok, err := s.reg.Acknowledge(req.Queue, req.TaskID)
		if err != nil {
			return protocol.RespUnknownQueue
		}
		if ok {
			return protocol.RespYes
		}
		return protocol.RespNo
	case protocol.CmdSave:
		if err := s.reg.Save(); err != nil {
			s.logger.WithError(err).Error("snapshot save failed")
			return protocol.RespError
		}
		return protocol.RespOK
	}
	return protocol.RespError
}

func (s *Server) respond(conn net.Conn, resp []byte) {
	if _, err := conn.Write(resp); err != nil {
		s.logger.WithError(err).Debug("response write failed")
	}
}
