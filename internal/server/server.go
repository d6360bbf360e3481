// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package server accepts TCP connections and drives one evaluation
// session per connection: read chunks, feed the session's parser,
// write the rendered result back, and record it to the history store.
package server

import (
	"bufio"
	"log"
	"net"
	"sync"
	"time"

	"calcstream.dev/calcstream/internal/session"
	"calcstream.dev/calcstream/internal/store"
)

// defaultIdleTimeout bounds how long a connection may go without
// delivering a byte. When it expires, input received so far is
// terminated with a newline and evaluated, as on EOF; the result is
// written back and the connection is closed.
const defaultIdleTimeout = 30 * time.Second

// defaultReadBuffer is the chunk size handed to Session.Feed/Start on
// each read.
const defaultReadBuffer = 4096

// Option configures a Server.
type Option func(*Server)

// WithMaxSessions bounds the number of connections served
// concurrently; additional connections block waiting for a slot to
// free up. The default is 64.
func WithMaxSessions(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.sem = make(chan struct{}, n)
		}
	}
}

// WithIdleTimeout overrides defaultIdleTimeout.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.idleTimeout = d
	}
}

// WithStore overrides the history store. The default is an in-memory
// store.
func WithStore(st store.Store) Option {
	return func(s *Server) {
		s.store = st
	}
}

// WithLogger overrides the server's logger. The default logs to
// log.Default().
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// Server accepts connections on a net.Listener and runs one Session
// per connection, bounding concurrency to a fixed pool of slots.
type Server struct {
	ln          net.Listener
	registry    *session.Registry
	store       store.Store
	sem         chan struct{}
	idleTimeout time.Duration
	log         *log.Logger

	wg        sync.WaitGroup
	closing   chan struct{}
	closeOnce sync.Once
}

// New wraps ln with a Server. The caller retains ownership of ln and
// must not close it directly once Serve has been called; use Close
// instead.
func New(ln net.Listener, opts ...Option) *Server {
	s := &Server{
		ln:          ln,
		registry:    session.NewRegistry(),
		store:       store.NewMemory(),
		sem:         make(chan struct{}, 64),
		idleTimeout: defaultIdleTimeout,
		log:         log.Default(),
		closing:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serve accepts connections until the listener is closed or Close is
// called, dispatching each to its own goroutine. It returns nil on a
// clean shutdown (Close was called) and the accept error otherwise.
func (s *Server) Serve() error {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			select {
			case <-s.closing:
				s.wg.Wait()
				return nil
			default:
				return err
			}
		}

		select {
		case s.sem <- struct{}{}:
		case <-s.closing:
			conn.Close()
			s.wg.Wait()
			return nil
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() { <-s.sem }()
			s.handle(conn)
		}()
	}
}

// Close stops Serve from accepting further connections and closes the
// underlying listener. In-flight connections are left to finish on
// their own; callers that need a bound should race Close against a
// timeout.
func (s *Server) Close() error {
	s.closeOnce.Do(func() { close(s.closing) })
	return s.ln.Close()
}

// handle drives exactly one session end to end for conn, per the
// transport contract: the first chunk read goes to Start (which
// rejects an empty first chunk with EmptyInput — the case of a peer
// that closes without sending anything), later chunks go to Feed,
// a missing trailing newline is appended once something was actually
// sent, and the rendered result is written back and recorded.
func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	handle, sess := s.registry.Create()
	defer s.registry.Remove(handle)

	r := bufio.NewReaderSize(conn, defaultReadBuffer)
	buf := make([]byte, defaultReadBuffer)

	var expr []byte
	var sawTerminator bool
	var started bool

	for !sawTerminator {
		conn.SetReadDeadline(time.Now().Add(s.idleTimeout))
		n, err := r.Read(buf)
		if n == 0 && err == nil {
			continue
		}

		var chunk []byte
		if n > 0 {
			chunk = buf[:n]
			expr = append(expr, chunk...)
			if chunk[len(chunk)-1] == '\n' {
				sawTerminator = true
			}
		}

		if !started {
			started = true
			if startErr := sess.Start(chunk); startErr != nil {
				s.log.Printf("server: start: %v", startErr)
				break
			}
		} else if len(chunk) > 0 {
			if feedErr := sess.Feed(chunk); feedErr != nil {
				s.log.Printf("server: feed: %v", feedErr)
				sess.Abort()
				break
			}
		}

		if err != nil {
			if !sawTerminator && len(expr) > 0 {
				// EOF or a timeout with no trailing newline: append
				// one so the core sees a syntactically complete
				// stream, per the transport contract.
				if feedErr := sess.Feed([]byte("\n")); feedErr != nil {
					s.log.Printf("server: feed final newline: %v", feedErr)
					sess.Abort()
				} else {
					expr = append(expr, '\n')
				}
			}
			break
		}
	}

	sess.Wait()
	v, resultErr := sess.Result()

	var outcome string
	if resultErr != nil {
		outcome = "error: " + resultErr.Error()
	} else {
		outcome = v.String()
	}

	conn.SetWriteDeadline(time.Now().Add(s.idleTimeout))
	if _, err := conn.Write([]byte(outcome + "\n")); err != nil {
		s.log.Printf("server: write result: %v", err)
	}

	if err := s.store.Record(store.HistoryEntry{
		Handle:     string(handle),
		Expression: string(expr),
		Outcome:    outcome,
		FinishedAt: time.Now(),
	}); err != nil {
		s.log.Printf("server: record history: %v", err)
	}
}
