// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Command calcnetd runs the expression evaluation server.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calcstream.dev/calcstream/internal/server"
	"calcstream.dev/calcstream/internal/store"
)

func main() {
	var (
		addr        = flag.String("addr", "127.0.0.1:9119", "listen address")
		maxSessions = flag.Int("max-sessions", 64, "maximum concurrent sessions")
		dbPath      = flag.String("db", "calcstream.db", "SQLite database path (used when -history=sqlite)")
		history     = flag.String("history", "memory", "history store: memory, sqlite, or none")
		idleTimeout = flag.Duration("idle-timeout", 30*time.Second, "per-connection idle timeout")
	)
	flag.Parse()

	st, err := openStore(*history, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "calcnetd: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "calcnetd: listen: %v\n", err)
		os.Exit(1)
	}

	srv := server.New(ln,
		server.WithMaxSessions(*maxSessions),
		server.WithStore(st),
		server.WithIdleTimeout(*idleTimeout),
	)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		fmt.Fprintln(os.Stderr, "calcnetd: shutting down")
		srv.Close()
	}()

	fmt.Fprintf(os.Stderr, "calcnetd: listening on %s (history=%s, max-sessions=%d)\n", *addr, *history, *maxSessions)
	if err := srv.Serve(); err != nil {
		fmt.Fprintf(os.Stderr, "calcnetd: serve: %v\n", err)
		os.Exit(1)
	}
}

func openStore(kind, dbPath string) (store.Store, error) {
	switch kind {
	case "memory":
		return store.NewMemory(), nil
	case "sqlite":
		return store.NewSQLite(dbPath)
	case "none":
		return nullStore{}, nil
	default:
		return nil, fmt.Errorf("unknown -history value %q (want memory, sqlite, or none)", kind)
	}
}

// nullStore discards every record; used for -history=none.
type nullStore struct{}

func (nullStore) Record(store.HistoryEntry) error          { return nil }
func (nullStore) Recent(int) ([]store.HistoryEntry, error) { return nil, nil }
func (nullStore) Close() error                             { return nil }
