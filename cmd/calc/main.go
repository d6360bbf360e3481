// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Command calc is the client for calcnetd: it dials the server and
// sends it expressions, either one-shot, batched, or read
// interactively from stdin.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"
	"golang.org/x/term"
)

func main() {
	var (
		addr  = flag.String("addr", "127.0.0.1:9119", "calcnetd address")
		eval  = flag.String("e", "", "evaluate a single expression and exit")
		batch = flag.String("batch", "", "evaluate a shell-quoted string of expressions and exit")
	)
	flag.Parse()

	switch {
	case *eval != "":
		result, err := sendExpression(*addr, *eval)
		if err != nil {
			fmt.Fprintf(os.Stderr, "calc: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(result)

	case *batch != "":
		exprs, err := shellquote.Split(*batch)
		if err != nil {
			fmt.Fprintf(os.Stderr, "calc: -batch: %v\n", err)
			os.Exit(1)
		}
		status := 0
		for _, expr := range exprs {
			result, err := sendExpression(*addr, expr)
			if err != nil {
				fmt.Fprintf(os.Stderr, "calc: %s: %v\n", expr, err)
				status = 1
				continue
			}
			fmt.Println(result)
		}
		os.Exit(status)

	default:
		runREPL(*addr)
	}
}

// sendExpression dials addr, writes expr (appending a trailing
// newline if the caller omitted one) and returns the single line the
// server writes back, per the transport contract.
func sendExpression(addr, expr string) (string, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	if !strings.HasSuffix(expr, "\n") {
		expr += "\n"
	}
	if _, err := conn.Write([]byte(expr)); err != nil {
		return "", fmt.Errorf("write: %w", err)
	}

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read: %w", err)
	}
	return strings.TrimRight(line, "\n"), nil
}

// runREPL reads expressions from stdin, one per line, sending each to
// addr and printing the result, until EOF. It prompts only when stdin
// is a terminal, matching how piped input is expected to behave.
func runREPL(addr string) {
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	reader := bufio.NewReader(os.Stdin)

	if interactive {
		fmt.Println("calc (Ctrl+D to exit)")
	}

	for {
		if interactive {
			fmt.Print("> ")
		}
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			result, sendErr := sendExpression(addr, line)
			if sendErr != nil {
				fmt.Fprintf(os.Stderr, "calc: %v\n", sendErr)
			} else {
				fmt.Println(result)
			}
		}
		if err != nil {
			if interactive {
				fmt.Println()
			}
			return
		}
	}
}
