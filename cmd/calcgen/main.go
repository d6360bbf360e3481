// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Command calcgen emits random expressions, optionally piping them at
// a running calcnetd server.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"calcstream.dev/calcstream/internal/genexpr"
)

func main() {
	var (
		count         = flag.Int("n", 10, "number of expressions to generate")
		addr          = flag.String("addr", "", "calcnetd address to pipe generated expressions at; if empty, print to stdout")
		seed          = flag.Int64("seed", 1, "PRNG seed")
		maxDepth      = flag.Int("max-depth", 3, "maximum parenthesis nesting depth")
		maxTerms      = flag.Int("max-terms", 4, "maximum factors per subexpression")
		maxDigits     = flag.Int("max-digits", 6, "maximum digits per number")
		negativeRate  = flag.Float64("negative-rate", 0.2, "probability a factor is negative")
		malformedRate = flag.Float64("malformed-rate", 0, "probability an expression is deliberately malformed")
	)
	flag.Parse()

	spec := genexpr.GeneratorSpec{
		MaxDepth:      *maxDepth,
		MaxTerms:      *maxTerms,
		MaxDigits:     *maxDigits,
		NegativeRate:  *negativeRate,
		MalformedRate: *malformedRate,
		Seed:          *seed,
	}

	start := time.Now()
	sent, failed := 0, 0

	for i := 0; i < *count; i++ {
		spec.Seed = *seed + int64(i)
		expr := genexpr.Generate(spec)

		if *addr == "" {
			fmt.Print(expr)
			sent++
			continue
		}

		// The server runs exactly one session per connection, so each
		// generated expression gets its own dial.
		if err := sendOne(*addr, expr); err != nil {
			fmt.Fprintf(os.Stderr, "calcgen: %v\n", err)
			failed++
			continue
		}
		sent++
	}

	elapsed := time.Since(start)
	fmt.Fprintf(os.Stderr, "calcgen: generated %s expressions (%s failed) in %s\n",
		humanize.Comma(int64(sent)), humanize.Comma(int64(failed)), elapsed.Round(time.Millisecond))
}

// sendOne dials addr, writes expr, and drains the single result line
// the server writes back before closing.
func sendOne(addr, expr string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(expr)); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if _, err := bufio.NewReader(conn).ReadString('\n'); err != nil {
		return fmt.Errorf("read result: %w", err)
	}
	return nil
}
