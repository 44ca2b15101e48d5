package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/zoobzio/cloak/qs"
)

func runQS(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "qs subcommand required")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  cloak qs parse <query>       - Decode a query string to JSON")
		fmt.Fprintln(os.Stderr, "  cloak qs stringify <json>    - Encode a JSON object as a query string")
		return 2
	}

	switch args[0] {
	case "parse":
		return runQSParse(args[1:])
	case "stringify":
		return runQSStringify(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown qs subcommand: %s\n", args[0])
		return 2
	}
}

func runQSParse(args []string) int {
	fs := flag.NewFlagSet("qs parse", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one query string is required")
		return 2
	}
	return writeJSON(qs.Parse(fs.Arg(0)))
}

func runQSStringify(args []string) int {
	fs := flag.NewFlagSet("qs stringify", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one JSON object is required")
		return 2
	}

	dec := json.NewDecoder(strings.NewReader(fs.Arg(0)))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid JSON object: %v\n", err)
		return 2
	}

	fmt.Fprintln(stdout, qs.Stringify(m))
	return 0
}
