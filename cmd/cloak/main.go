package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

const cliBanner = "cloak - selective HTTP payload encryption"

// stdout receives command output; logs go to stderr through zap.
var stdout io.Writer = os.Stdout

func init() {
	defaultUsage := flag.Usage
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintln(out, cliBanner)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Usage:")
		fmt.Fprintln(out, "  cloak seal  - Transform a request and print what goes on the wire")
		fmt.Fprintln(out, "  cloak open  - Decrypt a response body")
		fmt.Fprintln(out, "  cloak qs    - Parse or stringify query strings")
		fmt.Fprintln(out, "  cloak get   - Fetch a URL through the encrypting transport")
		fmt.Fprintln(out)
		if defaultUsage != nil {
			defaultUsage()
		}
	}
}

func main() {
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	switch args[0] {
	case "seal":
		os.Exit(runSeal(args[1:]))
	case "open":
		os.Exit(runOpen(args[1:]))
	case "qs":
		os.Exit(runQS(args[1:]))
	case "get":
		os.Exit(runGet(args[1:]))
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand: %s\n", args[0])
		flag.Usage()
		os.Exit(2)
	}
}
