package main

import (
	"errors"
	"fmt"
	"os"
)

const cliToolVersion = "libinterp 0.0.0-dev"

var errProgramMissing = errors.New("program file required")

type executionMode int

const (
	modeRun executionMode = iota
	modeCheck
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	flags, remaining, err := parseRunFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(remaining) == 0 {
		printUsage()
		return 1
	}

	switch remaining[0] {
	case "--help", "-h":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(remaining[1:], flags)
	case "check":
		return runCheck(remaining[1:], flags)
	case "repl":
		return runRepl(remaining[1:], flags)
	case "builtins":
		return runBuiltins(remaining[1:])
	default:
		return runEntry(remaining, flags)
	}
}
