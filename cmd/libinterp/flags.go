package main

import (
	"fmt"
	"strconv"
	"strings"
)

// runFlags are the global flags accepted before or after the subcommand.
type runFlags struct {
	configPath         string
	requireDeclaration bool
	logLevel           string
	locale             string
	args               map[string]any
}

func parseRunFlags(args []string) (runFlags, []string, error) {
	flags := runFlags{args: map[string]any{}}
	remaining := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			remaining = append(remaining, args[i+1:]...)
			break
		}
		name, value, inline := strings.Cut(arg, "=")
		switch name {
		case "--require-declaration":
			if inline {
				parsed, err := strconv.ParseBool(value)
				if err != nil {
					return flags, nil, fmt.Errorf("--require-declaration expects true or false, got '%s'", value)
				}
				flags.requireDeclaration = parsed
				continue
			}
			flags.requireDeclaration = true
		case "--config", "--log-level", "--locale", "--arg":
			if !inline {
				if i+1 >= len(args) {
					return flags, nil, fmt.Errorf("%s expects a value", name)
				}
				value = args[i+1]
				i++
			}
			if err := flags.set(name, value); err != nil {
				return flags, nil, err
			}
		default:
			remaining = append(remaining, arg)
		}
	}
	return flags, remaining, nil
}

func (f *runFlags) set(name, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%s expects a value", name)
	}
	switch name {
	case "--config":
		f.configPath = value
	case "--log-level":
		switch strings.ToLower(value) {
		case "debug", "info", "warn", "error":
			f.logLevel = strings.ToLower(value)
		default:
			return fmt.Errorf("unknown --log-level value '%s' (expected debug, info, warn or error)", value)
		}
	case "--locale":
		f.locale = value
	case "--arg":
		key, raw, ok := strings.Cut(value, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("--arg expects name=value, got '%s'", value)
		}
		f.args[key] = parseArgValue(raw)
	}
	return nil
}

// parseArgValue types a command line value: numbers and booleans keep their
// type, anything else stays a string.
func parseArgValue(raw string) any {
	if n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		return n
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return true
	case "false":
		return false
	}
	return raw
}
