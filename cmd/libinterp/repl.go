package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"libinterpreter/interpreter-go/pkg/ast"
	"libinterpreter/interpreter-go/pkg/interpreter"
	"libinterpreter/interpreter-go/pkg/parser"
)

const (
	replPrompt      = "libinterp> "
	replHistoryFile = ".libinterp_history"
)

// replSession keeps one root scope alive across input lines.
type replSession struct {
	interp *interpreter.Interpreter
}

func newReplSession(s settings, console, diagnostics io.Writer) (*replSession, error) {
	interp, err := newInterpreter(s, console, diagnostics)
	if err != nil {
		return nil, err
	}
	interp.Begin(s.args)
	return &replSession{interp: interp}, nil
}

// handle runs one input line. Assignments declare missing variables, "print"
// lines go through message formatting and anything else is evaluated and its
// value returned for display.
func (r *replSession) handle(ctx context.Context, line string) (string, error) {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return "", nil
	case line == ":vars":
		return strings.Join(r.interp.Scopes().Root().Variables.Names(), "\n"), nil
	case strings.HasPrefix(line, "print "):
		return "", r.interp.Execute(ctx, ast.Block(ast.Say(strings.TrimSpace(line[len("print "):]))))
	}

	if name, text, ok := parser.SplitAssignment(line); ok {
		seq, err := parser.Parse(text)
		if err != nil {
			return "", err
		}
		if _, exists := r.interp.Scopes().Find(name); exists {
			return "", r.interp.Execute(ctx, ast.Block(ast.Assign(name, seq...)))
		}
		value, err := r.interp.Evaluate(ctx, seq)
		if err != nil {
			return "", err
		}
		r.interp.Scopes().Current().Variables.Add(name, value.Type(), value.Value())
		return "", nil
	}

	seq, err := parser.Parse(line)
	if err != nil {
		return "", err
	}
	value, err := r.interp.Evaluate(ctx, seq)
	if err != nil {
		return "", err
	}
	return value.String(), nil
}

func runRepl(args []string, flags runFlags) int {
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "libinterp repl does not take arguments (received %s)\n", strings.Join(args, " "))
		return 1
	}
	cfg, err := loadConfig(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "libinterp repl: %v\n", err)
		return 1
	}
	session, err := newReplSession(resolveSettings(cfg, nil, flags), os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "libinterp repl: %v\n", err)
		return 1
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	var histPath string
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, replHistoryFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	ctx := context.Background()
	for {
		line, err := ln.Prompt(replPrompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(os.Stdout)
			return 0
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "libinterp repl: %v\n", err)
			return 1
		}
		if strings.TrimSpace(line) == ":quit" {
			return 0
		}
		out, err := session.handle(ctx, line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		} else if out != "" {
			fmt.Fprintln(os.Stdout, out)
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
	}
}
