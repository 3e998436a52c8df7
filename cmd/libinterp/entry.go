package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"libinterpreter/interpreter-go/pkg/driver"
	"libinterpreter/interpreter-go/pkg/host"
	"libinterpreter/interpreter-go/pkg/interpreter"
)

func runEntry(args []string, flags runFlags) int {
	return runEntryWithMode(args, flags, modeRun)
}

func runCheck(args []string, flags runFlags) int {
	return runEntryWithMode(args, flags, modeCheck)
}

func runEntryWithMode(args []string, flags runFlags, mode executionMode) int {
	label := modeCommandLabel(mode)
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "%s: %v\n", label, errProgramMissing)
		return 1
	}
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "%s: unexpected arguments: %s\n", label, strings.Join(args[1:], " "))
		return 1
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", label, err)
		return 1
	}
	program, err := loadTarget(args[0], cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", label, err)
		return 1
	}
	if err := driver.Validate(program); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s: %v\n", label, program.Path, err)
		return 1
	}
	if mode == modeCheck {
		fmt.Fprintf(os.Stdout, "%s: ok (%d statements)\n", program.Name, len(program.Statements))
		return 0
	}
	return executeProgram(program, resolveSettings(cfg, program, flags))
}

// loadTarget reads a program from disk or, for git+ references, from a
// cached checkout.
func loadTarget(target string, cfg *driver.Config) (*driver.Program, error) {
	if !driver.IsGitReference(target) {
		return driver.LoadProgram(target)
	}
	src, err := driver.ParseGitSource(target)
	if err != nil {
		return nil, err
	}
	cacheDir, err := resolveCacheDir(cfg)
	if err != nil {
		return nil, err
	}
	program, _, err := driver.FetchProgram(cacheDir, src)
	return program, err
}

func resolveCacheDir(cfg *driver.Config) (string, error) {
	if cfg != nil && cfg.CacheDir != "" {
		return cfg.CacheDir, nil
	}
	if dir := os.Getenv("LIBINTERP_CACHE"); dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache directory: %w", err)
	}
	return filepath.Join(base, "libinterp"), nil
}

func executeProgram(program *driver.Program, s settings) int {
	interp, err := newInterpreter(s, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "libinterp run: %v\n", err)
		return 1
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = interp.Run(ctx, program.Statements, s.args)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(os.Stderr, "libinterp run: %s interrupted\n", program.Name)
		return 130
	case interpreter.KindOf(err) != "":
		// already reported through the diagnostics logger
		return 1
	default:
		fmt.Fprintf(os.Stderr, "libinterp run: %v\n", err)
		return 1
	}
}

func runBuiltins(args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "libinterp builtins does not take arguments (received %s)\n", strings.Join(args, " "))
		return 1
	}
	for _, b := range host.New().Builtins() {
		params := make([]string, 0, len(b.Params))
		for _, p := range b.Params {
			params = append(params, p.String())
		}
		fmt.Fprintf(os.Stdout, "%s(%s)\n", b.Name, strings.Join(params, ", "))
	}
	return 0
}
