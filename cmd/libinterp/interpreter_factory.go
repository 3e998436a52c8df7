package main

import (
	"io"
	"os"

	"libinterpreter/interpreter-go/pkg/driver"
	"libinterpreter/interpreter-go/pkg/host"
	"libinterpreter/interpreter-go/pkg/interpreter"
)

// settings are the effective run settings after layering the config file, the
// program options and the command line flags.
type settings struct {
	requireDeclaration bool
	logLevel           string
	locale             string
	args               map[string]any
}

func resolveSettings(cfg *driver.Config, program *driver.Program, flags runFlags) settings {
	s := settings{logLevel: "warn", locale: "en_US"}
	var cfgArgs, programArgs map[string]any
	if cfg != nil {
		s.requireDeclaration = cfg.RequireDeclaration
		if cfg.LogLevel != "" {
			s.logLevel = cfg.LogLevel
		}
		if cfg.Locale != "" {
			s.locale = cfg.Locale
		}
		cfgArgs = cfg.Arguments
	}
	if program != nil {
		if program.RequireDeclaration != nil {
			s.requireDeclaration = *program.RequireDeclaration
		}
		programArgs = program.Arguments
	}
	if flags.requireDeclaration {
		s.requireDeclaration = true
	}
	if flags.logLevel != "" {
		s.logLevel = flags.logLevel
	}
	if flags.locale != "" {
		s.locale = flags.locale
	}
	s.args = driver.MergeArguments(cfgArgs, programArgs, flags.args)
	return s
}

func newInterpreter(s settings, console, diagnostics io.Writer) (*interpreter.Interpreter, error) {
	level, err := host.ParseLevel(s.logLevel)
	if err != nil {
		return nil, err
	}
	h := host.New(host.WithLocale(s.locale))
	reporter := host.NewReporter(console, diagnostics, level)
	interp := interpreter.New(h, reporter, interpreter.WithRequireDeclaration(s.requireDeclaration))
	h.Install(interp)
	return interp, nil
}

// loadConfig honours --config, otherwise searches from the working directory.
// A missing config is not an error.
func loadConfig(flags runFlags) (*driver.Config, error) {
	path := flags.configPath
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		if path, err = driver.FindConfig(cwd); err != nil || path == "" {
			return nil, err
		}
	}
	return driver.LoadConfig(path)
}
