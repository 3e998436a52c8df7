package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"libinterpreter/interpreter-go/pkg/ast"
)

// Program is a statement list loaded from a YAML program document.
type Program struct {
	Path               string
	Name               string
	RequireDeclaration *bool
	Arguments          map[string]any
	Statements         []ast.Statement
}

type programDisk struct {
	Name       string         `yaml:"name"`
	Options    optionsDisk    `yaml:"options"`
	Arguments  map[string]any `yaml:"arguments"`
	Statements yaml.Node      `yaml:"statements"`
}

type optionsDisk struct {
	RequireDeclaration *bool `yaml:"require_declaration"`
}

// LoadProgram reads and decodes a program document from disk.
func LoadProgram(path string) (*Program, error) {
	if path == "" {
		return nil, fmt.Errorf("driver: empty program path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("driver: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	program, err := ParseProgram(data, abs)
	if err != nil {
		return nil, err
	}
	program.Path = abs
	if program.Name == "" {
		program.Name = strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	}
	return program, nil
}

// ParseProgram decodes a program document. source names the document in
// error messages.
func ParseProgram(data []byte, source string) (*Program, error) {
	var raw programDisk
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("driver: parse %s: empty document", source)
		}
		return nil, fmt.Errorf("driver: parse %s: %w", source, err)
	}
	d := &statementDecoder{source: source}
	statements, err := d.block(&raw.Statements, "statements")
	if err != nil {
		return nil, err
	}
	return &Program{
		Name:               strings.TrimSpace(raw.Name),
		RequireDeclaration: raw.Options.RequireDeclaration,
		Arguments:          normalizeArguments(raw.Arguments),
		Statements:         statements,
	}, nil
}

// normalizeArguments turns YAML ints into the float64 the runtime stores.
func normalizeArguments(args map[string]any) map[string]any {
	if len(args) == 0 {
		return nil
	}
	out := make(map[string]any, len(args))
	for name, value := range args {
		if n, ok := value.(int); ok {
			value = float64(n)
		}
		out[name] = value
	}
	return out
}
