package driver

import (
	"fmt"
	"strings"

	"libinterpreter/interpreter-go/pkg/ast"
	"libinterpreter/interpreter-go/pkg/parser"
)

// Validate parses the loop bounds a program defers to run time and reports
// every problem found, one per line.
func Validate(program *Program) error {
	var problems []string
	walk(program.Statements, func(stmt ast.Statement) {
		loop, ok := stmt.(*ast.For)
		if !ok {
			return
		}
		for _, bound := range []struct {
			name, text string
			parsed     ast.Sequence
		}{
			{"from", loop.StartText, loop.Start},
			{"to", loop.EndText, loop.End},
			{"step", loop.StepText, loop.Step},
		} {
			if strings.TrimSpace(bound.text) == "" {
				if bound.name != "step" && bound.parsed.Empty() {
					problems = append(problems, fmt.Sprintf("for %s: missing %s", loop.Variable.Name, bound.name))
				}
				continue
			}
			if _, err := parser.Parse(bound.text); err != nil {
				problems = append(problems, fmt.Sprintf("for %s: %s: %v", loop.Variable.Name, bound.name, err))
			}
		}
	})
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("driver: %s:\n  %s", program.Path, strings.Join(problems, "\n  "))
}

func walk(statements []ast.Statement, visit func(ast.Statement)) {
	for _, stmt := range statements {
		visit(stmt)
		switch s := stmt.(type) {
		case *ast.For:
			walk(s.Body, visit)
		case *ast.If:
			walk(s.Then, visit)
			walk(s.Else, visit)
		case *ast.While:
			walk(s.Body, visit)
		case *ast.DoWhile:
			walk(s.Body, visit)
		case *ast.FunctionDecl:
			walk(s.Body, visit)
		}
	}
}
