package driver

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"libinterpreter/interpreter-go/pkg/ast"
	"libinterpreter/interpreter-go/pkg/parser"
)

// statementDecoder maps the single-key statement mappings of a program
// document onto ast statements. Keys it does not know become Extension
// statements carrying the decoded value.
type statementDecoder struct {
	source string
}

func (d *statementDecoder) errorf(node *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("driver: %s:%d: %s", d.source, node.Line, fmt.Sprintf(format, args...))
}

func isNull(node *yaml.Node) bool {
	return node == nil || node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.Tag == "!!null")
}

func (d *statementDecoder) block(node *yaml.Node, what string) ([]ast.Statement, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, d.errorf(node, "%s must be a list of statements", what)
	}
	statements := make([]ast.Statement, 0, len(node.Content))
	for _, item := range node.Content {
		stmt, err := d.statement(item)
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

func (d *statementDecoder) statement(node *yaml.Node) (ast.Statement, error) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return nil, d.errorf(node, "a statement must be a mapping with a single key")
	}
	key, value := node.Content[0], node.Content[1]
	switch strings.ToLower(key.Value) {
	case "declare":
		return d.declare(value)
	case "let":
		return d.let(value)
	case "for":
		return d.loop(value)
	case "if":
		return d.conditional(value)
	case "while":
		return d.while(value)
	case "repeat":
		return d.repeat(value)
	case "function":
		return d.function(value)
	case "call":
		return d.call(value)
	case "return":
		expr, err := d.expression(value, "return")
		if err != nil {
			return nil, err
		}
		return &ast.Return{Value: expr}, nil
	case "print":
		text, err := d.text(value, "print")
		return &ast.Print{Message: text}, err
	case "comment":
		text, err := d.text(value, "comment")
		return &ast.Comment{Text: text}, err
	case "raise":
		text, err := d.text(value, "raise")
		return &ast.Raise{Message: text}, err
	default:
		var payload any
		if err := value.Decode(&payload); err != nil {
			return nil, d.errorf(value, "%s: %v", key.Value, err)
		}
		return &ast.Extension{Kind: key.Value, Payload: payload}, nil
	}
}

// fields checks a statement body against its allowed keys.
func (d *statementDecoder) fields(node *yaml.Node, stmt string, allowed ...string) (map[string]*yaml.Node, error) {
	if node.Kind != yaml.MappingNode {
		return nil, d.errorf(node, "%s expects a mapping", stmt)
	}
	out := make(map[string]*yaml.Node, len(node.Content)/2)
	for idx := 0; idx+1 < len(node.Content); idx += 2 {
		key := strings.ToLower(node.Content[idx].Value)
		known := false
		for _, name := range allowed {
			if key == name {
				known = true
				break
			}
		}
		if !known {
			return nil, d.errorf(node.Content[idx], "unknown field %q in %s (expected %s)", node.Content[idx].Value, stmt, strings.Join(allowed, ", "))
		}
		if _, dup := out[key]; dup {
			return nil, d.errorf(node.Content[idx], "duplicate field %q in %s", key, stmt)
		}
		out[key] = node.Content[idx+1]
	}
	return out, nil
}

func (d *statementDecoder) text(node *yaml.Node, what string) (string, error) {
	if isNull(node) {
		return "", nil
	}
	if node.Kind != yaml.ScalarNode {
		return "", d.errorf(node, "%s expects a scalar", what)
	}
	return node.Value, nil
}

func (d *statementDecoder) expression(node *yaml.Node, what string) (ast.Sequence, error) {
	text, err := d.text(node, what)
	if err != nil || strings.TrimSpace(text) == "" {
		return nil, err
	}
	seq, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("driver: %s:%d: %s: %w", d.source, node.Line, what, err)
	}
	return seq, nil
}

func (d *statementDecoder) valueType(node *yaml.Node, fallback ast.ValueType) (ast.ValueType, error) {
	if isNull(node) {
		return fallback, nil
	}
	typ, err := ast.ParseValueType(node.Value)
	if err != nil {
		return ast.TypeUnknown, d.errorf(node, "%v", err)
	}
	return typ, nil
}

func (d *statementDecoder) declare(node *yaml.Node) (ast.Statement, error) {
	f, err := d.fields(node, "declare", "name", "type", "value")
	if err != nil {
		return nil, err
	}
	name, err := d.text(f["name"], "declare.name")
	if err != nil {
		return nil, err
	}
	typ, err := d.valueType(f["type"], ast.TypeUnknown)
	if err != nil {
		return nil, err
	}
	init, err := d.expression(f["value"], "declare.value")
	if err != nil {
		return nil, err
	}
	return &ast.Declare{Variable: ast.Sym(name, typ), Init: init}, nil
}

func (d *statementDecoder) let(node *yaml.Node) (ast.Statement, error) {
	f, err := d.fields(node, "let", "name", "value")
	if err != nil {
		return nil, err
	}
	name, err := d.text(f["name"], "let.name")
	if err != nil {
		return nil, err
	}
	value, err := d.expression(f["value"], "let.value")
	if err != nil {
		return nil, err
	}
	return &ast.Let{Name: name, Value: value}, nil
}

// loop keeps the bounds as text; they are parsed when the loop first runs.
func (d *statementDecoder) loop(node *yaml.Node) (ast.Statement, error) {
	f, err := d.fields(node, "for", "var", "type", "from", "to", "step", "do")
	if err != nil {
		return nil, err
	}
	stmt := &ast.For{}
	if stmt.Variable.Name, err = d.text(f["var"], "for.var"); err != nil {
		return nil, err
	}
	if stmt.Variable.Type, err = d.valueType(f["type"], ast.TypeNumeric); err != nil {
		return nil, err
	}
	if stmt.StartText, err = d.text(f["from"], "for.from"); err != nil {
		return nil, err
	}
	if stmt.EndText, err = d.text(f["to"], "for.to"); err != nil {
		return nil, err
	}
	if stmt.StepText, err = d.text(f["step"], "for.step"); err != nil {
		return nil, err
	}
	if stmt.Body, err = d.block(f["do"], "for.do"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (d *statementDecoder) conditional(node *yaml.Node) (ast.Statement, error) {
	f, err := d.fields(node, "if", "cond", "then", "else")
	if err != nil {
		return nil, err
	}
	stmt := &ast.If{}
	if stmt.Condition, err = d.expression(f["cond"], "if.cond"); err != nil {
		return nil, err
	}
	if stmt.Then, err = d.block(f["then"], "if.then"); err != nil {
		return nil, err
	}
	if stmt.Else, err = d.block(f["else"], "if.else"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (d *statementDecoder) while(node *yaml.Node) (ast.Statement, error) {
	f, err := d.fields(node, "while", "cond", "do")
	if err != nil {
		return nil, err
	}
	stmt := &ast.While{}
	if stmt.Condition, err = d.expression(f["cond"], "while.cond"); err != nil {
		return nil, err
	}
	if stmt.Body, err = d.block(f["do"], "while.do"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (d *statementDecoder) repeat(node *yaml.Node) (ast.Statement, error) {
	f, err := d.fields(node, "repeat", "do", "while")
	if err != nil {
		return nil, err
	}
	stmt := &ast.DoWhile{}
	if stmt.Body, err = d.block(f["do"], "repeat.do"); err != nil {
		return nil, err
	}
	if stmt.Condition, err = d.expression(f["while"], "repeat.while"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (d *statementDecoder) function(node *yaml.Node) (ast.Statement, error) {
	f, err := d.fields(node, "function", "name", "params", "body")
	if err != nil {
		return nil, err
	}
	stmt := &ast.FunctionDecl{}
	if stmt.Name, err = d.text(f["name"], "function.name"); err != nil {
		return nil, err
	}
	if params := f["params"]; !isNull(params) {
		if params.Kind != yaml.SequenceNode {
			return nil, d.errorf(params, "function.params must be a list")
		}
		for _, item := range params.Content {
			param, err := d.param(item)
			if err != nil {
				return nil, err
			}
			stmt.Params = append(stmt.Params, param)
		}
	}
	if stmt.Body, err = d.block(f["body"], "function.body"); err != nil {
		return nil, err
	}
	return stmt, nil
}

// param accepts either a bare name or a {name, type} mapping.
func (d *statementDecoder) param(node *yaml.Node) (ast.Symbol, error) {
	if node.Kind == yaml.ScalarNode {
		return ast.Sym(node.Value, ast.TypeUnknown), nil
	}
	f, err := d.fields(node, "param", "name", "type")
	if err != nil {
		return ast.Symbol{}, err
	}
	name, err := d.text(f["name"], "param.name")
	if err != nil {
		return ast.Symbol{}, err
	}
	typ, err := d.valueType(f["type"], ast.TypeUnknown)
	if err != nil {
		return ast.Symbol{}, err
	}
	return ast.Sym(name, typ), nil
}

func (d *statementDecoder) call(node *yaml.Node) (ast.Statement, error) {
	if node.Kind == yaml.ScalarNode {
		return &ast.CallFunction{Name: node.Value}, nil
	}
	f, err := d.fields(node, "call", "name", "args")
	if err != nil {
		return nil, err
	}
	stmt := &ast.CallFunction{}
	if stmt.Name, err = d.text(f["name"], "call.name"); err != nil {
		return nil, err
	}
	if args := f["args"]; !isNull(args) {
		if args.Kind != yaml.SequenceNode {
			return nil, d.errorf(args, "call.args must be a list")
		}
		for _, item := range args.Content {
			arg, err := d.expression(item, "call.args")
			if err != nil {
				return nil, err
			}
			stmt.Args = append(stmt.Args, arg)
		}
	}
	return stmt, nil
}
