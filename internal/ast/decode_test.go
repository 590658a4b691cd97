package ast

import (
	"strings"
	"testing"
)

const sampleUnit = `{
	"module": {"name": "Game.Main", "span": [0, 16]},
	"imports": [
		{"module": "Game.Utils", "symbol": "getRandom", "alias": "rnd", "span": [17, 52]}
	],
	"exports": [{"name": "main", "span": [53, 65]}],
	"decls": [
		{
			"kind": "var", "name": "score", "storage": "zp",
			"type": {"kind": "primitive", "name": "byte"},
			"init": {"kind": "number", "value": 0},
			"span": [66, 88]
		},
		{
			"kind": "enum", "name": "Color",
			"members": [
				{"name": "red"},
				{"name": "green", "value": {"kind": "number", "value": 5}}
			]
		},
		{
			"kind": "func", "name": "main",
			"params": [],
			"return": {"kind": "primitive", "name": "void"},
			"body": [
				{"kind": "assign",
				 "target": {"kind": "identifier", "name": "score"},
				 "value": {"kind": "binary", "op": "+",
					"left": {"kind": "identifier", "name": "score"},
					"right": {"kind": "number", "value": 1}}},
				{"kind": "expr",
				 "expr": {"kind": "call",
					"callee": {"kind": "qualified", "parts": ["Game", "Utils", "tick"]},
					"args": []}}
			]
		},
		{
			"kind": "func", "name": "onIrq", "callback": true,
			"params": [{"name": "mask", "type": {"kind": "primitive", "name": "byte"}}],
			"return": {"kind": "primitive", "name": "void"}
		}
	]
}`

func TestDecodeUnit(t *testing.T) {
	unit, err := DecodeUnit([]byte(sampleUnit), "game/main.b65", 3)
	if err != nil {
		t.Fatalf("DecodeUnit: %v", err)
	}
	if unit.Module == nil || unit.Module.Name != "Game.Main" {
		t.Fatalf("module = %+v, want Game.Main", unit.Module)
	}
	if unit.Module.Span.File != 3 || unit.Module.Span.End != 16 {
		t.Fatalf("module span = %+v, want file 3 end 16", unit.Module.Span)
	}
	if len(unit.Imports) != 1 {
		t.Fatalf("imports = %d, want 1", len(unit.Imports))
	}
	if got := unit.Imports[0].LocalName(); got != "rnd" {
		t.Fatalf("import local name = %q, want rnd", got)
	}
	if len(unit.Exports) != 1 || unit.Exports[0].Name != "main" {
		t.Fatalf("exports = %+v", unit.Exports)
	}
	if len(unit.Decls) != 4 {
		t.Fatalf("decls = %d, want 4", len(unit.Decls))
	}

	v, ok := unit.Decls[0].(*VariableDecl)
	if !ok {
		t.Fatalf("decls[0] is %T, want *VariableDecl", unit.Decls[0])
	}
	if v.Storage != "zp" {
		t.Fatalf("storage = %q, want zp", v.Storage)
	}
	if _, ok := v.Init.(*NumberLit); !ok {
		t.Fatalf("init is %T, want *NumberLit", v.Init)
	}

	e, ok := unit.Decls[1].(*EnumDecl)
	if !ok || len(e.Members) != 2 {
		t.Fatalf("decls[1] = %T %+v", unit.Decls[1], unit.Decls[1])
	}
	if e.Members[0].Value != nil {
		t.Fatalf("auto-increment member should have nil value")
	}

	fn, ok := unit.Decls[2].(*FunctionDecl)
	if !ok {
		t.Fatalf("decls[2] is %T, want *FunctionDecl", unit.Decls[2])
	}
	if !fn.HasBody || len(fn.Body) != 2 {
		t.Fatalf("main body: HasBody=%v len=%d", fn.HasBody, len(fn.Body))
	}
	assign, ok := fn.Body[0].(*AssignStmt)
	if !ok {
		t.Fatalf("body[0] is %T, want *AssignStmt", fn.Body[0])
	}
	bin, ok := assign.Value.(*BinaryExpr)
	if !ok {
		t.Fatalf("assign value = %T, want *BinaryExpr", assign.Value)
	}
	if bin.Op != OpAdd {
		t.Fatalf("assign op = %v, want +", bin.Op)
	}
	es, ok := fn.Body[1].(*ExprStmt)
	if !ok {
		t.Fatalf("body[1] is %T, want *ExprStmt", fn.Body[1])
	}
	call := es.Expr.(*CallExpr)
	q, ok := call.Callee.(*QualifiedName)
	if !ok || q.String() != "Game.Utils.tick" {
		t.Fatalf("callee = %T %v", call.Callee, call.Callee)
	}

	stub, ok := unit.Decls[3].(*FunctionDecl)
	if !ok {
		t.Fatalf("decls[3] is %T, want *FunctionDecl", unit.Decls[3])
	}
	if stub.HasBody || stub.Body != nil {
		t.Fatalf("stub must have no body, got HasBody=%v", stub.HasBody)
	}
	if !stub.Callback {
		t.Fatalf("onIrq should be callback-tagged")
	}
}

func TestDecodeUnitErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"unknown decl kind",
			`{"decls": [{"kind": "struct", "name": "S"}]}`,
			"unknown declaration kind",
		},
		{
			"unknown expression kind",
			`{"decls": [{"kind": "var", "name": "x",
				"type": {"kind": "primitive", "name": "byte"},
				"init": {"kind": "lambda"}}]}`,
			"unknown expression kind",
		},
		{
			"short qualified name",
			`{"decls": [{"kind": "var", "name": "x",
				"type": {"kind": "primitive", "name": "byte"},
				"init": {"kind": "qualified", "parts": ["only"]}}]}`,
			"at least two parts",
		},
		{
			"fractional number",
			`{"decls": [{"kind": "var", "name": "x",
				"type": {"kind": "primitive", "name": "byte"},
				"init": {"kind": "number", "value": 1.5}}]}`,
			"not an integer",
		},
		{
			"bad primitive",
			`{"decls": [{"kind": "var", "name": "x",
				"type": {"kind": "primitive", "name": "float"}}]}`,
			"unknown primitive type",
		},
		{
			"missing variable type",
			`{"decls": [{"kind": "var", "name": "x"}]}`,
			"needs a type annotation",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeUnit([]byte(tt.in), "bad.b65", 1)
			if err == nil {
				t.Fatalf("DecodeUnit accepted malformed input")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestInspectCountsNodes(t *testing.T) {
	unit, err := DecodeUnit([]byte(sampleUnit), "game/main.b65", 1)
	if err != nil {
		t.Fatalf("DecodeUnit: %v", err)
	}
	fn := unit.Decls[2].(*FunctionDecl)
	count := 0
	Inspect(fn, func(Node) bool {
		count++
		return true
	})
	// fn + return annotation + assign(target, binary(left, right)) +
	// exprstmt(call(qualified)).
	if count != 10 {
		t.Fatalf("Inspect visited %d nodes, want 10", count)
	}
}
