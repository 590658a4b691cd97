package ast

import (
	"encoding/json"
	"fmt"

	"blend65/internal/source"
)

// DecodeUnit parses the kind-tagged JSON wire format for one compilation
// unit. Every span in data is stamped with file. Malformed input returns
// an error; the decoder never panics on bad trees.
func DecodeUnit(data []byte, path string, file source.FileID) (*CompilationUnit, error) {
	var w wireUnit
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	d := &unitDecoder{path: path, file: file}
	unit := &CompilationUnit{Path: path, File: file}
	if w.Module != nil {
		unit.Module = &ModuleDecl{Name: w.Module.Name, Span: d.span(w.Module.Span)}
		if unit.Module.Name == "" {
			return nil, d.errorf("module header has no name")
		}
	}
	for _, imp := range w.Imports {
		if imp.Module == "" || imp.Symbol == "" {
			return nil, d.errorf("import needs both module and symbol")
		}
		unit.Imports = append(unit.Imports, &ImportDecl{
			Module: imp.Module,
			Symbol: imp.Symbol,
			Alias:  imp.Alias,
			Span:   d.span(imp.Span),
		})
	}
	for _, exp := range w.Exports {
		if exp.Name == "" {
			return nil, d.errorf("export needs a name")
		}
		unit.Exports = append(unit.Exports, &ExportDecl{Name: exp.Name, Span: d.span(exp.Span)})
	}
	for i, raw := range w.Decls {
		decl, err := d.decl(raw)
		if err != nil {
			return nil, fmt.Errorf("decl %d: %w", i, err)
		}
		unit.Decls = append(unit.Decls, decl)
	}
	return unit, nil
}

type wireUnit struct {
	Module  *wireModule       `json:"module"`
	Imports []wireImport      `json:"imports"`
	Exports []wireExport      `json:"exports"`
	Decls   []json.RawMessage `json:"decls"`
}

type wireModule struct {
	Name string     `json:"name"`
	Span *[2]uint32 `json:"span"`
}

type wireImport struct {
	Module string     `json:"module"`
	Symbol string     `json:"symbol"`
	Alias  string     `json:"alias"`
	Span   *[2]uint32 `json:"span"`
}

type wireExport struct {
	Name string     `json:"name"`
	Span *[2]uint32 `json:"span"`
}

type unitDecoder struct {
	path string
	file source.FileID
}

func (d *unitDecoder) errorf(format string, args ...any) error {
	return fmt.Errorf("decode %s: %s", d.path, fmt.Sprintf(format, args...))
}

func (d *unitDecoder) span(raw *[2]uint32) source.Span {
	if raw == nil {
		return source.Span{File: d.file}
	}
	return source.Span{File: d.file, Start: raw[0], End: raw[1]}
}

func kindOf(raw json.RawMessage) (string, error) {
	var probe struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return "", err
	}
	return probe.Kind, nil
}

func (d *unitDecoder) decl(raw json.RawMessage) (Declaration, error) {
	kind, err := kindOf(raw)
	if err != nil {
		return nil, d.errorf("%v", err)
	}
	switch kind {
	case "var":
		return d.varDecl(raw)
	case "func":
		return d.funcDecl(raw)
	case "type":
		return d.typeDecl(raw)
	case "enum":
		return d.enumDecl(raw)
	default:
		return nil, d.errorf("unknown declaration kind %q", kind)
	}
}

func (d *unitDecoder) varDecl(raw json.RawMessage) (*VariableDecl, error) {
	var w struct {
		Name    string          `json:"name"`
		Storage string          `json:"storage"`
		Type    json.RawMessage `json:"type"`
		Init    json.RawMessage `json:"init"`
		Span    *[2]uint32      `json:"span"`
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, d.errorf("%v", err)
	}
	if w.Name == "" {
		return nil, d.errorf("variable declaration needs a name")
	}
	if len(w.Type) == 0 {
		return nil, d.errorf("variable %q needs a type annotation", w.Name)
	}
	typ, err := d.annotation(w.Type)
	if err != nil {
		return nil, err
	}
	decl := &VariableDecl{Name: w.Name, Storage: w.Storage, Type: typ, Span: d.span(w.Span)}
	if len(w.Init) > 0 {
		init, err := d.expr(w.Init)
		if err != nil {
			return nil, err
		}
		decl.Init = init
	}
	return decl, nil
}

func (d *unitDecoder) funcDecl(raw json.RawMessage) (*FunctionDecl, error) {
	var w struct {
		Name     string `json:"name"`
		Callback bool   `json:"callback"`
		Params   []struct {
			Name     string          `json:"name"`
			Type     json.RawMessage `json:"type"`
			Optional bool            `json:"optional"`
			Default  json.RawMessage `json:"default"`
			Span     *[2]uint32      `json:"span"`
		} `json:"params"`
		Return json.RawMessage   `json:"return"`
		Body   []json.RawMessage `json:"body"`
		Span   *[2]uint32        `json:"span"`
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, d.errorf("%v", err)
	}
	if w.Name == "" {
		return nil, d.errorf("function declaration needs a name")
	}
	decl := &FunctionDecl{Name: w.Name, Callback: w.Callback, Span: d.span(w.Span)}
	for _, p := range w.Params {
		if p.Name == "" || len(p.Type) == 0 {
			return nil, d.errorf("function %q: parameter needs name and type", w.Name)
		}
		typ, err := d.annotation(p.Type)
		if err != nil {
			return nil, err
		}
		param := Param{Name: p.Name, Type: typ, Optional: p.Optional, Span: d.span(p.Span)}
		if len(p.Default) > 0 {
			def, err := d.expr(p.Default)
			if err != nil {
				return nil, err
			}
			param.Default = def
		}
		decl.Params = append(decl.Params, param)
	}
	if len(w.Return) > 0 {
		ret, err := d.annotation(w.Return)
		if err != nil {
			return nil, err
		}
		decl.Return = ret
	}
	if w.Body != nil {
		decl.HasBody = true
		decl.Body = make([]Statement, 0, len(w.Body))
		for _, rawStmt := range w.Body {
			s, err := d.stmt(rawStmt)
			if err != nil {
				return nil, err
			}
			decl.Body = append(decl.Body, s)
		}
	}
	return decl, nil
}

func (d *unitDecoder) typeDecl(raw json.RawMessage) (*TypeDecl, error) {
	var w struct {
		Name    string   `json:"name"`
		Extends []string `json:"extends"`
		Fields  []struct {
			Name string          `json:"name"`
			Type json.RawMessage `json:"type"`
			Span *[2]uint32      `json:"span"`
		} `json:"fields"`
		Underlying json.RawMessage `json:"underlying"`
		Span       *[2]uint32      `json:"span"`
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, d.errorf("%v", err)
	}
	if w.Name == "" {
		return nil, d.errorf("type declaration needs a name")
	}
	if len(w.Underlying) == 0 && len(w.Fields) == 0 {
		return nil, d.errorf("type %q needs an underlying type or fields", w.Name)
	}
	decl := &TypeDecl{Name: w.Name, Extends: w.Extends, Span: d.span(w.Span)}
	if len(w.Underlying) > 0 {
		under, err := d.annotation(w.Underlying)
		if err != nil {
			return nil, err
		}
		decl.Underlying = under
	}
	for _, f := range w.Fields {
		if f.Name == "" || len(f.Type) == 0 {
			return nil, d.errorf("type %q: field needs name and type", w.Name)
		}
		ft, err := d.annotation(f.Type)
		if err != nil {
			return nil, err
		}
		decl.Fields = append(decl.Fields, Field{Name: f.Name, Type: ft, Span: d.span(f.Span)})
	}
	return decl, nil
}

func (d *unitDecoder) enumDecl(raw json.RawMessage) (*EnumDecl, error) {
	var w struct {
		Name    string `json:"name"`
		Members []struct {
			Name  string          `json:"name"`
			Value json.RawMessage `json:"value"`
			Span  *[2]uint32      `json:"span"`
		} `json:"members"`
		Span *[2]uint32 `json:"span"`
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, d.errorf("%v", err)
	}
	if w.Name == "" {
		return nil, d.errorf("enum declaration needs a name")
	}
	decl := &EnumDecl{Name: w.Name, Span: d.span(w.Span)}
	for _, m := range w.Members {
		if m.Name == "" {
			return nil, d.errorf("enum %q: member needs a name", w.Name)
		}
		member := EnumMember{Name: m.Name, Span: d.span(m.Span)}
		if len(m.Value) > 0 {
			v, err := d.expr(m.Value)
			if err != nil {
				return nil, err
			}
			member.Value = v
		}
		decl.Members = append(decl.Members, member)
	}
	return decl, nil
}

func (d *unitDecoder) stmtList(raw []json.RawMessage) ([]Statement, error) {
	if raw == nil {
		return nil, nil
	}
	out := make([]Statement, 0, len(raw))
	for _, r := range raw {
		s, err := d.stmt(r)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (d *unitDecoder) stmt(raw json.RawMessage) (Statement, error) {
	kind, err := kindOf(raw)
	if err != nil {
		return nil, d.errorf("%v", err)
	}
	switch kind {
	case "var":
		return d.varDecl(raw)
	case "block":
		var w struct {
			Body []json.RawMessage `json:"body"`
			Span *[2]uint32        `json:"span"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, d.errorf("%v", err)
		}
		body, err := d.stmtList(w.Body)
		if err != nil {
			return nil, err
		}
		return &BlockStmt{Body: body, Span: d.span(w.Span)}, nil
	case "assign":
		var w struct {
			Target json.RawMessage `json:"target"`
			Value  json.RawMessage `json:"value"`
			Span   *[2]uint32      `json:"span"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, d.errorf("%v", err)
		}
		target, err := d.expr(w.Target)
		if err != nil {
			return nil, err
		}
		value, err := d.expr(w.Value)
		if err != nil {
			return nil, err
		}
		return &AssignStmt{Target: target, Value: value, Span: d.span(w.Span)}, nil
	case "expr":
		var w struct {
			Expr json.RawMessage `json:"expr"`
			Span *[2]uint32      `json:"span"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, d.errorf("%v", err)
		}
		e, err := d.expr(w.Expr)
		if err != nil {
			return nil, err
		}
		return &ExprStmt{Expr: e, Span: d.span(w.Span)}, nil
	case "if":
		var w struct {
			Cond json.RawMessage   `json:"cond"`
			Then []json.RawMessage `json:"then"`
			Else []json.RawMessage `json:"else"`
			Span *[2]uint32        `json:"span"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, d.errorf("%v", err)
		}
		cond, err := d.expr(w.Cond)
		if err != nil {
			return nil, err
		}
		then, err := d.stmtList(w.Then)
		if err != nil {
			return nil, err
		}
		els, err := d.stmtList(w.Else)
		if err != nil {
			return nil, err
		}
		return &IfStmt{Cond: cond, Then: then, Else: els, Span: d.span(w.Span)}, nil
	case "while":
		var w struct {
			Cond json.RawMessage   `json:"cond"`
			Body []json.RawMessage `json:"body"`
			Span *[2]uint32        `json:"span"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, d.errorf("%v", err)
		}
		cond, err := d.expr(w.Cond)
		if err != nil {
			return nil, err
		}
		body, err := d.stmtList(w.Body)
		if err != nil {
			return nil, err
		}
		return &WhileStmt{Cond: cond, Body: body, Span: d.span(w.Span)}, nil
	case "for":
		var w struct {
			Init   json.RawMessage   `json:"init"`
			Cond   json.RawMessage   `json:"cond"`
			Update json.RawMessage   `json:"update"`
			Body   []json.RawMessage `json:"body"`
			Span   *[2]uint32        `json:"span"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, d.errorf("%v", err)
		}
		st := &ForStmt{Span: d.span(w.Span)}
		if len(w.Init) > 0 {
			if st.Init, err = d.stmt(w.Init); err != nil {
				return nil, err
			}
		}
		if len(w.Cond) > 0 {
			if st.Cond, err = d.expr(w.Cond); err != nil {
				return nil, err
			}
		}
		if len(w.Update) > 0 {
			if st.Update, err = d.stmt(w.Update); err != nil {
				return nil, err
			}
		}
		if st.Body, err = d.stmtList(w.Body); err != nil {
			return nil, err
		}
		return st, nil
	case "return":
		var w struct {
			Value json.RawMessage `json:"value"`
			Span  *[2]uint32      `json:"span"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, d.errorf("%v", err)
		}
		st := &ReturnStmt{Span: d.span(w.Span)}
		if len(w.Value) > 0 {
			if st.Value, err = d.expr(w.Value); err != nil {
				return nil, err
			}
		}
		return st, nil
	default:
		return nil, d.errorf("unknown statement kind %q", kind)
	}
}

func (d *unitDecoder) expr(raw json.RawMessage) (Expression, error) {
	if len(raw) == 0 {
		return nil, d.errorf("missing expression")
	}
	kind, err := kindOf(raw)
	if err != nil {
		return nil, d.errorf("%v", err)
	}
	switch kind {
	case "number":
		var w struct {
			Value json.Number `json:"value"`
			Span  *[2]uint32  `json:"span"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, d.errorf("%v", err)
		}
		v, err := w.Value.Int64()
		if err != nil {
			return nil, d.errorf("number literal %q is not an integer", w.Value.String())
		}
		return &NumberLit{Value: v, Span: d.span(w.Span)}, nil
	case "boolean":
		var w struct {
			Value bool       `json:"value"`
			Span  *[2]uint32 `json:"span"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, d.errorf("%v", err)
		}
		return &BooleanLit{Value: w.Value, Span: d.span(w.Span)}, nil
	case "identifier":
		var w struct {
			Name string     `json:"name"`
			Span *[2]uint32 `json:"span"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, d.errorf("%v", err)
		}
		if w.Name == "" {
			return nil, d.errorf("identifier needs a name")
		}
		return &Identifier{Name: w.Name, Span: d.span(w.Span)}, nil
	case "qualified":
		var w struct {
			Parts []string   `json:"parts"`
			Span  *[2]uint32 `json:"span"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, d.errorf("%v", err)
		}
		if len(w.Parts) < 2 {
			return nil, d.errorf("qualified name needs at least two parts")
		}
		return &QualifiedName{Parts: w.Parts, Span: d.span(w.Span)}, nil
	case "unary":
		var w struct {
			Op      string          `json:"op"`
			Operand json.RawMessage `json:"operand"`
			Span    *[2]uint32      `json:"span"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, d.errorf("%v", err)
		}
		op, ok := ParseUnaryOp(w.Op)
		if !ok {
			return nil, d.errorf("unknown unary operator %q", w.Op)
		}
		operand, err := d.expr(w.Operand)
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op, Operand: operand, Span: d.span(w.Span)}, nil
	case "binary":
		var w struct {
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
			Span  *[2]uint32      `json:"span"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, d.errorf("%v", err)
		}
		op, ok := ParseBinaryOp(w.Op)
		if !ok {
			return nil, d.errorf("unknown binary operator %q", w.Op)
		}
		left, err := d.expr(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := d.expr(w.Right)
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Op: op, Left: left, Right: right, Span: d.span(w.Span)}, nil
	case "call":
		var w struct {
			Callee json.RawMessage   `json:"callee"`
			Args   []json.RawMessage `json:"args"`
			Span   *[2]uint32        `json:"span"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, d.errorf("%v", err)
		}
		callee, err := d.expr(w.Callee)
		if err != nil {
			return nil, err
		}
		call := &CallExpr{Callee: callee, Span: d.span(w.Span)}
		for _, rawArg := range w.Args {
			arg, err := d.expr(rawArg)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
		}
		return call, nil
	case "index":
		var w struct {
			Base  json.RawMessage `json:"base"`
			Index json.RawMessage `json:"index"`
			Span  *[2]uint32      `json:"span"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, d.errorf("%v", err)
		}
		base, err := d.expr(w.Base)
		if err != nil {
			return nil, err
		}
		index, err := d.expr(w.Index)
		if err != nil {
			return nil, err
		}
		return &IndexExpr{Base: base, Index: index, Span: d.span(w.Span)}, nil
	case "array":
		var w struct {
			Elements []json.RawMessage `json:"elements"`
			Span     *[2]uint32        `json:"span"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, d.errorf("%v", err)
		}
		lit := &ArrayLit{Span: d.span(w.Span)}
		for _, rawEl := range w.Elements {
			el, err := d.expr(rawEl)
			if err != nil {
				return nil, err
			}
			lit.Elements = append(lit.Elements, el)
		}
		return lit, nil
	default:
		return nil, d.errorf("unknown expression kind %q", kind)
	}
}

func (d *unitDecoder) annotation(raw json.RawMessage) (TypeAnnotation, error) {
	kind, err := kindOf(raw)
	if err != nil {
		return nil, d.errorf("%v", err)
	}
	switch kind {
	case "primitive":
		var w struct {
			Name string     `json:"name"`
			Span *[2]uint32 `json:"span"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, d.errorf("%v", err)
		}
		switch w.Name {
		case "byte", "word", "boolean", "void", "callback":
		default:
			return nil, d.errorf("unknown primitive type %q", w.Name)
		}
		return &PrimitiveAnnotation{Name: w.Name, Span: d.span(w.Span)}, nil
	case "array":
		var w struct {
			Element json.RawMessage `json:"element"`
			Size    json.RawMessage `json:"size"`
			Span    *[2]uint32      `json:"span"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, d.errorf("%v", err)
		}
		elem, err := d.annotation(w.Element)
		if err != nil {
			return nil, err
		}
		size, err := d.expr(w.Size)
		if err != nil {
			return nil, err
		}
		return &ArrayAnnotation{Elem: elem, Size: size, Span: d.span(w.Span)}, nil
	case "named":
		var w struct {
			Name string     `json:"name"`
			Span *[2]uint32 `json:"span"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, d.errorf("%v", err)
		}
		if w.Name == "" {
			return nil, d.errorf("named type needs a name")
		}
		return &NamedAnnotation{Name: w.Name, Span: d.span(w.Span)}, nil
	case "callback":
		var w struct {
			Params []json.RawMessage `json:"params"`
			Return json.RawMessage   `json:"return"`
			Span   *[2]uint32        `json:"span"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, d.errorf("%v", err)
		}
		ann := &CallbackAnnotation{Span: d.span(w.Span)}
		for _, rawP := range w.Params {
			p, err := d.annotation(rawP)
			if err != nil {
				return nil, err
			}
			ann.Params = append(ann.Params, p)
		}
		if len(w.Return) > 0 {
			ret, err := d.annotation(w.Return)
			if err != nil {
				return nil, err
			}
			ann.Return = ret
		}
		return ann, nil
	default:
		return nil, d.errorf("unknown type annotation kind %q", kind)
	}
}
