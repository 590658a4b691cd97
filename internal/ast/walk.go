package ast

// Inspect traverses the tree rooted at node in depth-first preorder,
// calling f for each node. If f returns false the children of that node
// are skipped. Nil children are never visited.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	switch n := node.(type) {
	case *VariableDecl:
		inspectAnnotation(n.Type, f)
		inspectExpr(n.Init, f)
	case *FunctionDecl:
		for i := range n.Params {
			inspectAnnotation(n.Params[i].Type, f)
			inspectExpr(n.Params[i].Default, f)
		}
		inspectAnnotation(n.Return, f)
		InspectStatements(n.Body, f)
	case *TypeDecl:
		for i := range n.Fields {
			inspectAnnotation(n.Fields[i].Type, f)
		}
		inspectAnnotation(n.Underlying, f)
	case *EnumDecl:
		for i := range n.Members {
			inspectExpr(n.Members[i].Value, f)
		}

	case *BlockStmt:
		InspectStatements(n.Body, f)
	case *AssignStmt:
		inspectExpr(n.Target, f)
		inspectExpr(n.Value, f)
	case *ExprStmt:
		inspectExpr(n.Expr, f)
	case *IfStmt:
		inspectExpr(n.Cond, f)
		InspectStatements(n.Then, f)
		InspectStatements(n.Else, f)
	case *WhileStmt:
		inspectExpr(n.Cond, f)
		InspectStatements(n.Body, f)
	case *ForStmt:
		inspectStmt(n.Init, f)
		inspectExpr(n.Cond, f)
		inspectStmt(n.Update, f)
		InspectStatements(n.Body, f)
	case *ReturnStmt:
		inspectExpr(n.Value, f)

	case *UnaryExpr:
		inspectExpr(n.Operand, f)
	case *BinaryExpr:
		inspectExpr(n.Left, f)
		inspectExpr(n.Right, f)
	case *CallExpr:
		inspectExpr(n.Callee, f)
		for _, arg := range n.Args {
			inspectExpr(arg, f)
		}
	case *IndexExpr:
		inspectExpr(n.Base, f)
		inspectExpr(n.Index, f)
	case *ArrayLit:
		for _, el := range n.Elements {
			inspectExpr(el, f)
		}

	case *ArrayAnnotation:
		inspectAnnotation(n.Elem, f)
		inspectExpr(n.Size, f)
	case *CallbackAnnotation:
		for _, p := range n.Params {
			inspectAnnotation(p, f)
		}
		inspectAnnotation(n.Return, f)
	}
}

// InspectStatements runs Inspect over a statement list.
func InspectStatements(stmts []Statement, f func(Node) bool) {
	for _, s := range stmts {
		inspectStmt(s, f)
	}
}

func inspectStmt(s Statement, f func(Node) bool) {
	if s != nil {
		Inspect(s, f)
	}
}

func inspectExpr(e Expression, f func(Node) bool) {
	if e != nil {
		Inspect(e, f)
	}
}

func inspectAnnotation(t TypeAnnotation, f func(Node) bool) {
	if t != nil {
		Inspect(t, f)
	}
}
