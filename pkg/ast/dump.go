package ast

// Dump converts a node into a position-free tree of maps, slices and scalars.
// The result is suitable for JSON or YAML encoding, and two trees that differ
// only in token positions produce equal dumps.
func Dump(node Node) map[string]any {
	if isNil(node) {
		return nil
	}

	switch n := node.(type) {
	case *Program:
		return obj("Program", "statements", dumpStmts(n.Statements))

	case *LetStatement:
		return obj("Let", "name", n.Name.Value, "value", dumpOpt(n.Value))
	case *ReturnStatement:
		return obj("Return", "value", dumpOpt(n.Value))
	case *ExpressionStatement:
		return obj("Expression", "expression", dumpOpt(n.Expression))
	case *BlockStatement:
		return obj("Block", "statements", dumpStmts(n.Statements))
	case *IfStatement:
		elifs := make([]any, len(n.Elifs))
		for i, e := range n.Elifs {
			elifs[i] = map[string]any{
				"condition":   dumpOpt(e.Condition),
				"consequence": dumpOpt(e.Consequence),
			}
		}
		return obj("If",
			"condition", dumpOpt(n.Condition),
			"consequence", dumpOpt(n.Consequence),
			"elifs", elifs,
			"alternative", dumpOpt(n.Alternative),
		)
	case *WhileStatement:
		return obj("While", "condition", dumpOpt(n.Condition), "body", dumpOpt(n.Body))
	case *ForStatement:
		return obj("For",
			"iterator", n.Iterator.Value,
			"iterable", dumpOpt(n.Iterable),
			"body", dumpOpt(n.Body),
		)
	case *FunctionStatement:
		return obj("Function",
			"name", n.Name.Value,
			"parameters", identNames(n.Parameters),
			"body", dumpOpt(n.Body),
		)
	case *ClassStatement:
		methods := make([]any, len(n.Methods))
		for i, m := range n.Methods {
			methods[i] = Dump(m)
		}
		return obj("Class", "name", n.Name.Value, "parent", identName(n.Parent), "methods", methods)
	case *MethodStatement:
		return obj("Method",
			"name", n.Name.Value,
			"parameters", identNames(n.Parameters),
			"body", dumpOpt(n.Body),
		)
	case *ImportStatement:
		names := make([]any, len(n.Names))
		for i, name := range n.Names {
			names[i] = map[string]any{"name": name.Name.Value, "alias": identName(name.Alias)}
		}
		return obj("Import",
			"from", n.IsFrom(),
			"module", n.Module,
			"alias", identName(n.Alias),
			"names", names,
		)
	case *TryStatement:
		excepts := make([]any, len(n.Excepts))
		for i, ex := range n.Excepts {
			excepts[i] = map[string]any{
				"type": dumpOpt(ex.Type),
				"name": identName(ex.Name),
				"body": dumpOpt(ex.Body),
			}
		}
		return obj("Try", "body", dumpOpt(n.Body), "excepts", excepts, "finally", dumpOpt(n.Finally))
	case *PassStatement:
		return obj("Pass")
	case *BreakStatement:
		return obj("Break")
	case *ContinueStatement:
		return obj("Continue")
	case *RaiseStatement:
		return obj("Raise", "value", dumpOpt(n.Value))

	case *Identifier:
		return obj("Identifier", "value", n.Value)
	case *IntegerLiteral:
		return obj("Integer", "value", n.Value)
	case *FloatLiteral:
		return obj("Float", "value", n.Value)
	case *StringLiteral:
		return obj("String", "value", n.Value)
	case *Boolean:
		return obj("Boolean", "value", n.Value)
	case *NoneLiteral:
		return obj("None")
	case *PrefixExpression:
		return obj("Prefix", "operator", n.Operator, "right", dumpOpt(n.Right))
	case *InfixExpression:
		return obj("Infix", "left", dumpOpt(n.Left), "operator", n.Operator, "right", dumpOpt(n.Right))
	case *AssignmentExpression:
		return obj("Assignment", "target", dumpOpt(n.Target), "operator", n.Operator, "value", dumpOpt(n.Value))
	case *CallExpression:
		return obj("Call", "function", dumpOpt(n.Function), "arguments", dumpExprs(n.Arguments))
	case *IndexExpression:
		return obj("Index", "left", dumpOpt(n.Left), "index", dumpOpt(n.Index))
	case *AttributeExpression:
		return obj("Attribute", "object", dumpOpt(n.Object), "attribute", n.Attribute.Value)
	case *IfExpression:
		return obj("IfExpression",
			"condition", dumpOpt(n.Condition),
			"consequence", dumpOpt(n.Consequence),
			"alternative", dumpOpt(n.Alternative),
		)
	case *FunctionLiteral:
		return obj("FunctionLiteral", "parameters", identNames(n.Parameters), "body", dumpOpt(n.Body))
	case *LambdaExpression:
		return obj("Lambda", "parameters", identNames(n.Parameters), "body", dumpOpt(n.Body))
	case *ArrayLiteral:
		return obj("Array", "elements", dumpExprs(n.Elements))
	case *DictLiteral:
		pairs := make([]any, len(n.Pairs))
		for i, p := range n.Pairs {
			pairs[i] = map[string]any{"key": dumpOpt(p.Key), "value": dumpOpt(p.Value)}
		}
		return obj("Dict", "pairs", pairs)
	}
	return obj("Unknown")
}

// obj builds a map from a node kind and alternating key/value arguments.
func obj(kind string, kv ...any) map[string]any {
	m := map[string]any{"node": kind}
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1]
	}
	return m
}

// dumpOpt returns nil for absent children so they encode as null.
func dumpOpt(n Node) any {
	if isNil(n) {
		return nil
	}
	return Dump(n)
}

func dumpStmts(stmts []Statement) []any {
	out := make([]any, len(stmts))
	for i, s := range stmts {
		out[i] = Dump(s)
	}
	return out
}

func dumpExprs(exprs []Expression) []any {
	out := make([]any, len(exprs))
	for i, e := range exprs {
		out[i] = dumpOpt(e)
	}
	return out
}

func identNames(ids []*Identifier) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id.Value
	}
	return out
}

func identName(id *Identifier) any {
	if id == nil {
		return nil
	}
	return id.Value
}
