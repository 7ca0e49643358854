package ast

// Inspect traverses the tree rooted at node in depth-first order. It calls
// fn(node) first; if fn returns true, Inspect visits each non-nil child.
func Inspect(node Node, fn func(Node) bool) {
	if isNil(node) || !fn(node) {
		return
	}
	for _, child := range Children(node) {
		Inspect(child, fn)
	}
}

// Children returns the direct, non-nil children of node in source order.
func Children(node Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, n := range nodes {
			if !isNil(n) {
				out = append(out, n)
			}
		}
	}
	addIdents := func(ids []*Identifier) {
		for _, id := range ids {
			add(id)
		}
	}

	switch n := node.(type) {
	case *Program:
		for _, s := range n.Statements {
			add(s)
		}
	case *LetStatement:
		add(n.Name, n.Value)
	case *ReturnStatement:
		add(n.Value)
	case *ExpressionStatement:
		add(n.Expression)
	case *BlockStatement:
		for _, s := range n.Statements {
			add(s)
		}
	case *IfStatement:
		add(n.Condition, n.Consequence)
		for _, elif := range n.Elifs {
			add(elif.Condition, elif.Consequence)
		}
		add(n.Alternative)
	case *WhileStatement:
		add(n.Condition, n.Body)
	case *ForStatement:
		add(n.Iterator, n.Iterable, n.Body)
	case *FunctionStatement:
		add(n.Name)
		addIdents(n.Parameters)
		add(n.Body)
	case *ClassStatement:
		add(n.Name, n.Parent)
		for _, m := range n.Methods {
			add(m)
		}
	case *MethodStatement:
		add(n.Name)
		addIdents(n.Parameters)
		add(n.Body)
	case *ImportStatement:
		add(n.Alias)
		for _, name := range n.Names {
			add(name.Name, name.Alias)
		}
	case *TryStatement:
		add(n.Body)
		for _, ex := range n.Excepts {
			add(ex.Type, ex.Name, ex.Body)
		}
		add(n.Finally)
	case *RaiseStatement:
		add(n.Value)
	case *PrefixExpression:
		add(n.Right)
	case *InfixExpression:
		add(n.Left, n.Right)
	case *AssignmentExpression:
		add(n.Target, n.Value)
	case *CallExpression:
		add(n.Function)
		for _, a := range n.Arguments {
			add(a)
		}
	case *IndexExpression:
		add(n.Left, n.Index)
	case *AttributeExpression:
		add(n.Object, n.Attribute)
	case *IfExpression:
		add(n.Condition, n.Consequence, n.Alternative)
	case *FunctionLiteral:
		addIdents(n.Parameters)
		add(n.Body)
	case *LambdaExpression:
		addIdents(n.Parameters)
		add(n.Body)
	case *ArrayLiteral:
		for _, e := range n.Elements {
			add(e)
		}
	case *DictLiteral:
		for _, p := range n.Pairs {
			add(p.Key, p.Value)
		}
	}
	return out
}

// isNil reports whether n is nil or an interface holding a nil pointer.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *BlockStatement:
		return v == nil
	case *Identifier:
		return v == nil
	}
	return false
}
