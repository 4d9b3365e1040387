package ast

import "strings"

// Display renders n back to its canonical surface syntax. Round-tripping a
// parsed type expression through Display and back through the parser's
// type-expression rule must reproduce an equivalent TypeExprNode.
func (n TypeExprNode) Display() string {
	var sb strings.Builder
	n.display(&sb)
	return sb.String()
}

func (n TypeExprNode) display(sb *strings.Builder) {
	switch n.TypeExprKind {
	case TypeExprNamed:
		sb.WriteString(strings.Join(n.Name, "."))
		if len(n.Generics) > 0 {
			sb.WriteByte('<')
			for i, g := range n.Generics {
				if i > 0 {
					sb.WriteString(", ")
				}
				g.display(sb)
			}
			sb.WriteByte('>')
		}
		if n.ItemOptional {
			sb.WriteByte('?')
		}
	case TypeExprArray:
		n.Elem.display(sb)
		sb.WriteString("[]")
	case TypeExprDictionary:
		sb.WriteByte('{')
		n.Elem.display(sb)
		sb.WriteByte('}')
	case TypeExprOptional:
		n.Elem.display(sb)
		sb.WriteByte('?')
	case TypeExprTuple:
		sb.WriteByte('(')
		for i, m := range n.Members {
			if i > 0 {
				sb.WriteString(", ")
			}
			m.display(sb)
		}
		sb.WriteByte(')')
	case TypeExprUnion:
		for i, m := range n.Members {
			if i > 0 {
				sb.WriteString(" | ")
			}
			m.display(sb)
		}
	case TypeExprPipeline:
		n.In.display(sb)
		sb.WriteString(" -> ")
		n.Out.display(sb)
	case TypeExprSubscript:
		n.Container.display(sb)
		sb.WriteByte('[')
		sb.WriteByte('.')
		sb.WriteString(n.Field)
		sb.WriteByte(']')
	case TypeExprShape:
		sb.WriteString("{ ")
		first := true
		for name, f := range n.ShapeFields {
			if !first {
				sb.WriteString(", ")
			}
			first = false
			sb.WriteString(name)
			sb.WriteString(": ")
			f.display(sb)
		}
		sb.WriteString(" }")
	case TypeExprEnumLiteral:
		for i, m := range n.Members {
			if i > 0 {
				sb.WriteString(" | ")
			}
			sb.WriteByte('.')
			sb.WriteString(strings.Join(m.Name, "."))
		}
	case TypeExprKeyword:
		sb.WriteString(n.Keyword)
	}
}
