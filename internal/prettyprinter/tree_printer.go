package prettyprinter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/typestub/typestub/internal/ast"
	"github.com/typestub/typestub/internal/token"
)

// --- Tree Printer (Output shows AST structure with spans) ---

// TreePrinter renders the resolved tree one node per line, indented by
// depth, with each node's source span. It is the --dump=tree backend and
// the format the golden tests compare against.
type TreePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewTreePrinter() *TreePrinter {
	return &TreePrinter{}
}

func (p *TreePrinter) Print(node ast.Node) string {
	p.buf.Reset()
	p.indent = 0
	if node != nil {
		node.Accept(p)
	}
	return p.buf.String()
}

func (p *TreePrinter) line(format string, args ...interface{}) {
	p.buf.WriteString(strings.Repeat("  ", p.indent))
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func (p *TreePrinter) nested(fn func()) {
	p.indent++
	fn()
	p.indent--
}

func span(n ast.Node) string {
	return spanLoc(n.Span())
}

func spanLoc(loc token.Location) string {
	return fmt.Sprintf("[%d:%d-%d:%d]", loc.StartLine, loc.StartCol, loc.EndLine, loc.EndCol)
}

func (p *TreePrinter) VisitUnit(n *ast.Unit) {
	p.line("Unit %s", n.File)
	p.nested(func() {
		for _, d := range n.Decls {
			d.Accept(p)
		}
	})
}

func (p *TreePrinter) VisitClassDef(n *ast.ClassDef) {
	p.line("ClassDef %s %s", n.Name, span(n))
	p.nested(func() {
		for _, parent := range n.Parents {
			if parent.Keyword != "" {
				p.line("Parent %s=", parent.Keyword)
			} else {
				p.line("Parent")
			}
			p.nested(func() { parent.Type.Accept(p) })
		}
		for _, d := range n.Body {
			d.Accept(p)
		}
	})
}

func (p *TreePrinter) VisitFuncDef(n *ast.FuncDef) {
	p.line("FuncDef %s body=%s %s", n.Name, n.Body, span(n))
	p.nested(func() {
		for _, dec := range n.Decorators {
			p.line("Decorator @%s", dec)
		}
		for _, param := range n.Params {
			param.Accept(p)
		}
		p.line("Return")
		p.nested(func() { n.Return.Accept(p) })
		for _, r := range n.Raises {
			p.line("Raises")
			p.nested(func() { r.Accept(p) })
		}
		for _, m := range n.Mutations {
			p.line("Mutation %s %s", m.Name, spanLoc(m.Loc))
			p.nested(func() { m.Type.Accept(p) })
		}
	})
}

func (p *TreePrinter) VisitParam(n *ast.Param) {
	name := n.Name
	switch {
	case n.Ellipsis:
		name = "..."
	case n.Star == ast.StarSingle:
		name = "*" + name
	case n.Star == ast.StarDouble:
		name = "**" + name
	}
	suffix := ""
	if n.HasDefault {
		suffix = " default"
	}
	p.line("Param %s%s %s", name, suffix, span(n))
	if n.Type != nil {
		p.nested(func() { n.Type.Accept(p) })
	}
}

func (p *TreePrinter) VisitConstant(n *ast.Constant) {
	p.line("Constant %s %s", n.Name, span(n))
	p.nested(func() { n.Type.Accept(p) })
}

func (p *TreePrinter) VisitTypeAlias(n *ast.TypeAlias) {
	p.line("TypeAlias %s %s", n.Name, span(n))
	p.nested(func() { n.Type.Accept(p) })
}

func (p *TreePrinter) VisitImport(n *ast.Import) {
	if n.Alias != "" {
		p.line("Import %s as %s %s", n.Module, n.Alias, span(n))
		return
	}
	p.line("Import %s %s", n.Module, span(n))
}

func (p *TreePrinter) VisitFromImport(n *ast.FromImport) {
	var items []string
	for _, item := range n.Items {
		if item.Alias != "" {
			items = append(items, item.Name+" as "+item.Alias)
		} else {
			items = append(items, item.Name)
		}
	}
	p.line("FromImport %s [%s] %s", n.Module, strings.Join(items, ", "), span(n))
}

func (p *TreePrinter) VisitTypeVarDef(n *ast.TypeVarDef) {
	p.line("TypeVarDef %s %s", n.Name, span(n))
	p.nested(func() {
		for _, c := range n.Constraints {
			c.Accept(p)
		}
	})
}

func (p *TreePrinter) VisitConditionalBlock(n *ast.ConditionalBlock) {
	// Conditionals are resolved during the parse; a block only reaches a
	// printer when dumped before resolution.
	p.line("ConditionalBlock %s", span(n))
	p.nested(func() {
		for _, branch := range n.Branches {
			if branch.Cond != nil {
				p.line("Branch %s %s %v", branch.Cond.Left, branch.Cond.Op, branch.Cond.Right)
			} else {
				p.line("Branch else")
			}
			p.nested(func() {
				for _, d := range branch.Body {
					d.Accept(p)
				}
			})
		}
	})
}

func (p *TreePrinter) VisitNamedType(n *ast.NamedType) {
	p.line("NamedType %s %s", n.Name, span(n))
}

func (p *TreePrinter) VisitGenericType(n *ast.GenericType) {
	p.line("GenericType %s %s", n.Base.Name, span(n))
	p.nested(func() {
		for _, arg := range n.Args {
			arg.Accept(p)
		}
	})
}

func (p *TreePrinter) VisitUnionType(n *ast.UnionType) {
	p.line("UnionType %s", span(n))
	p.nested(func() {
		n.Left.Accept(p)
		n.Right.Accept(p)
	})
}

func (p *TreePrinter) VisitAnythingType(n *ast.AnythingType) {
	p.line("AnythingType %s", span(n))
}

func (p *TreePrinter) VisitNothingType(n *ast.NothingType) {
	p.line("NothingType %s", span(n))
}

func (p *TreePrinter) VisitEllipsisType(n *ast.EllipsisType) {
	p.line("EllipsisType %s", span(n))
}

func (p *TreePrinter) VisitNamedTupleType(n *ast.NamedTupleType) {
	p.line("NamedTupleType %s %s", n.Name, span(n))
	p.nested(func() {
		for _, f := range n.Fields {
			p.line("Field %s", f.Name)
			p.nested(func() { f.Type.Accept(p) })
		}
	})
}
