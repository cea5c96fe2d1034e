package prettyprinter

import (
	"bytes"
	"strings"

	"github.com/typestub/typestub/internal/ast"
)

// --- Code Printer (Output looks like stub source) ---

// CodePrinter renders a resolved Unit back into stub syntax. Conditionals
// never appear in a resolved tree, so the output is the flattened view of
// the file under the target version.
type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

func (p *CodePrinter) Print(unit *ast.Unit) string {
	p.buf.Reset()
	p.indent = 0
	for _, d := range unit.Decls {
		p.printDecl(d)
	}
	return p.buf.String()
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) printDecl(d ast.Declaration) {
	switch n := d.(type) {
	case *ast.Import:
		p.writeIndent()
		p.write("import " + n.Module)
		if n.Alias != "" {
			p.write(" as " + n.Alias)
		}
		p.write("\n")
	case *ast.FromImport:
		p.writeIndent()
		p.write("from " + n.Module + " import ")
		var items []string
		for _, item := range n.Items {
			if item.Alias != "" {
				items = append(items, item.Name+" as "+item.Alias)
			} else {
				items = append(items, item.Name)
			}
		}
		p.write(strings.Join(items, ", ") + "\n")
	case *ast.Constant:
		p.writeIndent()
		p.write(n.Name + ": " + p.typeString(n.Type) + "\n")
	case *ast.TypeAlias:
		p.writeIndent()
		p.write(n.Name + " = " + p.typeString(n.Type) + "\n")
	case *ast.TypeVarDef:
		p.writeIndent()
		p.write(n.Name + " = TypeVar('" + n.Name + "'")
		for _, c := range n.Constraints {
			p.write(", " + p.typeString(c))
		}
		p.write(")\n")
	case *ast.FuncDef:
		p.printFunc(n)
	case *ast.ClassDef:
		p.printClass(n)
	}
}

func (p *CodePrinter) printClass(n *ast.ClassDef) {
	p.writeIndent()
	p.write("class " + n.Name)
	if len(n.Parents) > 0 {
		var parents []string
		for _, parent := range n.Parents {
			s := p.typeString(parent.Type)
			if parent.Keyword != "" {
				s = parent.Keyword + "=" + s
			}
			parents = append(parents, s)
		}
		p.write("(" + strings.Join(parents, ", ") + ")")
	}
	if len(n.Body) == 0 {
		p.write(": ...\n")
		return
	}
	p.write(":\n")
	p.indent++
	for _, d := range n.Body {
		p.printDecl(d)
	}
	p.indent--
}

func (p *CodePrinter) printFunc(n *ast.FuncDef) {
	for _, dec := range n.Decorators {
		p.writeIndent()
		p.write("@" + dec + "\n")
	}
	p.writeIndent()
	if n.Body == ast.BodyExternal {
		p.write("def " + n.Name + " PYTHONCODE\n")
		return
	}
	var params []string
	for _, param := range n.Params {
		params = append(params, p.paramString(param))
	}
	p.write("def " + n.Name + "(" + strings.Join(params, ", ") + ") -> " + p.typeString(n.Return))
	for i, r := range n.Raises {
		if i == 0 {
			p.write(" raises " + p.typeString(r))
		} else {
			p.write(", " + p.typeString(r))
		}
	}
	if len(n.Mutations) == 0 {
		if n.Body == ast.BodyPass {
			p.write(": pass\n")
		} else {
			p.write(": ...\n")
		}
		return
	}
	p.write(":\n")
	p.indent++
	for _, m := range n.Mutations {
		p.writeIndent()
		p.write(m.Name + " := " + p.typeString(m.Type) + "\n")
	}
	p.indent--
}

func (p *CodePrinter) paramString(param *ast.Param) string {
	if param.Ellipsis {
		return "..."
	}
	s := param.Name
	switch param.Star {
	case ast.StarSingle:
		s = "*" + s
	case ast.StarDouble:
		s = "**" + s
	}
	if param.Type != nil {
		s += ": " + p.typeString(param.Type)
	}
	if param.HasDefault {
		s += " = ..."
	}
	return s
}

func (p *CodePrinter) typeString(t ast.TypeExpr) string {
	switch n := t.(type) {
	case *ast.NamedType:
		return n.Name
	case *ast.GenericType:
		var args []string
		for _, arg := range n.Args {
			args = append(args, p.typeString(arg))
		}
		return n.Base.Name + "[" + strings.Join(args, ", ") + "]"
	case *ast.UnionType:
		return p.typeString(n.Left) + " or " + p.typeString(n.Right)
	case *ast.AnythingType:
		return "?"
	case *ast.NothingType:
		return "nothing"
	case *ast.EllipsisType:
		return "..."
	case *ast.NamedTupleType:
		var fields []string
		for _, f := range n.Fields {
			fields = append(fields, "('"+f.Name+"', "+p.typeString(f.Type)+")")
		}
		return "NamedTuple('" + n.Name + "', [" + strings.Join(fields, ", ") + "])"
	default:
		return "?"
	}
}
