package ast

import (
	"github.com/typestub/typestub/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	Span() token.Location
	Accept(v Visitor)
}

// Declaration is a Node that can appear in a Unit or a class body.
type Declaration interface {
	Node
	declNode()
	// Name returns the declared name, or "" for imports.
	DeclName() string
}

// Unit is the root node produced by one successful parse: the ordered
// top-level declarations of a single stub file. Order is preserved from
// source; overloads of the same name stay adjacent and unmerged.
type Unit struct {
	File  string
	Decls []Declaration
}

func (u *Unit) Accept(v Visitor) { v.VisitUnit(u) }
func (u *Unit) Span() token.Location {
	if len(u.Decls) == 0 {
		return token.Location{StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 1}
	}
	return token.Span(u.Decls[0].Span(), u.Decls[len(u.Decls)-1].Span())
}

// Parent is one entry of a class's parent list. Keyword is empty for a
// plain parent type and holds the argument name for keyword parents such
// as metaclass=M.
type Parent struct {
	Keyword string
	Type    TypeExpr
}

// ClassDef is a class declaration. Its name is registered with the builder
// before the body is parsed so the body may reference the class itself.
// Bodies hold constants and functions only; nested conditionals are
// resolved away before the class node completes.
type ClassDef struct {
	Loc     token.Location
	Name    string
	Parents []Parent
	Body    []Declaration
}

func (c *ClassDef) Accept(v Visitor)     { v.VisitClassDef(c) }
func (c *ClassDef) declNode()            {}
func (c *ClassDef) DeclName() string     { return c.Name }
func (c *ClassDef) Span() token.Location { return c.Loc }

// BodyMarker tells what stands in for a function's body.
type BodyMarker int

const (
	BodyEllipsis BodyMarker = iota
	BodyPass
	BodyExternal
)

func (m BodyMarker) String() string {
	switch m {
	case BodyPass:
		return "pass"
	case BodyExternal:
		return "PYTHONCODE"
	default:
		return "..."
	}
}

// StarKind classifies a parameter's star marker.
type StarKind int

const (
	StarNone StarKind = iota
	StarSingle
	StarDouble
)

// Param is one function parameter. A lone `*` separator is retained as a
// Param with Star == StarSingle and an empty name. Ellipsis is the
// catch-all `...` parameter of legacy signatures.
type Param struct {
	Loc        token.Location
	Name       string
	Type       TypeExpr // nil when unannotated
	HasDefault bool
	Star       StarKind
	Ellipsis   bool
}

func (p *Param) Accept(v Visitor)     { v.VisitParam(p) }
func (p *Param) Span() token.Location { return p.Loc }

// Mutation records a `name := type` statement inside a function body: the
// parameter's type after the call returns.
type Mutation struct {
	Loc  token.Location
	Name string
	Type TypeExpr
}

// FuncDef is a function or method declaration. Same-named declarations in
// one scope are kept adjacent and ordered; merging into an overload set is
// the downstream builder's concern, not the parser's.
type FuncDef struct {
	Loc        token.Location
	Name       string
	Decorators []string
	Params     []*Param
	Return     TypeExpr // AnythingType when omitted
	Raises     []TypeExpr
	Body       BodyMarker
	Mutations  []*Mutation
}

func (f *FuncDef) Accept(v Visitor)     { v.VisitFuncDef(f) }
func (f *FuncDef) declNode()            {}
func (f *FuncDef) DeclName() string     { return f.Name }
func (f *FuncDef) Span() token.Location { return f.Loc }

// Constant is a named constant with a type. Repeated constants with the
// same name at the same scope are all kept, in source order.
type Constant struct {
	Loc  token.Location
	Name string
	Type TypeExpr
}

func (c *Constant) Accept(v Visitor)     { v.VisitConstant(c) }
func (c *Constant) declNode()            {}
func (c *Constant) DeclName() string     { return c.Name }
func (c *Constant) Span() token.Location { return c.Loc }

// TypeAlias is a module-level `Name = type` binding.
type TypeAlias struct {
	Loc  token.Location
	Name string
	Type TypeExpr
}

func (a *TypeAlias) Accept(v Visitor)     { v.VisitTypeAlias(a) }
func (a *TypeAlias) declNode()            {}
func (a *TypeAlias) DeclName() string     { return a.Name }
func (a *TypeAlias) Span() token.Location { return a.Loc }

// Import is a plain `import a.b [as c]`. A multi-item import statement
// produces one Import per item.
type Import struct {
	Loc    token.Location
	Module string
	Alias  string
}

func (i *Import) Accept(v Visitor)     { v.VisitImport(i) }
func (i *Import) declNode()            {}
func (i *Import) DeclName() string     { return "" }
func (i *Import) Span() token.Location { return i.Loc }

// ImportItem is one (name, optional alias) entry of a from-import.
type ImportItem struct {
	Name  string
	Alias string
}

// FromImport is `from a.b import (x, y as z)`.
type FromImport struct {
	Loc    token.Location
	Module string
	Items  []ImportItem
}

func (i *FromImport) Accept(v Visitor)     { v.VisitFromImport(i) }
func (i *FromImport) declNode()            {}
func (i *FromImport) DeclName() string     { return "" }
func (i *FromImport) Span() token.Location { return i.Loc }

// TypeVarDef is `T = TypeVar('T', constraint...)`.
type TypeVarDef struct {
	Loc         token.Location
	Name        string
	Constraints []TypeExpr
}

func (t *TypeVarDef) Accept(v Visitor)     { v.VisitTypeVarDef(t) }
func (t *TypeVarDef) declNode()            {}
func (t *TypeVarDef) DeclName() string     { return t.Name }
func (t *TypeVarDef) Span() token.Location { return t.Loc }

// Condition is one version guard: `left op right`.
type Condition struct {
	Loc   token.Location
	Left  string // dotted name, e.g. sys.version_info
	Op    string // one of < > <= >= == !=
	Right []int  // version tuple
}

// Branch is one arm of a conditional block. Cond is nil for the trailing
// else branch.
type Branch struct {
	Cond *Condition
	Body []Declaration
}

// ConditionalBlock is an if/elif/else chain. It exists only while a guard
// is being parsed: the resolver flattens the winning branch into the
// enclosing scope, so no ConditionalBlock survives in a finished Unit.
type ConditionalBlock struct {
	Loc      token.Location
	Branches []Branch
}

func (c *ConditionalBlock) Accept(v Visitor)     { v.VisitConditionalBlock(c) }
func (c *ConditionalBlock) declNode()            {}
func (c *ConditionalBlock) DeclName() string     { return "" }
func (c *ConditionalBlock) Span() token.Location { return c.Loc }
