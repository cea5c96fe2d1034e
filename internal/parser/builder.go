package parser

import (
	"strings"

	"github.com/typestub/typestub/internal/ast"
	"github.com/typestub/typestub/internal/diagnostics"
	"github.com/typestub/typestub/internal/token"
	"github.com/typestub/typestub/internal/version"
)

// versionGuardName is the only dotted name a version guard can test.
const versionGuardName = "sys.version_info"

// condFrame tracks, per branch of one open conditional, the class names
// the branch added on top of the table as it stood at IfBegin. Names that
// were already registered before the conditional opened are not part of
// any branch delta and survive the discard of every branch.
type condFrame struct {
	preexisting map[string]bool
	sealed      [][]string
	current     []string
}

// Builder owns the growing Unit and all per-parse mutable state: the
// forward class-name registration table and the open conditional stack.
// It is constructed fresh per parse and dropped on completion; distinct
// files share nothing. Construction failures return the same located
// error type as grammar failures.
type Builder struct {
	unit       *ast.Unit
	target     version.Version
	classNames map[string]bool
	condStack  []*condFrame
}

func NewBuilder(target version.Version) *Builder {
	return &Builder{
		unit:       &ast.Unit{},
		target:     target,
		classNames: make(map[string]bool),
	}
}

// Append adds finished declarations to the Unit, in order.
func (b *Builder) Append(decls ...ast.Declaration) {
	b.unit.Decls = append(b.unit.Decls, decls...)
}

// TakeUnit transfers ownership of the finished Unit to the caller.
func (b *Builder) TakeUnit() *ast.Unit {
	u := b.unit
	b.unit = nil
	return u
}

// RegisterClassName records a class name before its body is parsed, so
// the body may reference the class itself. Registrations made inside a
// conditional branch are provisional until IfEnd picks a winner.
func (b *Builder) RegisterClassName(name string) {
	b.classNames[name] = true
	if len(b.condStack) > 0 {
		top := b.condStack[len(b.condStack)-1]
		if !top.preexisting[name] {
			top.current = append(top.current, name)
		}
	}
}

// IsClassRegistered reports whether a name currently resolves to a class
// declared earlier in this parse.
func (b *Builder) IsClassRegistered(name string) bool {
	return b.classNames[name]
}

// NewClass completes a class node. The name must have been registered
// before the body was parsed.
func (b *Builder) NewClass(loc token.Location, name string, parents []ast.Parent, body []ast.Declaration) (*ast.ClassDef, *diagnostics.DiagnosticError) {
	if !b.classNames[name] {
		return nil, diagnostics.NewErrorAt(diagnostics.ErrS001, loc, "class %q completed without prior name registration", name)
	}
	return &ast.ClassDef{Loc: loc, Name: name, Parents: parents, Body: body}, nil
}

// NewFunction validates a signature and builds the node. Grammatical
// input can still be rejected here: conflicting star markers, parameters
// after **kwargs, duplicate names.
func (b *Builder) NewFunction(loc token.Location, name string, decorators []string, params []*ast.Param, ret ast.TypeExpr, raises []ast.TypeExpr, body ast.BodyMarker, mutations []*ast.Mutation) (*ast.FuncDef, *diagnostics.DiagnosticError) {
	seen := make(map[string]bool)
	sawStar, sawDoubleStar := false, false
	for _, param := range params {
		if sawDoubleStar {
			return nil, diagnostics.NewErrorAt(diagnostics.ErrS001, param.Loc, "parameter follows **%s", doubleStarName(params))
		}
		switch param.Star {
		case ast.StarSingle:
			if sawStar {
				return nil, diagnostics.NewErrorAt(diagnostics.ErrS001, param.Loc, "duplicate * parameter")
			}
			sawStar = true
		case ast.StarDouble:
			sawDoubleStar = true
		}
		if param.Name != "" {
			if seen[param.Name] {
				return nil, diagnostics.NewErrorAt(diagnostics.ErrS001, param.Loc, "duplicate parameter %q", param.Name)
			}
			seen[param.Name] = true
		}
	}
	for _, m := range mutations {
		if !seen[m.Name] {
			return nil, diagnostics.NewErrorAt(diagnostics.ErrS001, m.Loc, "mutated name %q is not a parameter", m.Name)
		}
	}
	if ret == nil {
		ret = &ast.AnythingType{Loc: loc}
	}
	return &ast.FuncDef{
		Loc:        loc,
		Name:       name,
		Decorators: decorators,
		Params:     params,
		Return:     ret,
		Raises:     raises,
		Body:       body,
		Mutations:  mutations,
	}, nil
}

// NewConstant builds a typed constant. Repeats of the same name are legal
// and preserved by the caller in source order.
func (b *Builder) NewConstant(loc token.Location, name string, typ ast.TypeExpr) (*ast.Constant, *diagnostics.DiagnosticError) {
	if typ == nil {
		typ = &ast.AnythingType{Loc: loc}
	}
	return &ast.Constant{Loc: loc, Name: name, Type: typ}, nil
}

// NewConstantFromNumber infers the constant's type from a numeric value.
func (b *Builder) NewConstantFromNumber(loc token.Location, name string, numberLexeme string) (*ast.Constant, *diagnostics.DiagnosticError) {
	typeName := "int"
	if strings.Contains(numberLexeme, ".") {
		typeName = "float"
	}
	return &ast.Constant{Loc: loc, Name: name, Type: &ast.NamedType{Loc: loc, Name: typeName}}, nil
}

// NewAlias builds a module-level type alias.
func (b *Builder) NewAlias(loc token.Location, name string, typ ast.TypeExpr) (*ast.TypeAlias, *diagnostics.DiagnosticError) {
	return &ast.TypeAlias{Loc: loc, Name: name, Type: typ}, nil
}

// NewImport builds one plain import entry.
func (b *Builder) NewImport(loc token.Location, module, alias string) (*ast.Import, *diagnostics.DiagnosticError) {
	if module == "" {
		return nil, diagnostics.NewErrorAt(diagnostics.ErrS001, loc, "empty module name in import")
	}
	return &ast.Import{Loc: loc, Module: module, Alias: alias}, nil
}

// NewFromImport builds a from-import with its ordered items.
func (b *Builder) NewFromImport(loc token.Location, module string, items []ast.ImportItem) (*ast.FromImport, *diagnostics.DiagnosticError) {
	if module == "" {
		return nil, diagnostics.NewErrorAt(diagnostics.ErrS001, loc, "empty module name in import")
	}
	return &ast.FromImport{Loc: loc, Module: module, Items: items}, nil
}

// NewTypeVar builds `name = TypeVar('quoted', constraints...)`. The quoted
// name must restate the bound name.
func (b *Builder) NewTypeVar(loc token.Location, name, quoted string, constraints []ast.TypeExpr) (*ast.TypeVarDef, *diagnostics.DiagnosticError) {
	if name != quoted {
		return nil, diagnostics.NewErrorAt(diagnostics.ErrS001, loc, "TypeVar name needs to be %q (not %q)", name, quoted)
	}
	return &ast.TypeVarDef{Loc: loc, Name: name, Constraints: constraints}, nil
}

// NewType builds a named or generic type from a dotted name.
func (b *Builder) NewType(loc token.Location, dotted string, args []ast.TypeExpr) (ast.TypeExpr, *diagnostics.DiagnosticError) {
	if dotted == "" {
		return nil, diagnostics.NewErrorAt(diagnostics.ErrS001, loc, "empty type name")
	}
	base := &ast.NamedType{Loc: loc, Name: dotted}
	if args == nil {
		return base, nil
	}
	if len(args) == 0 {
		return nil, diagnostics.NewErrorAt(diagnostics.ErrS001, loc, "%s[] is missing type parameters", dotted)
	}
	return &ast.GenericType{Loc: loc, Base: base, Args: args}, nil
}

// NewUnionType joins two types with `or`. Chains stay left-nested.
func (b *Builder) NewUnionType(loc token.Location, left, right ast.TypeExpr) (ast.TypeExpr, *diagnostics.DiagnosticError) {
	return &ast.UnionType{Loc: loc, Left: left, Right: right}, nil
}

// NewNamedTuple builds an inline named-tuple literal.
func (b *Builder) NewNamedTuple(loc token.Location, name string, fields []ast.NamedTupleField) (ast.TypeExpr, *diagnostics.DiagnosticError) {
	seen := make(map[string]bool)
	for _, f := range fields {
		if seen[f.Name] {
			return nil, diagnostics.NewErrorAt(diagnostics.ErrS001, loc, "duplicate field %q in NamedTuple", f.Name)
		}
		seen[f.Name] = true
	}
	return &ast.NamedTupleType{Loc: loc, Name: name, Fields: fields}, nil
}

// IfBegin opens a conditional and its first branch, snapshotting the
// registration table so branch deltas can be told apart from names that
// predate the conditional.
func (b *Builder) IfBegin() {
	preexisting := make(map[string]bool, len(b.classNames))
	for name := range b.classNames {
		preexisting[name] = true
	}
	b.condStack = append(b.condStack, &condFrame{preexisting: preexisting})
}

// IfElif seals the previous branch's provisional registrations and opens
// the next branch.
func (b *Builder) IfElif() {
	b.sealBranch()
}

// IfElse opens the trailing unconditional branch.
func (b *Builder) IfElse() {
	b.sealBranch()
}

func (b *Builder) sealBranch() {
	top := b.condStack[len(b.condStack)-1]
	top.sealed = append(top.sealed, top.current)
	top.current = nil
}

// IfEnd resolves a completed conditional against the target version and
// returns the winning branch's declarations, flattened into the enclosing
// scope. Every losing branch is discarded in full, including the class
// names its body registered.
func (b *Builder) IfEnd(block *ast.ConditionalBlock) ([]ast.Declaration, *diagnostics.DiagnosticError) {
	b.sealBranch()
	top := b.condStack[len(b.condStack)-1]
	b.condStack = b.condStack[:len(b.condStack)-1]

	winner := -1
	for i, branch := range block.Branches {
		if branch.Cond == nil {
			winner = i
			break
		}
		ok, err := b.evalCondition(branch.Cond)
		if err != nil {
			return nil, err
		}
		if ok {
			winner = i
			break
		}
	}

	for i := range block.Branches {
		if i == winner || i >= len(top.sealed) {
			continue
		}
		for _, name := range top.sealed[i] {
			delete(b.classNames, name)
		}
	}
	if winner < 0 {
		return nil, nil
	}
	// Re-register the winner's names: the same name may also have appeared
	// in a discarded branch.
	if winner < len(top.sealed) {
		for _, name := range top.sealed[winner] {
			b.classNames[name] = true
			if len(b.condStack) > 0 {
				parent := b.condStack[len(b.condStack)-1]
				if !parent.preexisting[name] {
					parent.current = append(parent.current, name)
				}
			}
		}
	}
	return block.Branches[winner].Body, nil
}

// evalCondition compares the target version against a guard. Guards over
// names other than sys.version_info are false rather than fatal.
func (b *Builder) evalCondition(cond *ast.Condition) (bool, *diagnostics.DiagnosticError) {
	if cond.Left != versionGuardName {
		return false, nil
	}
	ok, err := version.Evaluate(b.target, cond.Op, version.Version(cond.Right))
	if err != nil {
		return false, diagnostics.NewErrorAt(diagnostics.ErrS001, cond.Loc, "%s", err.Error())
	}
	return ok, nil
}

func doubleStarName(params []*ast.Param) string {
	for _, p := range params {
		if p.Star == ast.StarDouble {
			return p.Name
		}
	}
	return ""
}
