package ast

import (
	"github.com/typestub/typestub/internal/token"
)

// TypeExpr is the restricted expression subset legal in stubs: dotted
// names, subscripted generics, binary unions, sentinels and named-tuple
// literals.
type TypeExpr interface {
	Node
	typeExprNode()
}

// NamedType is a plain dotted type name, e.g. int or a.b.C.
type NamedType struct {
	Loc  token.Location
	Name string
}

func (t *NamedType) Accept(v Visitor)     { v.VisitNamedType(t) }
func (t *NamedType) typeExprNode()        {}
func (t *NamedType) Span() token.Location { return t.Loc }

// GenericType is a subscripted base, e.g. List[int].
type GenericType struct {
	Loc  token.Location
	Base *NamedType
	Args []TypeExpr
}

func (t *GenericType) Accept(v Visitor)     { v.VisitGenericType(t) }
func (t *GenericType) typeExprNode()        {}
func (t *GenericType) Span() token.Location { return t.Loc }

// UnionType is a binary `or` of two types. Chains stay left-nested:
// `a or b or c` is Union(Union(a, b), c), never flattened.
type UnionType struct {
	Loc   token.Location
	Left  TypeExpr
	Right TypeExpr
}

func (t *UnionType) Accept(v Visitor)     { v.VisitUnionType(t) }
func (t *UnionType) typeExprNode()        {}
func (t *UnionType) Span() token.Location { return t.Loc }

// AnythingType is the unconstrained sentinel, written `?`.
type AnythingType struct {
	Loc token.Location
}

func (t *AnythingType) Accept(v Visitor)     { v.VisitAnythingType(t) }
func (t *AnythingType) typeExprNode()        {}
func (t *AnythingType) Span() token.Location { return t.Loc }

// NothingType is the uninhabited bottom sentinel, written `nothing`.
type NothingType struct {
	Loc token.Location
}

func (t *NothingType) Accept(v Visitor)     { v.VisitNothingType(t) }
func (t *NothingType) typeExprNode()        {}
func (t *NothingType) Span() token.Location { return t.Loc }

// EllipsisType is the `...` sentinel, legal as a generic argument and as a
// type-comment placeholder.
type EllipsisType struct {
	Loc token.Location
}

func (t *EllipsisType) Accept(v Visitor)     { v.VisitEllipsisType(t) }
func (t *EllipsisType) typeExprNode()        {}
func (t *EllipsisType) Span() token.Location { return t.Loc }

// NamedTupleField is one (name, type) field of a named-tuple literal.
type NamedTupleField struct {
	Name string
	Type TypeExpr
}

// NamedTupleType is an inline NamedTuple("Name", [("f", int), ...]) literal.
type NamedTupleType struct {
	Loc    token.Location
	Name   string
	Fields []NamedTupleField
}

func (t *NamedTupleType) Accept(v Visitor)     { v.VisitNamedTupleType(t) }
func (t *NamedTupleType) typeExprNode()        {}
func (t *NamedTupleType) Span() token.Location { return t.Loc }
