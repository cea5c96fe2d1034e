package ast

// Visitor walks a finished AST. Used by the prettyprinters.
type Visitor interface {
	VisitUnit(u *Unit)
	VisitClassDef(c *ClassDef)
	VisitFuncDef(f *FuncDef)
	VisitParam(p *Param)
	VisitConstant(c *Constant)
	VisitTypeAlias(a *TypeAlias)
	VisitImport(i *Import)
	VisitFromImport(i *FromImport)
	VisitTypeVarDef(t *TypeVarDef)
	VisitConditionalBlock(c *ConditionalBlock)

	VisitNamedType(t *NamedType)
	VisitGenericType(t *GenericType)
	VisitUnionType(t *UnionType)
	VisitAnythingType(t *AnythingType)
	VisitNothingType(t *NothingType)
	VisitEllipsisType(t *EllipsisType)
	VisitNamedTupleType(t *NamedTupleType)
}
