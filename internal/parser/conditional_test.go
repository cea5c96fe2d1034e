package parser_test

import (
	"testing"

	"github.com/typestub/typestub/internal/ast"
	"github.com/typestub/typestub/internal/parser"
	"github.com/typestub/typestub/internal/version"
)

const ifElseInput = "if sys.version_info >= (3, 0):\n    x: int\nelse:\n    x: str\n"

func TestConditionalPicksIfBranch(t *testing.T) {
	unit := parseUnit(t, ifElseInput, version.Version{3, 8})
	c := singleDecl(t, unit).(*ast.Constant)
	if got := namedTypeName(t, c.Type); got != "int" {
		t.Errorf("type: got %q, want %q", got, "int")
	}
}

func TestConditionalPicksElseBranch(t *testing.T) {
	unit := parseUnit(t, ifElseInput, version.Version{2, 7})
	c := singleDecl(t, unit).(*ast.Constant)
	if got := namedTypeName(t, c.Type); got != "str" {
		t.Errorf("type: got %q, want %q", got, "str")
	}
}

func TestConditionalElifChain(t *testing.T) {
	input := "if sys.version_info >= (3, 9):\n    x: bytes\nelif sys.version_info >= (3, 0):\n    x: int\nelse:\n    x: str\n"
	testCases := []struct {
		target   version.Version
		typeName string
	}{
		{version.Version{3, 10}, "bytes"},
		{version.Version{3, 8}, "int"},
		{version.Version{2, 7}, "str"},
	}
	for _, tc := range testCases {
		unit := parseUnit(t, input, tc.target)
		c := singleDecl(t, unit).(*ast.Constant)
		if got := namedTypeName(t, c.Type); got != tc.typeName {
			t.Errorf("target %v: got %q, want %q", tc.target, got, tc.typeName)
		}
	}
}

func TestConditionalFirstTrueBranchWins(t *testing.T) {
	// Both guards hold; only the first body may survive.
	input := "if sys.version_info >= (3, 0):\n    x: int\nelif sys.version_info >= (2, 0):\n    x: str\n"
	unit := parseUnit(t, input, version.Version{3, 8})
	c := singleDecl(t, unit).(*ast.Constant)
	if got := namedTypeName(t, c.Type); got != "int" {
		t.Errorf("type: got %q, want %q", got, "int")
	}
}

func TestConditionalNoElseNoMatchYieldsNothing(t *testing.T) {
	input := "if sys.version_info >= (4, 0):\n    x: int\n"
	unit := parseUnit(t, input, version.Version{3, 8})
	if len(unit.Decls) != 0 {
		t.Fatalf("expected 0 declarations, got %d", len(unit.Decls))
	}
}

func TestConditionalBareNumberGuard(t *testing.T) {
	input := "if sys.version_info >= 3:\n    x: int\nelse:\n    x: str\n"
	unit := parseUnit(t, input, version.Version{3, 8})
	c := singleDecl(t, unit).(*ast.Constant)
	if got := namedTypeName(t, c.Type); got != "int" {
		t.Errorf("type: got %q, want %q", got, "int")
	}
}

func TestConditionalTrailingCommaTuple(t *testing.T) {
	input := "if sys.version_info >= (3,):\n    x: int\nelse:\n    x: str\n"
	unit := parseUnit(t, input, version.Version{3, 8})
	c := singleDecl(t, unit).(*ast.Constant)
	if got := namedTypeName(t, c.Type); got != "int" {
		t.Errorf("type: got %q, want %q", got, "int")
	}
}

func TestConditionalZeroPaddedComparison(t *testing.T) {
	// (3,) == target (3, 0): shorter side zero-padded.
	input := "if sys.version_info == (3,):\n    x: int\nelse:\n    x: str\n"
	unit := parseUnit(t, input, version.Version{3, 0})
	c := singleDecl(t, unit).(*ast.Constant)
	if got := namedTypeName(t, c.Type); got != "int" {
		t.Errorf("type: got %q, want %q", got, "int")
	}
}

func TestConditionalUnknownGuardIsFalse(t *testing.T) {
	input := "if platform.release >= (3, 0):\n    x: int\nelse:\n    x: str\n"
	unit := parseUnit(t, input, version.Version{3, 8})
	c := singleDecl(t, unit).(*ast.Constant)
	if got := namedTypeName(t, c.Type); got != "str" {
		t.Errorf("type: got %q, want %q", got, "str")
	}
}

func TestConditionalInsideClass(t *testing.T) {
	input := "class A:\n    if sys.version_info >= (3, 0):\n        def f(self) -> int: ...\n    else:\n        def f(self) -> str: ...\n"
	unit := parseUnit(t, input, version.Version{3, 8})
	cls := singleDecl(t, unit).(*ast.ClassDef)
	if len(cls.Body) != 1 {
		t.Fatalf("expected 1 member, got %d", len(cls.Body))
	}
	fn := cls.Body[0].(*ast.FuncDef)
	if got := namedTypeName(t, fn.Return); got != "int" {
		t.Errorf("return: got %q, want %q", got, "int")
	}
}

func TestConditionalNested(t *testing.T) {
	input := "if sys.version_info >= (3, 0):\n    if sys.version_info >= (3, 5):\n        x: bytes\n    else:\n        x: int\n"
	unit := parseUnit(t, input, version.Version{3, 8})
	c := singleDecl(t, unit).(*ast.Constant)
	if got := namedTypeName(t, c.Type); got != "bytes" {
		t.Errorf("type: got %q, want %q", got, "bytes")
	}
}

func TestConditionalClassInWinningBranch(t *testing.T) {
	input := "if sys.version_info >= (3, 0):\n    class A:\n        def copy(self) -> A: ...\nelse:\n    class B: ...\n"
	unit := parseUnit(t, input, version.Version{3, 8})
	cls := singleDecl(t, unit).(*ast.ClassDef)
	if cls.Name != "A" {
		t.Errorf("class: got %q, want %q", cls.Name, "A")
	}
}

func TestLoserBranchClassNamesForgotten(t *testing.T) {
	target := version.Version{3, 8}
	b := parser.NewBuilder(target)

	b.IfBegin()
	b.RegisterClassName("NewStyle")
	b.IfElse()
	b.RegisterClassName("OldStyle")

	block := &ast.ConditionalBlock{
		Branches: []ast.Branch{
			{Cond: &ast.Condition{Left: "sys.version_info", Op: ">=", Right: []int{3, 0}}},
			{},
		},
	}
	if _, err := b.IfEnd(block); err != nil {
		t.Fatalf("IfEnd: %v", err)
	}

	if !b.IsClassRegistered("NewStyle") {
		t.Error("winning branch class must stay registered")
	}
	if b.IsClassRegistered("OldStyle") {
		t.Error("losing branch class must be forgotten")
	}
}

func TestOuterScopeNameSurvivesLosingBranch(t *testing.T) {
	b := parser.NewBuilder(version.Version{3, 8})
	b.RegisterClassName("A")

	// The losing branch re-registers a name that predates the conditional.
	b.IfBegin()
	b.RegisterClassName("A")
	b.IfElse()

	block := &ast.ConditionalBlock{
		Branches: []ast.Branch{
			{Cond: &ast.Condition{Left: "sys.version_info", Op: ">=", Right: []int{4, 0}}},
			{},
		},
	}
	if _, err := b.IfEnd(block); err != nil {
		t.Fatalf("IfEnd: %v", err)
	}

	if !b.IsClassRegistered("A") {
		t.Error("a name registered before the conditional must survive a losing branch that re-registers it")
	}
}

func TestNameInBothBranchesKeptWhenWinnerHasIt(t *testing.T) {
	b := parser.NewBuilder(version.Version{3, 8})

	b.IfBegin()
	b.RegisterClassName("C") // loses
	b.IfElse()
	b.RegisterClassName("C") // wins

	block := &ast.ConditionalBlock{
		Branches: []ast.Branch{
			{Cond: &ast.Condition{Left: "sys.version_info", Op: "<", Right: []int{3}}},
			{},
		},
	}
	if _, err := b.IfEnd(block); err != nil {
		t.Fatalf("IfEnd: %v", err)
	}

	if !b.IsClassRegistered("C") {
		t.Error("winning branch registration must survive the same name losing elsewhere")
	}
}

func TestWinnerNamePropagatesToParentFrame(t *testing.T) {
	b := parser.NewBuilder(version.Version{3, 8})

	b.IfBegin() // outer
	b.IfBegin() // inner
	b.RegisterClassName("Inner")
	innerBlock := &ast.ConditionalBlock{
		Branches: []ast.Branch{
			{Cond: &ast.Condition{Left: "sys.version_info", Op: ">=", Right: []int{3}}},
		},
	}
	if _, err := b.IfEnd(innerBlock); err != nil {
		t.Fatalf("inner IfEnd: %v", err)
	}
	if !b.IsClassRegistered("Inner") {
		t.Fatal("inner winner must stay registered while outer is open")
	}

	// The outer conditional loses, taking the propagated name with it.
	b.IfElse()
	outerBlock := &ast.ConditionalBlock{
		Branches: []ast.Branch{
			{Cond: &ast.Condition{Left: "sys.version_info", Op: "<", Right: []int{3}}},
			{},
		},
	}
	if _, err := b.IfEnd(outerBlock); err != nil {
		t.Fatalf("outer IfEnd: %v", err)
	}
	if b.IsClassRegistered("Inner") {
		t.Error("name registered inside a losing outer branch must be forgotten")
	}
}

func TestConditionSpans(t *testing.T) {
	unit := parseUnit(t, ifElseInput, version.Version{3, 8})
	c := singleDecl(t, unit).(*ast.Constant)
	loc := c.Span()
	if loc.StartLine != 2 {
		t.Errorf("winning declaration keeps its own line: got %d, want 2", loc.StartLine)
	}
}
