package parser_test

import (
	"strings"
	"testing"

	"github.com/typestub/typestub/internal/diagnostics"
	"github.com/typestub/typestub/internal/lexer"
	"github.com/typestub/typestub/internal/parser"
	"github.com/typestub/typestub/internal/pipeline"
	"github.com/typestub/typestub/internal/version"
)

// parseWithErrors runs the lexer+parser and returns all diagnostic errors.
func parseWithErrors(input string) []*diagnostics.DiagnosticError {
	ctx := pipeline.NewPipelineContext(input, version.Version{3, 8})
	lp := &lexer.LexerProcessor{}
	ctx = lp.Process(ctx)
	pp := &parser.ParserProcessor{}
	ctx = pp.Process(ctx)
	return ctx.Errors
}

// expectError asserts exactly one error with the given code.
func expectError(t *testing.T, input string, code diagnostics.ErrorCode) *diagnostics.DiagnosticError {
	t.Helper()
	errs := parseWithErrors(input)
	if len(errs) == 0 {
		t.Fatalf("expected error %s, but got none\ninput: %s", code, input)
	}
	if len(errs) > 1 {
		var msgs []string
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("expected exactly one error, got %d:\n%s\ninput: %s", len(errs), strings.Join(msgs, "\n"), input)
	}
	if errs[0].Code != code {
		t.Fatalf("expected error %s, got %s\ninput: %s", code, errs[0].Error(), input)
	}
	return errs[0]
}

// expectNoErrors asserts parsing succeeds without errors.
func expectNoErrors(t *testing.T, input string) {
	t.Helper()
	errs := parseWithErrors(input)
	if len(errs) > 0 {
		var msgs []string
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("expected no errors, got:\n%s\ninput: %s", strings.Join(msgs, "\n"), input)
	}
}

// ---------------------------------------------------------------------------
// P001 — Unexpected token
// ---------------------------------------------------------------------------

func TestP001_ColonInsteadOfParams(t *testing.T) {
	// `def f(: ...` — ':' cannot start a parameter
	e := expectError(t, "def f(: ...", diagnostics.ErrP001)
	if e.Location.StartLine != 1 || e.Location.StartCol != 7 {
		t.Errorf("location: got %d:%d, want 1:7", e.Location.StartLine, e.Location.StartCol)
	}
	if !strings.Contains(e.Message, "unexpected") {
		t.Errorf("message: got %q", e.Message)
	}
}

func TestP001_MissingColonAfterClass(t *testing.T) {
	expectError(t, "class A ...", diagnostics.ErrP001)
}

func TestP001_MissingReturnType(t *testing.T) {
	// `->` must be followed by a type
	expectError(t, "def f() -> : ...", diagnostics.ErrP001)
}

func TestP001_DanglingEquals(t *testing.T) {
	expectError(t, "x =", diagnostics.ErrP001)
}

func TestP001_BadVersionTupleComponent(t *testing.T) {
	expectError(t, "if sys.version_info >= (a,):\n    x: int\n", diagnostics.ErrP001)
}

func TestP001_MissingVersionOperand(t *testing.T) {
	expectError(t, "if sys.version_info >= foo:\n    x: int\n", diagnostics.ErrP001)
}

func TestP001_ImportInClassBody(t *testing.T) {
	expectError(t, "class A:\n    import os\n", diagnostics.ErrP001)
}

func TestP001_NameAfterDoubleStarMissing(t *testing.T) {
	expectError(t, "def f(**) -> int: ...", diagnostics.ErrP001)
}

// ---------------------------------------------------------------------------
// L001 — Lexical errors, surfaced verbatim
// ---------------------------------------------------------------------------

func TestL001_UnterminatedString(t *testing.T) {
	e := expectError(t, "x = 'abc", diagnostics.ErrL001)
	if e.Message != "unterminated string" {
		t.Errorf("message: got %q", e.Message)
	}
}

func TestL001_BadDedent(t *testing.T) {
	e := expectError(t, "class A:\n        x: int\n    y: str\n", diagnostics.ErrL001)
	if e.Message != "unindent does not match any outer block" {
		t.Errorf("message: got %q", e.Message)
	}
}

func TestL001_IllegalCharacter(t *testing.T) {
	expectError(t, "x: int;", diagnostics.ErrL001)
}

// ---------------------------------------------------------------------------
// S001 — Construction failures
// ---------------------------------------------------------------------------

func TestS001_TypeVarNameMismatch(t *testing.T) {
	e := expectError(t, "T = TypeVar('U')", diagnostics.ErrS001)
	if !strings.Contains(e.Message, `TypeVar name needs to be "T" (not "U")`) {
		t.Errorf("message: got %q", e.Message)
	}
}

func TestS001_DuplicateParameter(t *testing.T) {
	expectError(t, "def f(x: int, x: str) -> int: ...", diagnostics.ErrS001)
}

func TestS001_ParameterAfterDoubleStar(t *testing.T) {
	expectError(t, "def f(**kw, x: int) -> int: ...", diagnostics.ErrS001)
}

func TestS001_DuplicateStarParameter(t *testing.T) {
	expectError(t, "def f(*a, *b) -> int: ...", diagnostics.ErrS001)
}

func TestS001_MutatedNameNotAParameter(t *testing.T) {
	expectError(t, "def f(self) -> None:\n    other := int\n", diagnostics.ErrS001)
}

func TestS001_EmptyGenericArguments(t *testing.T) {
	e := expectError(t, "x: List[]", diagnostics.ErrS001)
	if !strings.Contains(e.Message, "missing type parameters") {
		t.Errorf("message: got %q", e.Message)
	}
}

func TestS001_DuplicateNamedTupleField(t *testing.T) {
	expectError(t, "P = NamedTuple('P', [('a', int), ('a', str)])", diagnostics.ErrS001)
}

// ---------------------------------------------------------------------------
// Exactly one error per parse
// ---------------------------------------------------------------------------

func TestFirstFailureWins(t *testing.T) {
	// Two malformed declarations; only the first may be reported.
	e := expectError(t, "def f(: ...\ndef g(: ...", diagnostics.ErrP001)
	if e.Location.StartLine != 1 {
		t.Errorf("first failure should win: got line %d, want 1", e.Location.StartLine)
	}
}

func TestErrorsCarryFilePath(t *testing.T) {
	ctx := pipeline.NewPipelineContext("def f(: ...", version.Version{3, 8})
	ctx.FilePath = "broken.pyi"
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)
	if len(ctx.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(ctx.Errors))
	}
	if !strings.HasPrefix(ctx.Errors[0].Error(), "broken.pyi:1:7:") {
		t.Errorf("rendered error: got %q", ctx.Errors[0].Error())
	}
}

// ---------------------------------------------------------------------------
// Inputs that must keep parsing cleanly
// ---------------------------------------------------------------------------

func TestNoErrors_Kitchen(t *testing.T) {
	input := strings.Join([]string{
		`"""os.path stubs"""`,
		"import sys",
		"from typing import List, Optional as Opt",
		"",
		"T = TypeVar('T')",
		"sep: str",
		"defpath = ...  # type: str",
		"",
		"if sys.version_info >= (3, 0):",
		"    def getcwd() -> str: ...",
		"else:",
		"    def getcwd() -> unicode: ...",
		"",
		"class PurePath:",
		"    parts: tuple[str, ...]",
		"    def joinpath(self, *other) -> PurePath: ...",
		"    def relative_to(self, other: str or PurePath) -> PurePath:",
		"        raise ValueError()",
		"",
		"@overload",
		"def split(p: str) -> [str, str]: ...",
		"def stat PYTHONCODE",
		"",
	}, "\n")
	expectNoErrors(t, input)
}
