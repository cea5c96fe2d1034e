package lexer_test

import (
	"testing"

	"github.com/typestub/typestub/internal/lexer"
	"github.com/typestub/typestub/internal/token"
)

// expectTypes tokenizes the input and compares the token type sequence,
// including the trailing EOF.
func expectTypes(t *testing.T, input string, expected ...token.TokenType) []token.Token {
	t.Helper()
	tokens := lexer.Tokenize(input)
	var got []token.TokenType
	for _, tok := range tokens {
		got = append(got, tok.Type)
	}
	if len(got) != len(expected) {
		t.Fatalf("token count mismatch: got %v, want %v\ninput: %q", got, expected, input)
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Fatalf("token %d: got %s, want %s\nfull: %v\ninput: %q", i, got[i], expected[i], got, input)
		}
	}
	return tokens
}

func TestFunctionSignatureTokens(t *testing.T) {
	expectTypes(t, "def f(x: int) -> str: ...",
		token.DEF, token.NAME, token.LPAREN, token.NAME, token.COLON, token.NAME,
		token.RPAREN, token.ARROW, token.NAME, token.COLON, token.ELLIPSIS, token.EOF)
}

func TestIndentDedent(t *testing.T) {
	expectTypes(t, "class A:\n    x: int\n",
		token.CLASS, token.NAME, token.COLON,
		token.INDENT, token.NAME, token.COLON, token.NAME,
		token.DEDENT, token.EOF)
}

func TestNestedIndent(t *testing.T) {
	input := "class A:\n    def f(self) -> int:\n        x := int\n"
	expectTypes(t, input,
		token.CLASS, token.NAME, token.COLON,
		token.INDENT, token.DEF, token.NAME, token.LPAREN, token.NAME, token.RPAREN,
		token.ARROW, token.NAME, token.COLON,
		token.INDENT, token.NAME, token.COLONEQUALS, token.NAME,
		token.DEDENT, token.DEDENT, token.EOF)
}

func TestBlankAndCommentLinesCarryNoStructure(t *testing.T) {
	input := "class A:\n    x: int\n\n  # comment deeper than nothing\n    y: str\n"
	expectTypes(t, input,
		token.CLASS, token.NAME, token.COLON,
		token.INDENT, token.NAME, token.COLON, token.NAME,
		token.NAME, token.COLON, token.NAME,
		token.DEDENT, token.EOF)
}

func TestBracketsJoinLines(t *testing.T) {
	input := "x: tuple[int,\n        str]\ny: int\n"
	expectTypes(t, input,
		token.NAME, token.COLON, token.NAME, token.LBRACKET, token.NAME, token.COMMA, token.NAME, token.RBRACKET,
		token.NAME, token.COLON, token.NAME, token.EOF)
}

func TestOperators(t *testing.T) {
	expectTypes(t, "if sys.version_info >= (3, 0):",
		token.IF, token.NAME, token.DOT, token.NAME, token.GE,
		token.LPAREN, token.NUMBER, token.COMMA, token.NUMBER, token.RPAREN,
		token.COLON, token.EOF)
}

func TestComparisonOperatorLexemes(t *testing.T) {
	tokens := lexer.Tokenize("a < b <= c > d >= e == f != g")
	expected := []string{"a", "<", "b", "<=", "c", ">", "d", ">=", "e", "==", "f", "!=", "g"}
	for i, lexeme := range expected {
		if tokens[i].Lexeme != lexeme {
			t.Errorf("token %d lexeme: got %q, want %q", i, tokens[i].Lexeme, lexeme)
		}
	}
}

func TestQuotedNameBecomesName(t *testing.T) {
	tokens := expectTypes(t, "T = TypeVar('T')",
		token.NAME, token.ASSIGN, token.TYPEVAR, token.LPAREN, token.NAME, token.RPAREN, token.EOF)
	if tokens[4].Lexeme != "T" {
		t.Errorf("quoted name lexeme: got %q, want %q", tokens[4].Lexeme, "T")
	}
}

func TestTripleQuotedIsOpaque(t *testing.T) {
	expectTypes(t, "\"\"\"module docstring\nwith a second line\"\"\"\nx: int\n",
		token.TRIPLEQUOTED, token.NAME, token.COLON, token.NAME, token.EOF)
}

func TestTypeCommentToken(t *testing.T) {
	expectTypes(t, "x = ...  # type: int\n",
		token.NAME, token.ASSIGN, token.ELLIPSIS, token.TYPECOMMENT, token.NAME, token.EOF)
}

func TestOrdinaryCommentSkipped(t *testing.T) {
	expectTypes(t, "x = 0  # just a note\ny = 1\n",
		token.NAME, token.ASSIGN, token.NUMBER, token.NAME, token.ASSIGN, token.NUMBER, token.EOF)
}

func TestKeywords(t *testing.T) {
	expectTypes(t, "nothing pass raise raises PYTHONCODE NamedTuple",
		token.NOTHING, token.PASS, token.RAISE, token.RAISES, token.PYTHONCODE, token.NAMEDTUPLE, token.EOF)
}

func TestNumbers(t *testing.T) {
	tokens := expectTypes(t, "x = 2.7", token.NAME, token.ASSIGN, token.NUMBER, token.EOF)
	if tokens[2].Lexeme != "2.7" {
		t.Errorf("number lexeme: got %q, want %q", tokens[2].Lexeme, "2.7")
	}
}

func TestTokenLocations(t *testing.T) {
	tokens := lexer.Tokenize("def f() -> int: ...")
	def := tokens[0]
	if def.Line != 1 || def.Column != 1 || def.EndCol != 3 {
		t.Errorf("def location: got %d:%d-%d, want 1:1-3", def.Line, def.Column, def.EndCol)
	}
	arrow := tokens[4]
	if arrow.Type != token.ARROW || arrow.Column != 9 {
		t.Errorf("arrow location: got %s at col %d, want -> at col 9", arrow.Type, arrow.Column)
	}
}

func TestUnterminatedString(t *testing.T) {
	tokens := lexer.Tokenize("x = 'abc")
	last := tokens[len(tokens)-1]
	if last.Type != token.LEXERROR {
		t.Fatalf("expected LEXERROR, got %s", last.Type)
	}
	if last.Lexeme != "unterminated string" {
		t.Errorf("message: got %q", last.Lexeme)
	}
}

func TestBadDedent(t *testing.T) {
	tokens := lexer.Tokenize("class A:\n        x: int\n    y: str\n")
	last := tokens[len(tokens)-1]
	if last.Type != token.LEXERROR {
		t.Fatalf("expected LEXERROR, got %s", last.Type)
	}
	if last.Lexeme != "unindent does not match any outer block" {
		t.Errorf("message: got %q", last.Lexeme)
	}
}

func TestIllegalCharacter(t *testing.T) {
	tokens := lexer.Tokenize("x: int;")
	last := tokens[len(tokens)-1]
	if last.Type != token.LEXERROR {
		t.Fatalf("expected LEXERROR, got %s", last.Type)
	}
}

func TestEOFClosesOpenBlocks(t *testing.T) {
	expectTypes(t, "class A:\n    def f(self) -> int: ...",
		token.CLASS, token.NAME, token.COLON,
		token.INDENT, token.DEF, token.NAME, token.LPAREN, token.NAME, token.RPAREN,
		token.ARROW, token.NAME, token.COLON, token.ELLIPSIS,
		token.DEDENT, token.EOF)
}
