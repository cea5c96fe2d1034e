package token

type TokenType string

const (
	ILLEGAL  TokenType = "ILLEGAL"
	EOF      TokenType = "EOF"
	LEXERROR TokenType = "LEXERROR"

	// Literals and opaque tokens.
	NAME         TokenType = "NAME"
	NUMBER       TokenType = "NUMBER"
	TRIPLEQUOTED TokenType = "TRIPLEQUOTED"
	TYPECOMMENT  TokenType = "TYPECOMMENT"

	// Keywords.
	CLASS      TokenType = "CLASS"
	DEF        TokenType = "DEF"
	IF         TokenType = "IF"
	ELIF       TokenType = "ELIF"
	ELSE       TokenType = "ELSE"
	OR         TokenType = "OR"
	PASS       TokenType = "PASS"
	IMPORT     TokenType = "IMPORT"
	FROM       TokenType = "FROM"
	AS         TokenType = "AS"
	RAISE      TokenType = "RAISE"
	RAISES     TokenType = "RAISES"
	PYTHONCODE TokenType = "PYTHONCODE"
	NOTHING    TokenType = "NOTHING"
	NAMEDTUPLE TokenType = "NAMEDTUPLE"
	TYPEVAR    TokenType = "TYPEVAR"

	// Block structure.
	INDENT TokenType = "INDENT"
	DEDENT TokenType = "DEDENT"

	// Operators and punctuation.
	ARROW       TokenType = "->"
	COLONEQUALS TokenType = ":="
	ELLIPSIS    TokenType = "..."
	EQ          TokenType = "=="
	NE          TokenType = "!="
	LE          TokenType = "<="
	GE          TokenType = ">="
	LT          TokenType = "<"
	GT          TokenType = ">"
	COLON       TokenType = ":"
	COMMA       TokenType = ","
	ASSIGN      TokenType = "="
	ASTERISK    TokenType = "*"
	AT          TokenType = "@"
	DOT         TokenType = "."
	QUESTION    TokenType = "?"
	LPAREN      TokenType = "("
	RPAREN      TokenType = ")"
	LBRACKET    TokenType = "["
	RBRACKET    TokenType = "]"
)

// Location is a source span: start and end, both 1-based, end inclusive.
type Location struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Span merges two locations into the smallest span covering both.
func Span(a, b Location) Location {
	out := a
	if b.StartLine < out.StartLine || (b.StartLine == out.StartLine && b.StartCol < out.StartCol) {
		out.StartLine, out.StartCol = b.StartLine, b.StartCol
	}
	if b.EndLine > out.EndLine || (b.EndLine == out.EndLine && b.EndCol > out.EndCol) {
		out.EndLine, out.EndCol = b.EndLine, b.EndCol
	}
	return out
}

type Token struct {
	Type    TokenType
	Lexeme  string
	Line    int
	Column  int
	EndLine int
	EndCol  int
}

// Loc returns the token's span as a Location.
func (t Token) Loc() Location {
	return Location{StartLine: t.Line, StartCol: t.Column, EndLine: t.EndLine, EndCol: t.EndCol}
}

var keywords = map[string]TokenType{
	"class":      CLASS,
	"def":        DEF,
	"if":         IF,
	"elif":       ELIF,
	"else":       ELSE,
	"or":         OR,
	"pass":       PASS,
	"import":     IMPORT,
	"from":       FROM,
	"as":         AS,
	"raise":      RAISE,
	"raises":     RAISES,
	"nothing":    NOTHING,
	"PYTHONCODE": PYTHONCODE,
	"NamedTuple": NAMEDTUPLE,
	"TypeVar":    TYPEVAR,
}

// LookupIdent maps an identifier to its keyword token type, or NAME.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return NAME
}
