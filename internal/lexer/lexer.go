package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/typestub/typestub/internal/token"
)

// Lexer turns stub-file text into tokens. It owns block-structure
// detection: leading whitespace becomes INDENT/DEDENT tokens, suppressed
// inside brackets. Lexical faults become a single LEXERROR token whose
// lexeme carries the diagnostic text verbatim.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number

	indentStack    []int
	pendingDedents int
	atLineStart    bool
	bracketDepth   int
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0, indentStack: []int{0}, atLineStart: true}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// NextToken returns the next token. After the final DEDENTs it keeps
// returning EOF.
func (l *Lexer) NextToken() token.Token {
	if l.pendingDedents > 0 {
		l.pendingDedents--
		return l.structural(token.DEDENT)
	}

	if l.atLineStart && l.bracketDepth == 0 {
		if tok, ok := l.handleLineStart(); ok {
			return tok
		}
	}

	l.skipSpace()

	if l.ch == '\n' {
		l.atLineStart = true
		l.readChar()
		return l.NextToken()
	}

	if l.ch == '#' {
		if tok, ok := l.scanComment(); ok {
			return tok
		}
		return l.NextToken()
	}

	if l.ch == 0 {
		// Close any open blocks before end-of-input.
		if len(l.indentStack) > 1 {
			l.indentStack = l.indentStack[:len(l.indentStack)-1]
			return l.structural(token.DEDENT)
		}
		return l.structural(token.EOF)
	}

	startLine, startCol := l.line, l.column

	switch l.ch {
	case '\'', '"':
		return l.scanString()
	case '-':
		if l.peekChar() == '>' {
			l.readChar()
			return l.emit(token.ARROW, "->", startLine, startCol)
		}
		return l.lexError("illegal character '-'", startLine, startCol)
	case ':':
		if l.peekChar() == '=' {
			l.readChar()
			return l.emit(token.COLONEQUALS, ":=", startLine, startCol)
		}
		return l.emit(token.COLON, ":", startLine, startCol)
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			return l.emit(token.EQ, "==", startLine, startCol)
		}
		return l.emit(token.ASSIGN, "=", startLine, startCol)
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			return l.emit(token.NE, "!=", startLine, startCol)
		}
		return l.lexError("illegal character '!'", startLine, startCol)
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			return l.emit(token.LE, "<=", startLine, startCol)
		}
		return l.emit(token.LT, "<", startLine, startCol)
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			return l.emit(token.GE, ">=", startLine, startCol)
		}
		return l.emit(token.GT, ">", startLine, startCol)
	case '.':
		if l.peekChar() == '.' {
			l.readChar()
			if l.peekChar() != '.' {
				return l.lexError("illegal token '..'", startLine, startCol)
			}
			l.readChar()
			return l.emit(token.ELLIPSIS, "...", startLine, startCol)
		}
		return l.emit(token.DOT, ".", startLine, startCol)
	case ',':
		return l.emit(token.COMMA, ",", startLine, startCol)
	case '*':
		return l.emit(token.ASTERISK, "*", startLine, startCol)
	case '@':
		return l.emit(token.AT, "@", startLine, startCol)
	case '?':
		return l.emit(token.QUESTION, "?", startLine, startCol)
	case '(':
		l.bracketDepth++
		return l.emit(token.LPAREN, "(", startLine, startCol)
	case ')':
		if l.bracketDepth > 0 {
			l.bracketDepth--
		}
		return l.emit(token.RPAREN, ")", startLine, startCol)
	case '[':
		l.bracketDepth++
		return l.emit(token.LBRACKET, "[", startLine, startCol)
	case ']':
		if l.bracketDepth > 0 {
			l.bracketDepth--
		}
		return l.emit(token.RBRACKET, "]", startLine, startCol)
	}

	if isLetter(l.ch) {
		return l.scanIdentifier()
	}
	if unicode.IsDigit(l.ch) {
		return l.scanNumber()
	}

	return l.lexError("illegal character %q", startLine, startCol, string(l.ch))
}

// handleLineStart measures leading whitespace and emits INDENT/DEDENT as
// needed. Blank and comment-only lines carry no block structure.
func (l *Lexer) handleLineStart() (token.Token, bool) {
	for {
		indent := 0
		for {
			if l.ch == ' ' {
				indent++
			} else if l.ch == '\t' {
				indent += 8 - indent%8
			} else {
				break
			}
			l.readChar()
		}
		if l.ch == '\n' {
			l.readChar()
			continue
		}
		if l.ch == '#' && !l.isTypeComment() {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		if l.ch == 0 {
			l.atLineStart = false
			return token.Token{}, false
		}

		l.atLineStart = false
		top := l.indentStack[len(l.indentStack)-1]
		switch {
		case indent > top:
			l.indentStack = append(l.indentStack, indent)
			return l.structural(token.INDENT), true
		case indent < top:
			for len(l.indentStack) > 1 && l.indentStack[len(l.indentStack)-1] > indent {
				l.indentStack = l.indentStack[:len(l.indentStack)-1]
				l.pendingDedents++
			}
			if l.indentStack[len(l.indentStack)-1] != indent {
				return l.lexError("unindent does not match any outer block", l.line, l.column), true
			}
			l.pendingDedents--
			return l.structural(token.DEDENT), true
		}
		return token.Token{}, false
	}
}

func (l *Lexer) skipSpace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
	// Newlines inside brackets join lines implicitly.
	for l.bracketDepth > 0 && l.ch == '\n' {
		l.readChar()
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
			l.readChar()
		}
	}
}

// isTypeComment reports whether the comment at the current '#' is a
// `# type:` marker rather than an ordinary comment.
func (l *Lexer) isTypeComment() bool {
	rest := l.input[l.position:]
	rest = strings.TrimPrefix(rest, "#")
	rest = strings.TrimLeft(rest, " \t")
	return strings.HasPrefix(rest, "type:")
}

// scanComment consumes a comment. A `# type:` marker becomes a
// TYPECOMMENT token and lexing resumes right after the colon, so the
// annotation itself is tokenized normally. Other comments are skipped.
func (l *Lexer) scanComment() (token.Token, bool) {
	if !l.isTypeComment() {
		for l.ch != '\n' && l.ch != 0 {
			l.readChar()
		}
		return token.Token{}, false
	}
	startLine, startCol := l.line, l.column
	l.readChar() // consume '#'
	for l.ch == ' ' || l.ch == '\t' {
		l.readChar()
	}
	for l.ch != ':' {
		l.readChar() // "type"
	}
	return l.emit(token.TYPECOMMENT, "# type:", startLine, startCol), true
}

// scanString handles quoted names such as TypeVar('T') and triple-quoted
// opaque text. Quoted names must close on the same line.
func (l *Lexer) scanString() token.Token {
	quote := l.ch
	startLine, startCol := l.line, l.column

	if l.peekChar() == quote {
		l.readChar()
		if l.peekChar() == quote {
			l.readChar() // third quote: triple-quoted text
			return l.scanTripleQuoted(quote, startLine, startCol)
		}
		// Empty quoted name.
		return l.emitLexeme(token.NAME, "", startLine, startCol)
	}

	var sb strings.Builder
	l.readChar()
	for l.ch != quote {
		if l.ch == '\n' || l.ch == 0 {
			return l.lexError("unterminated string", startLine, startCol)
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return l.emitLexeme(token.NAME, sb.String(), startLine, startCol)
}

func (l *Lexer) scanTripleQuoted(quote rune, startLine, startCol int) token.Token {
	run := 0
	for run < 3 {
		l.readChar()
		if l.ch == 0 {
			return l.lexError("unterminated triple-quoted string", startLine, startCol)
		}
		if l.ch == quote {
			run++
		} else {
			run = 0
		}
	}
	endLine, endCol := l.line, l.column
	l.readChar()
	return token.Token{Type: token.TRIPLEQUOTED, Lexeme: "", Line: startLine, Column: startCol, EndLine: endLine, EndCol: endCol}
}

func (l *Lexer) scanIdentifier() token.Token {
	startLine, startCol := l.line, l.column
	start := l.position
	endLine, endCol := l.line, l.column
	for isLetter(l.ch) || unicode.IsDigit(l.ch) {
		endLine, endCol = l.line, l.column
		l.readChar()
	}
	lexeme := l.input[start:l.position]
	return token.Token{
		Type:    token.LookupIdent(lexeme),
		Lexeme:  lexeme,
		Line:    startLine,
		Column:  startCol,
		EndLine: endLine,
		EndCol:  endCol,
	}
}

func (l *Lexer) scanNumber() token.Token {
	startLine, startCol := l.line, l.column
	start := l.position
	endLine, endCol := l.line, l.column
	for unicode.IsDigit(l.ch) {
		endLine, endCol = l.line, l.column
		l.readChar()
	}
	if l.ch == '.' && unicode.IsDigit(l.peekChar()) {
		endLine, endCol = l.line, l.column
		l.readChar()
		for unicode.IsDigit(l.ch) {
			endLine, endCol = l.line, l.column
			l.readChar()
		}
	}
	lexeme := l.input[start:l.position]
	return token.Token{
		Type:    token.NUMBER,
		Lexeme:  lexeme,
		Line:    startLine,
		Column:  startCol,
		EndLine: endLine,
		EndCol:  endCol,
	}
}

// emit builds a token whose lexeme is already fully consumed except the
// current char, which is its last char.
func (l *Lexer) emit(typ token.TokenType, lexeme string, startLine, startCol int) token.Token {
	endLine, endCol := l.line, l.column
	l.readChar()
	return token.Token{Type: typ, Lexeme: lexeme, Line: startLine, Column: startCol, EndLine: endLine, EndCol: endCol}
}

// emitLexeme is emit for tokens whose lexeme differs from the source text
// (quoted names).
func (l *Lexer) emitLexeme(typ token.TokenType, lexeme string, startLine, startCol int) token.Token {
	endLine, endCol := l.line, l.column
	l.readChar()
	return token.Token{Type: typ, Lexeme: lexeme, Line: startLine, Column: startCol, EndLine: endLine, EndCol: endCol}
}

func (l *Lexer) structural(typ token.TokenType) token.Token {
	return token.Token{Type: typ, Lexeme: string(typ), Line: l.line, Column: l.column, EndLine: l.line, EndCol: l.column}
}

func (l *Lexer) lexError(format string, line, col int, args ...interface{}) token.Token {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	l.ch = 0 // stop producing further tokens
	l.readPosition = len(l.input) + 1
	return token.Token{Type: token.LEXERROR, Lexeme: msg, Line: line, Column: col, EndLine: line, EndCol: col}
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}
