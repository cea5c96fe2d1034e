package parser

import (
	"github.com/typestub/typestub/internal/ast"
	"github.com/typestub/typestub/internal/diagnostics"
	"github.com/typestub/typestub/internal/pipeline"
	"github.com/typestub/typestub/internal/token"
)

// Parser is the grammar engine: a deterministic recursive-descent
// automaton over the stub grammar with exactly one token of lookahead.
// The first failure aborts the parse; no partial Unit is ever produced
// and no recovery is attempted.
type Parser struct {
	stream  *token.Stream
	ctx     *pipeline.PipelineContext
	builder *Builder

	curToken  token.Token
	peekToken token.Token
	aborted   bool
}

func New(stream *token.Stream, ctx *pipeline.PipelineContext) *Parser {
	p := &Parser{
		stream:  stream,
		ctx:     ctx,
		builder: NewBuilder(ctx.TargetVersion),
	}
	// Prime curToken and peekToken.
	p.nextToken()
	p.nextToken()
	return p
}

// ParseUnit consumes the whole stream and returns the Unit, or nil after
// recording exactly one located error.
func (p *Parser) ParseUnit() *ast.Unit {
	// A leading triple-quoted module docstring is opaque.
	if p.curTokenIs(token.TRIPLEQUOTED) {
		p.nextToken()
	}

	for !p.curTokenIs(token.EOF) {
		decls := p.parseModuleDecl()
		if p.aborted {
			return nil
		}
		p.builder.Append(decls...)
		p.nextToken()
	}

	unit := p.builder.TakeUnit()
	unit.File = p.ctx.FilePath
	return unit
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.stream.Next()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.unexpected(p.peekToken, string(t))
	return false
}

// unexpected records a grammar failure at the offending token. A LEXERROR
// token surfaces its diagnostic text verbatim instead.
func (p *Parser) unexpected(tok token.Token, expected string) {
	if tok.Type == token.LEXERROR {
		p.report(diagnostics.NewError(diagnostics.ErrL001, tok, "%s", tok.Lexeme))
		return
	}
	lexeme := tok.Lexeme
	if lexeme == "" {
		lexeme = string(tok.Type)
	}
	p.report(diagnostics.NewError(diagnostics.ErrP001, tok, "unexpected %q, expected %s", lexeme, expected))
}

// report funnels any failure into the single error channel. Only the
// first failure is kept.
func (p *Parser) report(err *diagnostics.DiagnosticError) {
	if !p.aborted {
		p.ctx.Errors = append(p.ctx.Errors, err)
	}
	p.aborted = true
}

// spanFrom builds a node span from a start token to the current token.
func (p *Parser) spanFrom(start token.Token) token.Location {
	return token.Span(start.Loc(), p.curToken.Loc())
}

// parseDottedName parses NAME ('.' NAME)* with curToken on the first
// NAME, leaving curToken on the last NAME.
func (p *Parser) parseDottedName() (string, bool) {
	if !p.curTokenIs(token.NAME) {
		p.unexpected(p.curToken, "a name")
		return "", false
	}
	name := p.curToken.Lexeme
	for p.peekTokenIs(token.DOT) {
		p.nextToken()
		if !p.expectPeek(token.NAME) {
			return "", false
		}
		name += "." + p.curToken.Lexeme
	}
	return name, true
}
