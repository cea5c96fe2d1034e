package parser

import (
	"github.com/typestub/typestub/internal/ast"
	"github.com/typestub/typestub/internal/token"
)

// parseType parses a full type expression including `or` unions. Union
// chains nest to the left; flattening is a consumer concern.
func (p *Parser) parseType() ast.TypeExpr {
	left := p.parseSingleType()
	if p.aborted {
		return nil
	}
	for p.peekTokenIs(token.OR) {
		p.nextToken()
		p.nextToken()
		right := p.parseSingleType()
		if p.aborted {
			return nil
		}
		node, err := p.builder.NewUnionType(token.Span(left.Span(), right.Span()), left, right)
		if err != nil {
			p.report(err)
			return nil
		}
		left = node
	}
	return left
}

// parseSingleType parses one non-union type expression.
func (p *Parser) parseSingleType() ast.TypeExpr {
	switch p.curToken.Type {
	case token.NAME:
		return p.parseNamedOrGenericType()

	case token.NAMEDTUPLE:
		return p.parseNamedTupleType()

	case token.QUESTION:
		return &ast.AnythingType{Loc: p.curToken.Loc()}

	case token.NOTHING:
		return &ast.NothingType{Loc: p.curToken.Loc()}

	case token.LPAREN:
		p.nextToken()
		typ := p.parseType()
		if p.aborted {
			return nil
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return typ

	case token.LBRACKET:
		return p.parseTupleShorthand()

	default:
		p.unexpected(p.curToken, "a type")
		return nil
	}
}

// parseNamedOrGenericType parses dotted_name ('[' type_args ']')?.
func (p *Parser) parseNamedOrGenericType() ast.TypeExpr {
	startTok := p.curToken
	dotted, ok := p.parseDottedName()
	if !ok {
		return nil
	}

	var args []ast.TypeExpr
	if p.peekTokenIs(token.LBRACKET) {
		p.nextToken()
		args = []ast.TypeExpr{}
		var parsed bool
		args, parsed = p.parseTypeArgs(args)
		if !parsed {
			return nil
		}
	}

	node, err := p.builder.NewType(p.spanFrom(startTok), dotted, args)
	if err != nil {
		p.report(err)
		return nil
	}
	return node
}

// parseTypeArgs consumes the bracketed argument list with curToken on
// '[', leaving curToken on ']'. A trailing comma is accepted.
func (p *Parser) parseTypeArgs(args []ast.TypeExpr) ([]ast.TypeExpr, bool) {
	for {
		p.nextToken()
		if p.curTokenIs(token.RBRACKET) {
			return args, true
		}
		arg := p.parseTypeArg()
		if p.aborted {
			return nil, false
		}
		args = appendList(args, arg)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(token.RBRACKET) {
			return nil, false
		}
		return args, true
	}
}

// parseTypeArg parses one generic argument; a bare '...' is legal here
// (tuple[int, ...], Callable[..., int]) but not as a standalone type.
func (p *Parser) parseTypeArg() ast.TypeExpr {
	if p.curTokenIs(token.ELLIPSIS) {
		return &ast.EllipsisType{Loc: p.curToken.Loc()}
	}
	return p.parseType()
}

// parseTupleShorthand parses '[' types? ']' as sugar for a tuple generic.
func (p *Parser) parseTupleShorthand() ast.TypeExpr {
	startTok := p.curToken
	args, ok := p.parseTypeArgs(nil)
	if !ok {
		return nil
	}
	loc := p.spanFrom(startTok)
	if len(args) == 0 {
		return &ast.NamedType{Loc: loc, Name: "tuple"}
	}
	node, err := p.builder.NewType(loc, "tuple", args)
	if err != nil {
		p.report(err)
		return nil
	}
	return node
}

// parseNamedTupleType parses the inline literal
// NamedTuple('Name', [('field', type), ...]).
func (p *Parser) parseNamedTupleType() ast.TypeExpr {
	startTok := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	if !p.expectPeek(token.NAME) {
		return nil
	}
	name := p.curToken.Lexeme
	if !p.expectPeek(token.COMMA) {
		return nil
	}
	if !p.expectPeek(token.LBRACKET) {
		return nil
	}

	var fields []ast.NamedTupleField
	closed := false
	for !closed {
		p.nextToken()
		if p.curTokenIs(token.RBRACKET) {
			closed = true
			break
		}
		if !p.curTokenIs(token.LPAREN) {
			p.unexpected(p.curToken, "'('")
			return nil
		}
		if !p.expectPeek(token.NAME) {
			return nil
		}
		fieldName := p.curToken.Lexeme
		if !p.expectPeek(token.COMMA) {
			return nil
		}
		p.nextToken()
		fieldType := p.parseType()
		if p.aborted {
			return nil
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		fields = appendList(fields, ast.NamedTupleField{Name: fieldName, Type: fieldType})
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
		closed = true
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	node, err := p.builder.NewNamedTuple(p.spanFrom(startTok), name, fields)
	if err != nil {
		p.report(err)
		return nil
	}
	return node
}
