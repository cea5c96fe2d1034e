package parser

import (
	"strconv"
	"strings"

	"github.com/typestub/typestub/internal/ast"
	"github.com/typestub/typestub/internal/token"
)

// Every parse function is entered with curToken on its first token and
// returns with curToken on its last consumed token.

func (p *Parser) parseModuleDecl() []ast.Declaration {
	switch p.curToken.Type {
	case token.CLASS:
		return p.wrap(p.parseClassDef())
	case token.DEF, token.AT:
		return p.wrap(p.parseFuncDef())
	case token.IF:
		return p.parseConditional(false)
	case token.IMPORT:
		return p.parseImport()
	case token.FROM:
		return p.wrap(p.parseFromImport())
	case token.NAME:
		return p.parseNameDecl(false)
	default:
		p.unexpected(p.curToken, "a declaration")
		return nil
	}
}

func (p *Parser) wrap(d ast.Declaration) []ast.Declaration {
	if p.aborted || d == nil {
		return nil
	}
	return startList(d)
}

// classdef := 'class' NAME parents? ':' classbody
// The class name is registered before the body is parsed.
func (p *Parser) parseClassDef() ast.Declaration {
	startTok := p.curToken
	if !p.expectPeek(token.NAME) {
		return nil
	}
	name := p.curToken.Lexeme
	p.builder.RegisterClassName(name)

	var parents []ast.Parent
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		if p.peekTokenIs(token.RPAREN) {
			p.nextToken()
		} else {
			for {
				p.nextToken()
				parent, ok := p.parseParent()
				if !ok {
					return nil
				}
				parents = appendList(parents, parent)
				if p.peekTokenIs(token.COMMA) {
					p.nextToken()
					continue
				}
				break
			}
			if !p.expectPeek(token.RPAREN) {
				return nil
			}
		}
	}

	if !p.expectPeek(token.COLON) {
		return nil
	}
	body := p.parseClassBody()
	if p.aborted {
		return nil
	}

	node, err := p.builder.NewClass(p.spanFrom(startTok), name, parents, body)
	if err != nil {
		p.report(err)
		return nil
	}
	return node
}

// parent := type | NAME '=' type (keyword parents such as metaclass=M)
func (p *Parser) parseParent() (ast.Parent, bool) {
	if p.curTokenIs(token.NAME) && p.peekTokenIs(token.ASSIGN) {
		keyword := p.curToken.Lexeme
		p.nextToken() // '='
		p.nextToken()
		typ := p.parseType()
		if p.aborted {
			return ast.Parent{}, false
		}
		return ast.Parent{Keyword: keyword, Type: typ}, true
	}
	typ := p.parseType()
	if p.aborted {
		return ast.Parent{}, false
	}
	return ast.Parent{Type: typ}, true
}

// classbody := pass-or-ellipsis | INDENT members DEDENT
// Members are constants, functions and nested conditionals only.
func (p *Parser) parseClassBody() []ast.Declaration {
	switch p.peekToken.Type {
	case token.PASS, token.ELLIPSIS, token.TRIPLEQUOTED:
		p.nextToken()
		return nil
	}
	if !p.expectPeek(token.INDENT) {
		return nil
	}
	p.nextToken()

	var decls []ast.Declaration
	for !p.curTokenIs(token.DEDENT) && !p.aborted {
		switch p.curToken.Type {
		case token.PASS, token.ELLIPSIS, token.TRIPLEQUOTED:
			// Empty-body markers and docstrings carry no declarations.
		case token.NAME:
			decls = extendList(decls, p.parseNameDecl(true))
		case token.DEF, token.AT:
			if d := p.parseFuncDef(); d != nil {
				decls = appendList(decls, d)
			}
		case token.IF:
			decls = extendList(decls, p.parseConditional(true))
		default:
			p.unexpected(p.curToken, "a class member")
			return nil
		}
		if p.aborted {
			return nil
		}
		p.nextToken()
	}
	return decls
}

// funcdef := decorator* 'def' NAME ( '(' params? ')' return? raises? body
//          | PYTHONCODE )
func (p *Parser) parseFuncDef() ast.Declaration {
	startTok := p.curToken

	var decorators []string
	for p.curTokenIs(token.AT) {
		p.nextToken()
		name, ok := p.parseDottedName()
		if !ok {
			return nil
		}
		decorators = appendList(decorators, name)
		p.nextToken()
	}

	if !p.curTokenIs(token.DEF) {
		p.unexpected(p.curToken, "'def'")
		return nil
	}

	if !p.expectPeek(token.NAME) {
		return nil
	}
	name := p.curToken.Lexeme

	if p.peekTokenIs(token.PYTHONCODE) {
		p.nextToken()
		node, err := p.builder.NewFunction(p.spanFrom(startTok), name, decorators, nil, nil, nil, ast.BodyExternal, nil)
		if err != nil {
			p.report(err)
			return nil
		}
		return node
	}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params := p.parseParams()
	if p.aborted {
		return nil
	}

	var ret ast.TypeExpr
	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		ret = p.parseType()
		if p.aborted {
			return nil
		}
	}

	var raises []ast.TypeExpr
	if p.peekTokenIs(token.RAISES) {
		p.nextToken()
		for {
			p.nextToken()
			typ := p.parseType()
			if p.aborted {
				return nil
			}
			raises = appendList(raises, typ)
			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
				continue
			}
			break
		}
	}

	body := ast.BodyEllipsis
	var mutations []*ast.Mutation
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		switch p.peekToken.Type {
		case token.ELLIPSIS, token.TRIPLEQUOTED:
			p.nextToken()
		case token.PASS:
			p.nextToken()
			body = ast.BodyPass
		case token.INDENT:
			body, mutations = p.parseFuncBody()
			if p.aborted {
				return nil
			}
		default:
			p.unexpected(p.peekToken, "a function body")
			return nil
		}
	}

	node, err := p.builder.NewFunction(p.spanFrom(startTok), name, decorators, params, ret, raises, body, mutations)
	if err != nil {
		p.report(err)
		return nil
	}
	return node
}

// params := param (',' param)*
func (p *Parser) parseParams() []*ast.Param {
	var params []*ast.Param
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}
	for {
		p.nextToken()
		param := p.parseParam()
		if p.aborted {
			return nil
		}
		params = appendList(params, param)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return params
}

// param := NAME type? default? | '*' | '*' NAME type? | '*' '*' NAME type?
//        | '...'
func (p *Parser) parseParam() *ast.Param {
	startTok := p.curToken
	switch p.curToken.Type {
	case token.ELLIPSIS:
		return &ast.Param{Loc: startTok.Loc(), Ellipsis: true}

	case token.ASTERISK:
		star := ast.StarSingle
		if p.peekTokenIs(token.ASTERISK) {
			p.nextToken()
			star = ast.StarDouble
		}
		if !p.peekTokenIs(token.NAME) {
			if star == ast.StarDouble {
				p.unexpected(p.peekToken, "a parameter name")
				return nil
			}
			// A lone '*' is a valid separator-only parameter.
			return &ast.Param{Loc: startTok.Loc(), Star: ast.StarSingle}
		}
		p.nextToken()
		name := p.curToken.Lexeme
		var typ ast.TypeExpr
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			typ = p.parseType()
			if p.aborted {
				return nil
			}
		}
		return &ast.Param{Loc: p.spanFrom(startTok), Name: name, Type: typ, Star: star}

	case token.NAME:
		name := p.curToken.Lexeme
		var typ ast.TypeExpr
		hasDefault := false
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			typ = p.parseType()
			if p.aborted {
				return nil
			}
		}
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			switch p.peekToken.Type {
			case token.NAME, token.NUMBER, token.ELLIPSIS:
				p.nextToken()
				hasDefault = true
			default:
				p.unexpected(p.peekToken, "a default value")
				return nil
			}
		}
		return &ast.Param{Loc: p.spanFrom(startTok), Name: name, Type: typ, HasDefault: hasDefault}

	default:
		p.unexpected(p.curToken, "a parameter")
		return nil
	}
}

// body := INDENT body_stmt+ DEDENT where
// body_stmt := '...' | 'pass' | TRIPLEQUOTED | NAME ':=' type
//            | 'raise' dotted_name ('(' ')')?
func (p *Parser) parseFuncBody() (ast.BodyMarker, []*ast.Mutation) {
	body := ast.BodyEllipsis
	var mutations []*ast.Mutation
	if !p.expectPeek(token.INDENT) {
		return body, nil
	}
	p.nextToken()
	for !p.curTokenIs(token.DEDENT) && !p.aborted {
		switch p.curToken.Type {
		case token.ELLIPSIS, token.TRIPLEQUOTED:
			// Placeholder body.
		case token.PASS:
			body = ast.BodyPass
		case token.NAME:
			startTok := p.curToken
			name := p.curToken.Lexeme
			if !p.expectPeek(token.COLONEQUALS) {
				return body, nil
			}
			p.nextToken()
			typ := p.parseType()
			if p.aborted {
				return body, nil
			}
			mutations = appendList(mutations, &ast.Mutation{Loc: p.spanFrom(startTok), Name: name, Type: typ})
		case token.RAISE:
			// Exceptions come from the raises clause; body raises are
			// consumed and discarded.
			p.nextToken()
			if _, ok := p.parseDottedName(); !ok {
				return body, nil
			}
			if p.peekTokenIs(token.LPAREN) {
				p.nextToken()
				if !p.expectPeek(token.RPAREN) {
					return body, nil
				}
			}
		default:
			p.unexpected(p.curToken, "a body statement")
			return body, nil
		}
		p.nextToken()
	}
	return body, mutations
}

// parseNameDecl handles declarations introduced by a bare NAME: typed
// constants, value constants, type aliases and TypeVar definitions.
func (p *Parser) parseNameDecl(classScope bool) []ast.Declaration {
	startTok := p.curToken
	name := p.curToken.Lexeme

	switch p.peekToken.Type {
	case token.COLON:
		// NAME ':' type ('=' '...')?
		p.nextToken()
		p.nextToken()
		typ := p.parseType()
		if p.aborted {
			return nil
		}
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			if !p.expectPeek(token.ELLIPSIS) {
				return nil
			}
		}
		node, err := p.builder.NewConstant(p.spanFrom(startTok), name, typ)
		if err != nil {
			p.report(err)
			return nil
		}
		return p.wrap(node)

	case token.ASSIGN:
		p.nextToken()
		switch p.peekToken.Type {
		case token.NUMBER:
			p.nextToken()
			node, err := p.builder.NewConstantFromNumber(p.spanFrom(startTok), name, p.curToken.Lexeme)
			if err != nil {
				p.report(err)
				return nil
			}
			return p.wrap(node)

		case token.ELLIPSIS:
			p.nextToken()
			var typ ast.TypeExpr
			if p.peekTokenIs(token.TYPECOMMENT) {
				p.nextToken()
				p.nextToken()
				typ = p.parseType()
				if p.aborted {
					return nil
				}
			}
			node, err := p.builder.NewConstant(p.spanFrom(startTok), name, typ)
			if err != nil {
				p.report(err)
				return nil
			}
			return p.wrap(node)

		case token.TYPEVAR:
			if classScope {
				p.unexpected(p.peekToken, "a constant value")
				return nil
			}
			p.nextToken()
			return p.wrap(p.parseTypeVarDef(startTok, name))

		default:
			if classScope {
				p.unexpected(p.peekToken, "a constant value")
				return nil
			}
			p.nextToken()
			typ := p.parseType()
			if p.aborted {
				return nil
			}
			node, err := p.builder.NewAlias(p.spanFrom(startTok), name, typ)
			if err != nil {
				p.report(err)
				return nil
			}
			return p.wrap(node)
		}

	default:
		p.unexpected(p.peekToken, "':' or '='")
		return nil
	}
}

// typevardef := NAME '=' 'TypeVar' '(' NAME (',' type)* ')'
func (p *Parser) parseTypeVarDef(startTok token.Token, name string) ast.Declaration {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	if !p.expectPeek(token.NAME) {
		return nil
	}
	quoted := p.curToken.Lexeme
	var constraints []ast.TypeExpr
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		typ := p.parseType()
		if p.aborted {
			return nil
		}
		constraints = appendList(constraints, typ)
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	node, err := p.builder.NewTypeVar(p.spanFrom(startTok), name, quoted, constraints)
	if err != nil {
		p.report(err)
		return nil
	}
	return node
}

// importdef := 'import' import_item (',' import_item)*
// Each item becomes its own Import declaration.
func (p *Parser) parseImport() []ast.Declaration {
	var decls []ast.Declaration
	for {
		p.nextToken()
		itemTok := p.curToken
		module, ok := p.parseDottedName()
		if !ok {
			return nil
		}
		alias := ""
		if p.peekTokenIs(token.AS) {
			p.nextToken()
			if !p.expectPeek(token.NAME) {
				return nil
			}
			alias = p.curToken.Lexeme
		}
		node, err := p.builder.NewImport(p.spanFrom(itemTok), module, alias)
		if err != nil {
			p.report(err)
			return nil
		}
		decls = appendList(decls, ast.Declaration(node))
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		return decls
	}
}

// fromimport := 'from' dotted_name 'import' from_list
func (p *Parser) parseFromImport() ast.Declaration {
	startTok := p.curToken
	p.nextToken()
	module, ok := p.parseDottedName()
	if !ok {
		return nil
	}
	if !p.expectPeek(token.IMPORT) {
		return nil
	}

	paren := false
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		paren = true
	}

	var items []ast.ImportItem
	for {
		p.nextToken()
		if paren && p.curTokenIs(token.RPAREN) {
			break // trailing comma
		}
		var name string
		switch p.curToken.Type {
		case token.NAME, token.NAMEDTUPLE, token.TYPEVAR:
			name = p.curToken.Lexeme
		case token.ASTERISK:
			name = "*"
		default:
			p.unexpected(p.curToken, "an import item")
			return nil
		}
		alias := ""
		if p.peekTokenIs(token.AS) {
			p.nextToken()
			if !p.expectPeek(token.NAME) {
				return nil
			}
			alias = p.curToken.Lexeme
		}
		items = appendList(items, ast.ImportItem{Name: name, Alias: alias})
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if paren && !p.curTokenIs(token.RPAREN) {
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
	}

	node, err := p.builder.NewFromImport(p.spanFrom(startTok), module, items)
	if err != nil {
		p.report(err)
		return nil
	}
	return node
}

// conditional := 'if' condition ':' block elif* else?
// Resolved immediately: only the winning branch's declarations survive.
func (p *Parser) parseConditional(classScope bool) []ast.Declaration {
	startTok := p.curToken
	p.builder.IfBegin()

	cond := p.parseCondition()
	if p.aborted {
		return nil
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	body := p.parseBlock(classScope)
	if p.aborted {
		return nil
	}
	branches := startList(ast.Branch{Cond: cond, Body: body})

	for p.peekTokenIs(token.ELIF) {
		p.nextToken()
		p.builder.IfElif()
		cond := p.parseCondition()
		if p.aborted {
			return nil
		}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		body := p.parseBlock(classScope)
		if p.aborted {
			return nil
		}
		branches = appendList(branches, ast.Branch{Cond: cond, Body: body})
	}

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		p.builder.IfElse()
		if !p.expectPeek(token.COLON) {
			return nil
		}
		body := p.parseBlock(classScope)
		if p.aborted {
			return nil
		}
		branches = appendList(branches, ast.Branch{Body: body})
	}

	block := &ast.ConditionalBlock{Loc: p.spanFrom(startTok), Branches: branches}
	decls, err := p.builder.IfEnd(block)
	if err != nil {
		p.report(err)
		return nil
	}
	return decls
}

// condition := dotted_name op version_tuple | dotted_name op NUMBER
func (p *Parser) parseCondition() *ast.Condition {
	p.nextToken()
	startTok := p.curToken
	left, ok := p.parseDottedName()
	if !ok {
		return nil
	}

	var op string
	switch p.peekToken.Type {
	case token.LT, token.GT, token.LE, token.GE, token.EQ, token.NE:
		p.nextToken()
		op = p.curToken.Lexeme
	default:
		p.unexpected(p.peekToken, "a comparison operator")
		return nil
	}

	var right []int
	switch p.peekToken.Type {
	case token.LPAREN:
		p.nextToken()
		for {
			if !p.expectPeek(token.NUMBER) {
				return nil
			}
			n, err := strconv.Atoi(p.curToken.Lexeme)
			if err != nil {
				p.unexpected(p.curToken, "an integer version component")
				return nil
			}
			right = appendList(right, n)
			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
				if p.peekTokenIs(token.RPAREN) {
					p.nextToken()
					break
				}
				continue
			}
			if !p.expectPeek(token.RPAREN) {
				return nil
			}
			break
		}
	case token.NUMBER:
		p.nextToken()
		for _, part := range strings.Split(p.curToken.Lexeme, ".") {
			n, err := strconv.Atoi(part)
			if err != nil {
				p.unexpected(p.curToken, "an integer version component")
				return nil
			}
			right = appendList(right, n)
		}
	default:
		p.unexpected(p.peekToken, "a version tuple")
		return nil
	}

	return &ast.Condition{Loc: p.spanFrom(startTok), Left: left, Op: op, Right: right}
}

// block := INDENT declaration+ DEDENT
func (p *Parser) parseBlock(classScope bool) []ast.Declaration {
	if !p.expectPeek(token.INDENT) {
		return nil
	}
	p.nextToken()
	var decls []ast.Declaration
	for !p.curTokenIs(token.DEDENT) && !p.aborted {
		var ds []ast.Declaration
		if classScope {
			ds = p.parseClassScopedDecl()
		} else {
			ds = p.parseModuleDecl()
		}
		if p.aborted {
			return nil
		}
		decls = extendList(decls, ds)
		p.nextToken()
	}
	return decls
}

// parseClassScopedDecl restricts a conditional branch inside a class body
// to class members.
func (p *Parser) parseClassScopedDecl() []ast.Declaration {
	switch p.curToken.Type {
	case token.NAME:
		return p.parseNameDecl(true)
	case token.DEF, token.AT:
		return p.wrap(p.parseFuncDef())
	case token.IF:
		return p.parseConditional(true)
	case token.PASS, token.ELLIPSIS:
		return nil
	default:
		p.unexpected(p.curToken, "a class member")
		return nil
	}
}
