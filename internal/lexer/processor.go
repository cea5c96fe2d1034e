package lexer

import (
	"github.com/typestub/typestub/internal/pipeline"
	"github.com/typestub/typestub/internal/token"
)

// LexerProcessor is the pipeline stage that turns source text into a
// buffered token stream. Tokenization runs eagerly; a LEXERROR token is
// kept in the stream so the parser can surface its message verbatim.
type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	ctx.TokenStream = token.NewStream(Tokenize(ctx.SourceCode))
	return ctx
}

// Tokenize runs the lexer to completion, ending with a LEXERROR or EOF
// token.
func Tokenize(input string) []token.Token {
	l := New(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF || tok.Type == token.LEXERROR {
			return tokens
		}
	}
}
