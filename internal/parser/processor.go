package parser

import (
	"github.com/typestub/typestub/internal/diagnostics"
	"github.com/typestub/typestub/internal/pipeline"
	"github.com/typestub/typestub/internal/token"
)

// ParserProcessor is the pipeline stage that turns the token stream into
// a resolved Unit.
type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.TokenStream == nil {
		ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrP001, token.Token{}, "parser: no token stream"))
		return ctx
	}

	parser := New(ctx.TokenStream, ctx)
	unit := parser.ParseUnit()
	if unit != nil {
		ctx.AstRoot = unit
	}
	for _, err := range ctx.Errors {
		if err.File == "" {
			err.File = ctx.FilePath
		}
	}
	return ctx
}
