package pipeline

import (
	"github.com/typestub/typestub/internal/ast"
	"github.com/typestub/typestub/internal/diagnostics"
	"github.com/typestub/typestub/internal/token"
	"github.com/typestub/typestub/internal/version"
)

// PipelineContext carries one file through the stages. Contexts are never
// shared between files; each parse owns its own lexer, stream and builder
// state.
type PipelineContext struct {
	SourceCode    string
	FilePath      string
	TargetVersion version.Version
	TokenStream   *token.Stream
	AstRoot       ast.Node
	Errors        []*diagnostics.DiagnosticError
}

// NewPipelineContext creates a context for one source file targeting the
// given version.
func NewPipelineContext(sourceCode string, target version.Version) *PipelineContext {
	return &PipelineContext{
		SourceCode:    sourceCode,
		TargetVersion: target,
	}
}

// Failed reports whether any stage has recorded an error.
func (ctx *PipelineContext) Failed() bool {
	return len(ctx.Errors) > 0
}

// Processor is one pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline, stopping after the first stage that records
// an error. One input yields exactly one Unit or exactly one error.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		if ctx.Failed() {
			break
		}
	}
	return ctx
}
