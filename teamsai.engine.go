package teamsai

import (
	"context"
	"reflect"
	"time"

	"go.uber.org/zap"

	"github.com/itsatony/go-teamsai/internal"
)

// Functions invokes template functions by name.
// FunctionRegistry is the standard implementation.
type Functions interface {
	Invoke(ctx context.Context, name string, turn *TurnContext, memory Memory, args []any) (any, error)
}

// Engine extracts and renders prompt templates. It holds no per-render state:
// memory, turn and functions are passed to every call, so one Engine can be
// shared by concurrent turns.
type Engine struct {
	config   *engineConfig
	renderer *internal.Renderer
	logger   *zap.Logger
}

// New creates a new Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgEngineCreated)

	return &Engine{
		config:   config,
		renderer: internal.NewRenderer(logger),
		logger:   logger,
	}, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// ExtractBlocks splits template text into blocks, validating them unless the
// engine was created WithValidation(false).
func (e *Engine) ExtractBlocks(text string) ([]Block, error) {
	return e.extract(text, e.config.validate)
}

// ExtractBlocksWith splits template text into blocks with explicit validation.
// On a validation failure no blocks are returned.
func (e *Engine) ExtractBlocksWith(text string, validate bool) ([]Block, error) {
	return e.extract(text, validate)
}

func (e *Engine) extract(text string, validate bool) ([]Block, error) {
	extract := func() ([]Block, error) {
		blocks, err := internal.ExtractBlocks(text, validate, e.logger)
		return blocks, translateError(err)
	}
	if e.config.cache != nil {
		return e.config.cache.GetOrExtract(text, validate, extract)
	}
	return extract()
}

// Render extracts and renders template text.
func (e *Engine) Render(ctx context.Context, turn *TurnContext, memory Memory, funcs Functions, text string) (string, error) {
	blocks, err := e.ExtractBlocks(text)
	if err != nil {
		e.config.metrics.observeRender(MetricStatusError, 0)
		return "", err
	}
	return e.RenderBlocks(ctx, turn, memory, funcs, blocks)
}

// RenderBlocks renders a previously extracted block sequence in order.
func (e *Engine) RenderBlocks(ctx context.Context, turn *TurnContext, memory Memory, funcs Functions, blocks []Block) (string, error) {
	start := time.Now()
	out, err := e.renderer.Render(ctx, e.scope(turn, memory, funcs), blocks)
	elapsed := time.Since(start)
	if err != nil {
		e.logger.Debug(LogMsgRenderFailed, zap.Error(err), zap.Duration(LogFieldDuration, elapsed))
		e.config.metrics.observeRender(MetricStatusError, elapsed)
		return "", translateError(err)
	}
	e.config.metrics.observeRender(MetricStatusOK, elapsed)
	return out, nil
}

// RenderVariables returns a new block list with every variable block replaced
// by a text block holding its value. No functions are called.
func (e *Engine) RenderVariables(turn *TurnContext, memory Memory, blocks []Block) ([]Block, error) {
	out, err := e.renderer.RenderVariables(e.scope(turn, memory, nil), blocks)
	return out, translateError(err)
}

// RenderCode returns a new block list with every code block replaced by a
// text block holding its result.
func (e *Engine) RenderCode(ctx context.Context, turn *TurnContext, memory Memory, funcs Functions, blocks []Block) ([]Block, error) {
	out, err := e.renderer.RenderCode(ctx, e.scope(turn, memory, funcs), blocks)
	return out, translateError(err)
}

// scope adapts the public collaborators to the internal renderer. A typed
// nil memory or function set is treated as absent.
func (e *Engine) scope(turn *TurnContext, memory Memory, funcs Functions) internal.RenderScope {
	var scope internal.RenderScope
	if isNilInterface(memory) {
		memory = nil
	} else {
		scope.Memory = memory
	}
	if turn != nil && turn.Activity() != nil {
		scope.Activity = turn.Activity()
	}
	if !isNilInterface(funcs) {
		scope.Functions = &functionInvoker{funcs: funcs, turn: turn, memory: memory}
	}
	return scope
}

// functionInvoker binds the turn and memory of one render call.
type functionInvoker struct {
	funcs  Functions
	turn   *TurnContext
	memory Memory
}

func (f *functionInvoker) InvokeFunction(ctx context.Context, name string, args []any) (any, error) {
	return f.funcs.Invoke(ctx, name, f.turn, f.memory, args)
}

func isNilInterface(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
