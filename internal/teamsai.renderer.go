package internal

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// MemoryAccessor is the state the renderer reads variables from and writes
// the code block output to. Scope and property names are case-insensitive.
type MemoryAccessor interface {
	HasScope(name string) bool
	Get(path string) (any, bool)
	Set(path string, value any) error
}

// ActivityAccessor resolves properties of the triggering activity.
type ActivityAccessor interface {
	Property(name string) (any, bool)
}

// FunctionInvoker calls a named template function with resolved arguments.
type FunctionInvoker interface {
	InvokeFunction(ctx context.Context, name string, args []any) (any, error)
}

// RenderScope bundles the per-call collaborators of a render.
// Any field may be nil: a nil Memory has no scopes, a nil Activity has no
// properties and a nil Functions fails every code block.
type RenderScope struct {
	Memory    MemoryAccessor
	Activity  ActivityAccessor
	Functions FunctionInvoker
}

// Renderer walks a block sequence and produces text. It holds no per-render
// state and is safe for concurrent use.
type Renderer struct {
	logger *zap.Logger
}

// NewRenderer creates a renderer.
func NewRenderer(logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgRendererCreated)
	return &Renderer{logger: logger}
}

// Render renders every block in order and concatenates the results.
func (r *Renderer) Render(ctx context.Context, scope RenderScope, blocks []Block) (string, error) {
	r.logger.Debug(LogMsgRenderStart, zap.Int(LogFieldBlocks, len(blocks)))

	var sb strings.Builder
	for _, b := range blocks {
		out, err := r.renderBlock(ctx, scope, b)
		if err != nil {
			return StringValueEmpty, err
		}
		sb.WriteString(out)
	}

	r.logger.Debug(LogMsgRenderEnd, zap.Int(LogFieldOutputLen, sb.Len()))
	return sb.String(), nil
}

// renderBlock renders a single block.
func (r *Renderer) renderBlock(ctx context.Context, scope RenderScope, b Block) (string, error) {
	switch blk := b.(type) {
	case *TextBlock:
		return blk.Content(), nil
	case *VarBlock:
		return r.renderVariable(scope, blk)
	case *CodeBlock:
		return r.renderCode(ctx, scope, blk)
	default:
		return StringValueEmpty, NewUnsupportedBlockError(blockTypeOf(b))
	}
}

// RenderVariables returns a copy of blocks with every variable block replaced
// by a text block holding its value. Code blocks are not executed.
func (r *Renderer) RenderVariables(scope RenderScope, blocks []Block) ([]Block, error) {
	result := make([]Block, len(blocks))
	for i, b := range blocks {
		v, ok := b.(*VarBlock)
		if !ok {
			result[i] = b
			continue
		}
		out, err := r.renderVariable(scope, v)
		if err != nil {
			return nil, err
		}
		result[i] = NewTextBlock(out)
	}
	return result, nil
}

// RenderCode returns a copy of blocks with every code block replaced by a
// text block holding its result. Code blocks run in order.
func (r *Renderer) RenderCode(ctx context.Context, scope RenderScope, blocks []Block) ([]Block, error) {
	result := make([]Block, len(blocks))
	for i, b := range blocks {
		c, ok := b.(*CodeBlock)
		if !ok {
			result[i] = b
			continue
		}
		out, err := r.renderCode(ctx, scope, c)
		if err != nil {
			return nil, err
		}
		result[i] = NewTextBlock(out)
	}
	return result, nil
}

func (r *Renderer) renderVariable(scope RenderScope, v *VarBlock) (string, error) {
	value, err := ResolveVariable(scope, v.Name())
	if err != nil {
		return StringValueEmpty, err
	}
	out, err := FormatValue(value)
	if err != nil {
		return StringValueEmpty, err
	}
	if out == StringValueEmpty {
		r.logger.Debug(LogMsgVariableEmpty, zap.String(LogFieldVariable, v.Name()))
	} else {
		r.logger.Debug(LogMsgVariableResolved, zap.String(LogFieldVariable, v.Name()))
	}
	return out, nil
}

func (r *Renderer) renderCode(ctx context.Context, scope RenderScope, c *CodeBlock) (string, error) {
	if err := c.Validate(); err != nil {
		return StringValueEmpty, err
	}
	if err := ctx.Err(); err != nil {
		return StringValueEmpty, err
	}
	if scope.Functions == nil {
		return StringValueEmpty, NewSyntaxError(ErrMsgNoFunctionInvoker, c.FunctionName(), BlockTypeCode)
	}

	params := c.Params()
	args := make([]any, len(params))
	for i, p := range params {
		value, err := ResolveVariable(scope, p[1:])
		if err != nil {
			return StringValueEmpty, err
		}
		args[i] = value
	}

	name := c.FunctionName()
	r.logger.Debug(LogMsgFunctionInvoked, zap.String(LogFieldFunction, name), zap.Int(LogFieldArgs, len(args)))

	result, err := scope.Functions.InvokeFunction(ctx, name, args)
	if err != nil {
		// Function errors propagate unchanged.
		return StringValueEmpty, err
	}

	out, err := FormatValue(result)
	if err != nil {
		return StringValueEmpty, err
	}

	if scope.Memory != nil {
		if err := scope.Memory.Set(PathTempOutput, out); err != nil {
			return StringValueEmpty, err
		}
	}

	r.logger.Debug(LogMsgFunctionComplete, zap.String(LogFieldFunction, name), zap.Int(LogFieldOutputLen, len(out)))
	return out, nil
}

// ResolveVariable resolves a variable name ("property" or "scope.property").
// A bare property lives in the temp scope. The activity scope reads the
// triggering activity. An unknown scope is an error; an unknown property in a
// known scope resolves to nil.
func ResolveVariable(scope RenderScope, name string) (any, error) {
	parts := strings.Split(name, PathSeparator)
	var scopeName, property string
	switch len(parts) {
	case 1:
		scopeName, property = ScopeTemp, parts[0]
	case MaxPathSegments:
		scopeName, property = parts[0], parts[1]
	default:
		return nil, NewUndefinedVariableError(ErrMsgUnsupportedPath, name, StringValueEmpty)
	}

	if strings.EqualFold(scopeName, ScopeActivity) {
		if scope.Activity == nil {
			return nil, nil
		}
		value, _ := scope.Activity.Property(property)
		return value, nil
	}

	if scope.Memory == nil || !scope.Memory.HasScope(scopeName) {
		return nil, NewUndefinedVariableError(ErrMsgUndefinedVariable, name, scopeName)
	}

	value, _ := scope.Memory.Get(scopeName + PathSeparator + property)
	return value, nil
}

func blockTypeOf(b Block) BlockType {
	if b == nil {
		return BlockTypeUndefined
	}
	return b.Type()
}
