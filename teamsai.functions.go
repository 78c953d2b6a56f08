package teamsai

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/itsatony/go-teamsai/internal"
)

// PromptFunction is a template function invoked by a code block.
// Args holds the resolved values of the block's $parameters, in order.
type PromptFunction func(ctx context.Context, turn *TurnContext, memory Memory, args []any) (any, error)

// FunctionRegistry maps function names to PromptFunctions. It is safe for
// concurrent use. Names are case-sensitive.
type FunctionRegistry struct {
	mu      sync.RWMutex
	funcs   map[string]PromptFunction
	metrics *Metrics
	logger  *zap.Logger
}

// RegistryOption configures a FunctionRegistry.
type RegistryOption func(*FunctionRegistry)

// WithRegistryLogger sets the registry logger.
func WithRegistryLogger(logger *zap.Logger) RegistryOption {
	return func(r *FunctionRegistry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRegistryMetrics records invocation and truncation metrics.
func WithRegistryMetrics(metrics *Metrics) RegistryOption {
	return func(r *FunctionRegistry) {
		r.metrics = metrics
	}
}

// NewFunctionRegistry creates an empty registry.
func NewFunctionRegistry(opts ...RegistryOption) *FunctionRegistry {
	r := &FunctionRegistry{
		funcs:  make(map[string]PromptFunction),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a function. The first registration of a name wins; later
// ones return an error and leave the existing function in place.
func (r *FunctionRegistry) Register(name string, fn PromptFunction) error {
	if name == "" {
		return NewFunctionRegistryError(ErrMsgFunctionEmptyName, name)
	}
	if !internal.IsValidName(name) {
		return NewFunctionRegistryError(ErrMsgFunctionBadName, name)
	}
	if fn == nil {
		return NewFunctionRegistryError(ErrMsgFunctionNil, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.funcs[name]; exists {
		r.logger.Warn(LogMsgFunctionCollision, zap.String(LogFieldFunction, name))
		return NewFunctionRegistryError(ErrMsgFunctionExists, name)
	}

	r.funcs[name] = fn
	r.logger.Debug(LogMsgFunctionRegistered, zap.String(LogFieldFunction, name))
	return nil
}

// MustRegister adds a function and panics on error.
func (r *FunctionRegistry) MustRegister(name string, fn PromptFunction) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Has checks if a function is registered.
func (r *FunctionRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.funcs[name]
	return ok
}

// List returns the registered function names in sorted order.
func (r *FunctionRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered functions.
func (r *FunctionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.funcs)
}

// Invoke calls a registered function. Errors returned by the function are
// passed through unchanged.
func (r *FunctionRegistry) Invoke(ctx context.Context, name string, turn *TurnContext, memory Memory, args []any) (any, error) {
	r.mu.RLock()
	fn, ok := r.funcs[name]
	r.mu.RUnlock()

	if !ok {
		r.logger.Debug(LogMsgFunctionNotFound, zap.String(LogFieldFunction, name))
		r.metrics.observeFunction(name, MetricStatusError)
		return nil, NewFunctionNotFoundError(name)
	}

	start := time.Now()
	result, err := fn(ctx, turn, memory, args)
	if err != nil {
		r.metrics.observeFunction(name, MetricStatusError)
		return nil, err
	}
	r.logger.Debug(LogMsgFunctionInvoked,
		zap.String(LogFieldFunction, name),
		zap.Duration(LogFieldDuration, time.Since(start)))
	r.metrics.observeFunction(name, MetricStatusOK)
	return result, nil
}

// DataSource renders text within a token budget.
type DataSource interface {
	Name() string
	Render(maxTokens int) RenderedText
}

// RegisterDataSource exposes a data source as a template function named
// after the source. The function returns the rendered text; truncations are
// logged and counted.
func (r *FunctionRegistry) RegisterDataSource(source DataSource, maxTokens int) error {
	if source == nil {
		return NewFunctionRegistryError(ErrMsgDataSourceNil, "")
	}
	name := source.Name()
	return r.Register(name, func(ctx context.Context, _ *TurnContext, _ Memory, _ []any) (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rendered := source.Render(maxTokens)
		if rendered.TooLong {
			r.logger.Debug(LogMsgDataSourceTruncated,
				zap.String(LogFieldSource, name),
				zap.Int(LogFieldTokens, rendered.Length),
				zap.Int(LogFieldMaxTokens, maxTokens))
			r.metrics.observeTruncation(name)
		}
		return rendered.Output, nil
	})
}
