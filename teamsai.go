// Package teamsai renders LLM prompt templates against conversation state.
//
// Templates mix literal text with two kinds of blocks delimited by {{ and }}:
//
//	Hello {{$user.name}}, you said: {{$activity.text}}
//	Here is what I found: {{ search $temp.query }}
//
// A block whose content starts with '$' is a variable reference: either a
// bare property ("$query", read from the temp scope) or "$scope.property".
// Any other block is a function call: the first token is a registered
// function name and the remaining tokens are variables passed as arguments.
// The most recent function result is also written to temp.output.
//
// # Basic Usage
//
//	engine := teamsai.MustNew()
//	funcs := teamsai.NewFunctionRegistry()
//	funcs.MustRegister("echo", func(ctx context.Context, turn *teamsai.TurnContext, mem teamsai.Memory, args []any) (any, error) {
//	    return "X", nil
//	})
//
//	state := teamsai.NewTurnState()
//	_ = state.Set("temp.foo", "bar")
//
//	out, err := engine.Render(ctx, nil, state, funcs, "{{$foo}} {{echo}} {{$temp.output}}")
//	// out: "bar X X"
//
// # Errors
//
// Rendering fails fast. Syntax errors (IsSyntaxError), variables naming an
// unknown scope (IsUndefinedVariableError), unregistered functions
// (IsFunctionNotFoundError) and unsupported blocks (IsUnsupportedBlockError)
// are go-cuserr errors with metadata. Errors returned by registered functions
// are passed through unchanged. A missing property inside a known scope is
// not an error and renders as the empty string.
//
// # Token Budgets
//
// TextDataSource renders static text against a token budget using any
// Tokenizer, truncating on a token boundary:
//
//	tok, _ := teamsai.NewTiktokenTokenizer(teamsai.DefaultEncoding)
//	src := teamsai.NewTextDataSource("docs", longText, tok)
//	rendered := src.Render(500)
//	// rendered.TooLong reports whether the text was cut
package teamsai

// Version is the library version.
const Version = "0.4.0"
