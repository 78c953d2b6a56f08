package teamsai_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsatony/go-teamsai"
)

// E2E tests through the public API with real collaborators.

func newFixture(t *testing.T) (*teamsai.Engine, *teamsai.TurnState, *teamsai.FunctionRegistry) {
	t.Helper()
	engine := teamsai.MustNew()
	state := teamsai.NewTurnState()
	require.NoError(t, state.Set("temp.foo", "bar"))
	funcs := teamsai.NewFunctionRegistry()
	funcs.MustRegister("echo", func(ctx context.Context, turn *teamsai.TurnContext, mem teamsai.Memory, args []any) (any, error) {
		return "X", nil
	})
	return engine, state, funcs
}

func TestE2E_VariablesAndFunctionChaining(t *testing.T) {
	engine, state, funcs := newFixture(t)

	out, err := engine.Render(context.Background(), nil, state, funcs, "{{$foo}} {{echo}} {{$temp.output}}")
	require.NoError(t, err)
	assert.Equal(t, "bar X X", out)

	output, ok := state.Get("temp.output")
	require.True(t, ok)
	assert.Equal(t, "X", output)
}

func TestE2E_LiteralTemplates(t *testing.T) {
	engine, state, funcs := newFixture(t)

	tests := []struct {
		name     string
		template string
		expected string
	}{
		{"empty", "", ""},
		{"short", "abcd", "abcd"},
		{"plain text", "Hello, world!", "Hello, world!"},
		{"empty delimiters", "a {{}} b", "a {{}} b"},
		{"whitespace delimiters", "a {{   }} b", "a {{   }} b"},
		{"unterminated", "see {{$foo", "see {{$foo"},
		{"stray closer", "a }} b", "a }} b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := engine.Render(context.Background(), nil, state, funcs, tt.template)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestE2E_MissingPropertyRendersEmpty(t *testing.T) {
	engine, state, funcs := newFixture(t)

	out, err := engine.Render(context.Background(), nil, state, funcs, "[{{$temp.missing}}][{{$missing}}]")
	require.NoError(t, err)
	assert.Equal(t, "[][]", out)
}

func TestE2E_ScopesAreCaseInsensitive(t *testing.T) {
	engine, state, funcs := newFixture(t)
	require.NoError(t, state.AddScope(teamsai.NewStateScope("conversation", map[string]any{"Topic": "billing"})))

	out, err := engine.Render(context.Background(), nil, state, funcs, "{{$CONVERSATION.topic}}/{{$Temp.Foo}}")
	require.NoError(t, err)
	assert.Equal(t, "billing/bar", out)
}

func TestE2E_ActivityVariables(t *testing.T) {
	engine, state, funcs := newFixture(t)
	turn := teamsai.NewTurnContext(teamsai.NewMessageActivity("msteams", "conv-1", "user-1", "hello there"))

	out, err := engine.Render(context.Background(), turn, state, funcs, "{{$activity.text}}|{{$Activity.ChannelID}}|{{$activity.nope}}")
	require.NoError(t, err)
	assert.Equal(t, "hello there|msteams|", out)
}

func TestE2E_UndefinedScope(t *testing.T) {
	engine, state, funcs := newFixture(t)

	_, err := engine.Render(context.Background(), nil, state, funcs, "Hi {{$nope.name}}")
	require.Error(t, err)
	assert.True(t, teamsai.IsUndefinedVariableError(err))

	var customErr *cuserr.CustomError
	require.True(t, errors.As(err, &customErr))
	scope, ok := customErr.GetMetadata(teamsai.MetaKeyScope)
	assert.True(t, ok)
	assert.Equal(t, "nope", scope)
}

func TestE2E_TypedNilStateActsAsNoMemory(t *testing.T) {
	engine, _, funcs := newFixture(t)
	var state *teamsai.TurnState

	_, err := engine.Render(context.Background(), nil, state, funcs, "{{$temp.foo}}")
	require.Error(t, err)
	assert.True(t, teamsai.IsUndefinedVariableError(err))

	out, err := engine.Render(context.Background(), nil, state, funcs, "say {{echo}}")
	require.NoError(t, err)
	assert.Equal(t, "say X", out)
}

func TestE2E_VariableWithSpaceIsSyntaxError(t *testing.T) {
	engine, state, funcs := newFixture(t)

	_, err := engine.Render(context.Background(), nil, state, funcs, "{{$foo bar}}")
	require.Error(t, err)
	assert.True(t, teamsai.IsSyntaxError(err))

	blocks, err := engine.ExtractBlocksWith("{{$foo bar}}", false)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, teamsai.BlockTypeVariable, blocks[0].Type())
}

func TestE2E_FirstValidationErrorWins(t *testing.T) {
	engine, _, _ := newFixture(t)

	blocks, err := engine.ExtractBlocks("{{$ok}} {{$bad!}} {{$x fn}}")
	require.Error(t, err)
	assert.Nil(t, blocks)

	var customErr *cuserr.CustomError
	require.True(t, errors.As(err, &customErr))
	token, ok := customErr.GetMetadata(teamsai.MetaKeyToken)
	assert.True(t, ok)
	assert.Equal(t, "$bad!", token)
}

func TestE2E_FunctionArguments(t *testing.T) {
	engine, state, funcs := newFixture(t)
	funcs.MustRegister("greet", func(ctx context.Context, turn *teamsai.TurnContext, mem teamsai.Memory, args []any) (any, error) {
		return fmt.Sprintf("hi %v and %v", args[0], args[1]), nil
	})
	require.NoError(t, state.Set("name", "Ann"))

	out, err := engine.Render(context.Background(), nil, state, funcs, "{{ greet  $name\t$temp.missing }}")
	require.NoError(t, err)
	assert.Equal(t, "hi Ann and <nil>", out)
}

func TestE2E_StructuredResultsAreYAML(t *testing.T) {
	engine, state, funcs := newFixture(t)
	funcs.MustRegister("list", func(ctx context.Context, turn *teamsai.TurnContext, mem teamsai.Memory, args []any) (any, error) {
		return []string{"a", "b"}, nil
	})

	out, err := engine.Render(context.Background(), nil, state, funcs, "{{list}}")
	require.NoError(t, err)
	assert.Equal(t, "- a\n- b", out)
}

func TestE2E_FunctionNotFound(t *testing.T) {
	engine, state, funcs := newFixture(t)

	_, err := engine.Render(context.Background(), nil, state, funcs, "{{ missing }}")
	require.Error(t, err)
	assert.True(t, teamsai.IsFunctionNotFoundError(err))
}

func TestE2E_FunctionErrorPassesThrough(t *testing.T) {
	engine, state, funcs := newFixture(t)
	sentinel := errors.New("backend down")
	funcs.MustRegister("fail", func(ctx context.Context, turn *teamsai.TurnContext, mem teamsai.Memory, args []any) (any, error) {
		return nil, sentinel
	})

	_, err := engine.Render(context.Background(), nil, state, funcs, "{{echo}}{{fail}}{{echo}}")
	require.Error(t, err)
	assert.Same(t, sentinel, err)
}

func TestE2E_CancelledContext(t *testing.T) {
	engine, state, funcs := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Render(ctx, nil, state, funcs, "{{echo}}")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestE2E_RenderVariablesThenCode(t *testing.T) {
	engine, state, funcs := newFixture(t)

	blocks, err := engine.ExtractBlocks("a {{$foo}} {{echo}}")
	require.NoError(t, err)
	require.Len(t, blocks, 4)

	vars, err := engine.RenderVariables(nil, state, blocks)
	require.NoError(t, err)
	require.Len(t, vars, 4)
	assert.Equal(t, teamsai.BlockTypeText, vars[1].Type())
	assert.Equal(t, "bar", vars[1].Content())
	assert.Equal(t, teamsai.BlockTypeCode, vars[3].Type())

	// input untouched
	assert.Equal(t, teamsai.BlockTypeVariable, blocks[1].Type())

	code, err := engine.RenderCode(context.Background(), nil, state, funcs, vars)
	require.NoError(t, err)
	assert.Equal(t, "a bar X", teamsai.BlocksText(code))
}

func TestE2E_WithBlockCache(t *testing.T) {
	cache := teamsai.NewBlockCache(teamsai.DefaultBlockCacheConfig())
	engine := teamsai.MustNew(teamsai.WithBlockCache(cache))
	state := teamsai.NewTurnState()
	require.NoError(t, state.Set("name", "Ann"))

	for i := 0; i < 3; i++ {
		out, err := engine.Render(context.Background(), nil, state, nil, "Hi {{$name}}")
		require.NoError(t, err)
		assert.Equal(t, "Hi Ann", out)
	}

	stats := cache.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.EntryCount)
}

func TestE2E_DataSourceFunction(t *testing.T) {
	engine, state, funcs := newFixture(t)
	src := teamsai.NewTextDataSource("docs", "abcdef", newLetterTokenizer())
	require.NoError(t, funcs.RegisterDataSource(src, 3))

	out, err := engine.Render(context.Background(), nil, state, funcs, "[{{docs}}]")
	require.NoError(t, err)
	assert.Equal(t, "[abc]", out)
}

func TestE2E_WithoutValidation(t *testing.T) {
	engine := teamsai.MustNew(teamsai.WithValidation(false))

	blocks, err := engine.ExtractBlocks("{{$bad!}}{{fn-x $a}}")
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	// code blocks are re-validated at render time
	_, err = engine.RenderBlocks(context.Background(), nil, teamsai.NewTurnState(), teamsai.NewFunctionRegistry(), blocks[1:])
	require.Error(t, err)
	assert.True(t, teamsai.IsSyntaxError(err))
}
