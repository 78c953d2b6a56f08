package teamsai_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsatony/go-teamsai"
)

func newPromptFS() fstest.MapFS {
	return fstest.MapFS{
		"greet/skprompt.txt": {Data: []byte("Hello {{$name}}, {{echo}}")},
		"greet/config.json": {Data: []byte(`{
			"schema": 1,
			"description": "Greets the user",
			"type": "completion",
			"completion": {"max_tokens": 150, "temperature": 0.7, "stop_sequences": ["\n"]}
		}`)},
		"summarize/skprompt.txt": {Data: []byte("Summarize: {{$input}}")},
		"summarize/config.yaml": {Data: []byte(
			"schema: 1\n" +
				"type: completion\n" +
				"completion:\n" +
				"  max_tokens: 64\n" +
				"  top_p: 0.5\n" +
				"default_backends:\n" +
				"  - gpt\n")},
		"plain/skprompt.txt":     {Data: []byte("no config here")},
		"broken/skprompt.txt":    {Data: []byte("{{$bad!}}")},
		"hot/skprompt.txt":       {Data: []byte("x")},
		"hot/config.json":        {Data: []byte(`{"schema": 1, "type": "completion", "completion": {"temperature": 3}}`)},
		"garbled/skprompt.txt":   {Data: []byte("x")},
		"garbled/config.json":    {Data: []byte(`{not json`)},
		"notaprompt/readme.md":   {Data: []byte("ignored")},
		"top-level-file.txt":     {Data: []byte("ignored")},
	}
}

func TestPromptManager_JSONConfig(t *testing.T) {
	manager := teamsai.NewPromptManager(newPromptFS(), nil, nil)

	prompt, err := manager.GetPrompt("greet")
	require.NoError(t, err)
	assert.Equal(t, "greet", prompt.Name)
	assert.Equal(t, "Greets the user", prompt.Config.Description)
	require.NotNil(t, prompt.Config.Completion.MaxTokens)
	assert.Equal(t, 150, *prompt.Config.Completion.MaxTokens)
	require.NotNil(t, prompt.Config.Completion.Temperature)
	assert.InDelta(t, 0.7, *prompt.Config.Completion.Temperature, 1e-9)
	assert.Equal(t, []string{"\n"}, prompt.Config.Completion.StopSequences)
	assert.Len(t, prompt.Blocks, 4)
}

func TestPromptManager_YAMLConfig(t *testing.T) {
	manager := teamsai.NewPromptManager(newPromptFS(), nil, nil)

	prompt, err := manager.GetPrompt("summarize")
	require.NoError(t, err)
	require.NotNil(t, prompt.Config.Completion.MaxTokens)
	assert.Equal(t, 64, *prompt.Config.Completion.MaxTokens)
	require.NotNil(t, prompt.Config.Completion.TopP)
	assert.InDelta(t, 0.5, *prompt.Config.Completion.TopP, 1e-9)
	assert.Equal(t, []string{"gpt"}, prompt.Config.DefaultBackends)
}

func TestPromptManager_DefaultConfig(t *testing.T) {
	manager := teamsai.NewPromptManager(newPromptFS(), nil, nil)

	prompt, err := manager.GetPrompt("plain")
	require.NoError(t, err)
	assert.Equal(t, teamsai.DefaultPromptConfig(), prompt.Config)
}

func TestPromptManager_Errors(t *testing.T) {
	manager := teamsai.NewPromptManager(newPromptFS(), nil, nil)

	tests := []struct {
		name    string
		prompt  string
		wantMsg string
	}{
		{"missing", "nope", teamsai.ErrMsgPromptNotFound},
		{"empty name", "", teamsai.ErrMsgInvalidPromptName},
		{"parent dir", "..", teamsai.ErrMsgInvalidPromptName},
		{"nested path", "greet/skprompt.txt", teamsai.ErrMsgInvalidPromptName},
		{"backslash", `greet\x`, teamsai.ErrMsgInvalidPromptName},
		{"out of range config", "hot", teamsai.ErrMsgPromptConfigInvalid},
		{"malformed config", "garbled", teamsai.ErrMsgPromptConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manager.GetPrompt(tt.prompt)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.False(t, manager.HasPrompt(tt.prompt))
		})
	}
}

func TestPromptManager_InvalidTemplate(t *testing.T) {
	manager := teamsai.NewPromptManager(newPromptFS(), nil, nil)

	_, err := manager.GetPrompt("broken")
	require.Error(t, err)
	assert.True(t, teamsai.IsSyntaxError(err))
}

func TestPromptManager_CachesLoadedPrompts(t *testing.T) {
	fsys := newPromptFS()
	manager := teamsai.NewPromptManager(fsys, nil, nil)

	first, err := manager.GetPrompt("plain")
	require.NoError(t, err)
	delete(fsys, "plain/skprompt.txt")

	second, err := manager.GetPrompt("plain")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestPromptManager_List(t *testing.T) {
	manager := teamsai.NewPromptManager(newPromptFS(), nil, nil)
	_, err := manager.AddPrompt("inline", "hi", teamsai.DefaultPromptConfig())
	require.NoError(t, err)

	names, err := manager.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"broken", "garbled", "greet", "hot", "inline", "plain", "summarize"}, names)
}

func TestPromptManager_AddPrompt(t *testing.T) {
	manager := teamsai.NewPromptManager(nil, nil, nil)

	_, err := manager.AddPrompt("bad", "{{$bad!}}", teamsai.DefaultPromptConfig())
	assert.True(t, teamsai.IsSyntaxError(err))

	_, err = manager.AddPrompt("wrongtype", "x", teamsai.PromptConfig{Schema: 1, Type: "chat"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), teamsai.ErrMsgPromptConfigInvalid)

	prompt, err := manager.AddPrompt("ok", "{{$temp.input}}", teamsai.DefaultPromptConfig())
	require.NoError(t, err)
	assert.True(t, manager.HasPrompt("ok"))

	got, err := manager.GetPrompt("ok")
	require.NoError(t, err)
	assert.Same(t, prompt, got)

	_, err = manager.GetPrompt("not-added")
	assert.Contains(t, err.Error(), teamsai.ErrMsgPromptNotFound)
}

func TestPromptManager_RenderPrompt(t *testing.T) {
	manager := teamsai.NewPromptManager(newPromptFS(), nil, nil)
	state := teamsai.NewTurnState()
	require.NoError(t, state.Set("temp.name", "Ann"))
	funcs := teamsai.NewFunctionRegistry()
	funcs.MustRegister("echo", func(context.Context, *teamsai.TurnContext, teamsai.Memory, []any) (any, error) {
		return "welcome", nil
	})

	out, err := manager.RenderPrompt(context.Background(), "greet", nil, state, funcs)
	require.NoError(t, err)
	assert.Equal(t, "Hello Ann, welcome", out)

	_, err = manager.RenderPrompt(context.Background(), "nope", nil, state, funcs)
	assert.Error(t, err)
}
