package teamsai

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// PromptConfig is the per-prompt configuration read from config.json or
// config.yaml next to the template.
type PromptConfig struct {
	Schema          int              `yaml:"schema" json:"schema"`
	Description     string           `yaml:"description,omitempty" json:"description,omitempty"`
	Type            string           `yaml:"type,omitempty" json:"type,omitempty"`
	Completion      CompletionConfig `yaml:"completion" json:"completion"`
	DefaultBackends []string         `yaml:"default_backends,omitempty" json:"default_backends,omitempty"`
}

// CompletionConfig holds the model settings used when the prompt is sent.
type CompletionConfig struct {
	MaxTokens        *int     `yaml:"max_tokens,omitempty" json:"max_tokens,omitempty"`
	Temperature      *float64 `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	TopP             *float64 `yaml:"top_p,omitempty" json:"top_p,omitempty"`
	PresencePenalty  *float64 `yaml:"presence_penalty,omitempty" json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64 `yaml:"frequency_penalty,omitempty" json:"frequency_penalty,omitempty"`
	StopSequences    []string `yaml:"stop_sequences,omitempty" json:"stop_sequences,omitempty"`
}

// DefaultPromptConfig returns the configuration used when a prompt folder has
// no config file.
func DefaultPromptConfig() PromptConfig {
	return PromptConfig{
		Schema: PromptSchemaVersion,
		Type:   PromptTypeCompletion,
	}
}

// Validate checks the config for out-of-range settings.
func (c *PromptConfig) Validate() error {
	if c.Schema != PromptSchemaVersion {
		return NewPromptError(ErrMsgPromptConfigInvalid+": schema", "", nil)
	}
	if c.Type != PromptTypeCompletion {
		return NewPromptError(ErrMsgPromptConfigInvalid+": type "+c.Type, "", nil)
	}
	cc := c.Completion
	if cc.MaxTokens != nil && *cc.MaxTokens < 0 {
		return NewPromptError(ErrMsgPromptConfigInvalid+": max_tokens", "", nil)
	}
	if cc.Temperature != nil && (*cc.Temperature < 0 || *cc.Temperature > 2) {
		return NewPromptError(ErrMsgPromptConfigInvalid+": temperature", "", nil)
	}
	if cc.TopP != nil && (*cc.TopP < 0 || *cc.TopP > 1) {
		return NewPromptError(ErrMsgPromptConfigInvalid+": top_p", "", nil)
	}
	return nil
}

// Prompt is a loaded prompt template with its validated blocks.
type Prompt struct {
	Name   string
	Text   string
	Config PromptConfig
	Blocks []Block
}

// PromptManager loads prompt folders of the form <name>/skprompt.txt with an
// optional <name>/config.json or <name>/config.yaml. Prompts are extracted
// and validated once and cached by name.
type PromptManager struct {
	fsys    fs.FS
	engine  *Engine
	logger  *zap.Logger
	mu      sync.RWMutex
	prompts map[string]*Prompt
}

// NewPromptManager creates a manager reading prompt folders from fsys
// (typically os.DirFS(root)). A nil engine uses a default Engine.
func NewPromptManager(fsys fs.FS, engine *Engine, logger *zap.Logger) *PromptManager {
	if engine == nil {
		engine = MustNew(WithLogger(logger))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PromptManager{
		fsys:    fsys,
		engine:  engine,
		logger:  logger,
		prompts: make(map[string]*Prompt),
	}
}

// AddPrompt registers an in-memory prompt, replacing any cached prompt with
// the same name.
func (m *PromptManager) AddPrompt(name, text string, config PromptConfig) (*Prompt, error) {
	if err := validatePromptName(name); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	blocks, err := m.engine.ExtractBlocksWith(text, true)
	if err != nil {
		return nil, err
	}

	prompt := &Prompt{Name: name, Text: text, Config: config, Blocks: blocks}
	m.mu.Lock()
	m.prompts[name] = prompt
	m.mu.Unlock()
	return prompt, nil
}

// GetPrompt returns a prompt, loading it from the file system on first use.
func (m *PromptManager) GetPrompt(name string) (*Prompt, error) {
	if err := validatePromptName(name); err != nil {
		return nil, err
	}

	m.mu.RLock()
	prompt, ok := m.prompts[name]
	m.mu.RUnlock()
	if ok {
		return prompt, nil
	}

	prompt, err := m.load(name)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.prompts[name]; ok {
		return existing, nil
	}
	m.prompts[name] = prompt
	m.logger.Debug(LogMsgPromptLoaded, zap.String(LogFieldPrompt, name), zap.Int(LogFieldBlocks, len(prompt.Blocks)))
	return prompt, nil
}

// HasPrompt reports whether a prompt is cached or exists on the file system.
func (m *PromptManager) HasPrompt(name string) bool {
	_, err := m.GetPrompt(name)
	return err == nil
}

// List returns the names of all prompt folders plus in-memory prompts.
func (m *PromptManager) List() ([]string, error) {
	seen := make(map[string]bool)

	if m.fsys != nil {
		entries, err := fs.ReadDir(m.fsys, ".")
		if err != nil {
			return nil, NewPromptError(ErrMsgPromptReadFailed, ".", err)
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			if _, err := fs.Stat(m.fsys, entry.Name()+"/"+PromptTemplateFile); err == nil {
				seen[entry.Name()] = true
			}
		}
	}

	m.mu.RLock()
	for name := range m.prompts {
		seen[name] = true
	}
	m.mu.RUnlock()

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// RenderPrompt renders a prompt with the given per-call collaborators.
func (m *PromptManager) RenderPrompt(ctx context.Context, name string, turn *TurnContext, memory Memory, funcs Functions) (string, error) {
	prompt, err := m.GetPrompt(name)
	if err != nil {
		return "", err
	}
	return m.engine.RenderBlocks(ctx, turn, memory, funcs, prompt.Blocks)
}

func (m *PromptManager) load(name string) (*Prompt, error) {
	if m.fsys == nil {
		return nil, NewPromptError(ErrMsgPromptNotFound, name, nil)
	}

	text, err := fs.ReadFile(m.fsys, name+"/"+PromptTemplateFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewPromptError(ErrMsgPromptNotFound, name, nil)
		}
		return nil, NewPromptError(ErrMsgPromptReadFailed, name, err)
	}

	config, err := m.loadConfig(name)
	if err != nil {
		return nil, err
	}

	blocks, err := m.engine.ExtractBlocksWith(string(text), true)
	if err != nil {
		return nil, err
	}

	return &Prompt{Name: name, Text: string(text), Config: config, Blocks: blocks}, nil
}

func (m *PromptManager) loadConfig(name string) (PromptConfig, error) {
	config := DefaultPromptConfig()

	if data, err := fs.ReadFile(m.fsys, name+"/"+PromptConfigFileJSON); err == nil {
		if err := json.Unmarshal(data, &config); err != nil {
			return config, NewPromptError(ErrMsgPromptConfigInvalid, name, err)
		}
	} else if data, err := fs.ReadFile(m.fsys, name+"/"+PromptConfigFileYAML); err == nil {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return config, NewPromptError(ErrMsgPromptConfigInvalid, name, err)
		}
	}

	if err := config.Validate(); err != nil {
		return config, NewPromptError(ErrMsgPromptConfigInvalid, name, err)
	}
	return config, nil
}

func validatePromptName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || !fs.ValidPath(name) {
		return NewPromptError(ErrMsgInvalidPromptName, name, nil)
	}
	return nil
}
