package main

import (
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/itsatony/go-teamsai"
)

// renderConfig holds parsed render command configuration
type renderConfig struct {
	templatePath string
	stateJSON    string
	statePath    string
	activityJSON string
	activityPath string
	dataSources  []string
	maxTokens    int
	outputPath   string
}

func newRenderCommand(a *app) *cobra.Command {
	cfg := &renderConfig{}
	cmd := &cobra.Command{
		Use:     CmdNameRender,
		Short:   CmdShortRender,
		Example: CmdExampleRender,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed(FlagMaxTokens) {
				cfg.maxTokens = a.config.MaxTokens
			}
			return a.runRender(cmd, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfg.templatePath, FlagTemplate, FlagTemplateShort, "", FlagUsageTemplate)
	f.StringVarP(&cfg.stateJSON, FlagState, FlagStateShort, "", FlagUsageState)
	f.StringVar(&cfg.statePath, FlagStateFile, "", FlagUsageStateFile)
	f.StringVarP(&cfg.activityJSON, FlagActivity, FlagActivityShort, "", FlagUsageActivity)
	f.StringVar(&cfg.activityPath, FlagActivityFile, "", FlagUsageActivityFile)
	f.StringArrayVar(&cfg.dataSources, FlagDataSource, nil, FlagUsageDataSource)
	f.IntVar(&cfg.maxTokens, FlagMaxTokens, 0, FlagUsageMaxTokens)
	f.StringVarP(&cfg.outputPath, FlagOutput, FlagOutputShort, FlagDefaultOutput, FlagUsageOutput)
	return cmd
}

func (a *app) runRender(cmd *cobra.Command, cfg *renderConfig) error {
	if cfg.templatePath == "" {
		return newCLIError(ExitCodeUsageError, ErrMsgMissingTemplate, errors.New(ErrMsgTemplateFlagMissing))
	}
	if cfg.maxTokens < 0 {
		return newCLIError(ExitCodeUsageError, ErrMsgInvalidMaxTokens, nil)
	}

	source, err := readInput(cfg.templatePath, a.stdin)
	if err != nil {
		return newCLIError(ExitCodeInputError, ErrMsgReadFileFailed, err)
	}

	state, err := loadState(cfg.stateJSON, cfg.statePath)
	if err != nil {
		return err
	}

	turn, err := loadTurn(cfg.activityJSON, cfg.activityPath)
	if err != nil {
		return err
	}

	funcs := teamsai.NewFunctionRegistry(teamsai.WithRegistryLogger(a.logger))
	if err := a.registerDataSources(funcs, cfg.dataSources, cfg.maxTokens); err != nil {
		return err
	}

	engine, err := teamsai.New(teamsai.WithLogger(a.logger))
	if err != nil {
		return newCLIError(ExitCodeError, ErrMsgExecuteFailed, err)
	}

	result, err := engine.Render(cmd.Context(), turn, state, funcs, string(source))
	if err != nil {
		if teamsai.IsSyntaxError(err) {
			return newCLIError(ExitCodeValidationError, ErrMsgValidationFailed, err)
		}
		return newCLIError(ExitCodeError, ErrMsgExecuteFailed, err)
	}
	a.logger.Debug(LogMsgRenderComplete, zap.Int(LogFieldBytes, len(result)))

	if err := writeOutput(cfg.outputPath, []byte(result), a.stdout); err != nil {
		return newCLIError(ExitCodeError, ErrMsgWriteOutputFailed, err)
	}
	return nil
}

// loadState decodes {"scope": {...}} JSON into a TurnState. Every top-level
// value must be an object.
func loadState(inline, path string) (*teamsai.TurnState, error) {
	data, err := readJSONSource(inline, path)
	if err != nil {
		return nil, newCLIError(ExitCodeInputError, ErrMsgReadFileFailed, err)
	}
	if data == nil {
		return teamsai.NewTurnState(), nil
	}

	var scopes map[string]any
	if err := json.Unmarshal(data, &scopes); err != nil {
		return nil, newCLIError(ExitCodeInputError, ErrMsgInvalidJSON, err)
	}
	for name, value := range scopes {
		if strings.EqualFold(name, teamsai.ScopeActivity) {
			return nil, newCLIError(ExitCodeInputError, ErrMsgStateReservedScope, errors.New(name))
		}
		if _, ok := value.(map[string]any); !ok {
			return nil, newCLIError(ExitCodeInputError, ErrMsgStateInvalidScope, errors.New(name))
		}
	}
	return teamsai.NewTurnStateFromMap(scopes), nil
}

// loadTurn decodes the activity JSON. No activity yields an empty turn.
func loadTurn(inline, path string) (*teamsai.TurnContext, error) {
	data, err := readJSONSource(inline, path)
	if err != nil {
		return nil, newCLIError(ExitCodeInputError, ErrMsgReadFileFailed, err)
	}
	if data == nil {
		return teamsai.NewTurnContext(nil), nil
	}

	activity, err := teamsai.ParseActivity(data)
	if err != nil {
		return nil, newCLIError(ExitCodeInputError, ErrMsgInvalidActivity, err)
	}
	return teamsai.NewTurnContext(activity), nil
}

// registerDataSources exposes each name=file pair as a function returning the
// file contents within maxTokens. A zero budget leaves the text untruncated.
func (a *app) registerDataSources(funcs *teamsai.FunctionRegistry, entries []string, maxTokens int) error {
	if len(entries) == 0 {
		return nil
	}

	paths := make(map[string]string, len(entries))
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name, path, ok := strings.Cut(entry, DataSourceSeparator)
		if !ok || name == "" || path == "" {
			return newCLIError(ExitCodeUsageError, ErrMsgInvalidDataSource, errors.New(entry))
		}
		if _, dup := paths[name]; !dup {
			names = append(names, name)
		}
		paths[name] = path
	}

	tokenizer, err := teamsai.NewTiktokenTokenizer(a.config.Encoding)
	if err != nil {
		return newCLIError(ExitCodeError, ErrMsgTokenizerFailed, err)
	}

	for _, name := range names {
		text, err := os.ReadFile(paths[name])
		if err != nil {
			return newCLIError(ExitCodeInputError, ErrMsgReadFileFailed, err)
		}

		source := teamsai.NewTextDataSource(name, string(text), tokenizer)
		budget := maxTokens
		if budget == 0 {
			budget = teamsai.CountTokens(tokenizer, source.Text())
		}
		if err := funcs.RegisterDataSource(source, budget); err != nil {
			return newCLIError(ExitCodeUsageError, ErrMsgRegisterFailed, err)
		}
		a.logger.Debug(LogMsgDataSourceLoaded, zap.String(LogFieldSource, name), zap.Int(LogFieldTokens, budget))
	}
	return nil
}
