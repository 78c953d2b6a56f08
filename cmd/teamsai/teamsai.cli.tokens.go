package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itsatony/go-teamsai"
)

// tokensConfig holds parsed tokens command configuration
type tokensConfig struct {
	inputPath string
	maxTokens int
	format    string
}

// tokensOutput represents JSON output for the tokens command
type tokensOutput struct {
	Encoding  string `json:"encoding"`
	Tokens    int    `json:"tokens"`
	MaxTokens int    `json:"max_tokens,omitempty"`
	TooLong   bool   `json:"too_long"`
	Output    string `json:"output,omitempty"`
}

func newTokensCommand(a *app) *cobra.Command {
	cfg := &tokensConfig{}
	cmd := &cobra.Command{
		Use:     CmdNameTokens,
		Short:   CmdShortTokens,
		Example: CmdExampleTokens,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed(FlagMaxTokens) {
				cfg.maxTokens = a.config.MaxTokens
			}
			return a.runTokens(cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfg.inputPath, FlagTemplate, FlagTemplateShort, "", FlagUsageTemplate)
	f.IntVar(&cfg.maxTokens, FlagMaxTokens, 0, FlagUsageMaxTokens)
	f.StringVarP(&cfg.format, FlagFormat, FlagFormatShort, FlagDefaultFormat, FlagUsageFormat)
	return cmd
}

// runTokens prints the token count, or with a budget the text truncated to
// it. Truncation is reported on stderr so stdout stays pipeable.
func (a *app) runTokens(cfg *tokensConfig) error {
	if cfg.inputPath == "" {
		return newCLIError(ExitCodeUsageError, ErrMsgMissingTemplate, errors.New(ErrMsgTemplateFlagMissing))
	}
	if cfg.maxTokens < 0 {
		return newCLIError(ExitCodeUsageError, ErrMsgInvalidMaxTokens, nil)
	}
	if err := checkFormat(cfg.format); err != nil {
		return err
	}

	text, err := readInput(cfg.inputPath, a.stdin)
	if err != nil {
		return newCLIError(ExitCodeInputError, ErrMsgReadFileFailed, err)
	}

	tokenizer, err := teamsai.NewTiktokenTokenizer(a.config.Encoding)
	if err != nil {
		return newCLIError(ExitCodeError, ErrMsgTokenizerFailed, err)
	}

	out := tokensOutput{
		Encoding:  tokenizer.Encoding(),
		Tokens:    teamsai.CountTokens(tokenizer, string(text)),
		MaxTokens: cfg.maxTokens,
	}
	if cfg.maxTokens > 0 {
		rendered := teamsai.NewTextDataSource(CmdNameTokens, string(text), tokenizer).Render(cfg.maxTokens)
		out.TooLong = rendered.TooLong
		out.Output = rendered.Output
	}

	if cfg.format == OutputFormatJSON {
		return writeJSON(a.stdout, out)
	}
	if cfg.maxTokens == 0 {
		fmt.Fprintf(a.stdout, TokensTextCount+FmtNewline, out.Tokens)
		return nil
	}
	fmt.Fprint(a.stdout, out.Output)
	if out.TooLong {
		fmt.Fprintf(a.stderr, TokensTextTruncated+FmtNewline, out.Tokens, cfg.maxTokens)
	}
	return nil
}
