package main

import (
	"errors"
	"fmt"

	"github.com/itsatony/go-cuserr"
	"github.com/spf13/cobra"

	"github.com/itsatony/go-teamsai"
)

// validateConfig holds parsed validate command configuration
type validateConfig struct {
	templatePath string
	format       string
}

// validationOutput represents JSON output for validation
type validationOutput struct {
	Valid  bool             `json:"valid"`
	Blocks int              `json:"blocks"`
	Error  *validationIssue `json:"error,omitempty"`
}

type validationIssue struct {
	Message   string `json:"message"`
	Rule      string `json:"rule,omitempty"`
	Token     string `json:"token,omitempty"`
	BlockType string `json:"block_type,omitempty"`
}

func newValidateCommand(a *app) *cobra.Command {
	cfg := &validateConfig{}
	cmd := &cobra.Command{
		Use:     CmdNameValidate,
		Short:   CmdShortValidate,
		Example: CmdExampleValidate,
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runValidate(cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfg.templatePath, FlagTemplate, FlagTemplateShort, "", FlagUsageTemplate)
	f.StringVarP(&cfg.format, FlagFormat, FlagFormatShort, FlagDefaultFormat, FlagUsageFormat)
	return cmd
}

func (a *app) runValidate(cfg *validateConfig) error {
	if cfg.templatePath == "" {
		return newCLIError(ExitCodeUsageError, ErrMsgMissingTemplate, errors.New(ErrMsgTemplateFlagMissing))
	}
	if err := checkFormat(cfg.format); err != nil {
		return err
	}

	source, err := readInput(cfg.templatePath, a.stdin)
	if err != nil {
		return newCLIError(ExitCodeInputError, ErrMsgReadFileFailed, err)
	}

	engine, err := teamsai.New(teamsai.WithLogger(a.logger))
	if err != nil {
		return newCLIError(ExitCodeError, ErrMsgExecuteFailed, err)
	}

	blocks, extractErr := engine.ExtractBlocksWith(string(source), true)
	if extractErr != nil && !teamsai.IsSyntaxError(extractErr) {
		return newCLIError(ExitCodeError, ErrMsgExecuteFailed, extractErr)
	}

	if cfg.format == OutputFormatJSON {
		out := validationOutput{Valid: extractErr == nil, Blocks: len(blocks)}
		if extractErr != nil {
			out.Error = newValidationIssue(extractErr)
		}
		if err := writeJSON(a.stdout, out); err != nil {
			return err
		}
	} else if extractErr == nil {
		fmt.Fprintf(a.stdout, ValidationTextSuccess+FmtNewline, len(blocks))
	} else {
		fmt.Fprintf(a.stdout, ValidationTextFailure+FmtNewline, extractErr)
	}

	if extractErr != nil {
		return newCLIError(ExitCodeValidationError, ErrMsgValidationFailed, nil)
	}
	return nil
}

func newValidationIssue(err error) *validationIssue {
	issue := &validationIssue{Message: err.Error()}
	var customErr *cuserr.CustomError
	if errors.As(err, &customErr) {
		issue.Rule, _ = customErr.GetMetadata(teamsai.MetaKeyRule)
		issue.Token, _ = customErr.GetMetadata(teamsai.MetaKeyToken)
		issue.BlockType, _ = customErr.GetMetadata(teamsai.MetaKeyBlockType)
	}
	return issue
}

func checkFormat(format string) error {
	if format != OutputFormatText && format != OutputFormatJSON {
		return newCLIError(ExitCodeUsageError, ErrMsgInvalidFormat, errors.New(format))
	}
	return nil
}
