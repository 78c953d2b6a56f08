package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itsatony/go-teamsai"
)

// blocksConfig holds parsed blocks command configuration
type blocksConfig struct {
	templatePath string
	format       string
	noValidate   bool
}

// blockOutput is the JSON form of one extracted block
type blockOutput struct {
	Type     string   `json:"type"`
	Content  string   `json:"content"`
	Variable string   `json:"variable,omitempty"`
	Function string   `json:"function,omitempty"`
	Params   []string `json:"params,omitempty"`
}

func newBlocksCommand(a *app) *cobra.Command {
	cfg := &blocksConfig{}
	cmd := &cobra.Command{
		Use:     CmdNameBlocks,
		Short:   CmdShortBlocks,
		Example: CmdExampleBlocks,
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runBlocks(cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfg.templatePath, FlagTemplate, FlagTemplateShort, "", FlagUsageTemplate)
	f.StringVarP(&cfg.format, FlagFormat, FlagFormatShort, FlagDefaultFormat, FlagUsageFormat)
	f.BoolVar(&cfg.noValidate, FlagNoValidate, false, FlagUsageNoValidate)
	return cmd
}

func (a *app) runBlocks(cfg *blocksConfig) error {
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
	blocks, err := engine.ExtractBlocksWith(string(source), !cfg.noValidate)
	if err != nil {
		return newCLIError(ExitCodeValidationError, ErrMsgValidationFailed, err)
	}

	if cfg.format == OutputFormatJSON {
		out := make([]blockOutput, 0, len(blocks))
		for _, b := range blocks {
			out = append(out, toBlockOutput(b))
		}
		return writeJSON(a.stdout, out)
	}

	for _, b := range blocks {
		fmt.Fprintf(a.stdout, BlocksTextFormat, b.Type(), b.Content())
	}
	return nil
}

func toBlockOutput(b teamsai.Block) blockOutput {
	out := blockOutput{Type: b.Type().String(), Content: b.Content()}
	switch blk := b.(type) {
	case *teamsai.VarBlock:
		out.Variable = blk.Name()
	case *teamsai.CodeBlock:
		out.Function = blk.FunctionName()
		out.Params = blk.Params()
	}
	return out
}
