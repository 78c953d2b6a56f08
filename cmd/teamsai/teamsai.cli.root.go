package main

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app holds the streams and resolved settings shared by every command.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	flags  globalFlags
	config cliConfig
	logger *zap.Logger
}

// globalFlags are the persistent flags of the root command.
type globalFlags struct {
	configPath string
	envFile    string
	logLevel   string
	verbose    bool
	encoding   string
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           CLIName,
		Short:         CLIDescription,
		Long:          CmdLongRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.StringVarP(&a.flags.configPath, FlagConfig, FlagConfigShort, "", FlagUsageConfig)
	pf.StringVar(&a.flags.envFile, FlagEnvFile, "", FlagUsageEnvFile)
	pf.StringVar(&a.flags.logLevel, FlagLogLevel, "", FlagUsageLogLevel)
	pf.BoolVarP(&a.flags.verbose, FlagVerbose, FlagVerboseShort, false, FlagUsageVerbose)
	pf.StringVarP(&a.flags.encoding, FlagEncoding, FlagEncodingShort, "", FlagUsageEncoding)

	root.AddCommand(
		newRenderCommand(a),
		newValidateCommand(a),
		newBlocksCommand(a),
		newTokensCommand(a),
		newVersionCommand(a),
	)
	return root
}

// setup resolves configuration and builds the logger before a command runs.
// Precedence: flags, then environment, then the config file, then defaults.
func (a *app) setup(cmd *cobra.Command) error {
	config, err := loadConfig(a.flags.configPath, a.flags.envFile, cmd.Flags().Changed(FlagEnvFile))
	if err != nil {
		return err
	}
	if a.flags.encoding != "" {
		config.Encoding = a.flags.encoding
	}
	if a.flags.logLevel != "" {
		config.LogLevel = a.flags.logLevel
	}
	a.config = config

	logger, err := newLogger(config.LogLevel, a.flags.verbose, a.stderr)
	if err != nil {
		return err
	}
	a.logger = logger
	a.logger.Debug(LogMsgConfigLoaded,
		zap.String(LogFieldConfig, a.flags.configPath),
		zap.String(LogFieldEncoding, config.Encoding),
		zap.String(LogFieldLevel, config.LogLevel))
	return nil
}

// newLogger writes JSON logs to w at the given level, or human readable
// debug logs when verbose is set.
func newLogger(level string, verbose bool, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, newCLIError(ExitCodeUsageError, ErrMsgInvalidLogLevel, err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoder := zapcore.NewJSONEncoder(encoderConfig)
	if verbose {
		lvl = zapcore.DebugLevel
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}
