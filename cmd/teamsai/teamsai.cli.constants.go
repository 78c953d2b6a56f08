package main

// Command names
const (
	CmdNameRender   = "render"
	CmdNameValidate = "validate"
	CmdNameBlocks   = "blocks"
	CmdNameTokens   = "tokens"
	CmdNameVersion  = "version"
	CmdNameHelp     = "help"
)

// Flag names - long form
const (
	FlagTemplate     = "template"
	FlagState        = "state"
	FlagStateFile    = "state-file"
	FlagActivity     = "activity"
	FlagActivityFile = "activity-file"
	FlagDataSource   = "datasource"
	FlagMaxTokens    = "max-tokens"
	FlagOutput       = "output"
	FlagFormat       = "format"
	FlagNoValidate   = "no-validate"
	FlagConfig       = "config"
	FlagEnvFile      = "env-file"
	FlagLogLevel     = "log-level"
	FlagVerbose      = "verbose"
	FlagEncoding     = "encoding"
)

// Flag names - short form
const (
	FlagTemplateShort = "t"
	FlagStateShort    = "s"
	FlagActivityShort = "a"
	FlagOutputShort   = "o"
	FlagFormatShort   = "F"
	FlagConfigShort   = "c"
	FlagVerboseShort  = "v"
	FlagEncodingShort = "e"
)

// Flag usage text
const (
	FlagUsageTemplate     = `template file (use "-" for stdin)`
	FlagUsageState        = "JSON object of state scopes, e.g. {\"conversation\":{\"topic\":\"x\"}}"
	FlagUsageStateFile    = "JSON file of state scopes"
	FlagUsageActivity     = "JSON activity payload"
	FlagUsageActivityFile = "JSON activity file"
	FlagUsageDataSource   = "text data source as name=file, exposed as {{name}} (repeatable)"
	FlagUsageMaxTokens    = "token budget for data sources and truncation"
	FlagUsageOutput       = "output file (default: stdout)"
	FlagUsageFormat       = "output format: text, json"
	FlagUsageNoValidate   = "extract blocks without validating them"
	FlagUsageConfig       = "YAML config file"
	FlagUsageEnvFile      = "dotenv file with TEAMSAI_* overrides (default: .env if present)"
	FlagUsageLogLevel     = "log level: debug, info, warn, error"
	FlagUsageVerbose      = "verbose development logging"
	FlagUsageEncoding     = "tiktoken encoding"
)

// Flag default values
const (
	FlagDefaultOutput  = "-" // stdout
	FlagDefaultFormat  = "text"
	FlagDefaultEnvFile = ".env"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Environment variables
const (
	EnvEncoding = "TEAMSAI_ENCODING"
	EnvLogLevel = "TEAMSAI_LOG_LEVEL"
)

// Config defaults
const (
	DefaultLogLevel = "warn"
)

// Error messages - ALL must be constants
const (
	ErrMsgUnknownCommand      = "unknown command"
	ErrMsgUsage               = "invalid usage"
	ErrMsgMissingTemplate     = "template source required"
	ErrMsgInvalidJSON         = "invalid JSON data"
	ErrMsgInvalidActivity     = "invalid activity"
	ErrMsgInvalidDataSource   = "data source must be name=file"
	ErrMsgReadFileFailed      = "failed to read file"
	ErrMsgWriteOutputFailed   = "failed to write output"
	ErrMsgExecuteFailed       = "template execution failed"
	ErrMsgValidationFailed    = "template validation failed"
	ErrMsgInvalidFormat       = "invalid output format"
	ErrMsgInvalidLogLevel     = "invalid log level"
	ErrMsgInvalidMaxTokens    = "max tokens cannot be negative"
	ErrMsgConfigLoadFailed    = "failed to load config"
	ErrMsgEnvLoadFailed       = "failed to load env file"
	ErrMsgTokenizerFailed     = "failed to load tokenizer"
	ErrMsgRegisterFailed      = "failed to register data source"
	ErrMsgJSONMarshalFailed   = "failed to marshal JSON"
	ErrMsgLoggerInitFailed    = "failed to initialize logger"
	ErrMsgStateInvalidScope   = "state scope must be a JSON object"
	ErrMsgStateReservedScope  = "state scope name is reserved"
	ErrMsgTemplateFlagMissing = "--template is required"
)

// Command descriptions
const (
	CLIName        = "teamsai"
	CLIDescription = "Teams AI prompt template CLI"

	CmdShortRender   = "Render a template against state and an activity"
	CmdShortValidate = "Validate a template without rendering"
	CmdShortBlocks   = "Print the blocks extracted from a template"
	CmdShortTokens   = "Count or truncate text by tokens"
	CmdShortVersion  = "Show version information"

	CmdLongRoot = `teamsai renders Teams AI style prompt templates.

Templates mix literal text with {{$variable}} references and {{function $arg}}
calls. Variables resolve against state scopes (temp, conversation, user) and
the activity; functions come from registered data sources.`

	CmdExampleRender = `  teamsai render -t prompt.txt --state '{"conversation":{"topic":"billing"}}'
  teamsai render -t prompt.txt --activity-file activity.json
  teamsai render -t prompt.txt --datasource docs=docs.md --max-tokens 500
  cat prompt.txt | teamsai render -t -`

	CmdExampleValidate = `  teamsai validate -t prompt.txt
  teamsai validate -t prompt.txt -F json`

	CmdExampleBlocks = `  teamsai blocks -t prompt.txt
  teamsai blocks -t prompt.txt -F json --no-validate`

	CmdExampleTokens = `  teamsai tokens -t notes.md
  teamsai tokens -t notes.md --max-tokens 100 -e o200k_base`
)

// Version output format templates
const (
	VersionTextTemplate = "teamsai version %s\nCommit: %s\nBranch: %s\nBuilt: %s\nGo: %s"
	VersionUnknown      = "unknown"
	VersionsFileName    = "versions.yaml"
	VersionsSearchDir   = "."
	VersionsSearchDepth = 2
)

// Validation output format templates
const (
	ValidationTextSuccess = "Template is valid (%d blocks)"
	ValidationTextFailure = "Template is invalid: %s"
)

// Token output format templates
const (
	TokensTextCount     = "%d"
	TokensTextTruncated = "truncated from %d to %d tokens"
)

// Block listing format
const (
	BlocksTextFormat = "%-8s %q\n"
)

// Data source flag separator
const (
	DataSourceSeparator = "="
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
	JSONIndent         = "  "
)

// Log messages
const (
	LogMsgConfigLoaded     = "config loaded"
	LogMsgDataSourceLoaded = "data source loaded"
	LogMsgRenderComplete   = "render complete"
)

// Log field names
const (
	LogFieldConfig   = "config"
	LogFieldEncoding = "encoding"
	LogFieldLevel    = "level"
	LogFieldSource   = "source"
	LogFieldTokens   = "tokens"
	LogFieldBytes    = "bytes"
)
