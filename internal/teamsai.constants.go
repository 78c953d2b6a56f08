package internal

// Template syntax
const (
	StrOpenDelim    = "{{"
	StrCloseDelim   = "}}"
	CharOpenBrace   = '{'
	CharCloseBrace  = '}'
	CharVarPrefix   = '$'
	CharDot         = '.'
	CharSpace       = ' '
	CharTab         = '\t'
	CharNewline     = '\n'
	CharCarriageRet = '\r'

	// LenDelim is the length of either delimiter.
	LenDelim = 2

	// MinBlockTemplateLength is the shortest template that can hold a
	// non-empty delimited block ("{{x}}"). Shorter templates are literal text.
	MinBlockTemplateLength = 5
)

// Path and scope names
const (
	PathSeparator    = "."
	ScopeTemp        = "temp"
	ScopeActivity    = "activity"
	KeyOutput        = "output"
	PathTempOutput   = ScopeTemp + PathSeparator + KeyOutput
	MaxPathSegments  = 2
	StringValueEmpty = ""
)

// Log message constants
const (
	LogMsgExtractStart     = "extracting blocks"
	LogMsgExtractEnd       = "block extraction complete"
	LogMsgValidationFailed = "block validation failed"
	LogMsgRendererCreated  = "renderer created"
	LogMsgRenderStart      = "starting render"
	LogMsgRenderEnd        = "render complete"
	LogMsgFunctionInvoked  = "function invoked"
	LogMsgFunctionComplete = "function complete"
	LogMsgVariableResolved = "variable resolved"
	LogMsgVariableEmpty    = "variable resolved to empty value"
)

// Log field constants
const (
	LogFieldSource    = "source_len"
	LogFieldBlocks    = "blocks"
	LogFieldBlockType = "block_type"
	LogFieldVariable  = "variable"
	LogFieldScope     = "scope"
	LogFieldFunction  = "function"
	LogFieldArgs      = "args"
	LogFieldOutputLen = "output_len"
	LogFieldError     = "error"
)

// Error format strings
const (
	ErrFmtWithToken = "%s: %q"
	ErrFmtWithScope = "%s: %q (scope %q)"
)
