package teamsai

import (
	"errors"
	"fmt"

	"github.com/itsatony/go-cuserr"

	"github.com/itsatony/go-teamsai/internal"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Template errors
	ErrMsgSyntax            = "template syntax error"
	ErrMsgUndefinedVariable = "undefined variable"
	ErrMsgUnsupportedBlock  = "unsupported block"

	// Function registry errors
	ErrMsgFunctionNotFound  = "function not registered"
	ErrMsgFunctionExists    = "function already registered"
	ErrMsgFunctionNil       = "function cannot be nil"
	ErrMsgFunctionEmptyName = "function name cannot be empty"
	ErrMsgFunctionBadName   = "function name contains invalid characters"
	ErrMsgDataSourceNil     = "data source cannot be nil"

	// State errors
	ErrMsgInvalidPath         = "invalid state path"
	ErrMsgScopeNotFound       = "state scope not found"
	ErrMsgScopeExists         = "state scope already exists"
	ErrMsgScopeReserved       = "state scope name is reserved"
	ErrMsgMissingChannel      = "activity has no channel id"
	ErrMsgMissingConversation = "activity has no conversation id"
	ErrMsgNilTurn             = "turn context is nil"
	ErrMsgInvalidActivity     = "invalid activity payload"

	// Prompt errors
	ErrMsgPromptNotFound      = "prompt not found"
	ErrMsgInvalidPromptName   = "invalid prompt name"
	ErrMsgPromptConfigInvalid = "invalid prompt config"
	ErrMsgPromptReadFailed    = "failed to read prompt"

	// Tokenizer errors
	ErrMsgEncodingUnavailable = "tokenizer encoding unavailable"
)

// Error code constants for categorization
const (
	ErrCodeSyntax    = "TEAMSAI_SYNTAX"
	ErrCodeRender    = "TEAMSAI_RENDER"
	ErrCodeRegistry  = "TEAMSAI_REGISTRY"
	ErrCodeState     = "TEAMSAI_STATE"
	ErrCodePrompt    = "TEAMSAI_PROMPT"
	ErrCodeTokenizer = "TEAMSAI_TOKENIZER"
)

// Error kind values stored under MetaKeyKind
const (
	ErrKindSyntax            = "syntax"
	ErrKindUndefinedVariable = "undefined_variable"
	ErrKindUnsupportedBlock  = "unsupported_block"
	ErrKindFunctionNotFound  = "function_not_found"
)

// Error metadata keys
const (
	MetaKeyKind      = "kind"
	MetaKeyRule      = "rule"
	MetaKeyToken     = "token"
	MetaKeyBlockType = "block_type"
	MetaKeyVariable  = "variable"
	MetaKeyScope     = "scope"
	MetaKeyFunction  = "function"
	MetaKeyPath      = "path"
	MetaKeyPrompt    = "prompt"
	MetaKeyEncoding  = "encoding"
	MetaKeyDriver    = "driver"
	MetaKeyKey       = "key"
)

// translateError converts internal engine errors into cuserr errors.
// Errors that did not originate in the engine (function failures, context
// cancellation, storage errors) are returned unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var blockErr *internal.BlockError
	if !errors.As(err, &blockErr) {
		return err
	}

	switch blockErr.Kind {
	case internal.ErrorKindSyntax:
		return NewSyntaxError(blockErr)
	case internal.ErrorKindUndefinedVariable:
		return NewUndefinedVariableError(blockErr)
	case internal.ErrorKindUnsupportedBlock:
		return NewUnsupportedBlockError(blockErr)
	default:
		return err
	}
}

// NewSyntaxError creates a validation error naming the failed rule and token.
func NewSyntaxError(cause *internal.BlockError) error {
	return cuserr.WrapStdError(cause, ErrCodeSyntax, fmt.Sprintf("%s: %s", ErrMsgSyntax, cause.Error())).
		WithMetadata(MetaKeyKind, ErrKindSyntax).
		WithMetadata(MetaKeyRule, cause.Message).
		WithMetadata(MetaKeyToken, cause.Token).
		WithMetadata(MetaKeyBlockType, cause.BlockType.String())
}

// NewUndefinedVariableError creates an error for a variable whose scope is
// not defined in memory.
func NewUndefinedVariableError(cause *internal.BlockError) error {
	return cuserr.WrapStdError(cause, ErrCodeRender, fmt.Sprintf("%s: %s", ErrMsgUndefinedVariable, cause.Error())).
		WithMetadata(MetaKeyKind, ErrKindUndefinedVariable).
		WithMetadata(MetaKeyVariable, cause.Token).
		WithMetadata(MetaKeyScope, cause.Scope)
}

// NewUnsupportedBlockError creates an error for a block the renderer cannot handle.
func NewUnsupportedBlockError(cause *internal.BlockError) error {
	return cuserr.WrapStdError(cause, ErrCodeRender, fmt.Sprintf("%s: %s", ErrMsgUnsupportedBlock, cause.Token)).
		WithMetadata(MetaKeyKind, ErrKindUnsupportedBlock).
		WithMetadata(MetaKeyBlockType, cause.Token)
}

// NewFunctionNotFoundError creates an error for an unregistered function name.
func NewFunctionNotFoundError(name string) error {
	return cuserr.NewNotFoundError(MetaKeyFunction, fmt.Sprintf("%s: %s", ErrMsgFunctionNotFound, name)).
		WithMetadata(MetaKeyKind, ErrKindFunctionNotFound).
		WithMetadata(MetaKeyFunction, name)
}

// NewFunctionRegistryError creates a registration error.
func NewFunctionRegistryError(msg, name string) error {
	return cuserr.NewValidationError(ErrCodeRegistry, msg).
		WithMetadata(MetaKeyFunction, name)
}

// NewInvalidPathError creates an error for a malformed state path.
func NewInvalidPathError(path string) error {
	return cuserr.NewValidationError(ErrCodeState, fmt.Sprintf("%s: %q", ErrMsgInvalidPath, path)).
		WithMetadata(MetaKeyPath, path)
}

// NewScopeNotFoundError creates an error for writes to an unknown scope.
func NewScopeNotFoundError(scope string) error {
	return cuserr.NewNotFoundError(MetaKeyScope, fmt.Sprintf("%s: %s", ErrMsgScopeNotFound, scope)).
		WithMetadata(MetaKeyScope, scope)
}

// NewStateError creates a generic turn state error.
func NewStateError(msg string) error {
	return cuserr.NewValidationError(ErrCodeState, msg)
}

// NewPromptError creates a prompt loading error.
func NewPromptError(msg, name string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodePrompt, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodePrompt, msg)
	}
	return err.WithMetadata(MetaKeyPrompt, name)
}

// errorKind returns the kind recorded on a cuserr error, if any.
func errorKind(err error) string {
	var customErr *cuserr.CustomError
	if !errors.As(err, &customErr) {
		return ""
	}
	kind, _ := customErr.GetMetadata(MetaKeyKind)
	return kind
}

// IsSyntaxError reports whether err is a template validation failure.
func IsSyntaxError(err error) bool {
	return errorKind(err) == ErrKindSyntax
}

// IsUndefinedVariableError reports whether err names a variable in an unknown scope.
func IsUndefinedVariableError(err error) bool {
	return errorKind(err) == ErrKindUndefinedVariable
}

// IsFunctionNotFoundError reports whether err is an unregistered function call.
func IsFunctionNotFoundError(err error) bool {
	return errorKind(err) == ErrKindFunctionNotFound
}

// IsUnsupportedBlockError reports whether err came from an unsupported block.
func IsUnsupportedBlockError(err error) bool {
	return errorKind(err) == ErrKindUnsupportedBlock
}
