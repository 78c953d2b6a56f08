package internal

import "fmt"

// ErrorKind classifies engine errors
type ErrorKind int

// Error kind constants
const (
	ErrorKindSyntax ErrorKind = iota + 1
	ErrorKindUndefinedVariable
	ErrorKindUnsupportedBlock
)

// Syntax rule messages
const (
	ErrMsgVarPrefixMissing    = "variable reference must start with '$'"
	ErrMsgVarNameEmpty        = "variable name is empty"
	ErrMsgVarInvalidChar      = "variable name contains invalid characters"
	ErrMsgVarTooManySegments  = "variable path supports at most scope.property"
	ErrMsgFuncNameIsVariable  = "a variable cannot be used as a function name"
	ErrMsgFuncNameInvalidChar = "function name contains invalid characters"
	ErrMsgFuncNameEmpty       = "function name is empty"
	ErrMsgParamPrefixMissing  = "function parameter must be a variable reference"
	ErrMsgParamTooShort       = "function parameter is too short"
	ErrMsgParamInvalidChar    = "function parameter contains invalid characters"
)

// Render failure messages
const (
	ErrMsgUndefinedVariable = "variable scope is not defined"
	ErrMsgUnsupportedPath   = "variable path has too many segments"
	ErrMsgUnsupportedBlock  = "unsupported block type"
	ErrMsgNoFunctionInvoker = "no function invoker configured"
)

// BlockError describes a syntax or render failure tied to one block.
type BlockError struct {
	Kind      ErrorKind
	Message   string    // Rule that failed
	Token     string    // Offending token, variable or function
	Scope     string    // Scope name for undefined variable errors
	BlockType BlockType // Type of the offending block
}

// Error implements the error interface.
func (e *BlockError) Error() string {
	if e.Scope != StringValueEmpty {
		return fmt.Sprintf(ErrFmtWithScope, e.Message, e.Token, e.Scope)
	}
	if e.Token != StringValueEmpty {
		return fmt.Sprintf(ErrFmtWithToken, e.Message, e.Token)
	}
	return e.Message
}

// NewSyntaxError creates a validation failure for the given token.
func NewSyntaxError(message, token string, blockType BlockType) *BlockError {
	return &BlockError{
		Kind:      ErrorKindSyntax,
		Message:   message,
		Token:     token,
		BlockType: blockType,
	}
}

// NewUndefinedVariableError creates an error for a variable whose scope does
// not exist or whose path cannot be resolved.
func NewUndefinedVariableError(message, variable, scope string) *BlockError {
	return &BlockError{
		Kind:      ErrorKindUndefinedVariable,
		Message:   message,
		Token:     variable,
		Scope:     scope,
		BlockType: BlockTypeVariable,
	}
}

// NewUnsupportedBlockError creates an error for a block the renderer cannot handle.
func NewUnsupportedBlockError(blockType BlockType) *BlockError {
	return &BlockError{
		Kind:      ErrorKindUnsupportedBlock,
		Message:   ErrMsgUnsupportedBlock,
		Token:     blockType.String(),
		BlockType: blockType,
	}
}
