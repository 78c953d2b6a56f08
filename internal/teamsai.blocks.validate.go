package internal

import "strings"

// validateVariable checks a "$name" or "$scope.name" reference.
func validateVariable(content string, blockType BlockType) error {
	if len(content) == 0 || content[0] != CharVarPrefix {
		return NewSyntaxError(ErrMsgVarPrefixMissing, content, blockType)
	}
	if len(content) < 2 {
		return NewSyntaxError(ErrMsgVarNameEmpty, content, blockType)
	}
	name := content[1:]
	if !IsValidName(name) {
		return NewSyntaxError(ErrMsgVarInvalidChar, content, blockType)
	}
	if strings.Count(name, PathSeparator) >= MaxPathSegments {
		return NewSyntaxError(ErrMsgVarTooManySegments, content, blockType)
	}
	return nil
}

// validateCode checks the function name and parameter tokens of a code block.
func validateCode(content string, tokens []string) error {
	if len(tokens) == 0 {
		return NewSyntaxError(ErrMsgFuncNameEmpty, content, BlockTypeCode)
	}

	fnName := tokens[0]
	if fnName[0] == CharVarPrefix {
		return NewSyntaxError(ErrMsgFuncNameIsVariable, fnName, BlockTypeCode)
	}
	if !IsValidName(fnName) {
		return NewSyntaxError(ErrMsgFuncNameInvalidChar, fnName, BlockTypeCode)
	}

	for _, param := range tokens[1:] {
		if param[0] != CharVarPrefix {
			return NewSyntaxError(ErrMsgParamPrefixMissing, param, BlockTypeCode)
		}
		if len(param) < 2 {
			return NewSyntaxError(ErrMsgParamTooShort, param, BlockTypeCode)
		}
		if !IsValidName(param[1:]) {
			return NewSyntaxError(ErrMsgParamInvalidChar, param, BlockTypeCode)
		}
	}
	return nil
}

// IsValidName reports whether s only contains [A-Za-z0-9_.].
func IsValidName(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isNameChar(s[i]) {
			return false
		}
	}
	return true
}

func isNameChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_' || ch == CharDot
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
