package internal

import (
	"strings"
)

// BlockType identifies the kind of a template block
type BlockType int

// Block type constants
const (
	BlockTypeUndefined BlockType = iota
	BlockTypeText
	BlockTypeVariable
	BlockTypeCode
)

// Block type string names
const (
	BlockTypeNameUndefined = "UNDEFINED"
	BlockTypeNameText      = "TEXT"
	BlockTypeNameVariable  = "VARIABLE"
	BlockTypeNameCode      = "CODE"
)

// String returns the string representation of the block type
func (t BlockType) String() string {
	switch t {
	case BlockTypeText:
		return BlockTypeNameText
	case BlockTypeVariable:
		return BlockTypeNameVariable
	case BlockTypeCode:
		return BlockTypeNameCode
	default:
		return BlockTypeNameUndefined
	}
}

// Block is one unit of an extracted template.
// The set of implementations is closed: only TextBlock, VarBlock and CodeBlock
// satisfy it. Blocks are immutable once constructed.
type Block interface {
	// Type returns the block kind.
	Type() BlockType
	// Content returns the block content. For variable and code blocks this is
	// the trimmed text between the delimiters.
	Content() string
	// Validate checks the block syntax without rendering it.
	Validate() error

	sealed()
}

// TextBlock holds literal template text.
type TextBlock struct {
	content string
}

// NewTextBlock creates a text block with the given content.
func NewTextBlock(content string) *TextBlock {
	return &TextBlock{content: content}
}

// NewTextBlockFromRange creates a text block from text[start:end].
// Out of range offsets are clamped to the text bounds.
func NewTextBlockFromRange(text string, start, end int) *TextBlock {
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if start >= end {
		return &TextBlock{}
	}
	return &TextBlock{content: text[start:end]}
}

func (b *TextBlock) Type() BlockType { return BlockTypeText }
func (b *TextBlock) Content() string { return b.content }
func (b *TextBlock) Validate() error { return nil }
func (b *TextBlock) sealed()         {}

// VarBlock references a memory value, e.g. "$name" or "$conversation.name".
type VarBlock struct {
	content string
	name    string
}

// NewVarBlock creates a variable block. The name is the content without the
// leading '$'. Invalid content is accepted here and rejected by Validate.
func NewVarBlock(content string) *VarBlock {
	content = strings.TrimSpace(content)
	name := content
	if len(content) > 0 && content[0] == CharVarPrefix {
		name = content[1:]
	}
	return &VarBlock{content: content, name: name}
}

func (b *VarBlock) Type() BlockType { return BlockTypeVariable }
func (b *VarBlock) Content() string { return b.content }
func (b *VarBlock) sealed()         {}

// Name returns the variable path without the '$' prefix.
func (b *VarBlock) Name() string { return b.name }

// Validate checks the variable reference syntax.
func (b *VarBlock) Validate() error {
	return validateVariable(b.content, BlockTypeVariable)
}

// CodeBlock is a function call: "functionName $arg1 $arg2".
type CodeBlock struct {
	content string
	tokens  []string
}

// NewCodeBlock creates a code block, splitting the content on whitespace runs.
func NewCodeBlock(content string) *CodeBlock {
	content = strings.TrimSpace(content)
	return &CodeBlock{
		content: content,
		tokens:  splitCodeTokens(content),
	}
}

func (b *CodeBlock) Type() BlockType { return BlockTypeCode }
func (b *CodeBlock) Content() string { return b.content }
func (b *CodeBlock) sealed()         {}

// FunctionName returns the first token of the call.
func (b *CodeBlock) FunctionName() string {
	if len(b.tokens) == 0 {
		return StringValueEmpty
	}
	return b.tokens[0]
}

// Params returns the parameter tokens (including their '$' prefix).
func (b *CodeBlock) Params() []string {
	if len(b.tokens) < 2 {
		return nil
	}
	params := make([]string, len(b.tokens)-1)
	copy(params, b.tokens[1:])
	return params
}

// Validate checks the function name and every parameter.
func (b *CodeBlock) Validate() error {
	return validateCode(b.content, b.tokens)
}

// splitCodeTokens splits on runs of space, tab, CR and LF, dropping empties.
func splitCodeTokens(content string) []string {
	return strings.FieldsFunc(content, isCodeSeparator)
}

func isCodeSeparator(r rune) bool {
	return r == CharSpace || r == CharTab || r == CharNewline || r == CharCarriageRet
}
