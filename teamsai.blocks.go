package teamsai

import (
	"github.com/itsatony/go-teamsai/internal"
)

// Block is one unit of an extracted template: literal text, a variable
// reference or a function call. The set of block kinds is closed.
type Block = internal.Block

// BlockType identifies the kind of a block.
type BlockType = internal.BlockType

// Concrete block kinds.
type (
	TextBlock = internal.TextBlock
	VarBlock  = internal.VarBlock
	CodeBlock = internal.CodeBlock
)

// Block type values.
const (
	BlockTypeUndefined = internal.BlockTypeUndefined
	BlockTypeText      = internal.BlockTypeText
	BlockTypeVariable  = internal.BlockTypeVariable
	BlockTypeCode      = internal.BlockTypeCode
)

// NewTextBlock creates a literal text block.
func NewTextBlock(content string) *TextBlock {
	return internal.NewTextBlock(content)
}

// NewVarBlock creates a variable block from "$name" or "$scope.name".
func NewVarBlock(content string) *VarBlock {
	return internal.NewVarBlock(content)
}

// NewCodeBlock creates a function call block from "name $arg1 $arg2".
func NewCodeBlock(content string) *CodeBlock {
	return internal.NewCodeBlock(content)
}

// ValidateBlock checks a single block and returns a syntax error if invalid.
func ValidateBlock(b Block) error {
	if b == nil {
		return translateError(internal.NewUnsupportedBlockError(BlockTypeUndefined))
	}
	return translateError(b.Validate())
}

// BlocksText concatenates block contents, rendering text blocks verbatim and
// re-delimiting variable and code blocks. It is the inverse of extraction up
// to whitespace inside delimiters.
func BlocksText(blocks []Block) string {
	n := 0
	for _, b := range blocks {
		if b != nil {
			n += len(b.Content()) + len(OpenDelim) + len(CloseDelim)
		}
	}
	out := make([]byte, 0, n)
	for _, b := range blocks {
		switch blk := b.(type) {
		case *TextBlock:
			out = append(out, blk.Content()...)
		case *VarBlock, *CodeBlock:
			out = append(out, OpenDelim...)
			out = append(out, blk.Content()...)
			out = append(out, CloseDelim...)
		}
	}
	return string(out)
}
