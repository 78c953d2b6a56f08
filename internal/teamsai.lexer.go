package internal

import (
	"strings"

	"go.uber.org/zap"
)

// Lexer splits template text into blocks using "{{" / "}}" delimiters.
// Delimiters do not nest: a "{{" seen while a region is open is ignored and
// the first "}}" after the opening closes the region.
type Lexer struct {
	source string
	logger *zap.Logger

	pos            int  // Current byte position
	endOfLastBlock int  // End offset of the previously emitted block
	startPos       int  // Offset of the pending "{{"
	startFound     bool // Whether a region is open
}

// NewLexer creates a lexer for the given source.
func NewLexer(source string, logger *zap.Logger) *Lexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lexer{
		source: source,
		logger: logger,
	}
}

// ExtractBlocks tokenizes the source and optionally validates each block.
// An empty source yields a single empty text block; a source shorter than
// MinBlockTemplateLength yields a single text block. Validation stops at the
// first invalid block and no blocks are returned in that case.
func (l *Lexer) ExtractBlocks(validate bool) ([]Block, error) {
	l.logger.Debug(LogMsgExtractStart, zap.Int(LogFieldSource, len(l.source)))

	blocks := l.scan()

	if validate {
		for _, b := range blocks {
			if err := b.Validate(); err != nil {
				l.logger.Debug(LogMsgValidationFailed,
					zap.String(LogFieldBlockType, b.Type().String()),
					zap.Error(err))
				return nil, err
			}
		}
	}

	l.logger.Debug(LogMsgExtractEnd, zap.Int(LogFieldBlocks, len(blocks)))
	return blocks, nil
}

// ExtractBlocks is a convenience wrapper around NewLexer(...).ExtractBlocks.
func ExtractBlocks(source string, validate bool, logger *zap.Logger) ([]Block, error) {
	return NewLexer(source, logger).ExtractBlocks(validate)
}

func (l *Lexer) scan() []Block {
	if len(l.source) < MinBlockTemplateLength {
		return []Block{NewTextBlock(l.source)}
	}

	var blocks []Block
	for !l.isAtEnd() {
		switch {
		case !l.startFound && l.matchStr(StrOpenDelim):
			l.startPos = l.pos
			l.startFound = true
			l.pos += LenDelim

		case l.startFound && l.matchStr(StrCloseDelim):
			blocks = l.closeRegion(blocks)

		default:
			l.pos++
		}
	}

	// Trailing text, including an unterminated "{{", is kept verbatim.
	if l.endOfLastBlock < len(l.source) {
		blocks = append(blocks, NewTextBlockFromRange(l.source, l.endOfLastBlock, len(l.source)))
	}
	return blocks
}

// closeRegion emits the pending text and the block for the region
// [startPos, pos+LenDelim).
func (l *Lexer) closeRegion(blocks []Block) []Block {
	end := l.pos + LenDelim

	if l.startPos > l.endOfLastBlock {
		blocks = append(blocks, NewTextBlockFromRange(l.source, l.endOfLastBlock, l.startPos))
	}

	raw := l.source[l.startPos:end]
	inner := strings.TrimSpace(raw[LenDelim : len(raw)-LenDelim])

	switch {
	case inner == StringValueEmpty:
		blocks = append(blocks, NewTextBlock(raw))
	case inner[0] == CharVarPrefix:
		blocks = append(blocks, NewVarBlock(inner))
	default:
		blocks = append(blocks, NewCodeBlock(inner))
	}

	l.endOfLastBlock = end
	l.startFound = false
	l.pos = end
	return blocks
}

// isAtEnd returns true if we've reached the end of source
func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

// matchStr returns true if the remaining source starts with s
func (l *Lexer) matchStr(s string) bool {
	return strings.HasPrefix(l.source[l.pos:], s)
}
