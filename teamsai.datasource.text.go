package teamsai

import (
	"sync"
)

// RenderedText is the result of rendering a data source within a budget.
type RenderedText struct {
	Output  string
	Length  int  // tokens in Output
	TooLong bool // Output was truncated
}

// TextDataSource is a named block of static text that can be rendered
// into a prompt within a token budget. The text is encoded once, on the
// first Render, and the tokens are reused for every later call.
type TextDataSource struct {
	name      string
	text      string
	tokenizer Tokenizer

	once   sync.Once
	tokens []int
}

// NewTextDataSource creates a text data source.
func NewTextDataSource(name, text string, tokenizer Tokenizer) *TextDataSource {
	return &TextDataSource{
		name:      name,
		text:      text,
		tokenizer: tokenizer,
	}
}

// Name returns the source name.
func (s *TextDataSource) Name() string { return s.name }

// Text returns the full source text.
func (s *TextDataSource) Text() string { return s.text }

// Render returns the text if it fits in maxTokens, otherwise the longest
// token-aligned prefix of maxTokens tokens. A negative budget is treated as 0.
func (s *TextDataSource) Render(maxTokens int) RenderedText {
	s.once.Do(func() {
		s.tokens = s.tokenizer.Encode(s.text)
	})

	if maxTokens < 0 {
		maxTokens = 0
	}
	if len(s.tokens) <= maxTokens {
		return RenderedText{Output: s.text, Length: len(s.tokens)}
	}
	return RenderedText{
		Output:  s.tokenizer.Decode(s.tokens[:maxTokens]),
		Length:  maxTokens,
		TooLong: true,
	}
}
