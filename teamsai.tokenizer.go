package teamsai

import (
	"fmt"

	"github.com/itsatony/go-cuserr"
	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Tokenizer converts between text and model tokens.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

// TiktokenTokenizer is a Tokenizer backed by a tiktoken BPE encoding.
type TiktokenTokenizer struct {
	encoding string
	enc      *tiktoken.Tiktoken
}

// NewTiktokenTokenizer loads the named encoding, e.g. DefaultEncoding.
func NewTiktokenTokenizer(encoding string) (*TiktokenTokenizer, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, cuserr.WrapStdError(err, ErrCodeTokenizer, fmt.Sprintf("%s: %s", ErrMsgEncodingUnavailable, encoding)).
			WithMetadata(MetaKeyEncoding, encoding)
	}
	return &TiktokenTokenizer{encoding: encoding, enc: enc}, nil
}

// Encoding returns the encoding name.
func (t *TiktokenTokenizer) Encoding() string { return t.encoding }

// Encode splits text into tokens. Special tokens are encoded as plain text.
func (t *TiktokenTokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

// Decode joins tokens back into text.
func (t *TiktokenTokenizer) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}

// CountTokens returns the number of tokens in text.
func CountTokens(tok Tokenizer, text string) int {
	return len(tok.Encode(text))
}
