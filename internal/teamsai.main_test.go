package internal

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// blockSummary is a comparable view of a block used by the tests.
type blockSummary struct {
	Type    BlockType
	Content string
}

func summarize(blocks []Block) []blockSummary {
	out := make([]blockSummary, len(blocks))
	for i, b := range blocks {
		out[i] = blockSummary{Type: b.Type(), Content: b.Content()}
	}
	return out
}
