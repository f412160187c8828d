package parser

import (
	"reflect"
	"testing"
)

func TestSplitBlocksNumbered(t *testing.T) {
	input := `1) Jane Doe Upstox
9876543210

2. John Smith Zerodha
9123456780
12) Late Entry
9988776655`

	blocks := SplitBlocks(input)
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d: %v", len(blocks), blocks)
	}

	want := [][]string{
		{"Jane Doe Upstox", "9876543210", ""},
		{"John Smith Zerodha", "9123456780"},
		{"Late Entry", "9988776655"},
	}
	for i, block := range blocks {
		if !reflect.DeepEqual(block, want[i]) {
			t.Errorf("block %d = %v, want %v", i, block, want[i])
		}
	}
}

func TestSplitBlocksNoMarkers(t *testing.T) {
	input := "Jane Doe Upstox\n9876543210"
	blocks := SplitBlocks(input)
	if len(blocks) != 1 {
		t.Fatalf("expected the whole input as one block, got %d", len(blocks))
	}
	if !reflect.DeepEqual(blocks[0], []string{"Jane Doe Upstox", "9876543210"}) {
		t.Errorf("block = %v", blocks[0])
	}
}

func TestSplitBlocksEmptyDiscarded(t *testing.T) {
	if blocks := SplitBlocks("1)"); len(blocks) != 0 {
		t.Errorf("expected marker-only input to produce no blocks, got %v", blocks)
	}
	if blocks := SplitBlocks("   "); len(blocks) != 0 {
		t.Errorf("expected blank input to produce no blocks, got %v", blocks)
	}
}
