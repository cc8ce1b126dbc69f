package markup_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ByLCY/cardpress/markup"
)

const sampleDoc = `# Study Guide

## Key Themes

Intro paragraph spanning
two source lines.

- first bullet
* second bullet

1. step one
2. step two
7. step three

#### not a heading
### Closing
`

func TestParseDocument(t *testing.T) {
	blocks, err := markup.ParseString(sampleDoc)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(blocks) != 10 {
		t.Fatalf("expected 10 blocks, got %d: %+v", len(blocks), blocks)
	}

	if blocks[0].Kind != markup.KindHeading || blocks[0].Level != 1 || blocks[0].PlainText() != "Study Guide" {
		t.Fatalf("unexpected first heading: %+v", blocks[0])
	}
	if blocks[1].Kind != markup.KindHeading || blocks[1].Level != 2 {
		t.Fatalf("unexpected second heading: %+v", blocks[1])
	}

	para := blocks[2]
	if para.Kind != markup.KindParagraph {
		t.Fatalf("expected paragraph, got %+v", para)
	}
	if para.PlainText() != "Intro paragraph spanning two source lines." {
		t.Fatalf("paragraph lines not joined: %q", para.PlainText())
	}

	if blocks[3].Kind != markup.KindBullet || blocks[3].PlainText() != "first bullet" {
		t.Fatalf("unexpected bullet: %+v", blocks[3])
	}
	if blocks[4].Kind != markup.KindBullet || blocks[4].PlainText() != "second bullet" {
		t.Fatalf("star bullet not recognized: %+v", blocks[4])
	}

	// 有序项按连续段落重新编号：1,2,7 → 1,2,3
	wantIdx := []int{1, 2, 3}
	for i, blk := range blocks[5:8] {
		if blk.Kind != markup.KindOrdered {
			t.Fatalf("expected ordered item at %d, got %+v", i, blk)
		}
		if blk.Index != wantIdx[i] {
			t.Fatalf("ordered index %d: got %d want %d", i, blk.Index, wantIdx[i])
		}
	}

	if blocks[8].Kind != markup.KindParagraph || blocks[8].PlainText() != "#### not a heading" {
		t.Fatalf("4+ hashes must stay paragraph text: %+v", blocks[8])
	}
	if blocks[9].Kind != markup.KindHeading || blocks[9].Level != 3 {
		t.Fatalf("unexpected trailing heading: %+v", blocks[9])
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, input := range []string{"", "\n\n\n", "   \n\t\n"} {
		blocks, err := markup.ParseString(input)
		if err != nil {
			t.Fatalf("blank input %q must not fail: %v", input, err)
		}
		if len(blocks) != 0 {
			t.Fatalf("blank input %q: expected no blocks, got %+v", input, blocks)
		}
	}
}

func TestParseIdempotent(t *testing.T) {
	first, err := markup.ParseString(sampleDoc)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	second, err := markup.Parse(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("re-parse failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("re-parsing identical source produced different blocks")
	}
}

func TestMarkerWithoutSpaceIsText(t *testing.T) {
	blocks, err := markup.ParseString("#tag stays text\n*emphasis* up front\n3.14 is a number\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(blocks) != 1 || blocks[0].Kind != markup.KindParagraph {
		t.Fatalf("expected single paragraph, got %+v", blocks)
	}
	spans := blocks[0].Spans
	if len(spans) < 2 {
		t.Fatalf("expected emphasis inside paragraph, got %+v", spans)
	}
	found := false
	for _, sp := range spans {
		if sp.Text == "emphasis" && sp.Emphasis == markup.EmphasisItalic {
			found = true
		}
	}
	if !found {
		t.Fatalf("leading *emphasis* should parse as italic, got %+v", spans)
	}
}

func TestParseCRLF(t *testing.T) {
	blocks, err := markup.ParseString("# Title\r\n\r\nbody text\r\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %+v", blocks)
	}
	if blocks[0].PlainText() != "Title" || blocks[1].PlainText() != "body text" {
		t.Fatalf("CR not stripped: %+v", blocks)
	}
}
