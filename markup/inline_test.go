package markup_test

import (
	"reflect"
	"testing"

	"github.com/ByLCY/cardpress/markup"
)

func TestInlineEmphasisOrder(t *testing.T) {
	spans := markup.ParseInline("**bold** and *italic* and ***both***")
	want := []markup.Span{
		{Text: "bold", Emphasis: markup.EmphasisBold},
		{Text: " and ", Emphasis: markup.EmphasisNone},
		{Text: "italic", Emphasis: markup.EmphasisItalic},
		{Text: " and ", Emphasis: markup.EmphasisNone},
		{Text: "both", Emphasis: markup.EmphasisBold | markup.EmphasisItalic},
	}
	if !reflect.DeepEqual(spans, want) {
		t.Fatalf("unexpected spans:\n got %+v\nwant %+v", spans, want)
	}
}

func TestInlineNestedEmphasis(t *testing.T) {
	spans := markup.ParseInline("**bold *deep* bold**")
	want := []markup.Span{
		{Text: "bold ", Emphasis: markup.EmphasisBold},
		{Text: "deep", Emphasis: markup.EmphasisBold | markup.EmphasisItalic},
		{Text: " bold", Emphasis: markup.EmphasisBold},
	}
	if !reflect.DeepEqual(spans, want) {
		t.Fatalf("unexpected spans:\n got %+v\nwant %+v", spans, want)
	}
}

func TestInlineBoldInsideItalic(t *testing.T) {
	spans := markup.ParseInline("*a **b** c*")
	want := []markup.Span{
		{Text: "a ", Emphasis: markup.EmphasisItalic},
		{Text: "b", Emphasis: markup.EmphasisBold | markup.EmphasisItalic},
		{Text: " c", Emphasis: markup.EmphasisItalic},
	}
	if !reflect.DeepEqual(spans, want) {
		t.Fatalf("unexpected spans:\n got %+v\nwant %+v", spans, want)
	}
}

func TestInlineUnmatchedDelimitersStayLiteral(t *testing.T) {
	cases := map[string]string{
		"*dangling":       "*dangling",
		"a ** b":          "a ** b",
		"trailing stars*": "trailing stars*",
		"****":            "****",
	}
	for input, want := range cases {
		spans := markup.ParseInline(input)
		var got string
		for _, sp := range spans {
			if sp.Emphasis != markup.EmphasisNone {
				t.Fatalf("input %q: expected only plain spans, got %+v", input, spans)
			}
			got += sp.Text
		}
		if got != want {
			t.Fatalf("input %q: got %q want %q", input, got, want)
		}
	}
}

func TestInlineEmptyText(t *testing.T) {
	if spans := markup.ParseInline(""); spans != nil {
		t.Fatalf("empty text should yield no spans, got %+v", spans)
	}
}
