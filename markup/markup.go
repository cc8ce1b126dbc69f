// Package markup parses the markdown subset accepted by the print tools
// into an ordered sequence of typed content blocks.
package markup

// BlockKind identifies the structural role of a parsed block.
type BlockKind int

const (
	KindParagraph BlockKind = iota
	KindHeading
	KindBullet
	KindOrdered
)

// String returns the human-readable kind name.
func (k BlockKind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindHeading:
		return "heading"
	case KindBullet:
		return "bullet"
	case KindOrdered:
		return "ordered"
	default:
		return "unknown"
	}
}

// Emphasis is a bit set over bold and italic.
type Emphasis int

const (
	EmphasisNone   Emphasis = 0
	EmphasisBold   Emphasis = 1 << 0
	EmphasisItalic Emphasis = 1 << 1
)

// Span is a run of text with uniform emphasis. Spans are immutable after
// parsing.
type Span struct {
	Text     string   `json:"text"`
	Emphasis Emphasis `json:"emphasis"`
}

// Block is one structural unit of parsed content. Level is meaningful only
// for headings (1..3); Index only for ordered items.
type Block struct {
	Kind  BlockKind `json:"kind"`
	Level int       `json:"level,omitempty"`
	Index int       `json:"index,omitempty"`
	Spans []Span    `json:"spans"`
}

// PlainText joins the block's span texts without emphasis markers.
func (b Block) PlainText() string {
	var out []byte
	for _, sp := range b.Spans {
		out = append(out, sp.Text...)
	}
	return string(out)
}
