package markup

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// The lexer is line-oriented: block markers can only match at the start of
// a line because the Line rule always consumes to the next newline. Marker
// rules require trailing whitespace, so "#x", "*word*" or "3.14" fall
// through to Line and stay paragraph text.
var (
	lineLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Newline", Pattern: `\r?\n`},
		{Name: "Heading", Pattern: `#{1,3}[ \t]+`},
		{Name: "Bullet", Pattern: `[-*+][ \t]+`},
		{Name: "Ordered", Pattern: `\d+\.[ \t]+`},
		{Name: "Line", Pattern: `[^\n]+`},
	})

	documentParser = participle.MustBuild[document](
		participle.Lexer(lineLexer),
	)
)

// document is the root AST node; stray newlines separate blocks.
type document struct {
	Nodes []*node `parser:"( @@ | Newline )*"`
}

type node struct {
	Heading *markedNode `parser:"  @@"`
	Bullet  *bulletNode `parser:"| @@"`
	Para    *paraNode   `parser:"| @@"`
}

// markedNode captures a heading marker and the rest of its line.
type markedNode struct {
	Marker string `parser:"@Heading"`
	Text   string `parser:"@Line? Newline?"`
}

// bulletNode doubles for ordered items; the marker disambiguates.
type bulletNode struct {
	BulletMarker  string `parser:"( @Bullet"`
	OrderedMarker string `parser:"| @Ordered )"`
	Text          string `parser:"@Line? Newline?"`
}

// paraNode accumulates consecutive non-marker lines.
type paraNode struct {
	Lines []string `parser:"( @Line Newline? )+"`
}

// Parse reads marked-up text and returns the ordered block sequence.
// Malformed markup never fails: unrecognized line shapes are paragraph
// text and unmatched emphasis delimiters stay literal. Blank input yields
// an empty (nil) sequence.
func Parse(r io.Reader) ([]Block, error) {
	doc, err := documentParser.Parse("", r)
	if err != nil {
		return nil, err
	}
	return convert(doc), nil
}

// ParseString parses marked-up text from a string.
func ParseString(input string) ([]Block, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	doc, err := documentParser.ParseString("", input)
	if err != nil {
		return nil, err
	}
	return convert(doc), nil
}

func convert(doc *document) []Block {
	if doc == nil {
		return nil
	}
	var blocks []Block
	for _, n := range doc.Nodes {
		switch {
		case n.Heading != nil:
			level := strings.Count(n.Heading.Marker, "#")
			blocks = append(blocks, Block{
				Kind:  KindHeading,
				Level: level,
				Spans: ParseInline(cleanLine(n.Heading.Text)),
			})
		case n.Bullet != nil:
			b := n.Bullet
			text := cleanLine(b.Text)
			if b.OrderedMarker != "" {
				idx := markerIndex(b.OrderedMarker)
				// 连续的有序项从首个编号开始重新编号
				if prev := lastBlock(blocks); prev != nil && prev.Kind == KindOrdered {
					idx = prev.Index + 1
				}
				blocks = append(blocks, Block{Kind: KindOrdered, Index: idx, Spans: ParseInline(text)})
			} else {
				blocks = append(blocks, Block{Kind: KindBullet, Spans: ParseInline(text)})
			}
		case n.Para != nil:
			blocks = append(blocks, convertParagraphs(n.Para.Lines)...)
		}
	}
	return blocks
}

// convertParagraphs joins consecutive lines with spaces; whitespace-only
// lines inside the run split it into separate paragraphs.
func convertParagraphs(lines []string) []Block {
	var blocks []Block
	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		blocks = append(blocks, Block{
			Kind:  KindParagraph,
			Spans: ParseInline(strings.Join(current, " ")),
		})
		current = nil
	}
	for _, line := range lines {
		line = cleanLine(line)
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return blocks
}

func cleanLine(s string) string {
	return strings.TrimSpace(strings.TrimSuffix(s, "\r"))
}

func markerIndex(marker string) int {
	num := strings.TrimRight(marker, " \t")
	num = strings.TrimSuffix(num, ".")
	idx, err := strconv.Atoi(num)
	if err != nil {
		return 1
	}
	return idx
}

func lastBlock(blocks []Block) *Block {
	if len(blocks) == 0 {
		return nil
	}
	return &blocks[len(blocks)-1]
}
