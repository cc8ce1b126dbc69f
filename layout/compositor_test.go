package layout

import (
	"math"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ByLCY/cardpress/markup"
)

// stubTypesetter 以固定系数估算文本宽度，让测试不依赖字体文件。
type stubTypesetter struct{}

func (stubTypesetter) MeasureWidth(text string, sizePt float64, _ markup.Emphasis) (float64, error) {
	return 0.55 * sizePt * float64(utf8.RuneCountInString(text)), nil
}

func testParams() Params {
	return Params{
		FontSizePt:   10,
		LineSpacing:  1.0,
		MarginPt:     10,
		PageWidthPt:  200,
		PageHeightPt: 100,
	}
}

// para 生成由 n 个四字词组成的段落。
func para(n int) markup.Block {
	words := make([]string, n)
	for i := range words {
		words[i] = "aaaa"
	}
	return markup.Block{Kind: markup.KindParagraph, Spans: []markup.Span{{Text: strings.Join(words, " ")}}}
}

func TestComposeEmptyInput(t *testing.T) {
	res, err := Compose(nil, testParams(), stubTypesetter{})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if res.PageCount() != 0 {
		t.Fatalf("空输入应产生 0 页，实际 %d", res.PageCount())
	}
}

func TestComposeNilTypesetter(t *testing.T) {
	if _, err := Compose([]markup.Block{para(3)}, testParams(), nil); err == nil {
		t.Fatal("缺少 Typesetter 时应返回错误")
	}
}

func TestComposeDeterministic(t *testing.T) {
	blocks := []markup.Block{
		{Kind: markup.KindHeading, Level: 1, Spans: []markup.Span{{Text: "Title"}}},
		para(20),
		{Kind: markup.KindBullet, Spans: []markup.Span{{Text: "item one"}}},
	}
	a, err := Compose(blocks, testParams(), stubTypesetter{})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	b, err := Compose(blocks, testParams(), stubTypesetter{})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("同样输入两次排版结果应完全一致")
	}
}

func TestComposeGreedyWrapStaysInsideMargins(t *testing.T) {
	p := testParams()
	res, err := Compose([]markup.Block{para(30)}, p, stubTypesetter{})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	// 词宽 22pt、空格 5.5pt、可用宽度 180pt，每行应放 6 个词。
	first := res.Pages[0].Fragments[0]
	if got := len(strings.Fields(first.Text)); got != 6 {
		t.Fatalf("首行应容纳 6 个词，实际 %d（%q）", got, first.Text)
	}

	rightEdge := p.PageWidthPt - p.MarginPt
	for _, pg := range res.Pages {
		for _, f := range pg.Fragments {
			w := 0.55 * f.SizePt * float64(utf8.RuneCountInString(f.Text))
			if f.X < p.MarginPt-1e-6 || f.X+w > rightEdge+1e-6 {
				t.Fatalf("片段超出页边距：x=%g w=%g 右界=%g（%q）", f.X, w, rightEdge, f.Text)
			}
		}
	}
}

func TestComposeBlockBreaksAtBoundary(t *testing.T) {
	p := testParams()
	// 第一段占 6 行（y 到 70pt），第二段 3 行加块前间距放不进剩余 20pt，
	// 且单独一页足以容纳，应整块移到第 2 页且页首无块前间距。
	blocks := []markup.Block{para(36), para(18)}
	res, err := Compose(blocks, p, stubTypesetter{})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if res.PageCount() != 2 {
		t.Fatalf("应为 2 页，实际 %d", res.PageCount())
	}
	second := res.Pages[1].Fragments[0]
	if math.Abs(second.Y-p.MarginPt) > 1e-6 {
		t.Fatalf("整块换页后应从页首开始，y=%g 期望 %g", second.Y, p.MarginPt)
	}
	if len(res.Pages[1].Fragments) != 3 {
		t.Fatalf("第二段应整块落在第 2 页（3 行），实际 %d 行", len(res.Pages[1].Fragments))
	}
}

func TestComposeOverTallBlockSplitsByLine(t *testing.T) {
	p := testParams()
	// 12 行的段落超过单页 8 行的容量，只能逐行拆分。
	res, err := Compose([]markup.Block{para(72)}, p, stubTypesetter{})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if res.PageCount() != 2 {
		t.Fatalf("应为 2 页，实际 %d", res.PageCount())
	}
	if got := len(res.Pages[0].Fragments); got != 8 {
		t.Fatalf("第 1 页应满排 8 行，实际 %d", got)
	}
	if got := len(res.Pages[1].Fragments); got != 4 {
		t.Fatalf("第 2 页应有 4 行，实际 %d", got)
	}
}

func TestComposeFragmentsNeverBelowBottomMargin(t *testing.T) {
	p := testParams()
	blocks := []markup.Block{
		{Kind: markup.KindHeading, Level: 2, Spans: []markup.Span{{Text: "Heading text"}}},
		para(50),
		{Kind: markup.KindOrdered, Index: 1, Spans: []markup.Span{{Text: "first"}}},
		{Kind: markup.KindOrdered, Index: 2, Spans: []markup.Span{{Text: "second"}}},
		para(40),
	}
	res, err := Compose(blocks, p, stubTypesetter{})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	bottom := p.PageHeightPt - p.MarginPt
	for i, pg := range res.Pages {
		prevY := 0.0
		for _, f := range pg.Fragments {
			if f.Y < p.MarginPt-1e-6 || f.Y+f.SizePt*p.LineSpacing > bottom+1e-6 {
				t.Fatalf("第 %d 页片段越界：y=%g size=%g", i+1, f.Y, f.SizePt)
			}
			if f.Y < prevY-1e-6 {
				t.Fatalf("第 %d 页片段应按阅读顺序排列", i+1)
			}
			prevY = f.Y
		}
	}
}

func TestComposeListMarkersAndIndent(t *testing.T) {
	p := testParams()
	blocks := []markup.Block{
		{Kind: markup.KindBullet, Spans: []markup.Span{{Text: "alpha"}}},
		{Kind: markup.KindOrdered, Index: 4, Spans: []markup.Span{{Text: "beta"}}},
	}
	res, err := Compose(blocks, p, stubTypesetter{})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	frags := res.Pages[0].Fragments
	if !strings.HasPrefix(frags[0].Text, "• ") {
		t.Fatalf("无序项应以项目符号开头：%q", frags[0].Text)
	}
	found := false
	for _, f := range frags {
		if strings.HasPrefix(f.Text, "4. ") {
			found = true
		}
	}
	if !found {
		t.Fatal("有序项应带编号前缀 4.")
	}
	wantX := p.MarginPt + p.MarginPt*listIndentRatio
	if math.Abs(frags[0].X-wantX) > 1e-6 {
		t.Fatalf("列表项应缩进到 %g，实际 %g", wantX, frags[0].X)
	}
}

// boldAwareTypesetter 模拟粗体字形更宽的字体度量。
type boldAwareTypesetter struct{}

func (boldAwareTypesetter) MeasureWidth(text string, sizePt float64, emph markup.Emphasis) (float64, error) {
	factor := 0.55
	if emph&markup.EmphasisBold != 0 {
		factor = 0.6
	}
	return factor * sizePt * float64(utf8.RuneCountInString(text)), nil
}

func TestComposeGapMeasuredWithTokenEmphasis(t *testing.T) {
	p := testParams()
	// 普通词 60.5pt，粗体词 114pt，可用宽度 180pt：
	// 用粗体空格（6pt）量总宽 180.5pt 超限，必须换行；
	// 若误用常规空格（5.5pt）量得 180pt 则会挤在同一行。
	blocks := []markup.Block{{
		Kind: markup.KindParagraph,
		Spans: []markup.Span{
			{Text: strings.Repeat("a", 11)},
			{Text: strings.Repeat("b", 19), Emphasis: markup.EmphasisBold},
		},
	}}
	res, err := Compose(blocks, p, boldAwareTypesetter{})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	frags := res.Pages[0].Fragments
	if len(frags) != 2 {
		t.Fatalf("粗体空格量宽后应换行为 2 个片段，实际 %d", len(frags))
	}
	if frags[0].Y == frags[1].Y {
		t.Fatal("两个片段应位于不同的行")
	}
}

func TestComposeEmphasisGrouping(t *testing.T) {
	blocks := []markup.Block{{
		Kind: markup.KindParagraph,
		Spans: []markup.Span{
			{Text: "one two"},
			{Text: "bold", Emphasis: markup.EmphasisBold},
			{Text: "tail"},
		},
	}}
	res, err := Compose(blocks, testParams(), stubTypesetter{})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	frags := res.Pages[0].Fragments
	if len(frags) != 3 {
		t.Fatalf("强调切换应产生 3 个片段，实际 %d", len(frags))
	}
	if frags[0].Text != "one two" || frags[1].Text != "bold" || frags[2].Text != "tail" {
		t.Fatalf("片段切分不符：%q %q %q", frags[0].Text, frags[1].Text, frags[2].Text)
	}
	if frags[1].Emphasis != markup.EmphasisBold {
		t.Fatal("中间片段应为加粗")
	}
	if !(frags[0].X < frags[1].X && frags[1].X < frags[2].X) {
		t.Fatal("同一行的片段应从左到右排列")
	}
	if frags[0].Y != frags[1].Y || frags[1].Y != frags[2].Y {
		t.Fatal("三个片段应在同一行")
	}
}
