package layout

import (
	"testing"

	"github.com/ByLCY/cardpress/markup"
)

func TestStyleForHeadingRatios(t *testing.T) {
	p := testParams()
	cases := []struct {
		level int
		ratio float64
	}{
		{1, h1Ratio},
		{2, h2Ratio},
		{3, h3Ratio},
	}
	for _, tc := range cases {
		sty := StyleFor(markup.KindHeading, tc.level, p)
		if sty.SizePt != p.FontSizePt*tc.ratio {
			t.Fatalf("H%d 字号应为 %g，实际 %g", tc.level, p.FontSizePt*tc.ratio, sty.SizePt)
		}
		if sty.LeadingPt != sty.SizePt*p.LineSpacing {
			t.Fatalf("行高应为字号乘行距因子，实际 %g", sty.LeadingPt)
		}
	}
}

func TestStyleForHeadingNeverBelowBody(t *testing.T) {
	p := testParams()
	for level := 1; level <= 3; level++ {
		sty := StyleFor(markup.KindHeading, level, p)
		if sty.SizePt < p.FontSizePt {
			t.Fatalf("H%d 字号 %g 低于正文 %g", level, sty.SizePt, p.FontSizePt)
		}
	}
}

func TestStyleForListIndent(t *testing.T) {
	p := testParams()
	for _, kind := range []markup.BlockKind{markup.KindBullet, markup.KindOrdered} {
		sty := StyleFor(kind, 0, p)
		if sty.IndentPt != p.MarginPt*listIndentRatio {
			t.Fatalf("%v 缩进应为 %g，实际 %g", kind, p.MarginPt*listIndentRatio, sty.IndentPt)
		}
	}
	if sty := StyleFor(markup.KindParagraph, 0, p); sty.IndentPt != 0 {
		t.Fatal("段落不应有缩进")
	}
}

func TestStyleForIsPure(t *testing.T) {
	p := testParams()
	a := StyleFor(markup.KindHeading, 2, p)
	b := StyleFor(markup.KindHeading, 2, p)
	if a != b {
		t.Fatal("样式解析应是纯函数")
	}
}
