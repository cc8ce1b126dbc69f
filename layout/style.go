package layout

import "github.com/ByLCY/cardpress/markup"

// Typography 是样式解析的输出：某个块在当前参数下的具体排版属性。
type Typography struct {
	SizePt        float64
	LeadingPt     float64
	SpaceBeforePt float64
	IndentPt      float64
}

// 标题相对正文字号的固定比例。
const (
	h1Ratio = 1.4
	h2Ratio = 1.2
	h3Ratio = 1.05
)

// 块前间距与列表缩进相对正文字号/边距的比例。
const (
	headingSpaceRatio   = 0.9
	paragraphSpaceRatio = 0.5
	listSpaceRatio      = 0.25
	listIndentRatio     = 0.3
)

// StyleFor 将块类型映射为具体排版属性。纯函数：同样的输入永远得到
// 同样的输出，这是自动缩放可复现的前提。标题字号不会低于正文字号。
func StyleFor(kind markup.BlockKind, level int, p Params) Typography {
	size := p.FontSizePt
	spaceBefore := p.FontSizePt * paragraphSpaceRatio
	indent := 0.0

	switch kind {
	case markup.KindHeading:
		ratio := h3Ratio
		switch level {
		case 1:
			ratio = h1Ratio
		case 2:
			ratio = h2Ratio
		}
		size = p.FontSizePt * ratio
		if size < p.FontSizePt {
			size = p.FontSizePt
		}
		spaceBefore = size * headingSpaceRatio
	case markup.KindBullet, markup.KindOrdered:
		indent = p.MarginPt * listIndentRatio
		spaceBefore = p.FontSizePt * listSpaceRatio
	}

	return Typography{
		SizePt:        size,
		LeadingPt:     size * p.LineSpacing,
		SpaceBeforePt: spaceBefore,
		IndentPt:      indent,
	}
}
