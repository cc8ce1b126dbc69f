package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/cardpress/markup"
)

// 浮点累计误差容差，用于分页判断。
const layoutEpsilon = 1e-6

// Compose 将块序列排到固定尺寸的页面上并返回全部片段位置。
// 排版永远成功：内容再多也只是页数变大，由自动缩放负责对照预算。
// 同样的输入总是得到同样的输出。空的块序列产生零页。
func Compose(blocks []markup.Block, p Params, ts Typesetter) (*Result, error) {
	if ts == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}

	cur := newPageCursor(p)
	for _, blk := range blocks {
		sty := StyleFor(blk.Kind, blk.Level, p)
		lines, err := wrapBlock(blk, sty, p, ts)
		if err != nil {
			return nil, err
		}
		cur.placeBlock(lines, sty)
	}

	return &Result{Pages: cur.pages, Params: p, Fits: true}, nil
}

// token 是参与贪心换行的最小单位：一个词及其强调样式与行内偏移。
type token struct {
	text string
	emph markup.Emphasis
	x    float64
	w    float64
}

type wrappedLine struct {
	tokens []token
}

// blockTokens 将块内容摊平成词序列；列表项在最前面加入项目符号或编号。
func blockTokens(blk markup.Block, sty Typography, ts Typesetter) ([]token, error) {
	var toks []token
	add := func(text string, emph markup.Emphasis) error {
		w, err := ts.MeasureWidth(text, sty.SizePt, emph)
		if err != nil {
			return err
		}
		toks = append(toks, token{text: text, emph: emph, w: w})
		return nil
	}

	switch blk.Kind {
	case markup.KindBullet:
		if err := add("•", markup.EmphasisNone); err != nil {
			return nil, err
		}
	case markup.KindOrdered:
		if err := add(strconv.Itoa(blk.Index)+".", markup.EmphasisNone); err != nil {
			return nil, err
		}
	}
	for _, sp := range blk.Spans {
		for _, word := range strings.Fields(sp.Text) {
			if err := add(word, sp.Emphasis); err != nil {
				return nil, err
			}
		}
	}
	return toks, nil
}

// wrapBlock 做贪心换行：行宽不超出可用宽度时继续追加词，否则另起一行。
// 单词本身超宽时独占一行（不在词内拆分）。
func wrapBlock(blk markup.Block, sty Typography, p Params, ts Typesetter) ([]wrappedLine, error) {
	toks, err := blockTokens(blk, sty, ts)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, nil
	}

	// 词间空格随后一个词的字体绘制，量宽也必须用同一把尺子，
	// 否则粗体行在贴近右边距时实际绘制宽度会偏离测量值。
	spaceWidths := map[markup.Emphasis]float64{}
	spaceFor := func(emph markup.Emphasis) (float64, error) {
		if w, ok := spaceWidths[emph]; ok {
			return w, nil
		}
		w, err := ts.MeasureWidth(" ", sty.SizePt, emph)
		if err != nil {
			return 0, err
		}
		spaceWidths[emph] = w
		return w, nil
	}

	usable := p.PageWidthPt - 2*p.MarginPt - sty.IndentPt
	if usable <= 0 {
		usable = p.PageWidthPt
	}

	var lines []wrappedLine
	var cur []token
	width := 0.0
	flush := func() {
		if len(cur) == 0 {
			return
		}
		lines = append(lines, wrappedLine{tokens: cur})
		cur = nil
		width = 0
	}

	for _, tk := range toks {
		gap := 0.0
		if len(cur) > 0 {
			gap, err = spaceFor(tk.emph)
			if err != nil {
				return nil, err
			}
			if width+gap+tk.w > usable+layoutEpsilon {
				flush()
				gap = 0
			}
		}
		tk.x = width + gap
		cur = append(cur, tk)
		width = tk.x + tk.w
	}
	flush()
	return lines, nil
}

// pageCursor 维护当前页与纵向游标，按需创建新页。
type pageCursor struct {
	p     Params
	pages []Page
	y     float64
}

func newPageCursor(p Params) *pageCursor { return &pageCursor{p: p} }

func (c *pageCursor) maxY() float64 { return c.p.PageHeightPt - c.p.MarginPt }

func (c *pageCursor) contentHeight() float64 { return c.p.PageHeightPt - 2*c.p.MarginPt }

func (c *pageCursor) atTop() bool { return c.y <= c.p.MarginPt+layoutEpsilon }

func (c *pageCursor) newPage() {
	c.pages = append(c.pages, Page{
		WidthPt:  c.p.PageWidthPt,
		HeightPt: c.p.PageHeightPt,
		MarginPt: c.p.MarginPt,
	})
	c.y = c.p.MarginPt
}

func (c *pageCursor) current() *Page { return &c.pages[len(c.pages)-1] }

// placeBlock 依据分页规则放置一个块：剩余空间放不下整块时优先在块边界
// 换页；仅当整块连空白页都容纳不下时才逐行跨页拆分。块在页首时不附加
// 块前间距。
func (c *pageCursor) placeBlock(lines []wrappedLine, sty Typography) {
	if len(lines) == 0 {
		return
	}
	if len(c.pages) == 0 {
		c.newPage()
	}

	bodyH := float64(len(lines)) * sty.LeadingPt
	if !c.atTop() {
		if c.y+sty.SpaceBeforePt+bodyH > c.maxY()+layoutEpsilon && bodyH <= c.contentHeight()+layoutEpsilon {
			c.newPage()
		}
	}
	if !c.atTop() {
		c.y += sty.SpaceBeforePt
	}

	for _, ln := range lines {
		if !c.atTop() && c.y+sty.LeadingPt > c.maxY()+layoutEpsilon {
			c.newPage()
		}
		page := c.current()
		page.Fragments = append(page.Fragments, lineFragments(ln, sty, c.p, c.y)...)
		c.y += sty.LeadingPt
	}
}

// lineFragments 将一行内强调样式一致的相邻词合并为单个片段。
func lineFragments(ln wrappedLine, sty Typography, p Params, y float64) []Fragment {
	baseX := p.MarginPt + sty.IndentPt
	var frags []Fragment
	for i := 0; i < len(ln.tokens); {
		j := i
		for j+1 < len(ln.tokens) && ln.tokens[j+1].emph == ln.tokens[i].emph {
			j++
		}
		parts := make([]string, 0, j-i+1)
		for k := i; k <= j; k++ {
			parts = append(parts, ln.tokens[k].text)
		}
		frags = append(frags, Fragment{
			Text:     strings.Join(parts, " "),
			X:        baseX + ln.tokens[i].x,
			Y:        y,
			SizePt:   sty.SizePt,
			Emphasis: ln.tokens[i].emph,
		})
		i = j + 1
	}
	return frags
}
