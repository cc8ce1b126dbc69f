package canvasrenderer

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/cardpress/fonts"
	"github.com/ByLCY/cardpress/layout"
	"github.com/ByLCY/cardpress/markup"
	"github.com/ByLCY/cardpress/renderer"
)

// Renderer 通过 github.com/tdewolff/canvas 绘制布局结果，同时以同一套
// 字体度量实现 layout.Typesetter，保证排版与最终 PDF 用的是同一把尺子。
type Renderer struct {
	fontMu   sync.Mutex
	families map[markup.Emphasis]*canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// NewRenderer 创建使用内置 Latin Modern 字体的渲染器。
func NewRenderer() *Renderer {
	return &Renderer{families: map[markup.Emphasis]*canvas.FontFamily{}}
}

// Render 将全部页面渲染为单个 PDF 字节切片。页面尺寸逐页写入，
// 与布局给出的几何完全一致。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	first := result.Pages[0]
	writer := pdf.New(&buf, toMm(first.WidthPt), toMm(first.HeightPt), nil)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(toMm(page.WidthPt), toMm(page.HeightPt))
		}
		c := canvas.New(toMm(page.WidthPt), toMm(page.HeightPt))
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		for _, frag := range page.Fragments {
			face, err := r.fontFace(frag.SizePt, frag.Emphasis)
			if err != nil {
				return nil, err
			}
			line := canvas.NewTextLine(face, frag.Text, canvas.Left)
			// 基线位置：行顶部（mm）加字体上升部
			baseline := toMm(frag.Y) + face.Metrics().Ascent
			ctx.DrawText(toMm(frag.X), baseline, line)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// MeasureWidth 实现 layout.Typesetter。返回值单位为 pt。
func (r *Renderer) MeasureWidth(text string, fontSizePt float64, emph markup.Emphasis) (float64, error) {
	face, err := r.fontFace(fontSizePt, emph)
	if err != nil {
		return 0, err
	}
	return face.TextWidth(text) * layout.MmToPt, nil
}

func (r *Renderer) fontFace(sizePt float64, emph markup.Emphasis) (*canvas.FontFace, error) {
	family, err := r.ensureFamily(emph)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePt, canvas.Black, canvas.FontRegular, canvas.FontNormal), nil
}

// ensureFamily 按强调样式缓存字体族。每种样式各用一份字体文件，
// 在族内统一按常规样式加载，避免依赖字体内部的样式解析。
func (r *Renderer) ensureFamily(emph markup.Emphasis) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.families[emph]; ok {
		return family, nil
	}
	family := canvas.NewFontFamily(familyName(emph))
	if err := family.LoadFont(fonts.TTF(emph), 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载内置字体失败: %w", err)
	}
	r.families[emph] = family
	return family, nil
}

func familyName(emph markup.Emphasis) string {
	switch {
	case emph&markup.EmphasisBold != 0 && emph&markup.EmphasisItalic != 0:
		return "cardpress-bolditalic"
	case emph&markup.EmphasisBold != 0:
		return "cardpress-bold"
	case emph&markup.EmphasisItalic != 0:
		return "cardpress-italic"
	default:
		return "cardpress-regular"
	}
}

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * layout.PtToMm }
