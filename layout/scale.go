package layout

import (
	"fmt"

	"github.com/ByLCY/cardpress/markup"
)

// SearchOptions 约束自动缩放在（字号, 行距）网格上的搜索空间。
type SearchOptions struct {
	Budget      int // 最大可接受页数
	MaxFontPt   float64
	MinFontPt   float64
	FontStepPt  float64
	MaxSpacing  float64
	MinSpacing  float64
	SpacingStep float64
}

// DefaultSearchOptions 返回打印工具使用的默认搜索空间。
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Budget:      2,
		MaxFontPt:   12,
		MinFontPt:   6,
		FontStepPt:  0.5,
		MaxSpacing:  0.85,
		MinSpacing:  0.6,
		SpacingStep: 0.1,
	}
}

// Validate 在任何排版工作开始前拒绝无效配置，错误信息指明出错字段。
func (o SearchOptions) Validate() error {
	if o.Budget <= 0 {
		return fmt.Errorf("budget: 页数预算必须大于 0，当前为 %d", o.Budget)
	}
	if o.MinFontPt <= 0 || o.MaxFontPt < o.MinFontPt {
		return fmt.Errorf("fontSize: 字号上下界无效（min=%g max=%g）", o.MinFontPt, o.MaxFontPt)
	}
	if o.FontStepPt <= 0 {
		return fmt.Errorf("fontStep: 字号步长必须大于 0，当前为 %g", o.FontStepPt)
	}
	if o.MinSpacing <= 0 || o.MaxSpacing < o.MinSpacing {
		return fmt.Errorf("lineSpacing: 行距上下界无效（min=%g max=%g）", o.MinSpacing, o.MaxSpacing)
	}
	if o.SpacingStep <= 0 {
		return fmt.Errorf("spacingStep: 行距步长必须大于 0，当前为 %g", o.SpacingStep)
	}
	return nil
}

// Fit 做由粗到细的有界单调搜索：先在最大行距下按固定步长缩小字号，
// 字号到达下界后再按固定步长压缩行距。第一组满足页数预算的参数即被
// 接受；从最大字号起步，不做基于内容长度的初值估计。
//
// 两个下界都用尽仍超出预算时，返回最小参数下的结果并带上容量警告，
// 不视为错误：超长文档仍可供调用方审阅或打印。
// 最坏情况下排版试算次数为字号步数与行距步数之和。
func Fit(blocks []markup.Block, base Params, opts SearchOptions, ts Typesetter) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	try := func(font, spacing float64) (*Result, error) {
		p := base
		p.FontSizePt = font
		p.LineSpacing = spacing
		return Compose(blocks, p, ts)
	}

	var last *Result
	for font := opts.MaxFontPt; ; font = max(font-opts.FontStepPt, opts.MinFontPt) {
		res, err := try(font, opts.MaxSpacing)
		if err != nil {
			return nil, err
		}
		last = res
		if res.PageCount() <= opts.Budget {
			return res, nil
		}
		if font <= opts.MinFontPt {
			break
		}
	}

	for spacing := opts.MaxSpacing; spacing > opts.MinSpacing; {
		spacing = max(spacing-opts.SpacingStep, opts.MinSpacing)
		res, err := try(opts.MinFontPt, spacing)
		if err != nil {
			return nil, err
		}
		last = res
		if res.PageCount() <= opts.Budget {
			return res, nil
		}
	}

	last.Fits = false
	last.Warning = fmt.Sprintf(
		"content exceeds capacity: %d pages at minimum font %gpt and line spacing %g (budget %d)",
		last.PageCount(), opts.MinFontPt, opts.MinSpacing, opts.Budget)
	return last, nil
}
