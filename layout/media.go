package layout

import (
	"fmt"
	"strings"
)

// Medium 描述固定的物理纸面。4x6 卡片的几何与方向是固定的：
// 打印机不再做任何缩放，页面尺寸必须与介质完全一致。
type Medium struct {
	Name             string
	WidthPt          float64
	HeightPt         float64
	MarginPt         float64
	FixedOrientation bool
}

var mediaPresets = map[string]Medium{
	"letter": {Name: "letter", WidthPt: 612, HeightPt: 792, MarginPt: 54},
	"a4":     {Name: "a4", WidthPt: 210 * MmToPt, HeightPt: 297 * MmToPt, MarginPt: 54},
	"legal":  {Name: "legal", WidthPt: 612, HeightPt: 1008, MarginPt: 54},
	// 6in × 4in 横置卡片，边距 0.25in
	"4x6": {Name: "4x6", WidthPt: 432, HeightPt: 288, MarginPt: 18, FixedOrientation: true},
}

// MediumNames 返回受支持的介质名称（固定顺序，便于错误提示与文档）。
func MediumNames() []string {
	return []string{"letter", "a4", "legal", "4x6"}
}

// ResolveMedium 根据名称与方向给出页面几何。未知名称或方向属于配置错误，
// 在任何排版工作开始前拒绝。卡片介质忽略方向请求。
func ResolveMedium(name, orientation string) (Medium, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = "letter"
	}
	m, ok := mediaPresets[key]
	if !ok {
		return Medium{}, fmt.Errorf("medium: 不支持的纸张类型 %q（可选 %s）", name, strings.Join(MediumNames(), "、"))
	}

	switch strings.ToLower(strings.TrimSpace(orientation)) {
	case "", "portrait":
	case "landscape":
		if !m.FixedOrientation {
			m.WidthPt, m.HeightPt = m.HeightPt, m.WidthPt
		}
	default:
		return Medium{}, fmt.Errorf("orientation: 无效的方向 %q（可选 portrait、landscape）", orientation)
	}
	return m, nil
}

// Params 以该介质的几何构造基础布局参数；字号与行距由调用方
// （通常是自动缩放）填入。
func (m Medium) Params() Params {
	return Params{
		MarginPt:     m.MarginPt,
		PageWidthPt:  m.WidthPt,
		PageHeightPt: m.HeightPt,
	}
}
