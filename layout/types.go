package layout

import "github.com/ByLCY/cardpress/markup"

// 该文件定义布局参数、页面与结果类型，供排版、自动缩放与渲染共用。
// 除行距因子外，所有数值的单位均为 pt，坐标以页面左上角为原点。

// Params 描述一次排版试算所用的全部参数。
// 自动缩放只会在两次试算之间修改 FontSizePt 与 LineSpacing；
// 单次排版过程中 Params 是只读的。
type Params struct {
	FontSizePt   float64 `json:"fontSizePt"`
	LineSpacing  float64 `json:"lineSpacing"`
	MarginPt     float64 `json:"marginPt"`
	PageWidthPt  float64 `json:"pageWidthPt"`
	PageHeightPt float64 `json:"pageHeightPt"`
}

// Fragment 表示一段已经定位的文本：同一行内强调样式一致的连续片段。
type Fragment struct {
	Text     string          `json:"text"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	SizePt   float64         `json:"sizePt"`
	Emphasis markup.Emphasis `json:"emphasis"`
}

// Page 记录页面尺寸、边距与该页的全部文本片段。
type Page struct {
	WidthPt   float64    `json:"widthPt"`
	HeightPt  float64    `json:"heightPt"`
	MarginPt  float64    `json:"marginPt"`
	Fragments []Fragment `json:"fragments"`
}

// Result 保存一次排版的全部页面。Fits 与 Warning 由自动缩放根据页数预算
// 回填：排版本身永远成功，超出预算不是排版错误。
type Result struct {
	Pages   []Page `json:"pages"`
	Params  Params `json:"params"`
	Fits    bool   `json:"fits"`
	Warning string `json:"warning,omitempty"`
}

// PageCount 返回排版产生的页数。
func (r *Result) PageCount() int {
	if r == nil {
		return 0
	}
	return len(r.Pages)
}
