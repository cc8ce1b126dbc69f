package layout

import "github.com/ByLCY/cardpress/markup"

// Typesetter 负责测量给定字号与强调样式下一段文本的宽度（单位 pt）。
// 排版器据此做贪心换行；测量必须是确定性的，且宽度随字号单调不减，
// 否则自动缩放的单调性不成立。
type Typesetter interface {
	MeasureWidth(text string, fontSizePt float64, emphasis markup.Emphasis) (float64, error)
}
