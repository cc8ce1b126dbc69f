package fonts

import (
	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10bolditalic"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"

	"github.com/ByLCY/cardpress/markup"
)

// TTF 返回与强调样式对应的内置 Latin Modern 字体字节。
// 四种样式各自独立成字体文件，渲染时按强调位选择。
func TTF(emph markup.Emphasis) []byte {
	bold := emph&markup.EmphasisBold != 0
	italic := emph&markup.EmphasisItalic != 0
	switch {
	case bold && italic:
		return lmroman10bolditalic.TTF
	case bold:
		return lmroman10bold.TTF
	case italic:
		return lmroman10italic.TTF
	default:
		return lmroman10regular.TTF
	}
}
