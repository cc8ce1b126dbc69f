package markup

import "strings"

// ParseInline scans text for emphasis delimiters and returns spans in
// document order. `**…**` is bold, `*…*` italic, `***…***` bold-italic;
// nesting combines (bold inside italic and vice versa). Unmatched or empty
// delimiters degrade to literal text, never to an error.
func ParseInline(text string) []Span {
	if text == "" {
		return nil
	}
	return scanEmphasis(text, EmphasisNone)
}

func scanEmphasis(s string, base Emphasis) []Span {
	var spans []Span
	var plain strings.Builder
	flush := func() {
		if plain.Len() > 0 {
			spans = append(spans, Span{Text: plain.String(), Emphasis: base})
			plain.Reset()
		}
	}

	i := 0
	for i < len(s) {
		if s[i] != '*' {
			plain.WriteByte(s[i])
			i++
			continue
		}
		run := 0
		for i+run < len(s) && s[i+run] == '*' {
			run++
		}
		if run > 3 {
			run = 3
		}

		// 从最长分隔符开始尝试闭合；内容为空视为未闭合
		matched := false
		for width := run; width >= 1; width-- {
			rest := s[i+width:]
			j := findCloser(rest, width)
			if j <= 0 {
				continue
			}
			content := rest[:j]
			flush()
			switch width {
			case 3:
				spans = append(spans, Span{Text: content, Emphasis: base | EmphasisBold | EmphasisItalic})
			case 2:
				spans = append(spans, scanEmphasis(content, base|EmphasisBold)...)
			default:
				spans = append(spans, scanEmphasis(content, base|EmphasisItalic)...)
			}
			i += width + j + width
			matched = true
			break
		}
		if !matched {
			plain.WriteString(s[i : i+run])
			i += run
		}
	}
	flush()
	return spans
}

// findCloser 在 rest 中寻找宽度恰为 width 的闭合星号串的位置。
// 属于更长星号串的位置不算闭合，否则内层 `**` 的开头会被误当作
// 外层 `*` 的结尾。
func findCloser(rest string, width int) int {
	for i := 0; i < len(rest); {
		if rest[i] != '*' {
			i++
			continue
		}
		run := 0
		for i+run < len(rest) && rest[i+run] == '*' {
			run++
		}
		if run == width {
			return i
		}
		i += run
	}
	return -1
}
