package server

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/ByLCY/cardpress/binding"
	"github.com/ByLCY/cardpress/layout"
	"github.com/ByLCY/cardpress/markup"
)

type toolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type toolResult struct {
	Content []textContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

func textResult(text string) *toolResult {
	return &toolResult{Content: []textContent{{Type: "text", Text: text}}}
}

func errorResult(err error) *toolResult {
	return &toolResult{Content: []textContent{{Type: "text", Text: err.Error()}}, IsError: true}
}

var printFileSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "content": {"type": "string", "description": "带标记的文本内容"},
    "filename": {"type": "string", "description": "输出 PDF 文件名"},
    "format4x6": {"type": "boolean", "description": "使用 4x6 卡片介质"},
    "printer_name": {"type": "string", "description": "目标打印机，留空用默认"},
    "paper_size": {"type": "string", "enum": ["letter", "a4", "legal", "4x6"]},
    "orientation": {"type": "string", "enum": ["portrait", "landscape"]},
    "budget": {"type": "integer", "description": "页数预算，默认 2"},
    "data": {"type": "object", "description": "用于 ${path} 占位替换的数据"},
    "debug": {"type": "boolean", "description": "仅生成文件，不发送打印"}
  },
  "required": ["content"]
}`)

var listPrintersSchema = json.RawMessage(`{"type": "object", "properties": {}}`)

var testPrintSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "format4x6": {"type": "boolean", "description": "打印 4x6 测试卡而非 letter 测试页"},
    "printer_name": {"type": "string", "description": "目标打印机，留空用默认"}
  }
}`)

func (s *Server) listTools(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return map[string]any{"tools": []toolInfo{
		{
			Name:        "print_file",
			Description: "将标记文本排版为 PDF 并发送打印，超长内容自动缩小字号与行距",
			InputSchema: printFileSchema,
		},
		{
			Name:        "list_printers",
			Description: "列出系统可见的打印机",
			InputSchema: listPrintersSchema,
		},
		{
			Name:        "test_print",
			Description: "打印固定内容的测试页，验证打印链路与排版效果",
			InputSchema: testPrintSchema,
		},
	}}, nil
}

type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

func (s *Server) callTool(ctx context.Context, _ jsonrpc2.JSONRPC2, raw json.RawMessage) (any, error) {
	var params callParams
	if json.Unmarshal(raw, &params) != nil {
		return nil, errInvalidParams
	}

	switch params.Name {
	case "print_file":
		var args printFileArgs
		if len(params.Arguments) > 0 && json.Unmarshal(params.Arguments, &args) != nil {
			return nil, errInvalidParams
		}
		return s.printFile(ctx, args), nil
	case "list_printers":
		return s.listPrinters(ctx), nil
	case "test_print":
		var args struct {
			Format4x6   bool   `json:"format4x6"`
			PrinterName string `json:"printer_name"`
		}
		if len(params.Arguments) > 0 && json.Unmarshal(params.Arguments, &args) != nil {
			return nil, errInvalidParams
		}
		return s.testPrint(ctx, args.Format4x6, args.PrinterName), nil
	default:
		return nil, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeMethodNotFound,
			Message: fmt.Sprintf("unknown tool %q", params.Name),
		}
	}
}

type printFileArgs struct {
	Content     string          `json:"content"`
	Filename    string          `json:"filename"`
	Format4x6   bool            `json:"format4x6"`
	PrinterName string          `json:"printer_name"`
	PaperSize   string          `json:"paper_size"`
	Orientation string          `json:"orientation"`
	Budget      int             `json:"budget"`
	Data        json.RawMessage `json:"data"`
	Debug       bool            `json:"debug"`
}

// printFile 走完整管线：占位替换、解析、自动缩放、渲染、落盘、派发打印。
// 配置错误与打印失败通过 isError 结果返回，不作为协议层错误。
func (s *Server) printFile(ctx context.Context, args printFileArgs) *toolResult {
	text, err := binding.InterpolateJSON(args.Content, args.Data)
	if err != nil {
		return errorResult(err)
	}
	blocks, err := markup.ParseString(text)
	if err != nil {
		return errorResult(err)
	}
	if len(blocks) == 0 {
		return textResult("内容为空，没有可打印的页面")
	}

	mediumName := args.PaperSize
	if args.Format4x6 {
		mediumName = "4x6"
	}
	m, err := layout.ResolveMedium(mediumName, args.Orientation)
	if err != nil {
		return errorResult(err)
	}

	opts := layout.DefaultSearchOptions()
	if args.Budget != 0 {
		opts.Budget = args.Budget
	}
	if err := opts.Validate(); err != nil {
		return errorResult(err)
	}

	res, err := layout.Fit(blocks, m.Params(), opts, s.renderer)
	if err != nil {
		return errorResult(err)
	}
	pdf, err := s.renderer.Render(res)
	if err != nil {
		return errorResult(err)
	}

	path := filepath.Join(s.outDir, sanitizeFilename(args.Filename))
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return errorResult(fmt.Errorf("写入 PDF 失败: %w", err))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "已生成 %s：%s %d 页，字号 %gpt，行距 %g",
		path, m.Name, res.PageCount(), res.Params.FontSizePt, res.Params.LineSpacing)
	if res.Warning != "" {
		fmt.Fprintf(&b, "\n警告：%s", res.Warning)
	}
	if args.Debug {
		b.WriteString("\n调试模式：跳过打印，文件已保留")
		return textResult(b.String())
	}
	if err := s.dispatcher.Print(ctx, path, args.PrinterName); err != nil {
		return errorResult(fmt.Errorf("PDF 已生成（%s），但打印失败: %w", path, err))
	}
	if args.PrinterName != "" {
		fmt.Fprintf(&b, "\n已发送到打印机 %s", args.PrinterName)
	} else {
		b.WriteString("\n已发送到默认打印机")
	}
	return textResult(b.String())
}

func (s *Server) listPrinters(ctx context.Context) *toolResult {
	names, err := s.dispatcher.ListPrinters(ctx)
	if err != nil {
		return errorResult(err)
	}
	if len(names) == 0 {
		return textResult("未发现可用打印机")
	}
	return textResult("可用打印机：\n" + strings.Join(names, "\n"))
}

// 两套测试内容：卡片版覆盖自动缩放，整页版覆盖常规排版。
const (
	testCardContent = "# 4x6 测试卡\n\n这是一张 **4x6** 索引卡测试页。\n\n## 覆盖项\n- *斜体*\n- **粗体**\n- 标题与列表\n\n能清晰读出本卡即说明卡片打印链路正常。\n"
	testPageContent = "# 打印测试页\n\n这是一张用于验证打印设置的 **测试页**。\n\n## 覆盖项\n- **粗体** 与 *斜体*\n- 标题层级（H1、H2）\n- 列表与段落间距\n\n本页正常打印即说明设置无误。\n"
)

func (s *Server) testPrint(ctx context.Context, format4x6 bool, printer string) *toolResult {
	content, filename := testPageContent, "test-page.pdf"
	if format4x6 {
		content, filename = testCardContent, "test-card.pdf"
	}
	return s.printFile(ctx, printFileArgs{
		Content:     content,
		Filename:    filename,
		Format4x6:   format4x6,
		PrinterName: printer,
	})
}

// sanitizeFilename 只保留文件名部分并保证 .pdf 后缀，防止路径穿越。
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "note.pdf"
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}
