package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/ByLCY/cardpress/binding"
	"github.com/ByLCY/cardpress/dispatch"
	"github.com/ByLCY/cardpress/layout"
	"github.com/ByLCY/cardpress/markup"
	"github.com/ByLCY/cardpress/renderer"
	canvasrenderer "github.com/ByLCY/cardpress/renderer/canvas"
	"github.com/ByLCY/cardpress/server"
)

type runConfig struct {
	input       string
	output      string
	medium      string
	orientation string
	margin      string
	dataJSON    string
	debugPath   string
	budget      int
	minFont     float64
	maxFont     float64
	print       bool
	printer     string
}

func main() {
	var cfg runConfig
	serve := flag.Bool("serve", false, "在 stdio 上运行工具服务")
	flag.StringVar(&cfg.input, "in", "", "标记文本文件路径，省略时读取标准输入")
	flag.StringVar(&cfg.output, "out", "output/note.pdf", "PDF 输出路径")
	flag.StringVar(&cfg.medium, "medium", "letter", "纸张类型（letter、a4、legal、4x6）")
	flag.StringVar(&cfg.orientation, "orientation", "portrait", "页面方向（portrait、landscape）")
	flag.StringVar(&cfg.margin, "margin", "", "页边距覆盖，如 36pt、0.5in、12mm，留空用介质默认")
	flag.IntVar(&cfg.budget, "budget", 2, "页数预算")
	flag.Float64Var(&cfg.minFont, "min-font", 6, "自动缩放的最小字号（pt）")
	flag.Float64Var(&cfg.maxFont, "max-font", 12, "自动缩放的最大字号（pt）")
	flag.StringVar(&cfg.dataJSON, "data", "", "用于 ${path} 占位替换的 JSON 数据")
	flag.StringVar(&cfg.debugPath, "debug", "", "布局调试 JSON 输出路径")
	flag.BoolVar(&cfg.print, "print", false, "生成后发送打印")
	flag.StringVar(&cfg.printer, "printer", "", "目标打印机，留空用默认")
	flag.Parse()

	if *serve {
		outDir := filepath.Dir(cfg.output)
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			log.Fatalf("创建输出目录失败: %v", err)
		}
		server.New(outDir).Run(context.Background(), os.Stdin, os.Stdout)
		return
	}

	var r renderer.Renderer = canvasrenderer.NewRenderer()
	if err := run(cfg, r); err != nil {
		log.Fatalf("生成 PDF 失败: %v", err)
	}
}

// run 串联占位替换、解析、自动缩放、渲染与可选的打印派发。
func run(cfg runConfig, r renderer.Renderer) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	ts, ok := r.(layout.Typesetter)
	if !ok {
		return fmt.Errorf("renderer 未实现排版接口")
	}

	source, err := readSource(cfg.input)
	if err != nil {
		return err
	}
	text, err := binding.InterpolateJSON(source, []byte(cfg.dataJSON))
	if err != nil {
		return err
	}

	blocks, err := markup.ParseString(text)
	if err != nil {
		return fmt.Errorf("解析标记文本失败: %w", err)
	}
	if len(blocks) == 0 {
		fmt.Println("输入内容为空，未生成文件")
		return nil
	}

	m, err := layout.ResolveMedium(cfg.medium, cfg.orientation)
	if err != nil {
		return err
	}
	if cfg.margin != "" {
		l := layout.ParseRawLengthStr(cfg.margin)
		if l.Value <= 0 {
			return fmt.Errorf("margin: 无效的页边距 %q", cfg.margin)
		}
		// 无单位数值按 pt 处理
		m.MarginPt = l.ToPT()
	}
	opts := layout.DefaultSearchOptions()
	opts.Budget = cfg.budget
	opts.MinFontPt = cfg.minFont
	opts.MaxFontPt = cfg.maxFont

	result, err := layout.Fit(blocks, m.Params(), opts, ts)
	if err != nil {
		return err
	}
	if result.Warning != "" {
		log.Printf("警告：%s", result.Warning)
	}

	if cfg.debugPath != "" {
		if err := writeDebug(result, cfg.debugPath); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(cfg.output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	pdfBytes, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(cfg.output, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	fmt.Printf("已生成 PDF：%s（%s %d 页，字号 %gpt，行距 %g）\n",
		cfg.output, m.Name, result.PageCount(), result.Params.FontSizePt, result.Params.LineSpacing)

	if cfg.print {
		if err := dispatch.New().Print(context.Background(), cfg.output, cfg.printer); err != nil {
			return fmt.Errorf("打印失败: %w", err)
		}
		fmt.Println("已发送打印")
	}
	return nil
}

func readSource(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("读取标准输入失败: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("无法读取输入文件 %s: %w", path, err)
	}
	return string(data), nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
