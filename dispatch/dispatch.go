package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// 外部打印程序的文件名与默认等待时长。打印队列卡死时以超时收场，
// 不会无限挂起调用方。
const (
	printerExecName = "PDFtoPrinter.exe"
	printTimeout    = 60 * time.Second
	listTimeout     = 15 * time.Second
)

// Dispatcher 负责把生成好的 PDF 交给外部打印程序，并枚举可用打印机。
// 核心排版不关心设备能力，这里也只做转交与汇报。
type Dispatcher struct {
	ExecPath string        // 打印程序路径；为空时在程序目录与 PATH 中查找
	Timeout  time.Duration // 覆盖默认打印超时，零值表示使用默认
}

func New() *Dispatcher { return &Dispatcher{Timeout: printTimeout} }

// Print 以静默模式调用外部打印程序输出 pdfPath。printer 为空时
// 使用系统默认打印机。
func (d *Dispatcher) Print(ctx context.Context, pdfPath, printer string) error {
	exe, err := d.locateExec()
	if err != nil {
		return err
	}
	if _, err := os.Stat(pdfPath); err != nil {
		return fmt.Errorf("找不到待打印文件: %s", pdfPath)
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = printTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, exe, printArgs(pdfPath, printer)...)
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("打印超时（%s）", timeout)
	}
	if err != nil {
		return fmt.Errorf("打印程序退出异常: %w（输出: %s）", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// printArgs 构造打印程序参数：/s 表示静默打印，不弹出任何窗口。
func printArgs(pdfPath, printer string) []string {
	args := []string{"/s", pdfPath}
	if printer != "" {
		args = append(args, printer)
	}
	return args
}

// locateExec 依次尝试显式路径、程序所在目录、PATH。
func (d *Dispatcher) locateExec() (string, error) {
	if d.ExecPath != "" {
		if _, err := os.Stat(d.ExecPath); err != nil {
			return "", fmt.Errorf("打印程序不存在: %s", d.ExecPath)
		}
		return d.ExecPath, nil
	}
	if self, err := os.Executable(); err == nil {
		cand := filepath.Join(filepath.Dir(self), printerExecName)
		if _, err := os.Stat(cand); err == nil {
			return cand, nil
		}
	}
	if path, err := exec.LookPath(printerExecName); err == nil {
		return path, nil
	}
	return "", fmt.Errorf("未找到 %s，请将其放在程序目录或 PATH 中", printerExecName)
}

// ListPrinters 返回系统可见的打印机名称。Windows 优先走 PowerShell，
// 失败时回退 WMIC；其他系统用 lpstat。
func (d *Dispatcher) ListPrinters(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	if runtime.GOOS == "windows" {
		if names, err := listViaPowerShell(ctx); err == nil && len(names) > 0 {
			return names, nil
		}
		return listViaWMIC(ctx)
	}
	return listViaLpstat(ctx)
}

func listViaPowerShell(ctx context.Context) ([]string, error) {
	cmd := exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command",
		"Get-Printer | Select-Object -ExpandProperty Name | ConvertTo-Json")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("枚举打印机失败: %w", err)
	}
	return parsePrinterJSON(out)
}

// parsePrinterJSON 处理 ConvertTo-Json 的两种输出形态：
// 单台打印机时是裸字符串，多台时是字符串数组。
func parsePrinterJSON(out []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(out)
	if len(trimmed) == 0 {
		return nil, nil
	}
	var names []string
	if err := json.Unmarshal(trimmed, &names); err == nil {
		return names, nil
	}
	var single string
	if err := json.Unmarshal(trimmed, &single); err == nil {
		return []string{single}, nil
	}
	return nil, fmt.Errorf("无法解析打印机列表输出: %s", trimmed)
}

func listViaWMIC(ctx context.Context) ([]string, error) {
	cmd := exec.CommandContext(ctx, "wmic", "printer", "get", "name")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("枚举打印机失败: %w", err)
	}
	return parseColumnOutput(out, "Name"), nil
}

func listViaLpstat(ctx context.Context) ([]string, error) {
	cmd := exec.CommandContext(ctx, "lpstat", "-a")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("枚举打印机失败: %w", err)
	}
	var names []string
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 {
			names = append(names, fields[0])
		}
	}
	return names, nil
}

// parseColumnOutput 解析 wmic 的单列表格输出，跳过表头与空行。
func parseColumnOutput(out []byte, header string) []string {
	var names []string
	for _, line := range strings.Split(string(out), "\n") {
		name := strings.TrimSpace(strings.TrimRight(line, "\r"))
		if name == "" || name == header {
			continue
		}
		names = append(names, name)
	}
	return names
}
