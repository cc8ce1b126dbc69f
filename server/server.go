package server

import (
	"context"
	"encoding/json"
	"io"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/ByLCY/cardpress/dispatch"
	canvasrenderer "github.com/ByLCY/cardpress/renderer/canvas"
)

// 对外声明的协议版本与服务标识。
const (
	protocolVersion = "2024-11-05"
	serverName      = "cardpress"
	serverVersion   = "1.0.0"
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

// Server 在 stdio 上提供排版打印工具：渲染与打印派发各持一份实例，
// 每个请求独立走完整管线，互相之间没有共享可变状态。
type Server struct {
	renderer   *canvasrenderer.Renderer
	dispatcher *dispatch.Dispatcher
	outDir     string
}

// New 创建输出目录为 outDir 的服务实例。
func New(outDir string) *Server {
	return &Server{
		renderer:   canvasrenderer.NewRenderer(),
		dispatcher: dispatch.New(),
		outDir:     outDir,
	}
}

// Run 在给定的输入输出流上提供 JSON-RPC 服务（按行分隔的 JSON 对象），
// 直到对端断开连接。
func (s *Server) Run(ctx context.Context, stdin io.ReadCloser, stdout io.WriteCloser) {
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(transport{stdin, stdout}, jsonrpc2.PlainObjectCodec{}),
		handler(s))
	<-conn.DisconnectNotify()
}

type transport struct {
	in  io.ReadCloser
	out io.WriteCloser
}

func (t transport) Read(p []byte) (int, error)  { return t.in.Read(p) }
func (t transport) Write(p []byte) (int, error) { return t.out.Write(p) }

func (t transport) Close() error {
	if err := t.in.Close(); err != nil {
		t.out.Close()
		return err
	}
	return t.out.Close()
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func handler(s *Server) jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"initialize": s.initialize,
		"tools/list": s.listTools,
		"tools/call": s.callTool,

		"notifications/initialized": noop,
		"ping":                      noop,
	})
}

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			return nil, errMethodNotFound
		}
		var raw json.RawMessage
		if req.Params != nil {
			raw = *req.Params
		}
		return fn(ctx, conn, raw)
	})
}

func (s *Server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities":    map[string]any{"tools": map[string]any{}},
		"serverInfo": map[string]any{
			"name":    serverName,
			"version": serverVersion,
		},
	}, nil
}
