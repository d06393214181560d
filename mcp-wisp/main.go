package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

var (
	conn   net.Conn
	connMu sync.Mutex
)

// send forwards a request to mod-eval-server and returns its response.
func send(req map[string]any) (map[string]any, error) {
	req["id"] = nextID()
	connMu.Lock()
	defer connMu.Unlock()
	if err := writeMsg(conn, req); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	resp, err := readMsg(conn)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return resp, nil
}

// formatResult turns a mod-eval-server response into an MCP tool result.
func formatResult(resp map[string]any) (*mcp.CallToolResult, error) {
	ok, _ := resp["ok"].(bool)
	if !ok {
		errMsg, _ := resp["error"].(string)
		if errMsg == "" {
			errMsg = "unknown error"
		}
		return mcp.NewToolResultError(errMsg), nil
	}
	value, _ := resp["value"].(string)
	return mcp.NewToolResultText(value), nil
}

func handleEval(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := request.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp, err := send(map[string]any{"op": "eval", "source": source})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return formatResult(resp)
}

func handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, err := send(map[string]any{"op": "reset"})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return formatResult(resp)
}

func main() {
	sockPath := os.Getenv("WISP_EVAL_SOCK")
	if sockPath == "" {
		sockPath = "/tmp/wisp-eval.sock"
	}

	var err error
	conn, err = net.Dial("unix", sockPath)
	if err != nil {
		log.Fatalf("connect to %s: %v", sockPath, err)
	}
	defer conn.Close()
	log.Printf("connected to eval server: %s", sockPath)

	s := server.NewMCPServer(
		"wisp",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.AddTool(
		mcp.NewTool("wisp_eval",
			mcp.WithDescription("Evaluate one or more wisp forms against the shared global environment. Returns the canonical printed form of the last result."),
			mcp.WithString("source",
				mcp.Required(),
				mcp.Description("Source text to read and evaluate, e.g. (+ 1 2)"),
			),
		),
		handleEval,
	)

	s.AddTool(
		mcp.NewTool("wisp_reset",
			mcp.WithDescription("Discard the shared global environment and start a fresh one."),
		),
		handleReset,
	)

	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
