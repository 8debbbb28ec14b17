package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hashicorp/go-plugin"

	hookrpc "tempo/internal/modules/hook/adapter/out/rpc"
)

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *hookrpc.Empty) (*hookrpc.Metadata, error) {
	return &hookrpc.Metadata{
		Name:         "reference",
		Version:      "1.0.0",
		Capabilities: []string{"command", "session_saved"},
	}, nil
}

func (s *server) ListCommands(_ context.Context, _ *hookrpc.Empty) (*hookrpc.ListCommandsResponse, error) {
	return &hookrpc.ListCommandsResponse{Commands: []hookrpc.CommandDescriptor{
		{ID: "echo", Title: "Echo", Description: "Echoes provided input", Kind: "command", TimeoutMS: 2000},
		{ID: "session-saved", Title: "Session Saved", Description: "Acknowledges a saved session", Kind: "session_saved", TimeoutMS: 2500},
	}}, nil
}

func (s *server) Execute(_ context.Context, in *hookrpc.ExecuteRequest) (*hookrpc.ExecuteResponse, error) {
	switch in.CommandID {
	case "echo":
		if strings.TrimSpace(in.InputJSON) == "" {
			return &hookrpc.ExecuteResponse{Stdout: "echo", OutputJSON: `{"echo":""}`, ExitCode: 0}, nil
		}
		return &hookrpc.ExecuteResponse{Stdout: in.InputJSON, OutputJSON: fmt.Sprintf(`{"echo":%q}`, in.InputJSON), ExitCode: 0}, nil
	case "session-saved":
		payload := map[string]any{}
		if strings.TrimSpace(in.InputJSON) != "" {
			_ = json.Unmarshal([]byte(in.InputJSON), &payload)
		}
		ack := map[string]any{
			"session_id":  in.Context.SessionID,
			"result":      "acknowledged",
			"field_count": len(payload),
		}
		raw, _ := json.Marshal(ack)
		return &hookrpc.ExecuteResponse{Stdout: "session recorded", OutputJSON: string(raw), ExitCode: 0}, nil
	default:
		return nil, fmt.Errorf("unknown command: %s", in.CommandID)
	}
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: hookrpc.HandshakeConfig,
		Plugins:         hookrpc.HookMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
