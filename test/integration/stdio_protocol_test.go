package integration_test

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func serverBinary(t *testing.T) string {
	t.Helper()
	for _, path := range []string{"./bin/iconpreps", "../../bin/iconpreps"} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	t.Skip("Server binary not found. Run 'go build -o bin/iconpreps ./cmd/server' first.")
	return ""
}

func serverEnv(t *testing.T) []string {
	t.Helper()
	seedPath, err := filepath.Abs("testdata/seed.yaml")
	require.NoError(t, err)
	return append(os.Environ(),
		"PREPS_TRANSPORT_MODE=stdio",
		"PREPS_DB_PATH=:memory:",
		"PREPS_SEED_PATH="+seedPath,
		"PREPS_LOG_LEVEL=debug",
	)
}

// TestStdioProtocolCompliance drives the built server over stdio with the
// SDK client.
func TestStdioProtocolCompliance(t *testing.T) {
	binaryPath := serverBinary(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, binaryPath)
	cmd.Env = serverEnv(t)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)
	session, err := client.Connect(ctx, &sdkmcp.CommandTransport{Command: cmd}, nil)
	require.NoError(t, err, "Failed to connect to server")
	defer session.Close()

	t.Run("ServerInfo", func(t *testing.T) {
		initResult := session.InitializeResult()
		require.NotNil(t, initResult)
		require.NotNil(t, initResult.ServerInfo)
		require.Equal(t, "iconpreps", initResult.ServerInfo.Name)
		require.Equal(t, "0.1.0", initResult.ServerInfo.Version)
	})

	t.Run("ListTools", func(t *testing.T) {
		tools, err := session.ListTools(ctx, nil)
		require.NoError(t, err, "tools/list failed")

		toolNames := make(map[string]bool)
		for _, tool := range tools.Tools {
			toolNames[tool.Name] = true
		}
		for _, name := range []string{
			"search_projects",
			"get_project",
			"search_sponsors",
			"add_feedback",
			"browse_set_filters",
			"browse_results",
		} {
			require.True(t, toolNames[name], "Missing expected tool: %s", name)
		}
	})

	t.Run("SearchSeededProjects", func(t *testing.T) {
		result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
			Name:      "search_projects",
			Arguments: map[string]any{"categories": []string{"Development"}},
		})
		require.NoError(t, err, "tools/call search_projects failed")
		require.False(t, result.IsError, "search_projects returned error: %v", result)
		require.NotEmpty(t, result.Content)

		text, ok := result.Content[0].(*sdkmcp.TextContent)
		require.True(t, ok, "search_projects should return text content")
		var list struct {
			Results []struct {
				ID string `json:"id"`
			} `json:"results"`
		}
		require.NoError(t, json.Unmarshal([]byte(text.Text), &list))
		require.Len(t, list.Results, 1)
		require.Equal(t, "p1", list.Results[0].ID)
	})

	t.Run("AddFeedbackAnonymously", func(t *testing.T) {
		result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
			Name: "add_feedback",
			Arguments: map[string]any{
				"project_id": "p2",
				"rating":     4,
				"comment":    "Clear lessons",
				"voter":      map[string]any{"username": "erin", "level": 1, "can_submit_feedback": true},
			},
		})
		require.NoError(t, err, "tools/call add_feedback failed")
		require.False(t, result.IsError, "add_feedback returned error: %v", result)
	})
}

// TestStdioProtocol_StdoutHygiene checks that logs never reach stdout.
func TestStdioProtocol_StdoutHygiene(t *testing.T) {
	binaryPath := serverBinary(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, binaryPath)
	cmd.Env = serverEnv(t)

	stdin, err := cmd.StdinPipe()
	require.NoError(t, err)
	stdout, err := cmd.StdoutPipe()
	require.NoError(t, err)
	stderr, err := cmd.StderrPipe()
	require.NoError(t, err)
	require.NoError(t, cmd.Start())

	initReq := `{"jsonrpc":"2.0","method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}},"id":1}`
	_, err = stdin.Write([]byte(initReq + "\n"))
	require.NoError(t, err)

	done := make(chan struct{})
	var stdoutBytes, stderrBytes []byte
	go func() {
		stdoutBytes, _ = readWithTimeout(stdout, 2*time.Second)
		stderrBytes, _ = readWithTimeout(stderr, 2*time.Second)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		cmd.Process.Kill()
		t.Fatal("Timeout waiting for server response")
	}

	stdin.Close()
	cmd.Process.Kill()
	cmd.Wait()

	require.NotEmpty(t, stdoutBytes, "Server produced no stdout output")
	require.Equal(t, byte('{'), stdoutBytes[0], "stdout should start with JSON, got: %q", string(stdoutBytes[:min(50, len(stdoutBytes))]))
	require.NotEmpty(t, stderrBytes, "debug logs should go to stderr")
}

func readWithTimeout(r interface{ Read([]byte) (int, error) }, timeout time.Duration) ([]byte, error) {
	result := make([]byte, 0, 4096)
	buf := make([]byte, 1024)

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		done := make(chan struct{})
		var n int
		var err error
		go func() {
			n, err = r.Read(buf)
			close(done)
		}()

		select {
		case <-done:
			if n > 0 {
				result = append(result, buf[:n]...)
			}
			if err != nil {
				return result, err
			}
		case <-time.After(100 * time.Millisecond):
			if len(result) > 0 {
				return result, nil
			}
		}
	}
	return result, nil
}
