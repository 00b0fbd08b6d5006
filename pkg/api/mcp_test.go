package api

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callTool(t *testing.T, srv *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := srv.GetTool(name)
	require.NotNil(t, tool, "tool %s not registered", name)
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok)
	return tc.Text
}

func newTestMCP(t *testing.T) *server.MCPServer {
	srv := server.NewMCPServer("addrnorm", "test", server.WithToolCapabilities(false))
	RegisterMCPTools(srv, newTestService(t, Config{}, nil))
	return srv
}

func TestMCPNormalizeAddress(t *testing.T) {
	srv := newTestMCP(t)
	res := callTool(t, srv, "normalize_address", map[string]any{
		"address": "890 St Mary St, Metropolis, GA 86420",
		"id":      "42",
	})
	require.False(t, res.IsError, resultText(t, res))
	assert.JSONEq(t, `{
		"addr:housenumber": "890",
		"addr:street": "Saint Mary Street",
		"addr:city": "Metropolis",
		"addr:state": "GA",
		"addr:postcode": "86420",
		"@removed": [],
		"@id": 42
	}`, resultText(t, res))
}

func TestMCPNormalizeAddressMissing(t *testing.T) {
	res := callTool(t, newTestMCP(t), "normalize_address", map[string]any{})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "invalid arguments")
}

func TestMCPNormalizeBatch(t *testing.T) {
	res := callTool(t, newTestMCP(t), "normalize_batch", map[string]any{
		"addresses": "89 Broadway, New York, NY 10006\n\nReno\n",
	})
	require.False(t, res.IsError, resultText(t, res))

	var out []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "Broadway", out[0]["addr:street"])
	assert.EqualValues(t, 1, out[0]["@id"])
	assert.Equal(t, Unparseable, out[1]["error"])
	assert.EqualValues(t, 3, out[1]["@id"])
}

func TestMCPLabelVocabulary(t *testing.T) {
	res := callTool(t, newTestMCP(t), "label_vocabulary", nil)
	require.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), `"osm_key":"addr:postcode"`)
}
