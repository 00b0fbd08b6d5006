package api

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hazyhaar/addrnorm/pkg/kit"
)

// RegisterMCPTools registers the address tools on the server.
func RegisterMCPTools(srv *server.MCPServer, svc *Service) {
	registerNormalizeAddress(srv, svc)
	registerNormalizeBatch(srv, svc)
	registerLabelVocabulary(srv, svc)
}

func registerNormalizeAddress(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool("normalize_address",
		mcp.WithDescription("Parse and normalize a single US or Canadian address into OpenStreetMap addr:* fields."),
		mcp.WithString("address", mcp.Required(), mcp.Description("The free-form address, e.g. 200 N. Spring St, Los Angeles, CA 90012")),
		mcp.WithString("id", mcp.Description("Correlation id echoed back as @id")),
	)

	kit.RegisterMCPTool(srv, tool, svc.parse, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		addr, err := req.RequireString("address")
		if err != nil {
			return nil, err
		}
		in := &AddressInput{Address: addr}
		if id := req.GetString("id", ""); id != "" {
			if err := in.ID.UnmarshalJSON(idLiteral(id)); err != nil {
				return nil, err
			}
		}
		return &kit.MCPDecodeResult{Request: in}, nil
	})
}

func registerNormalizeBatch(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool("normalize_batch",
		mcp.WithDescription("Normalize several addresses at once. Results keep input order; @id is the 1-based line number."),
		mcp.WithString("addresses", mcp.Required(), mcp.Description("Newline-separated addresses")),
	)

	kit.RegisterMCPTool(srv, tool, svc.batch, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		text, err := req.RequireString("addresses")
		if err != nil {
			return nil, err
		}
		var items []AddressInput
		for i, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			items = append(items, AddressInput{Address: line, ID: ID(fmt.Sprint(i + 1))})
		}
		if len(items) == 0 {
			return nil, fmt.Errorf("no addresses given")
		}
		return &kit.MCPDecodeResult{Request: &batchReq{Items: items, Source: "mcp"}}, nil
	})
}

func registerLabelVocabulary(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool("label_vocabulary",
		mcp.WithDescription("List the component labels the tagger emits and the address field each one feeds."),
	)

	kit.RegisterMCPTool(srv, tool, svc.vocabulary, func(_ mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	})
}

// idLiteral turns a tool argument into a JSON literal: integers stay numbers,
// everything else becomes a string.
func idLiteral(s string) []byte {
	if integer.MatchString(s) {
		return []byte(s)
	}
	b, _ := json.Marshal(s)
	return b
}
