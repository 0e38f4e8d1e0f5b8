package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/foomo/globalcontent-mcp/schema"
	"github.com/foomo/globalcontent-mcp/service"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const headerJSON = `{
	"logo": {"id": 1, "logoText": "foomo", "logoLink": "/", "image": {"id": 2, "documentId": "a1", "url": "/uploads/logo.svg", "alternativeText": ""}},
	"navItems": [{"href": "/docs", "label": "Docs"}, {"href": "/blog"}],
	"cta": {"href": "/start", "label": "Start", "isButtonLink": true}
}`

const footerJSON = `{
	"logo": {"id": 1, "logoText": "foomo", "logoLink": "/", "image": {"id": 2, "documentId": "a1", "url": "/uploads/logo.svg", "alternativeText": ""}},
	"navItems": [{"href": "/imprint", "label": "Imprint"}],
	"socialLinks": [],
	"text": "Copyright 2026 foomo"
}`

type staticSource struct {
	payload string
}

func (s staticSource) Name() string {
	return "static"
}

func (s staticSource) Fetch(ctx context.Context) (any, error) {
	var v any
	err := json.Unmarshal([]byte(s.payload), &v)
	return v, err
}

func newTestService() service.Service {
	return service.NewService(zap.NewNop(), service.SiteSettings{}, staticSource{
		payload: `{"header":` + headerJSON + `,"footer":` + footerJSON + `}`,
	})
}

func callRequest(name string, args any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Request: mcp.Request{
			Method: "tools/call",
		},
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestNewServer(t *testing.T) {
	require.NotNil(t, NewServer(zap.NewNop(), nil))
	require.NotNil(t, NewServer(nil, newTestService()))
}

func TestToolNames(t *testing.T) {
	assert.Equal(t, "validateHeader", validateToolName(service.KindHeader))
	assert.Equal(t, "validateGlobal", validateToolName(service.KindGlobal))
	assert.Equal(t, "getGlobalFooter", getToolName(service.KindFooter))
}

func TestValidateHandler(t *testing.T) {
	args := ValidateRequest{Payload: headerJSON}
	handler := getValidateHandler(service.KindHeader)

	result, err := handler(context.Background(), callRequest("validateHeader", args), args)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var response struct {
		Valid bool            `json:"valid"`
		Value json.RawMessage `json:"value"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	assert.True(t, response.Valid)
	assert.JSONEq(t, headerJSON, string(response.Value))
}

func TestValidateHandlerInvalid(t *testing.T) {
	args := ValidateRequest{Payload: `{"href":"/","type":"TERTIARY"}`}
	handler := getValidateHandler(service.KindFooter)

	result, err := handler(context.Background(), callRequest("validateFooter", args), args)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var response ValidateResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	assert.False(t, response.Valid)
	require.Len(t, response.Issues, 4)
	assert.Equal(t, "logo", response.Issues[0].Path)
	assert.Equal(t, schema.IssueMissingField, response.Issues[0].Kind)
}

func TestValidateHandlerFailFast(t *testing.T) {
	args := ValidateRequest{Payload: `{}`, FailFast: true}

	response, err := Validate(service.KindHeader, args)
	require.NoError(t, err)
	require.Len(t, response.Issues, 1)
	assert.Equal(t, "logo", response.Issues[0].Path)
}

func TestValidateHandlerValidation(t *testing.T) {
	handler := getValidateHandler(service.KindHeader)

	for _, args := range []ValidateRequest{{Payload: ""}, {Payload: `{"logo":`}} {
		result, err := handler(context.Background(), callRequest("validateHeader", args), args)
		require.NoError(t, err)
		assert.True(t, result.IsError, args.Payload)
	}
}

func TestValidateUnknownKind(t *testing.T) {
	_, err := Validate("sidebar", ValidateRequest{Payload: `{}`})
	assert.Error(t, err)
}

func TestGetContentHandler(t *testing.T) {
	svc := newTestService()

	t.Run("json", func(t *testing.T) {
		args := GetContentRequest{}
		result, err := getContentHandler(zap.NewNop(), svc, service.KindHeader)(context.Background(), callRequest("getGlobalHeader", args), args)
		require.NoError(t, err)
		require.False(t, result.IsError)

		var response GetContentResponse
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
		require.NotNil(t, response.Header)
		assert.Len(t, response.Header.NavItems, 2)
		assert.Empty(t, response.Rendered)
	})

	t.Run("html", func(t *testing.T) {
		args := GetContentRequest{Format: FormatHTML}
		result, err := getContentHandler(zap.NewNop(), svc, service.KindHeader)(context.Background(), callRequest("getGlobalHeader", args), args)
		require.NoError(t, err)

		var response GetContentResponse
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
		assert.Contains(t, response.Rendered, `<a href="/blog">/blog</a>`)
	})

	t.Run("markdown", func(t *testing.T) {
		args := GetContentRequest{Format: FormatMarkdown}
		result, err := getContentHandler(zap.NewNop(), svc, service.KindFooter)(context.Background(), callRequest("getGlobalFooter", args), args)
		require.NoError(t, err)

		var response GetContentResponse
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
		require.NotNil(t, response.Footer)
		assert.Contains(t, response.Rendered, "[Imprint](/imprint)")
	})

	t.Run("unknown format", func(t *testing.T) {
		args := GetContentRequest{Format: "pdf"}
		result, err := getContentHandler(zap.NewNop(), svc, service.KindFooter)(context.Background(), callRequest("getGlobalFooter", args), args)
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}
