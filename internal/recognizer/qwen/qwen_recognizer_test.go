package qwen

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatResponse(content, finishReason string) []byte {
	quoted, _ := json.Marshal(content)
	return []byte(`{"choices":[{"message":{"content":` + string(quoted) + `},"finish_reason":"` + finishReason + `"}]}`)
}

func TestParseResponse(t *testing.T) {
	payload := `[{"document_number":"TTN-1042","document_date":"15.03.2026","items":[{"name":"Cement M500","quantity":"40","unit":"bags"}]}]`

	data, err := parseResponse(chatResponse(payload, "stop"))

	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Equal(t, "TTN-1042", data[0].DocumentNumber)
	assert.Equal(t, "40", data[0].Items[0].Quantity)
}

func TestParseResponse_CodeFencedOutput(t *testing.T) {
	payload := "```json\n[{\"document_number\":\"TTN-7\",\"items\":[]}]\n```"

	data, err := parseResponse(chatResponse(payload, "stop"))

	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Equal(t, "TTN-7", data[0].DocumentNumber)
}

func TestParseResponse_NonWaybillYieldsEmptyList(t *testing.T) {
	data, err := parseResponse(chatResponse("[]", "stop"))

	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestParseResponse_NoChoices(t *testing.T) {
	_, err := parseResponse([]byte(`{"choices":[]}`))
	assert.Error(t, err)
}

func TestParseResponse_TruncatedOutput(t *testing.T) {
	_, err := parseResponse(chatResponse(`[{"document_number":"TTN`, "length"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}

func TestParseResponse_NonJSONContent(t *testing.T) {
	_, err := parseResponse(chatResponse("The image appears to be a cat photo.", "stop"))
	assert.Error(t, err)
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"[]", "[]"},
		{"```json\n[]\n```", "[]"},
		{"```\n[]\n```", "[]"},
		{"  [1,2]  ", "[1,2]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripCodeFences(tt.in))
	}
}
