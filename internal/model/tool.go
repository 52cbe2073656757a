package model

import (
	"fmt"
	"strings"
)

// Tool identifies one transformation offered by webinfo.
type Tool string

const (
	ToolURLEncode    Tool = "url-encode"
	ToolURLDecode    Tool = "url-decode"
	ToolBase64Encode Tool = "base64-encode"
	ToolBase64Decode Tool = "base64-decode"
	ToolJSONFormat   Tool = "json-format"
	ToolJSONMinify   Tool = "json-minify"
	ToolJSONValidate Tool = "json-validate"
	ToolJSONQuery    Tool = "json-query"
	ToolHash         Tool = "hash"
	ToolIP           Tool = "ip"
)

// ToolInfo describes a tool for help text and report headings.
type ToolInfo struct {
	Title       string
	Description string
}

// toolInfoMapping is the single source of titles and descriptions.
var toolInfoMapping = map[Tool]ToolInfo{
	ToolURLEncode: {
		Title:       "URL Encode",
		Description: "Percent-encode every byte outside A-Z a-z 0-9 - _ . ~",
	},
	ToolURLDecode: {
		Title:       "URL Decode",
		Description: "Decode %XX escapes back to UTF-8 text",
	},
	ToolBase64Encode: {
		Title:       "Base64 Encode",
		Description: "Encode the UTF-8 bytes of the input as Base64",
	},
	ToolBase64Decode: {
		Title:       "Base64 Decode",
		Description: "Decode Base64 back to UTF-8 text",
	},
	ToolJSONFormat: {
		Title:       "JSON Format",
		Description: "Pretty-print JSON with two-space indentation",
	},
	ToolJSONMinify: {
		Title:       "JSON Minify",
		Description: "Remove insignificant whitespace from JSON",
	},
	ToolJSONValidate: {
		Title:       "JSON Validate",
		Description: "Check that the input is a single well-formed JSON document",
	},
	ToolJSONQuery: {
		Title:       "JSON Query",
		Description: "Extract a value by path and format it",
	},
	ToolHash: {
		Title:       "Hash",
		Description: "Compute hex digests of the UTF-8 bytes of the input",
	},
	ToolIP: {
		Title:       "IP Information",
		Description: "Resolve a client IP address to its geolocation record",
	},
}

// AllTools returns every tool in display order.
func AllTools() []Tool {
	return []Tool{
		ToolURLEncode, ToolURLDecode,
		ToolBase64Encode, ToolBase64Decode,
		ToolJSONFormat, ToolJSONMinify, ToolJSONValidate, ToolJSONQuery,
		ToolHash, ToolIP,
	}
}

// String returns the tool identifier.
func (t Tool) String() string {
	return string(t)
}

// Title returns the display title, or the identifier for unknown tools.
func (t Tool) Title() string {
	if info, ok := toolInfoMapping[t]; ok {
		return info.Title
	}
	return string(t)
}

// Description returns a one-line description of the tool.
func (t Tool) Description() string {
	return toolInfoMapping[t].Description
}

// ParseTool converts an identifier such as "url-encode" or "URL_ENCODE".
func ParseTool(s string) (Tool, error) {
	t := Tool(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	if _, ok := toolInfoMapping[t]; !ok {
		return "", fmt.Errorf("unknown tool %q", s)
	}
	return t, nil
}
