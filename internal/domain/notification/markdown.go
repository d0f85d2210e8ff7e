package notification

import (
	"bytes"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// markdown renders message bodies. Raw HTML in the input is escaped
// (WithUnsafe is not set).
var markdown = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// RenderHTML converts a Markdown message to HTML safe for embedding.
func RenderHTML(message string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(message), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
