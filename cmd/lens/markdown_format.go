package main

import (
	"github.com/tasklens/tasklens/internal/markdown"
	internalstrings "github.com/tasklens/tasklens/internal/strings"
)

func renderMarkdownOrDash(value string, width int) string {
	if width < 1 {
		width = 1
	}
	formatted := string(markdown.SafeRender(width, 0, []byte(value)))
	if internalstrings.IsBlank(formatted) {
		return "-"
	}
	return internalstrings.TrimLeadingNewlines(formatted)
}
