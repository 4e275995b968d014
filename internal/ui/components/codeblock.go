// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mealplan-tui/internal/ui/styles"
)

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// Assistant replies occasionally contain fenced code (recipe scaling
// snippets, exported shopping lists). CodeBlock renders those fences with
// syntax highlighting so they stand apart from prose.

// CodeBlock is one fenced block ready to render.
type CodeBlock struct {
	Language string
	Code     string
	MaxWidth int
	Dark     bool
}

// NewCodeBlock creates a code block for the given theme mode.
func NewCodeBlock(language, code string, mode styles.Mode) CodeBlock {
	return CodeBlock{
		Language: language,
		Code:     code,
		MaxWidth: 80,
		Dark:     mode == styles.ModeDark,
	}
}

// Render renders the block with highlighting and a language badge.
func (c CodeBlock) Render() string {
	code := strings.TrimRight(c.Code, "\n")
	highlighted := highlightCode(code, c.Language, c.Dark)

	var header string
	if c.Language != "" {
		header = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Background(styles.OverlayDim).
			Padding(0, 1).
			Render(c.Language) + "\n"
	}

	maxWidth := c.MaxWidth - 4
	if maxWidth < 20 {
		maxWidth = 20
	}

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Overlay).
		Padding(0, 2).
		MaxWidth(maxWidth).
		Render(header + highlighted)
}

// ParseCodeBlocks replaces markdown code fences in text with rendered blocks.
// Prose lines pass through untouched.
func ParseCodeBlocks(text string, maxWidth int, mode styles.Mode) string {
	lines := strings.Split(text, "\n")
	var result []string
	var codeLines []string
	var language string
	inFence := false

	flush := func() {
		cb := NewCodeBlock(language, strings.Join(codeLines, "\n"), mode)
		cb.MaxWidth = maxWidth
		result = append(result, cb.Render())
		codeLines = nil
		language = ""
	}

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "```"):
			if inFence {
				flush()
			} else {
				language = strings.TrimSpace(strings.TrimPrefix(line, "```"))
			}
			inFence = !inFence
		case inFence:
			codeLines = append(codeLines, line)
		default:
			result = append(result, line)
		}
	}
	// Unterminated fence: render what we have.
	if inFence && len(codeLines) > 0 {
		flush()
	}

	return strings.Join(result, "\n")
}

// highlightCode applies ANSI syntax highlighting via chroma. On any failure
// the plain code comes back unchanged.
func highlightCode(code, language string, dark bool) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	styleName := "monokailight"
	if dark {
		styleName = "monokai"
	}
	style := chromaStyles.Get(styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}
