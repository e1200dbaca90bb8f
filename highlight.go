package main

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"upgrade_diff/internal/diff"
)

// SyntaxHighlighter colors patch lines by the language of the patched file
type SyntaxHighlighter struct {
	style *chroma.Style

	mu    sync.Mutex
	byExt map[string]chroma.Lexer
}

// NewSyntaxHighlighter creates a new syntax highlighter
func NewSyntaxHighlighter() *SyntaxHighlighter {
	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	return &SyntaxHighlighter{style: style, byExt: make(map[string]chroma.Lexer)}
}

// RenderPatch returns p in unified format with colored markers and highlighted line content. Lines end
// with \n whatever the patch EOL is; filePath selects the lexer.
func (h *SyntaxHighlighter) RenderPatch(p diff.Patch, filePath string) string {
	lexer := h.getLexer(filePath)

	var sb strings.Builder
	sb.WriteString(fileHeaderStyle.Render("--- " + p.SourceLabel))
	sb.WriteString("\n")
	sb.WriteString(fileHeaderStyle.Render("+++ " + p.TargetLabel))
	sb.WriteString("\n")
	for _, hunk := range p.Hunks {
		sb.WriteString(hunkHeaderStyle.Render(hunk.Header()))
		sb.WriteString("\n")
		for _, e := range hunk.Edits {
			var line string
			if e.Op == diff.OpInsert {
				line = p.Target[e.Dst]
			} else {
				line = p.Source[e.Src]
			}
			sb.WriteString(markerStyle(e.Op).Render(string(e.Op.Prefix())))
			sb.WriteString(h.highlight(lexer, line))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func markerStyle(op diff.Op) lipgloss.Style {
	switch op {
	case diff.OpInsert:
		return addedMarkerStyle
	case diff.OpDelete:
		return removedMarkerStyle
	default:
		return contextMarkerStyle
	}
}

func (h *SyntaxHighlighter) highlight(lexer chroma.Lexer, line string) string {
	if lexer == nil {
		return line
	}

	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}

	var result strings.Builder
	for _, token := range iterator.Tokens() {
		// Lexers may append a newline the line never had.
		token.Value = strings.ReplaceAll(token.Value, "\n", "")
		if token.Value == "" {
			continue
		}
		result.WriteString(h.styleToken(token))
	}
	return result.String()
}

// getLexer returns the lexer for a file path, caching the lookup per extension.
func (h *SyntaxHighlighter) getLexer(filePath string) chroma.Lexer {
	if filePath == "" {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(filePath))

	h.mu.Lock()
	defer h.mu.Unlock()
	if lexer, ok := h.byExt[ext]; ok {
		return lexer
	}
	lexer := lookupLexer(ext, filePath)
	if ext != "" {
		h.byExt[ext] = lexer
	}
	return lexer
}

func lookupLexer(ext, filePath string) chroma.Lexer {
	// Portal sources are mostly Java, JSP and the descriptors around them.
	switch ext {
	case ".java":
		return lexers.Get("java")
	case ".jsp", ".jspf", ".vm", ".ftl", ".tmpl":
		return lexers.Get("html")
	case ".xml", ".xsd", ".tld", ".dtd", ".wsdd":
		return lexers.Get("xml")
	case ".properties":
		return lexers.Get("properties")
	case ".js":
		return lexers.Get("javascript")
	case ".css":
		return lexers.Get("css")
	case ".sql":
		return lexers.Get("sql")
	}

	if lexer := lexers.Get(ext); lexer != nil {
		return lexer
	}
	if lexer := lexers.Get(filepath.Base(filePath)); lexer != nil {
		return lexer
	}
	return lexers.Match(filePath)
}

// styleToken applies lipgloss styling to a chroma token
func (h *SyntaxHighlighter) styleToken(token chroma.Token) string {
	content := token.Value
	entry := h.style.Get(token.Type)

	if entry == (chroma.StyleEntry{}) {
		return content
	}

	style := lipgloss.NewStyle()
	if entry.Colour.IsSet() {
		color := entry.Colour.String()
		if strings.HasPrefix(color, "#") {
			style = style.Foreground(lipgloss.Color(color))
		}
	}
	if entry.Bold == chroma.Yes {
		style = style.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		style = style.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		style = style.Underline(true)
	}

	return style.Render(content)
}
