// Package export renders notes to standalone HTML documents for sharing or
// printing. Note content is treated as markdown.
package export

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"notedeck/pkg/models"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// NoteHTML renders a single note as a complete HTML document.
func NoteHTML(n models.Note) (string, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(n.Content), &body); err != nil {
		return "", fmt.Errorf("failed to render note %s: %w", n.ID, err)
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(n.Title))
	b.WriteString("</head>\n")
	fmt.Fprintf(&b, "<body class=\"note note-%s\">\n", html.EscapeString(string(n.Color)))
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(n.Title))
	b.WriteString(body.String())

	if len(n.Items) > 0 {
		b.WriteString("<ul class=\"checklist\">\n")
		for _, item := range n.Items {
			mark := "&#9744;"
			if item.Checked {
				mark = "&#9745;"
			}
			fmt.Fprintf(&b, "<li>%s %s</li>\n", mark, html.EscapeString(item.Text))
		}
		b.WriteString("</ul>\n")
	}

	if len(n.Tags) > 0 {
		b.WriteString("<p class=\"tags\">")
		for i, t := range n.Tags {
			if i > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "#%s", html.EscapeString(t))
		}
		b.WriteString("</p>\n")
	}

	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}

// WriteNotes renders every note into dir, one HTML file per note named by
// id, and returns the written paths in collection order.
func WriteNotes(notes []models.Note, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(notes))
	for _, n := range notes {
		doc, err := NoteHTML(n)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, n.ID+".html")
		if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
