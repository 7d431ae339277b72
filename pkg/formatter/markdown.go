package formatter

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hellenic-development/batch-export/pkg/exporter"
)

// ToMarkdown renders a manifest of the exported assets, grouped by document and
// artboard, followed by every recorded failure. Paths are shown relative to
// sourceDir when possible.
func ToMarkdown(sourceDir string, assets []exporter.Asset, errs []string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Batch Export - %s\n\n", filepath.Base(sourceDir)))

	docs := groupByDocument(assets)
	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	sort.Strings(names)

	sb.WriteString(fmt.Sprintf("Exported %d file(s) from %d document(s).\n\n", len(assets), len(names)))

	for _, name := range names {
		sb.WriteString(fmt.Sprintf("## %s\n\n", name))
		sb.WriteString("| Artboard | Format | Width | File |\n")
		sb.WriteString("|----------|--------|-------|------|\n")

		for _, a := range docs[name] {
			width := "-"
			if a.Format == exporter.FormatPNG {
				width = fmt.Sprintf("%dpx", a.Width)
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | `%s` |\n",
				escapeCell(a.Artboard), a.Format, width, relPath(sourceDir, a.Path)))
		}
		sb.WriteString("\n")
	}

	if len(errs) > 0 {
		sb.WriteString("## Errors\n\n")
		for _, e := range errs {
			sb.WriteString(fmt.Sprintf("- %s\n", e))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// groupByDocument keeps the export order of assets within each document.
func groupByDocument(assets []exporter.Asset) map[string][]exporter.Asset {
	out := make(map[string][]exporter.Asset)
	for _, a := range assets {
		out[a.Document] = append(out[a.Document], a)
	}
	return out
}

func relPath(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
