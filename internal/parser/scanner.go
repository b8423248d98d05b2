// internal/parser/scanner.go
package parser

import (
	"strings"
)

// BlockSeparator splits hook batches and shot lists in generator output.
const BlockSeparator = "---"

// splitLines normalizes line endings and splits text into lines.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// splitBlocks splits text on the literal separator and drops blank blocks.
// Returned blocks are trimmed.
func splitBlocks(text, separator string) []string {
	var blocks []string
	for _, raw := range strings.Split(text, separator) {
		block := strings.TrimSpace(raw)
		if block == "" {
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// splitLabel splits "LABEL: value" at the first colon.
func splitLabel(line string) (label, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), true
}

// labelValue returns the remainder of the first line starting with prefix.
// prefix includes the trailing colon, e.g. "HOOK:".
func labelValue(lines []string, prefix string) (string, bool) {
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, prefix) {
			return strings.TrimSpace(trimmed[len(prefix):]), true
		}
	}
	return "", false
}

// fieldScanner assembles multi-line labeled fields. A field starts at a line
// beginning with one of the labels and runs until the next labeled line.
// The first occurrence of a label wins.
type fieldScanner struct {
	labels []string
	fields map[string]*strings.Builder
	seen   map[string]bool
}

func newFieldScanner(labels ...string) *fieldScanner {
	return &fieldScanner{
		labels: labels,
		fields: make(map[string]*strings.Builder, len(labels)),
		seen:   make(map[string]bool, len(labels)),
	}
}

func (s *fieldScanner) scan(lines []string) {
	var current *strings.Builder
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if label, rest, ok := s.matchLabel(trimmed); ok {
			if s.seen[label] {
				// duplicate label: ignore it and its continuation lines
				current = nil
				continue
			}
			s.seen[label] = true
			current = &strings.Builder{}
			current.WriteString(rest)
			s.fields[label] = current
			continue
		}
		if current == nil {
			continue
		}
		current.WriteString("\n")
		current.WriteString(line)
	}
}

func (s *fieldScanner) matchLabel(line string) (string, string, bool) {
	for _, label := range s.labels {
		if hasFoldPrefix(line, label) {
			return label, strings.TrimSpace(line[len(label):]), true
		}
	}
	return "", "", false
}

// value returns the trimmed field content and whether it is non-empty.
func (s *fieldScanner) value(label string) (string, bool) {
	b, ok := s.fields[label]
	if !ok {
		return "", false
	}
	v := strings.TrimSpace(b.String())
	return v, v != ""
}

// hasFoldPrefix reports whether s begins with prefix under Unicode case folding.
func hasFoldPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
