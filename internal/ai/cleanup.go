package ai

import (
	"regexp"
	"strings"
)

var (
	frontBackPair = regexp.MustCompile(`(?i)\*{0,2}(?:Front|Mặt trước)[:\s]*\*{0,2}([^\n]*)\n\s*\*{0,2}(?:Back|Mặt sau)[:\s]*\*{0,2}([^\n]*)`)
	labelPrefixes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(?:Front|Mặt trước):\s*`),
		regexp.MustCompile(`(?i)^(?:Back|Mặt sau):\s*`),
		regexp.MustCompile(`(?i)^\*\*(?:Front|Mặt trước):\*\*\s*`),
		regexp.MustCompile(`(?i)^\*\*(?:Back|Mặt sau):\*\*\s*`),
	}
	labelOnly = regexp.MustCompile(`(?i)^(?:Front|Back|Mặt trước|Mặt sau):?\s*$`)
)

// CleanTranslation strips the card formatting a chat model sometimes wraps a translation in.
// A "Front: ... / Back: ..." reply yields the back.
func CleanTranslation(text string) string {
	text = strings.TrimSpace(text)

	if match := frontBackPair.FindStringSubmatch(text); match != nil {
		text = strings.TrimSpace(match[2])
	} else {
		text = stripLabels(text)
	}

	if len(text) >= 2 && (isWrappedIn(text, '"') || isWrappedIn(text, '\'')) {
		text = strings.TrimSpace(text[1 : len(text)-1])
	}

	return strings.TrimSpace(text)
}

func stripLabels(text string) string {
	for _, prefix := range labelPrefixes {
		text = prefix.ReplaceAllString(text, "")
	}

	text = strings.TrimSpace(strings.ReplaceAll(text, "**", ""))

	lines := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) <= 1 {
		return text
	}

	for _, line := range lines {
		if !labelOnly.MatchString(line) {
			return line
		}
	}

	return lines[len(lines)-1]
}

func isWrappedIn(text string, quote byte) bool {
	return text[0] == quote && text[len(text)-1] == quote
}
