package tuiapp

import (
	"net/url"
	"os"
	"strings"
)

// parseDroppedPath turns what a terminal pastes for a dropped file into a
// path. Terminals variously quote it, backslash-escape spaces or send a
// file:// URI; only the first file of a multi-file drop is used.
func parseDroppedPath(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}

	if strings.HasPrefix(text, "file://") {
		u, err := url.Parse(text)
		if err != nil || u.Path == "" {
			return "", false
		}
		return u.Path, true
	}

	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if (first == '\'' || first == '"') && last == first {
			return text[1 : len(text)-1], true
		}
	}

	if strings.Contains(text, `\ `) {
		return unescapeShell(text), true
	}
	return text, true
}

func unescapeShell(text string) string {
	var b strings.Builder
	escaped := false
	for _, r := range text {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	if escaped {
		b.WriteRune('\\')
	}
	return b.String()
}

func isExistingFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
