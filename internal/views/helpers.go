package views

import (
	"html/template"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var tagPattern = regexp.MustCompile(`(?s)<.*?>`)

func funcMap() template.FuncMap {
	return template.FuncMap{
		"formatDate": formatDate,
		"truncate":   truncate,
		"stripTags":  stripTags,
		"editIcon":   editIcon,
	}
}

// formatDate renders t with a Go layout; the zero time renders empty.
func formatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

// truncate cuts s to at most n runes, backing off to the last space, and appends "...".
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	cut := string([]rune(s)[:n])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}

func stripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// editIcon links to the edit form when the viewer owns the story.
func editIcon(storyUserID, callerID, storyID string) template.HTML {
	if callerID == "" || storyUserID != callerID {
		return ""
	}
	return template.HTML(`<a class="edit" href="/stories/edit/` + template.HTMLEscapeString(storyID) + `">Edit</a>`)
}
