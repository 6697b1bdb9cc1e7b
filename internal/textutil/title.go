package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// TitleCase capitalizes a chapter name for display in track metadata.
func TitleCase(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return titleCaser.String(name)
}
