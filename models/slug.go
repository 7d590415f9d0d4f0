package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Slugify joins the non-empty parts with "-" and reduces them to a
// transliterated, lower-case url slug.
func Slugify(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return slug.Make(strings.Join(kept, "-"))
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
