// Package localization resolves localized labels. Inquiry types carry their
// display names per language; this package picks the right one for a request
// with an English fallback.
package localization

import (
	"strings"

	"hooptalk/backend/internal/models"
)

// DefaultLanguage is the fallback when the requested language has no label.
const DefaultLanguage = "en"

// DisplayName returns the inquiry type's label for the given language. If
// the language has no label the English one is used; if neither exists the
// type's internal name is returned as-is.
func DisplayName(t *models.InquiryType, lang string) string {
	if name, ok := lookup(t.DisplayNames, lang); ok {
		return name
	}
	if lang != DefaultLanguage {
		if name, ok := lookup(t.DisplayNames, DefaultLanguage); ok {
			return name
		}
	}
	return t.Name
}

func lookup(names []models.InquiryTypeDisplayName, lang string) (string, bool) {
	for i := range names {
		if strings.EqualFold(names[i].Language, lang) {
			return names[i].DisplayName, true
		}
	}
	return "", false
}

// PreferredLanguage extracts the first language tag from an Accept-Language
// header, stripped of region and quality parts. Empty input yields the
// default language.
func PreferredLanguage(header string) string {
	first := strings.TrimSpace(strings.Split(header, ",")[0])
	if i := strings.IndexByte(first, ';'); i >= 0 {
		first = first[:i]
	}
	if i := strings.IndexByte(first, '-'); i >= 0 {
		first = first[:i]
	}
	if first == "" || first == "*" {
		return DefaultLanguage
	}
	return strings.ToLower(first)
}
