// Package i18n provides localized user-facing messages for error codes.
package i18n

import (
	"strings"
	"text/template"

	"golang.org/x/text/language"
)

// Code mirrors the error code strings. They are duplicated here to avoid an
// import cycle with the errors package.
type Code = string

// Catalog stores every user-facing message for one locale.
type Catalog struct {
	locale   string
	tag      language.Tag
	messages map[Code]string
}

// Locale returns the catalog's BCP 47 locale string.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message for the given code, substituting metadata into
// {{.Key}} placeholders. Unknown codes fall back to the generic message.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	msg, ok := c.messages[code]
	if !ok {
		msg = c.messages[CodeUnknown]
	}
	if len(metadata) == 0 || !strings.Contains(msg, "{{") {
		return msg
	}

	tmpl, err := template.New("msg").Parse(msg)
	if err != nil {
		return msg
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, metadata); err != nil {
		return msg
	}
	return b.String()
}

var catalogs = []*Catalog{enUSCatalog}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(catalogs))
	for i, c := range catalogs {
		tags[i] = c.tag
	}
	return language.NewMatcher(tags)
}()

// GetCatalog returns the catalog best matching the requested locale,
// defaulting to en-US.
func GetCatalog(locale string) *Catalog {
	if strings.TrimSpace(locale) == "" {
		return enUSCatalog
	}
	_, index, _ := matcher.Match(language.Make(locale))
	if index < 0 || index >= len(catalogs) {
		return enUSCatalog
	}
	return catalogs[index]
}
