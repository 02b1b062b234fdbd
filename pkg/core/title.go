package core

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ResolveTitle derives a page title from a content fragment.
//
// The id attribute of the first <body> tag wins when it is not blank;
// otherwise the file name without its extension is used. Hyphens become
// spaces and the first letter of every word is upper-cased. Other letters
// keep their case.
func ResolveTitle(path, text string) string {
	source := strings.TrimSpace(bodyID(text))
	if source == "" {
		base := filepath.Base(path)
		source = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return capitalizeWords(strings.ReplaceAll(source, "-", " "))
}

// bodyID returns the id attribute of the first body start tag, if any.
func bodyID(text string) string {
	z := html.NewTokenizer(strings.NewReader(text))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "body" {
				continue
			}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "id" {
					return string(val)
				}
			}
			return ""
		}
	}
}

func capitalizeWords(s string) string {
	upper := cases.Upper(language.Und)
	var b strings.Builder
	b.Grow(len(s))
	atWordStart := true
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		chunk := s[:size]
		s = s[size:]
		switch {
		case unicode.IsSpace(r):
			atWordStart = true
			b.WriteString(chunk)
		case atWordStart:
			atWordStart = false
			b.WriteString(upper.String(chunk))
		default:
			b.WriteString(chunk)
		}
	}
	return b.String()
}
