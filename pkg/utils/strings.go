package utils

import (
	"go/token"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]+`)
	nonIdent = regexp.MustCompile(`[^A-Za-z0-9_]`)
)

// RemoveAccents removes accents from a string, converting accented characters to their base forms
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// SplitCamelCase splits a camelCase or PascalCase string into words
func SplitCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var parts []string
	var current strings.Builder

	runes := []rune(s)
	for i, r := range runes {
		// Check if this is the start of a new word
		isNewWord := false
		if i > 0 && isUppercase(r) {
			if !isUppercase(runes[i-1]) {
				isNewWord = true
			} else if i < len(runes)-1 && !isUppercase(runes[i+1]) {
				// "XMLHttp" -> "XML", "Http"
				isNewWord = true
			}
		}

		if isNewWord && current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

// isUppercase checks if a rune is uppercase
func isUppercase(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// ToPascalCaseAdvanced converts a string to PascalCase, splitting on
// separators and camelCase boundaries
func ToPascalCaseAdvanced(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	s = RemoveAccents(s)

	parts := nonAlnum.Split(s, -1)
	var allParts []string

	for _, part := range parts {
		if part == "" {
			continue
		}
		allParts = append(allParts, SplitCamelCase(part)...)
	}

	if len(allParts) == 0 {
		return ""
	}

	var result strings.Builder
	for _, part := range allParts {
		if part == "" {
			continue
		}
		if len(part) == 1 {
			result.WriteString(strings.ToUpper(part))
		} else {
			result.WriteString(strings.ToUpper(part[:1]) + strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// ToCamelCaseAdvanced converts a string to camelCase
func ToCamelCaseAdvanced(s string) string {
	p := ToPascalCaseAdvanced(s)
	if p == "" {
		return ""
	}
	return strings.ToLower(p[:1]) + p[1:]
}

// ToSnakeCaseAdvanced converts a string to snake_case, splitting on
// non-alphanumeric characters and camelCase boundaries
func ToSnakeCaseAdvanced(s string) string {
	s = RemoveAccents(strings.TrimSpace(s))
	var parts []string
	for _, part := range nonAlnum.Split(s, -1) {
		if part == "" {
			continue
		}
		for _, w := range SplitCamelCase(part) {
			parts = append(parts, strings.ToLower(w))
		}
	}
	return strings.Join(parts, "_")
}

// GoIdent turns an arbitrary name into a valid Go identifier, replacing every
// character that cannot appear in one with an underscore. The mapping is
// deterministic so equal inputs always produce equal identifiers.
func GoIdent(s string) string {
	s = sanitizeIdent(s)
	if s == "" {
		return "_"
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	if token.IsKeyword(s) {
		s += "_"
	}
	return s
}

func sanitizeIdent(s string) string {
	return nonIdent.ReplaceAllString(RemoveAccents(s), "_")
}

// ExportName returns an exported Go identifier for a schema type name,
// keeping the original casing of everything after the first letter.
func ExportName(s string) string {
	s = strings.TrimLeft(sanitizeIdent(s), "_")
	if s == "" {
		return "X"
	}
	if s[0] >= '0' && s[0] <= '9' {
		return "X" + s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// LocalName returns an unexported identifier usable as a local variable.
func LocalName(s string) string {
	c := ToCamelCaseAdvanced(s)
	if c == "" {
		return "v"
	}
	if c[0] >= '0' && c[0] <= '9' {
		c = "v" + c
	}
	if token.IsKeyword(c) {
		c += "_"
	}
	return c
}
