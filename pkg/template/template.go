// pkg/template/template.go

// Package template renders text templates with {{NAME}} placeholder
// substitution. No control flow lives in templates; conditional content
// is composed by the caller before rendering.
package template

import (
	"regexp"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{\{(\s*\w+\s*)\}\}`)

// Render replaces every {{NAME}} token with its value from vars.
// Unknown tokens are left verbatim so a missing mapping stays visible
// in the output instead of silently disappearing.
func Render(text string, vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(match string) string {
		key := strings.TrimSpace(placeholderRe.FindStringSubmatch(match)[1])
		if value, ok := vars[key]; ok {
			return value
		}
		return match
	})
}

// Placeholders returns the distinct placeholder names referenced by a
// template, in order of first appearance.
func Placeholders(text string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(text, -1) {
		key := strings.TrimSpace(m[1])
		if !seen[key] {
			seen[key] = true
			names = append(names, key)
		}
	}
	return names
}

// Missing returns the placeholder names referenced by a template that
// have no entry in vars. Callers that want strict rendering fail when
// this is non-empty.
func Missing(text string, vars map[string]string) []string {
	var missing []string
	for _, name := range Placeholders(text) {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
