package gen

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/go-openapi/inflect"
)

var (
	// rules is the inflection ruleset shared by all naming helpers.
	rules = ruleset()
	// acronyms is the set of spellings preserved verbatim in Go names.
	acronyms = make(map[string]struct{})
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	for _, w := range []string{
		"API", "HTTP", "ID", "JSON", "SQL", "UID", "URI", "URL", "UUID", "YAML",
	} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// pascal converts an identifier of any casing to PascalCase, preserving
// well-known acronyms ("user_id" becomes "UserID").
func pascal(s string) string {
	words := strings.Split(snake(s), "_")
	var b strings.Builder
	for _, w := range words {
		if w == "" {
			continue
		}
		upper := strings.ToUpper(w)
		if _, ok := acronyms[upper]; ok {
			b.WriteString(upper)
			continue
		}
		b.WriteString(rules.Capitalize(w))
	}
	return b.String()
}

// camel converts an identifier of any casing to camelCase.
func camel(s string) string {
	first, rest, ok := strings.Cut(snake(s), "_")
	if !ok {
		return first
	}
	return first + pascal(rest)
}

// snake converts an identifier of any casing to snake_case.
func snake(s string) string {
	return rules.Underscore(strings.Join(strings.FieldsFunc(s, isSeparator), "_"))
}

// plural returns the snake_case plural form of the identifier.
func plural(s string) string {
	return snake(rules.Pluralize(snake(s)))
}

// singular returns the snake_case singular form of the identifier.
func singular(s string) string {
	return snake(rules.Singularize(snake(s)))
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// funcMap holds the helpers available to all artifact templates.
var funcMap = template.FuncMap{
	"pascal": pascal,
	"camel":  camel,
	"snake":  snake,
	"lower":  strings.ToLower,
	"upper":  strings.ToUpper,
	"quote":  func(s string) string { return fmt.Sprintf("%q", s) },
	"join":   strings.Join,
	"add":    func(a, b int) int { return a + b },
	// commalist joins the non-empty scalar arguments and string slices
	// into a single comma-separated list. Used to assemble struct tags.
	"commalist": func(parts ...any) string {
		var out []string
		for _, p := range parts {
			switch v := p.(type) {
			case string:
				if v != "" {
					out = append(out, v)
				}
			case []string:
				for _, s := range v {
					if s != "" {
						out = append(out, s)
					}
				}
			}
		}
		return strings.Join(out, ",")
	},
}
