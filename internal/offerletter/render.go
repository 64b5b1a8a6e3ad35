package offerletter

import "regexp"

var placeholderPattern = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)

// Render substitutes {{identifier}} tokens in tpl with values from data and
// returns the result together with the placeholder names that had no data
// key. Unmatched placeholders stay literally in the output so a typo is
// visible rather than silently blanked; callers are expected to log the
// unresolved list. Values are inserted verbatim with no HTML escaping.
func Render(tpl string, data map[string]string) (string, []string) {
	var unresolved []string
	seen := map[string]bool{}

	out := placeholderPattern.ReplaceAllStringFunc(tpl, func(token string) string {
		name := token[2 : len(token)-2]
		if value, ok := data[name]; ok {
			return value
		}
		if !seen[name] {
			seen[name] = true
			unresolved = append(unresolved, name)
		}
		return token
	})

	return out, unresolved
}

// Placeholders returns the distinct placeholder names in tpl in order of
// first appearance.
func Placeholders(tpl string) []string {
	var names []string
	seen := map[string]bool{}
	for _, m := range placeholderPattern.FindAllStringSubmatch(tpl, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
