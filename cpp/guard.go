package cpp

import "strings"

// GuardName turns filename into an include guard token. Letters are
// upper-cased and kept, every run of anything else collapses into a single
// underscore. The result always starts with an underscore.
func GuardName(filename string) string {
	var sb strings.Builder
	prev := '_'
	sb.WriteRune(prev)

	for _, c := range strings.ToUpper(filename) {
		if c >= 'A' && c <= 'Z' {
			prev = c
			sb.WriteRune(prev)
		} else if prev != '_' {
			prev = '_'
			sb.WriteRune(prev)
		}
	}

	return sb.String()
}
