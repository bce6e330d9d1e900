package taxonomy

import "strings"

// Normalize maps raw free-text qualification strings to the set of taxonomy
// codes they mention. The result is a set: one input may carry several
// qualifications and several inputs may contribute to the same set. Inputs
// matching no rule contribute nothing, so fully unrecognized text yields the
// empty set ("UNKNOWN"), which is distinct from an explicit unqualified
// marker.
func Normalize(texts ...string) Set {
	out := make(Set)
	for _, text := range texts {
		canonical := canonicalize(text)
		if canonical == "" {
			continue
		}
		for _, rule := range rules {
			if rule.matches(canonical) {
				out = out.Add(rule.Code)
			}
		}
	}
	return out
}

// NormalizeOne is the legacy single-value variant. It returns the first code
// in rule-table order, or UnknownLabel when nothing matches. New code should
// prefer the set-valued Normalize.
func NormalizeOne(text string) string {
	canonical := canonicalize(text)
	if canonical != "" {
		for _, rule := range rules {
			if rule.matches(canonical) {
				return string(rule.Code)
			}
		}
	}
	return UnknownLabel
}

func (r Rule) matches(canonical string) bool {
	for _, marker := range r.Unless {
		if strings.Contains(canonical, canonicalize(marker)) {
			return false
		}
	}
	for _, token := range r.Exact {
		if canonical == canonicalize(token) {
			return true
		}
	}
	for _, marker := range r.Any {
		if strings.Contains(canonical, canonicalize(marker)) {
			return true
		}
	}
	return false
}

// canonicalize lowercases the input and folds code separators to spaces, so
// normalizing an already-normalized code string maps back to the same code.
func canonicalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = strings.ReplaceAll(text, "_", " ")
	text = strings.ReplaceAll(text, "-", " ")
	return strings.Join(strings.Fields(text), " ")
}
