// Package taxonomy maps free-text diploma and credential strings onto the
// closed set of standardized qualification codes used across matching.
package taxonomy

import "sort"

// Code is one member of the closed qualification taxonomy. The set of codes
// is a fixed enumeration, never open text.
type Code string

const (
	// State diplomas (the higher qualification family).
	DEInfirmier     Code = "DE_INFIRMIER"
	DEPuericultrice Code = "DE_PUERICULTRICE"
	DEEJE           Code = "DE_EJE"
	DEAuxiliaire    Code = "DE_AUXILIAIRE_PUERICULTURE"

	// Entry-level certificates.
	CAPAEPE Code = "CAP_AEPE"
	BacASSP Code = "BAC_ASSP"
	BEPCSS  Code = "BEP_CSS"

	// Support certifications.
	BAFA      Code = "BAFA"
	TitreADVF Code = "TITRE_ADVF"
)

// UnknownLabel is how callers display an empty qualification set.
const UnknownLabel = "UNKNOWN"

// AllCodes lists every taxonomy member in rule-table order.
func AllCodes() []Code {
	codes := make([]Code, 0, len(rules))
	for _, rule := range rules {
		codes = append(codes, rule.Code)
	}
	return codes
}

// Set is a set of taxonomy codes. The zero value is usable and means the
// candidate's qualifications are unknown.
type Set map[Code]struct{}

func NewSet(codes ...Code) Set {
	s := make(Set, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

func (s Set) Contains(c Code) bool {
	_, ok := s[c]
	return ok
}

func (s Set) Empty() bool { return len(s) == 0 }

func (s Set) Add(c Code) Set {
	if s == nil {
		s = make(Set)
	}
	s[c] = struct{}{}
	return s
}

// Codes returns the members sorted, for deterministic output and logging.
func (s Set) Codes() []Code {
	codes := make([]Code, 0, len(s))
	for c := range s {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Intersects reports whether the two sets share at least one code.
func (s Set) Intersects(other Set) bool {
	for c := range s {
		if other.Contains(c) {
			return true
		}
	}
	return false
}

// Strings returns the members as plain strings, sorted.
func (s Set) Strings() []string {
	codes := s.Codes()
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = string(c)
	}
	return out
}

// Label renders the set for display, using UnknownLabel when empty.
func (s Set) Label() string {
	if s.Empty() {
		return UnknownLabel
	}
	codes := s.Strings()
	label := codes[0]
	for _, c := range codes[1:] {
		label += "," + c
	}
	return label
}
