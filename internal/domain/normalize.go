package domain

import "strings"

// NormalizeHumanName trims a typed name or city and collapses inner whitespace,
// so "  Le  Martin " and "Le Martin" are the same family.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
