package util

import "strings"

// CollapseSpace trims s and folds inner whitespace runs to a single space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
