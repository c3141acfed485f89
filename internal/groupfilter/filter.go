// Package groupfilter decides which catalog items make it into a playlist,
// based on allow/deny lists of group-title patterns. Patterns support plain
// substring matching, shell-style globs (* and ?), and multi-token prefix
// matching, all case-insensitive.
package groupfilter

import (
	"strings"
)

// Spec is a parsed filter request. When Wanted is non-empty it is
// authoritative and Unwanted is ignored entirely.
type Spec struct {
	Wanted   []string
	Unwanted []string
}

// ParseList splits a comma-separated pattern list, trimming each entry and
// dropping empties (a trailing comma must not turn into a match-everything
// pattern).
func ParseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether a group title matches one pattern.
//
// Pattern with spaces: both sides are split on whitespace and compared token
// by token. A pattern with more tokens than the title can't match; trailing
// title tokens beyond the pattern's length are ignored (implicit prefix).
// Per token pair, glob characters switch that token to glob matching,
// otherwise the pattern token must be a substring of the title token.
//
// Pattern with * or ? and no space: glob against the whole title.
//
// Otherwise: substring containment.
func Matches(groupTitle, pattern string) bool {
	title := strings.ToLower(groupTitle)
	pat := strings.ToLower(pattern)

	if strings.Contains(pat, " ") {
		patTokens := strings.Fields(pat)
		titleTokens := strings.Fields(title)
		if len(patTokens) > len(titleTokens) {
			return false
		}
		for i, pt := range patTokens {
			if isGlob(pt) {
				if !glob(pt, titleTokens[i]) {
					return false
				}
			} else if !strings.Contains(titleTokens[i], pt) {
				return false
			}
		}
		return true
	}

	if isGlob(pat) {
		return glob(pat, title)
	}
	return strings.Contains(title, pat)
}

// Include applies the wanted-overrides-unwanted policy: with a non-empty
// wanted list an item is in iff any wanted pattern matches; otherwise with a
// non-empty unwanted list it is in iff no unwanted pattern matches; with
// neither, everything is in.
func Include(groupTitle string, spec Spec) bool {
	if len(spec.Wanted) > 0 {
		for _, p := range spec.Wanted {
			if Matches(groupTitle, p) {
				return true
			}
		}
		return false
	}
	if len(spec.Unwanted) > 0 {
		for _, p := range spec.Unwanted {
			if Matches(groupTitle, p) {
				return false
			}
		}
	}
	return true
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?")
}

// glob does fnmatch-style matching: * is any run of characters, ? exactly
// one. Unlike path.Match, * crosses '/': group titles like "24/7 Sports"
// are flat strings, not paths. Iterative with single-star backtracking.
func glob(pattern, s string) bool {
	p := []rune(pattern)
	t := []rune(s)
	pi, ti := 0, 0
	star, mark := -1, 0
	for ti < len(t) {
		switch {
		case pi < len(p) && (p[pi] == '?' || p[pi] == t[ti]):
			pi++
			ti++
		case pi < len(p) && p[pi] == '*':
			star = pi
			mark = ti
			pi++
		case star >= 0:
			pi = star + 1
			mark++
			ti = mark
		default:
			return false
		}
	}
	for pi < len(p) && p[pi] == '*' {
		pi++
	}
	return pi == len(p)
}
