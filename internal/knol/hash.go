package knol

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/conorfennell/problemlog/internal/domain"
)

// Normalize joins a problem's identifying parts after cleaning each one.
// It trims whitespace, lowercases, and strips a trailing slash from the link.
func Normalize(name, link string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.Join(strings.Fields(n), " ")

	l := strings.ToLower(strings.TrimSpace(link))
	l = strings.TrimSuffix(l, "/")

	// We join with a newline so "ab"+"c" and "a"+"bc" stay distinct.
	return n + "\n" + l
}

// Fingerprint returns the SHA-256 of the normalized name and link as a hex string.
// Two logs of the same problem share a fingerprint.
func Fingerprint(name, link string) string {
	sum := sha256.Sum256([]byte(Normalize(name, link)))
	return fmt.Sprintf("%x", sum)
}

// Of returns the fingerprint of a stored problem.
func Of(p domain.Problem) string {
	link := ""
	if p.Link != nil {
		link = *p.Link
	}
	return Fingerprint(p.Name, link)
}
