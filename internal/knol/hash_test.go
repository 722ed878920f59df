package knol

import (
	"crypto/sha256"
	"fmt"
	"testing"

	"github.com/conorfennell/problemlog/internal/domain"
)

func TestNormalize(t *testing.T) {
	expected := "two sum\nhttps://leetcode.com/problems/two-sum"
	normalized := Normalize("  Two   Sum \r\n", "https://LeetCode.com/problems/two-sum/")

	if normalized != expected {
		t.Errorf("Expected normalized string to be '%s', but got '%s'", expected, normalized)
	}
}

func TestFingerprint(t *testing.T) {
	t.Run("generates correct hash", func(t *testing.T) {
		expected := fmt.Sprintf("%x", sha256.Sum256([]byte("q\n")))
		if got := Fingerprint("Q", ""); got != expected {
			t.Errorf("Expected hash '%s', but got '%s'", expected, got)
		}
	})

	t.Run("hash is deterministic", func(t *testing.T) {
		if Fingerprint("Test", "") != Fingerprint("Test", "") {
			t.Error("Expected hashes for identical problems to be the same")
		}
	})

	t.Run("normalization produces same hash", func(t *testing.T) {
		if Fingerprint("  two sum ", "https://x.dev/a/") != Fingerprint("Two Sum", "https://x.dev/a") {
			t.Error("Expected hashes to be the same after normalization, but they were different.")
		}
	})

	t.Run("different problems have different hashes", func(t *testing.T) {
		if Fingerprint("Problem 1", "") == Fingerprint("Problem 2", "") {
			t.Error("Expected hashes for different problems to be different")
		}
	})

	t.Run("field boundary matters", func(t *testing.T) {
		if Fingerprint("ab", "c") == Fingerprint("a", "bc") {
			t.Error("Expected name/link boundary to change the hash")
		}
	})
}

func TestOf(t *testing.T) {
	link := "https://x.dev/a"
	p := domain.Problem{Name: "A", Link: &link}
	if Of(p) != Fingerprint("a", "https://x.dev/a") {
		t.Error("Expected Of to match Fingerprint of name and link")
	}
	if Of(domain.Problem{Name: "A"}) != Fingerprint("A", "") {
		t.Error("Expected a nil link to hash like an empty one")
	}
}
