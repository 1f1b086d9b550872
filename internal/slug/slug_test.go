package slug

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple", input: "Hiking Club", expected: "hiking-club"},
		{name: "diacritics", input: "Café Menopause!!", expected: "cafe-menopause"},
		{name: "already normalized", input: "cycle", expected: "cycle"},
		{name: "digits kept", input: "123 Go!", expected: "123-go"},
		{name: "punctuation runs collapse", input: "a...b---c   d", expected: "a-b-c-d"},
		{name: "leading trailing stripped", input: "  --Hello--World--  ", expected: "hello-world"},
		{name: "uppercase folded", input: "FITNESS", expected: "fitness"},
		{name: "empty", input: "", expected: ""},
		{name: "only punctuation", input: "!!!", expected: ""},
		{name: "non latin script drops out", input: "Тема", expected: ""},
		{name: "mixed script keeps latin", input: "Тема health", expected: "health"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.input); got != tc.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestNormalizeTruncates(t *testing.T) {
	got := Normalize(strings.Repeat("a", 100))
	if len(got) != maxLen {
		t.Errorf("expected %d runes, got %d", maxLen, len(got))
	}

	// A truncation boundary landing on a hyphen must not leave one behind.
	got = Normalize(strings.Repeat("ab ", 40))
	if len(got) > maxLen {
		t.Errorf("result longer than %d: %q", maxLen, got)
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("trailing hyphen after truncation: %q", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Café Menopause!!",
		"Hiking Club",
		"  --a--b--  ",
		strings.Repeat("ab ", 40),
		strings.Repeat("x", 100),
		"Тема health 123",
		"",
		"!!!",
	}
	for _, input := range inputs {
		once := Normalize(input)
		if twice := Normalize(once); twice != once {
			t.Errorf("not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}
