package store

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// newId builds an opaque time-based id with a random suffix, e.g.
// "p_1714070423123_9f3a1c".
func (s *Store) newId(prefix string) string {
	return fmt.Sprintf("%s_%d_%s", prefix, s.now().UnixMilli(), s.suffix())
}

// normalizeAuthor trims, defaults to "Anonymous" and truncates to 60 runes.
func normalizeAuthor(author string) string {
	trimmed := strings.TrimSpace(author)
	if trimmed == "" {
		return defaultAuthor
	}
	return truncateRunes(trimmed, maxAuthor)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// boundedPrepend puts item at the head of list and enforces the retention
// cap by dropping the oldest (tail) entries.
func boundedPrepend[T any](list []T, item T, capacity int) []T {
	next := make([]T, 0, min(len(list)+1, capacity))
	next = append(next, item)
	if len(list) > capacity-1 {
		list = list[:capacity-1]
	}
	return append(next, list...)
}
