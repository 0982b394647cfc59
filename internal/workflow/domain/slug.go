package domain

import (
	"strconv"
	"strings"
)

const fallbackSlug = "status"

// Slugify lower-cases name, replaces every run of characters outside
// [a-z0-9] with one hyphen and trims hyphens from both ends. A name with
// no usable characters yields "status".
func Slugify(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	if b.Len() == 0 {
		return fallbackSlug
	}
	return b.String()
}

// UniqueSlug returns base, or base-1, base-2, ... for the first candidate
// that taken rejects.
func UniqueSlug(base string, taken func(slug string) bool) string {
	if !taken(base) {
		return base
	}
	for i := 1; ; i++ {
		candidate := base + "-" + strconv.Itoa(i)
		if !taken(candidate) {
			return candidate
		}
	}
}
