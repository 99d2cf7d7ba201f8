package lib

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

// Slugify derives a URL-safe slug from a display name.
func Slugify(name string) string {
	return slug.Make(name)
}

// SlugWithSuffix appends a short random suffix, used to resolve slug
// collisions without failing the write.
func SlugWithSuffix(name string) (string, error) {
	base := slug.Make(name)
	token, err := GenerateRandomToken()
	if err != nil {
		return "", err
	}
	suffix := strings.ToLower(strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, token))
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	return fmt.Sprintf("%s-%s", base, suffix), nil
}
