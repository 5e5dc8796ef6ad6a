package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil && len(s) == 36
}

var spaces = regexp.MustCompile(`\s+`)

// BuildGeocodeCacheKey normalizes an address so cosmetic differences share an entry.
func BuildGeocodeCacheKey(address string) string {
	a := strings.ToLower(strings.TrimSpace(address))
	a = spaces.ReplaceAllString(a, " ")

	return "geocode:v1:" + a
}
