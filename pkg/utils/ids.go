package utils

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// Slugify converts a string to a URL-friendly slug
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")

	reg := regexp.MustCompile("[^a-z0-9-]")
	s = reg.ReplaceAllString(s, "")

	reg = regexp.MustCompile("-+")
	s = reg.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}

// GenerateOrderNumber generates a human-readable order number of the form
// ORD-123456. Six random digits leave a real collision risk across a large
// order volume; the storefront accepts it for display numbers since orders
// are keyed by UUID.
func GenerateOrderNumber() string {
	return fmt.Sprintf("ORD-%06d", rand.Intn(1000000))
}

// GenerateSKU generates a unique product SKU
func GenerateSKU() string {
	return "TER-" + strings.ToUpper(uuid.New().String()[:8])
}
