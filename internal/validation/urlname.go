package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var urlnameRegex = regexp.MustCompile(`^[a-z0-9-]{3,30}$`)

// Route prefixes and operational endpoints a blog address must never shadow.
var reservedUrlnames = map[string]struct{}{
	"admin":      {},
	"api":        {},
	"auth":       {},
	"posts":      {},
	"comments":   {},
	"categories": {},
	"neighbors":  {},
	"activity":   {},
	"news":       {},
	"profiles":   {},
	"settings":   {},
	"uploads":    {},
	"metrics":    {},
	"health":     {},
	"login":      {},
	"signup":     {},
}

// ValidateUrlname validates a blog address: format and reserved names.
func ValidateUrlname(urlname string) error {
	if !urlnameRegex.MatchString(urlname) {
		return fmt.Errorf("blog address must be 3-30 characters and contain only lowercase letters, numbers, and hyphens")
	}

	if strings.HasPrefix(urlname, "-") || strings.HasSuffix(urlname, "-") {
		return fmt.Errorf("blog address cannot start or end with a hyphen")
	}

	if _, exists := reservedUrlnames[urlname]; exists {
		return fmt.Errorf("blog address is reserved")
	}

	return nil
}
