package service

import (
	"fmt"
	"math"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/mrussa/storefront/internal/repo"
)

const (
	minNameLen  = 1
	maxNameLen  = 100
	minSKULen   = 1
	maxSKULen   = 50
	minQty      = 1
	maxQty      = 1000
	maxEmailLen = 254
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}

func validateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < minNameLen || n > maxNameLen {
		return invalid("field name: length must be between %d and %d", minNameLen, maxNameLen)
	}
	return nil
}

// normalizeEmail accepts a bare address (no display name), trims
// surrounding whitespace and lower-cases the domain.
func normalizeEmail(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" || len(s) > maxEmailLen {
		return "", invalid("field email: not a valid address")
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return "", invalid("field email: not a valid address")
	}
	at := strings.LastIndexByte(s, '@')
	local, domain := s[:at], s[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return "", invalid("field email: not a valid address")
	}
	return local + "@" + strings.ToLower(domain), nil
}

func validateItems(items []repo.Item) error {
	if len(items) == 0 {
		return invalid("field items: at least one item is required")
	}
	for i, it := range items {
		if n := utf8.RuneCountInString(it.SKU); n < minSKULen || n > maxSKULen {
			return invalid("items[%d].sku: length must be between %d and %d", i, minSKULen, maxSKULen)
		}
		if it.Quantity < minQty || it.Quantity > maxQty {
			return invalid("items[%d].quantity: must be between %d and %d", i, minQty, maxQty)
		}
		if !(it.UnitPrice > 0) || math.IsInf(it.UnitPrice, 0) {
			return invalid("items[%d].unit_price: must be greater than 0", i)
		}
	}
	return nil
}

// canonicalID returns the canonical form of a UUID identifier.
func canonicalID(id string) (string, bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return u.String(), true
}
