package models

import (
	"strings"
	"unicode"

	itemdomain "github.com/ghuser/itemsapi/services/item/domain"
)

// ItemName is a value object holding a trimmed, non-empty item name.
type ItemName string

// NewItemName trims leading and trailing whitespace (including the byte
// order mark U+FEFF) from s and returns ErrNameRequired if nothing is left.
func NewItemName(s string) (ItemName, error) {
	trimmed := strings.TrimFunc(s, isTrimmable)
	if trimmed == "" {
		return "", itemdomain.ErrNameRequired
	}
	return ItemName(trimmed), nil
}

// String returns the underlying string value.
func (n ItemName) String() string {
	return string(n)
}

func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}
