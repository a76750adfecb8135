package ident

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"clone-social-client/internal/models"

	"github.com/google/uuid"
)

var (
	hex24Re  = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
	digitsRe = regexp.MustCompile(`^[0-9]+$`)
)

// LooksLikeID reports whether s has one of the accepted identifier shapes:
// a canonical dashed-hex UUID, a 24-character hex string, or an all-digit
// string. Anything else is rejected so free-form text is never treated as
// an id. The length check pins the UUID to its 8-4-4-4-12 form; braced and
// urn-prefixed variants are not ids on this wire.
func LooksLikeID(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return false
	}
	if len(trimmed) == 36 {
		if _, err := uuid.Parse(trimmed); err == nil {
			return true
		}
	}
	return hex24Re.MatchString(trimmed) || digitsRe.MatchString(trimmed)
}

// Resolve normalizes a value that may carry a user identifier: a raw id
// string, a user record, or a generic JSON object probed for the known id
// field names in precedence order. It returns the trimmed id, or "" when
// no identifier can be extracted.
func Resolve(v interface{}) string {
	switch entity := v.(type) {
	case nil:
		return ""
	case string:
		if LooksLikeID(entity) {
			return strings.TrimSpace(entity)
		}
		return ""
	case models.User:
		return strings.TrimSpace(entity.ID)
	case *models.User:
		if entity == nil {
			return ""
		}
		return strings.TrimSpace(entity.ID)
	case map[string]interface{}:
		for _, field := range []string{"id", "_id", "user_id", "userId"} {
			if raw, ok := entity[field]; ok {
				if id := fieldID(raw); id != "" {
					return id
				}
			}
		}
		return ""
	default:
		return ""
	}
}

// fieldID normalizes a single id field from a decoded JSON object. Numeric
// ids survive decoding as float64 (or json.Number when configured) and are
// formatted back to their digit string.
func fieldID(raw interface{}) string {
	switch id := raw.(type) {
	case string:
		return strings.TrimSpace(id)
	case json.Number:
		return id.String()
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return ""
	}
}
