// Package keycodec encodes and decodes the composite keys used by the
// sorted store. Layering mirrors the teacher's idcodec/encoding split —
// a thin, type-safe surface over a single total, unambiguous algorithm —
// but the algorithm itself is the spec's own dot-join scheme, not base63.
package keycodec

import (
	"fmt"
	"strings"
)

// Encode builds a composite key "!<sublevel>!<id>" from ordered lists of
// sublevel parts and id parts. Empty parts are filtered before joining,
// so a primary document (one sublevel part, one id part) and an embedded
// document (N sublevel parts, N id parts) use the same function.
func Encode(sublevelParts, idParts []string) string {
	return "!" + joinParts(sublevelParts) + "!" + joinParts(idParts)
}

func joinParts(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			filtered = append(filtered, p)
		}
	}
	return strings.Join(filtered, ".")
}

// Decode splits a composite key into its sublevel and id part lists.
// It splits on the first two '!' characters to recover (sublevel, id),
// then splits each on '.' to recover the individual path parts.
func Decode(key string) (sublevelParts, idParts []string, err error) {
	if len(key) == 0 || key[0] != '!' {
		return nil, nil, fmt.Errorf("keycodec: key %q does not start with '!'", key)
	}
	rest := key[1:]
	bangIdx := strings.IndexByte(rest, '!')
	if bangIdx < 0 {
		return nil, nil, fmt.Errorf("keycodec: key %q is missing its second '!'", key)
	}
	sublevel := rest[:bangIdx]
	id := rest[bangIdx+1:]
	return splitNonEmpty(sublevel), splitNonEmpty(id), nil
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ".")
}

// Sublevel returns just the sublevel portion of a composite key ("" on
// malformed input).
func Sublevel(key string) string {
	sub, _, err := Decode(key)
	if err != nil {
		return ""
	}
	return strings.Join(sub, ".")
}

// IsEmbedded reports whether a composite key addresses an embedded
// document: its sublevel has more than one dot-joined part.
func IsEmbedded(key string) bool {
	sub, _, err := Decode(key)
	if err != nil {
		return false
	}
	return len(sub) > 1
}

// ParentKey computes the composite key of the immediate parent of an
// embedded-document key by dropping the last sublevel and id part. It
// returns false if key already addresses a primary document.
func ParentKey(key string) (string, bool) {
	sub, id, err := Decode(key)
	if err != nil || len(sub) <= 1 {
		return "", false
	}
	return Encode(sub[:len(sub)-1], id[:len(id)-1]), true
}
