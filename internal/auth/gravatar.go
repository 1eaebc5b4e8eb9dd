package auth

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// GravatarURL derives a deterministic avatar URL from an email address.
//
// Gravatar's contract: the URL path is the hex MD5 of the lowercased,
// trimmed email. MD5 is fine here — it's an address format, not a security
// boundary. Query parameters: s=200 (size), r=pg (rating), d=mm (generic
// silhouette for addresses with no gravatar).
//
// Registering twice with the same email (were it allowed) would yield the
// same avatar; the derivation is pure.
func GravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=200&r=pg&d=mm", sum)
}
