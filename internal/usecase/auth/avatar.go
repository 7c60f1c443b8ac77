package auth

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// GravatarURL returns a 200px, PG-rated Gravatar with the "mystery person"
// fallback for email.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=200&r=pg&d=mm"
}
