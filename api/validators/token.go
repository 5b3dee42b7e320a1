package validators

import "strings"

const bearerPrefix = "bearer "

// BearerToken extracts the credentials of an `Authorization: Bearer <token>` header.
func BearerToken(header string) (string, bool) {
	value := strings.TrimSpace(header)
	if len(value) <= len(bearerPrefix) || !strings.EqualFold(value[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(value[len(bearerPrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}
