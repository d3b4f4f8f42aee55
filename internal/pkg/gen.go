package pkg

import (
	"crypto/rand"
	"encoding/base64"
	"strconv"
	"time"
)

// GenerateGameID - derives a game ID from the creation timestamp.
// Nanosecond precision keeps games created back to back distinct.
func GenerateGameID() string {
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}

// GenerateClientID - generates a new unique client identifier.
func GenerateClientID() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "error-generating-client-id"
	}

	return base64.RawURLEncoding.EncodeToString(b)
}
