package registration

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
)

// idBytes yields a 6-character hex token. Short enough to read out over the
// phone, sparse enough that collisions stay rare at event scale.
const idBytes = 3

// ErrIDSpaceExhausted is returned when repeated allocation attempts keep
// colliding with stored records.
var ErrIDSpaceExhausted = errors.New("could not allocate a unique participant id")

// newParticipantID returns a random fixed-length hex token.
func newParticipantID() (string, error) {
	buf := make([]byte, idBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
