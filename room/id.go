package room

import (
	"crypto/rand"
)

// idAlphabet is uppercase letters with "I" removed so ids stay readable
// when shared out loud or scribbled down.
const idAlphabet = "ABCDEFGHJKLMNOPQRSTUVWXYZ"

func generateID(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return string(buf), nil
}
