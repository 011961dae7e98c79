package codes

import (
	"context"
	"crypto/rand"
	"fmt"
)

// Alphabet deliberately omits 0/O, 1/I and similar glyphs so codes can be
// read back over the phone without ambiguity.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 6

// PrefixPDV and PrefixRecouvrement are the two entity code namespaces.
const (
	PrefixPDV          = "CAF"
	PrefixRecouvrement = "REC"
)

// ExistsFunc reports whether a candidate code is already taken.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// maxAttempts bounds the collision retry loop; with a 32^6 space this
// only trips when the exists check itself is broken.
const maxAttempts = 20

// Generate produces a unique code like CAF-A7B3K9, retrying on collision.
func Generate(ctx context.Context, prefix string, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := random(prefix)
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("checking code uniqueness: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique %s code after %d attempts", prefix, maxAttempts)
}

func random(prefix string) (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	out := make([]byte, codeLength)
	for i, b := range buf {
		out[i] = Alphabet[int(b)%len(Alphabet)]
	}
	return prefix + "-" + string(out), nil
}
