package manager

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"time"
)

const randomSuffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newSessionID returns a globally unique session-<timestamp36>-<random6>
// identifier: a base-36 timestamp for rough chronological sort plus a
// cryptographically random suffix to rule out same-tick collisions.
func newSessionID() string {
	ts := strconv.FormatInt(time.Now().UnixNano(), 36)
	return fmt.Sprintf("session-%s-%s", ts, randomSuffix(6))
}

func randomSuffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand.Read on a real OS does not fail; if it somehow
		// does, degrade to an all-zero suffix rather than panicking.
		for i := range buf {
			buf[i] = 0
		}
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = randomSuffixAlphabet[int(b)%len(randomSuffixAlphabet)]
	}
	return string(out)
}
