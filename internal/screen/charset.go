package screen

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/saintfish/chardet"
)

// DecodeBytes converts a raw PTY chunk to UTF-8, detecting its charset
// with chardet when the bytes aren't already valid UTF-8. Most shells
// and CLIs write UTF-8, so this is on the cold path; it exists for the
// rare legacy tool that writes Latin-1 or Shift-JIS straight to the tty.
func DecodeBytes(raw []byte) []byte {
	if isValidUTF8(raw) {
		return raw
	}

	det := chardet.NewTextDetector()
	result, err := det.DetectBest(raw)
	if err != nil || result == nil {
		return raw
	}

	enc, err := htmlindex.Get(result.Charset)
	if err != nil {
		return raw
	}

	decoded, err := decodeWith(enc, raw)
	if err != nil {
		return raw
	}
	return decoded
}

func decodeWith(enc encoding.Encoding, raw []byte) ([]byte, error) {
	return enc.NewDecoder().Bytes(raw)
}

func isValidUTF8(b []byte) bool {
	i := 0
	for i < len(b) {
		c := b[i]
		switch {
		case c < 0x80:
			i++
		case c&0xE0 == 0xC0:
			if !continuationRun(b, i, 1) {
				return false
			}
			i += 2
		case c&0xF0 == 0xE0:
			if !continuationRun(b, i, 2) {
				return false
			}
			i += 3
		case c&0xF8 == 0xF0:
			if !continuationRun(b, i, 3) {
				return false
			}
			i += 4
		default:
			return false
		}
	}
	return true
}

func continuationRun(b []byte, start, n int) bool {
	if start+n >= len(b) {
		return false
	}
	for i := 1; i <= n; i++ {
		if b[start+i]&0xC0 != 0x80 {
			return false
		}
	}
	return true
}
