// Package color converts between #rrggbb hex strings and the signed 32-bit
// integers the preferences file stores. The stored form is the full ARGB word
// 0xFFrrggbb reinterpreted as a signed two's-complement value, so pure white
// is -1 and pure black is -16777216. That encoding is a compatibility
// requirement of the file format, not something to normalize away.
package color

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatError reports a color value that could not be parsed.
type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid color value %q", e.Value)
}

// Signed32 packs an rgb triple into the stored signed integer form.
func Signed32(r, g, b uint8) int32 {
	return int32(0xFF000000 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// RGB unpacks a stored decimal integer string into its channels. Negative
// values are the signed rendering of the high-alpha word and are shifted back
// into unsigned range before extraction. Unparseable input returns a
// FormatError along with pure black, which callers are expected to use as the
// fallback color.
func RGB(encoded string) (r, g, b uint8, err error) {
	v, perr := strconv.ParseInt(strings.TrimSpace(encoded), 10, 64)
	if perr != nil {
		return 0, 0, 0, &FormatError{Value: encoded}
	}
	if v < 0 {
		v += 1 << 32
	}
	return uint8(v >> 16 & 0xFF), uint8(v >> 8 & 0xFF), uint8(v & 0xFF), nil
}

// ParseHex parses a #rrggbb string (leading '#' optional) into its channels.
func ParseHex(s string) (r, g, b uint8, err error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return 0, 0, 0, &FormatError{Value: s}
	}
	v, perr := strconv.ParseUint(h, 16, 32)
	if perr != nil {
		return 0, 0, 0, &FormatError{Value: s}
	}
	return uint8(v >> 16 & 0xFF), uint8(v >> 8 & 0xFF), uint8(v & 0xFF), nil
}

// Hex renders an rgb triple as a lowercase #rrggbb string.
func Hex(r, g, b uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// HexToSigned converts a #rrggbb string to the decimal string form used in
// the preferences file.
func HexToSigned(hexColor string) (string, error) {
	r, g, b, err := ParseHex(hexColor)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(int64(Signed32(r, g, b)), 10), nil
}

// SignedToHex converts a stored decimal integer string to #rrggbb, falling
// back to black when the stored value is unparseable.
func SignedToHex(encoded string) string {
	r, g, b, err := RGB(encoded)
	if err != nil {
		return "#000000"
	}
	return Hex(r, g, b)
}
