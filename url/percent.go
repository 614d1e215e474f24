package url

import (
	"strings"
)

// An encodeSet decides whether a code point must be percent-encoded.
// https://url.spec.whatwg.org/#percent-encoded-bytes
type encodeSet func(r rune) bool

func c0ControlEncodeSet(r rune) bool {
	return r <= 0x1F || r > 0x7E
}

func fragmentEncodeSet(r rune) bool {
	if c0ControlEncodeSet(r) {
		return true
	}
	switch r {
	case ' ', '"', '<', '>', '`':
		return true
	}
	return false
}

func queryEncodeSet(r rune) bool {
	if c0ControlEncodeSet(r) {
		return true
	}
	switch r {
	case ' ', '"', '#', '<', '>':
		return true
	}
	return false
}

func specialQueryEncodeSet(r rune) bool {
	return queryEncodeSet(r) || r == '\''
}

func pathEncodeSet(r rune) bool {
	if queryEncodeSet(r) {
		return true
	}
	switch r {
	case '?', '`', '{', '}':
		return true
	}
	return false
}

func userinfoEncodeSet(r rune) bool {
	if pathEncodeSet(r) {
		return true
	}
	switch r {
	case '/', ':', ';', '=', '@', '[', '\\', ']', '^', '|':
		return true
	}
	return false
}

const upperhex = "0123456789ABCDEF"

func percentEncodeByte(b byte, out *strings.Builder) {
	out.WriteByte('%')
	out.WriteByte(upperhex[b>>4])
	out.WriteByte(upperhex[b&0x0F])
}

// utf8PercentEncode percent-encodes the UTF-8 bytes of r if r is in set,
// and returns r verbatim otherwise.
// https://url.spec.whatwg.org/#utf-8-percent-encode
func utf8PercentEncode(r rune, set encodeSet) string {
	if !set(r) {
		return string(r)
	}
	var out strings.Builder
	for _, b := range []byte(string(r)) {
		percentEncodeByte(b, &out)
	}
	return out.String()
}

func utf8PercentEncodeString(s string, set encodeSet) string {
	var out strings.Builder
	for _, r := range s {
		out.WriteString(utf8PercentEncode(r, set))
	}
	return out.String()
}

// percentEncodeBytes percent-encodes every byte of input that, read as a
// code point, is in set. Used after the query has been passed through a
// legacy encoder, where the bytes are no longer UTF-8.
func percentEncodeBytes(input []byte, set encodeSet) string {
	var out strings.Builder
	for _, b := range input {
		if b > 0x7F || set(rune(b)) {
			percentEncodeByte(b, &out)
		} else {
			out.WriteByte(b)
		}
	}
	return out.String()
}

// PercentDecode decodes every valid %XX escape in input; malformed
// escapes pass through unchanged.
// https://url.spec.whatwg.org/#percent-decode
func PercentDecode(input string) []byte {
	out := make([]byte, 0, len(input))
	for i := 0; i < len(input); i++ {
		if input[i] != '%' || i+2 >= len(input) || !isASCIIHexDigit(rune(input[i+1])) || !isASCIIHexDigit(rune(input[i+2])) {
			out = append(out, input[i])
			continue
		}
		out = append(out, hexValue(rune(input[i+1]))<<4|hexValue(rune(input[i+2])))
		i += 2
	}
	return out
}

func hexValue(r rune) byte {
	switch {
	case r >= '0' && r <= '9':
		return byte(r - '0')
	case r >= 'a' && r <= 'f':
		return byte(r-'a') + 10
	default:
		return byte(r-'A') + 10
	}
}

// isURLCodePoint reports whether r may appear unescaped in a URL without
// a validation error.
// https://url.spec.whatwg.org/#url-code-points
func isURLCodePoint(r rune) bool {
	if isASCIIAlphanumeric(r) {
		return true
	}
	switch r {
	case '!', '$', '&', '\'', '(', ')', '*', '+', ',', '-', '.', '/', ':', ';', '=', '?', '@', '_', '~':
		return true
	}
	if r < 0xA0 || r > 0x10FFFD {
		return false
	}
	if r >= 0xD800 && r <= 0xDFFF {
		return false
	}
	return !isNonCharacter(r)
}

func isNonCharacter(r rune) bool {
	if r >= 0xFDD0 && r <= 0xFDEF {
		return true
	}
	return (r&0xFFFE) == 0xFFFE && r <= 0x10FFFF
}
