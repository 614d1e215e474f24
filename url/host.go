package url

import (
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

// HostKind discriminates the host variant.
type HostKind uint8

const (
	// HostDomain is a registrable domain such as "example.com".
	HostDomain HostKind = iota
	// HostIPv4 is an IPv4 address.
	HostIPv4
	// HostIPv6 is an IPv6 address.
	HostIPv6
	// HostOpaque is the opaque host of a non-special URL.
	HostOpaque
	// HostEmpty is the empty host of file URLs and friends.
	HostEmpty
)

// Host is the variant host of a URL record: a domain, an IPv4 address,
// an IPv6 address, an opaque string, or the empty host.
// https://url.spec.whatwg.org/#concept-host
type Host struct {
	kind   HostKind
	name   string // domain or opaque host
	ipv4   uint32
	ipv6   [8]uint16
}

// DomainHost returns a domain host.
func DomainHost(domain string) *Host {
	return &Host{kind: HostDomain, name: domain}
}

// OpaqueHost returns an opaque host.
func OpaqueHost(name string) *Host {
	return &Host{kind: HostOpaque, name: name}
}

// EmptyHost returns the empty host.
func EmptyHost() *Host {
	return &Host{kind: HostEmpty}
}

// IPv4Host returns an IPv4 address host.
func IPv4Host(address uint32) *Host {
	return &Host{kind: HostIPv4, ipv4: address}
}

// IPv6Host returns an IPv6 address host.
func IPv6Host(address [8]uint16) *Host {
	return &Host{kind: HostIPv6, ipv6: address}
}

// Kind returns the host variant.
func (h *Host) Kind() HostKind { return h.kind }

// IsEmpty reports whether h is the empty host.
func (h *Host) IsEmpty() bool { return h.kind == HostEmpty }

// Domain returns the domain name of a HostDomain host, or the empty
// string for every other kind.
func (h *Host) Domain() string {
	if h.kind == HostDomain {
		return h.name
	}
	return ""
}

// Equal reports structural equality of two hosts.
func (h *Host) Equal(other *Host) bool {
	if h == nil || other == nil {
		return h == other
	}
	if h.kind != other.kind {
		return false
	}
	switch h.kind {
	case HostDomain, HostOpaque:
		return h.name == other.name
	case HostIPv4:
		return h.ipv4 == other.ipv4
	case HostIPv6:
		return h.ipv6 == other.ipv6
	default:
		return true
	}
}

// Serialize renders the host the way it appears inside a serialized URL.
// https://url.spec.whatwg.org/#host-serializing
func (h *Host) Serialize() string {
	switch h.kind {
	case HostIPv4:
		return serializeIPv4(h.ipv4)
	case HostIPv6:
		return "[" + serializeIPv6(h.ipv6) + "]"
	default:
		return h.name
	}
}

// domainProfile is the stand-in for full IDNA processing: the lookup
// mapping without the strict registration-time checks, matching the
// beStrict=false mode browsers use.
var domainProfile = idna.New(
	idna.MapForLookup(),
	idna.StrictDomainName(false),
)

// reporter records a non-fatal validation error by code.
type reporter func(code string)

// ParseHost runs the WHATWG host parser on input. isOpaque selects the
// opaque-host branch non-special URLs take.
// https://url.spec.whatwg.org/#concept-host-parser
func ParseHost(input string, isOpaque bool) (*Host, error) {
	return parseHost(input, isOpaque, func(string) {})
}

func parseHost(input string, isOpaque bool, report reporter) (*Host, error) {
	if strings.HasPrefix(input, "[") {
		if !strings.HasSuffix(input, "]") {
			report("IPv6-unclosed")
			return nil, &ParseError{Code: "IPv6-unclosed"}
		}
		address, err := parseIPv6([]rune(input[1:len(input)-1]), report)
		if err != nil {
			return nil, err
		}
		return IPv6Host(address), nil
	}
	if isOpaque {
		return parseOpaqueHost(input, report)
	}
	domain := string(PercentDecode(input))
	asciiDomain, err := domainProfile.ToASCII(domain)
	if err != nil || asciiDomain == "" {
		report("domain-to-ASCII")
		return nil, &ParseError{Code: "domain-to-ASCII"}
	}
	for _, r := range asciiDomain {
		if isForbiddenDomainCodePoint(r) {
			report("domain-invalid-code-point")
			return nil, &ParseError{Code: "domain-invalid-code-point"}
		}
	}
	if endsInANumber(asciiDomain) {
		address, err := parseIPv4(asciiDomain, report)
		if err != nil {
			return nil, err
		}
		return IPv4Host(address), nil
	}
	return DomainHost(asciiDomain), nil
}

// https://url.spec.whatwg.org/#concept-opaque-host-parser
func parseOpaqueHost(input string, report reporter) (*Host, error) {
	for _, r := range input {
		if isForbiddenHostCodePoint(r) {
			report("host-invalid-code-point")
			return nil, &ParseError{Code: "host-invalid-code-point"}
		}
		if !isURLCodePoint(r) && r != '%' {
			report("invalid-URL-unit")
		}
	}
	return OpaqueHost(utf8PercentEncodeString(input, c0ControlEncodeSet)), nil
}

func isForbiddenHostCodePoint(r rune) bool {
	switch r {
	case 0x00, 0x09, 0x0A, 0x0D, ' ', '#', '/', ':', '<', '>', '?', '@', '[', '\\', ']', '^', '|':
		return true
	}
	return false
}

func isForbiddenDomainCodePoint(r rune) bool {
	return isForbiddenHostCodePoint(r) || r <= 0x1F || r == '%' || r == 0x7F
}

// https://url.spec.whatwg.org/#ends-in-a-number-checker
func endsInANumber(input string) bool {
	parts := strings.Split(input, ".")
	if parts[len(parts)-1] == "" {
		if len(parts) == 1 {
			return false
		}
		parts = parts[:len(parts)-1]
	}
	last := parts[len(parts)-1]
	if last == "" {
		return false
	}
	allDigits := true
	for _, r := range last {
		if !isASCIIDigit(r) {
			allDigits = false
			break
		}
	}
	if allDigits {
		return true
	}
	_, _, err := parseIPv4Number(last)
	return err == nil
}

// https://url.spec.whatwg.org/#concept-ipv4-parser
func parseIPv4(input string, report reporter) (uint32, error) {
	parts := strings.Split(input, ".")
	if parts[len(parts)-1] == "" {
		report("IPv4-empty-part")
		if len(parts) > 1 {
			parts = parts[:len(parts)-1]
		}
	}
	if len(parts) > 4 {
		report("IPv4-too-many-parts")
		return 0, &ParseError{Code: "IPv4-too-many-parts"}
	}
	numbers := make([]uint64, 0, 4)
	for _, part := range parts {
		n, sloppy, err := parseIPv4Number(part)
		if err != nil {
			report("IPv4-non-numeric-part")
			return 0, &ParseError{Code: "IPv4-non-numeric-part"}
		}
		if sloppy {
			report("IPv4-non-decimal-or-hex-digits")
		}
		numbers = append(numbers, n)
	}
	for i, n := range numbers {
		if n > 255 {
			report("IPv4-out-of-range-part")
			if i < len(numbers)-1 {
				return 0, &ParseError{Code: "IPv4-out-of-range-part"}
			}
		}
	}
	last := numbers[len(numbers)-1]
	if last >= uint64(1)<<(8*(5-len(numbers))) {
		return 0, &ParseError{Code: "IPv4-out-of-range-part"}
	}
	ipv4 := uint32(last)
	for i, n := range numbers[:len(numbers)-1] {
		ipv4 += uint32(n) << (8 * (3 - i))
	}
	return ipv4, nil
}

// parseIPv4Number parses an IPv4 part in decimal, hex (0x) or octal (0)
// notation. sloppy reports a non-decimal radix or an empty post-prefix
// digit string, which is a validation error but not a failure.
// https://url.spec.whatwg.org/#ipv4-number-parser
func parseIPv4Number(input string) (value uint64, sloppy bool, err error) {
	if input == "" {
		return 0, false, &ParseError{Code: "IPv4-non-numeric-part"}
	}
	radix := 10
	if len(input) >= 2 && (strings.HasPrefix(input, "0x") || strings.HasPrefix(input, "0X")) {
		sloppy = true
		input = input[2:]
		radix = 16
	} else if len(input) >= 2 && input[0] == '0' {
		sloppy = true
		input = input[1:]
		radix = 8
	}
	if input == "" {
		return 0, sloppy, nil
	}
	value, parseErr := strconv.ParseUint(input, radix, 64)
	if parseErr != nil {
		return 0, sloppy, &ParseError{Code: "IPv4-non-numeric-part"}
	}
	return value, sloppy, nil
}

// https://url.spec.whatwg.org/#concept-ipv6-parser
func parseIPv6(input []rune, report reporter) ([8]uint16, error) {
	var address [8]uint16
	pieceIndex := 0
	compress := -1
	pointer := 0

	at := func() rune {
		if pointer < len(input) {
			return input[pointer]
		}
		return -1
	}

	fail := func(code string) ([8]uint16, error) {
		report(code)
		return address, &ParseError{Code: code}
	}

	if at() == ':' {
		if pointer+1 >= len(input) || input[pointer+1] != ':' {
			return fail("IPv6-invalid-compression")
		}
		pointer += 2
		pieceIndex++
		compress = pieceIndex
	}
	for pointer < len(input) {
		if pieceIndex == 8 {
			return fail("IPv6-too-many-pieces")
		}
		if at() == ':' {
			if compress != -1 {
				return fail("IPv6-multiple-compression")
			}
			pointer++
			pieceIndex++
			compress = pieceIndex
			continue
		}
		value, length := 0, 0
		for length < 4 && isASCIIHexDigit(at()) {
			value = value*0x10 + int(hexValue(at()))
			pointer++
			length++
		}
		if at() == '.' {
			if length == 0 {
				return fail("IPv4-in-IPv6-invalid-code-point")
			}
			pointer -= length
			if pieceIndex > 6 {
				return fail("IPv4-in-IPv6-too-many-pieces")
			}
			numbersSeen := 0
			for pointer < len(input) {
				ipv4Piece := -1
				if numbersSeen > 0 {
					if at() == '.' && numbersSeen < 4 {
						pointer++
					} else {
						return fail("IPv4-in-IPv6-invalid-code-point")
					}
				}
				if !isASCIIDigit(at()) {
					return fail("IPv4-in-IPv6-invalid-code-point")
				}
				for isASCIIDigit(at()) {
					number := int(at() - '0')
					switch {
					case ipv4Piece == -1:
						ipv4Piece = number
					case ipv4Piece == 0:
						return fail("IPv4-in-IPv6-invalid-code-point")
					default:
						ipv4Piece = ipv4Piece*10 + number
					}
					if ipv4Piece > 255 {
						return fail("IPv4-in-IPv6-out-of-range-part")
					}
					pointer++
				}
				address[pieceIndex] = address[pieceIndex]*0x100 + uint16(ipv4Piece)
				numbersSeen++
				if numbersSeen == 2 || numbersSeen == 4 {
					pieceIndex++
				}
			}
			if numbersSeen != 4 {
				return fail("IPv4-in-IPv6-too-few-parts")
			}
			break
		} else if at() == ':' {
			pointer++
			if pointer >= len(input) {
				return fail("IPv6-invalid-code-point")
			}
		} else if pointer < len(input) {
			return fail("IPv6-invalid-code-point")
		}
		address[pieceIndex] = uint16(value)
		pieceIndex++
	}
	if compress != -1 {
		swaps := pieceIndex - compress
		pieceIndex = 7
		for pieceIndex != 0 && swaps > 0 {
			address[pieceIndex], address[compress+swaps-1] = address[compress+swaps-1], address[pieceIndex]
			pieceIndex--
			swaps--
		}
	} else if pieceIndex != 8 {
		return fail("IPv6-too-few-pieces")
	}
	return address, nil
}

// https://url.spec.whatwg.org/#concept-ipv4-serializer
func serializeIPv4(address uint32) string {
	var out strings.Builder
	for shift := 24; shift >= 0; shift -= 8 {
		out.WriteString(strconv.FormatUint(uint64(address>>shift&0xFF), 10))
		if shift > 0 {
			out.WriteByte('.')
		}
	}
	return out.String()
}

// https://url.spec.whatwg.org/#concept-ipv6-serializer
func serializeIPv6(address [8]uint16) string {
	compress, compressLen := -1, 1
	for i := 0; i < 8; i++ {
		if address[i] != 0 {
			continue
		}
		length := 0
		for j := i; j < 8 && address[j] == 0; j++ {
			length++
		}
		if length > compressLen {
			compress, compressLen = i, length
		}
	}
	var out strings.Builder
	ignore0 := false
	for pieceIndex := 0; pieceIndex < 8; pieceIndex++ {
		if ignore0 && address[pieceIndex] == 0 {
			continue
		}
		ignore0 = false
		if pieceIndex == compress {
			if pieceIndex == 0 {
				out.WriteString("::")
			} else {
				out.WriteByte(':')
			}
			ignore0 = true
			continue
		}
		out.WriteString(strconv.FormatUint(uint64(address[pieceIndex]), 16))
		if pieceIndex != 7 {
			out.WriteByte(':')
		}
	}
	return out.String()
}
