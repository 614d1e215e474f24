package url

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHostDomain(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain domain", "example.com", "example.com"},
		{"uppercase lowered", "EXAMPLE.com", "example.com"},
		{"unicode punycoded", "münchen.de", "xn--mnchen-3ya.de"},
		{"percent-encoded decoded first", "ex%61mple.com", "example.com"},
		{"trailing dot kept", "example.com.", "example.com."},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, err := ParseHost(tt.input, false)
			require.NoError(t, err)
			assert.Equal(t, HostDomain, h.Kind())
			assert.Equal(t, tt.want, h.Serialize())
		})
	}
}

func TestParseHostIPv4(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"dotted quad", "127.0.0.1", "127.0.0.1"},
		{"hex part", "0x7F.0.0.1", "127.0.0.1"},
		{"octal part", "0177.0.0.1", "127.0.0.1"},
		{"three parts", "192.168.257", "192.168.1.1"},
		{"two parts", "127.1", "127.0.0.1"},
		{"single number", "2130706433", "127.0.0.1"},
		{"single hex number", "0x7F000001", "127.0.0.1"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, err := ParseHost(tt.input, false)
			require.NoError(t, err)
			assert.Equal(t, HostIPv4, h.Kind())
			assert.Equal(t, tt.want, h.Serialize())
		})
	}
}

func TestParseHostIPv6(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"loopback", "[0:0:0:0:0:0:0:1]", "[::1]"},
		{"all zero", "[0:0:0:0:0:0:0:0]", "[::]"},
		{"already compressed", "[2001:db8::1]", "[2001:db8::1]"},
		{"no compression possible", "[1:2:3:4:5:6:7:8]", "[1:2:3:4:5:6:7:8]"},
		{"longest run wins", "[2001:0:0:1:0:0:0:1]", "[2001:0:0:1::1]"},
		{"single zero not compressed", "[1:0:2:0:3:0:4:5]", "[1:0:2:0:3:0:4:5]"},
		{"embedded IPv4", "[::ffff:192.168.0.1]", "[::ffff:c0a8:1]"},
		{"case folded", "[2001:DB8::1]", "[2001:db8::1]"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, err := ParseHost(tt.input, false)
			require.NoError(t, err)
			assert.Equal(t, HostIPv6, h.Kind())
			assert.Equal(t, tt.want, h.Serialize())
		})
	}
}

func TestParseHostFailure(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		isOpaque bool
	}{
		{"space in domain", "exa mple.com", false},
		{"percent in decoded domain", "ex%25ample.com", false},
		{"unclosed bracket", "[::1", false},
		{"IPv6 too few groups", "[1:2:3]", false},
		{"IPv6 too many groups", "[1:2:3:4:5:6:7:8:9]", false},
		{"IPv4 part overflow", "1.2.3.256", false},
		{"IPv4 too many parts", "1.2.3.4.5", false},
		{"numeric overflow", "0x100000000", false},
		{"non-numeric ending in number label", "example.0x", false},
		{"forbidden code point in opaque host", "a b", true},
		{"hash in opaque host", "a#b", true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseHost(tt.input, tt.isOpaque)
			assert.Error(t, err)
		})
	}
}

func TestParseHostOpaque(t *testing.T) {
	h, err := ParseHost("EXAMPLE.com", true)
	require.NoError(t, err)
	assert.Equal(t, HostOpaque, h.Kind())
	assert.Equal(t, "EXAMPLE.com", h.Serialize())

	// Non-URL code points are percent-encoded, not rejected.
	h, err = ParseHost("aéb", true)
	require.NoError(t, err)
	assert.Equal(t, "a%C3%A9b", h.Serialize())
}

func TestHostEqual(t *testing.T) {
	a, err := ParseHost("example.com", false)
	require.NoError(t, err)
	b, err := ParseHost("EXAMPLE.com", false)
	require.NoError(t, err)
	c, err := ParseHost("other.org", false)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))

	v4, err := ParseHost("127.0.0.1", false)
	require.NoError(t, err)
	v4b, err := ParseHost("0x7F.0.0.1", false)
	require.NoError(t, err)
	assert.True(t, v4.Equal(v4b))
	assert.False(t, v4.Equal(a))
}

func TestEndsInANumber(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"example.com", false},
		{"127.0.0.1", true},
		{"example.1", true},
		{"example.0x1A", true},
		{"example.com.", false},
		{"1.example", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, endsInANumber(tt.input), tt.input)
	}
}
