package url

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAboutBlank(t *testing.T) {
	u := AboutBlank()
	assert.Equal(t, "about:blank", u.String())
	assert.True(t, u.HasOpaquePath())
	assert.False(t, u.IsSpecial())
	assert.True(t, u.CannotHaveUsernamePasswordPort())
}

func TestCopyIsolation(t *testing.T) {
	u, err := Parse("http://user@example.com:8080/a/b?q#f")
	require.NoError(t, err)
	c := u.Copy()
	assert.True(t, u.Equal(c))

	p := uint16(9090)
	c.SetPort(&p)
	q := "other"
	c.SetQuery(&q)
	c.SetPaths([]string{"x"})
	c.SetFragment(nil)

	assert.False(t, u.Equal(c))
	require.NotNil(t, u.Port())
	assert.Equal(t, uint16(8080), *u.Port())
	assert.Equal(t, []string{"a", "b"}, u.Paths())
	require.NotNil(t, u.Fragment())
}

func TestEqualExcludingFragment(t *testing.T) {
	a, err := Parse("http://example.com/p#one")
	require.NoError(t, err)
	b, err := Parse("http://example.com/p#two")
	require.NoError(t, err)

	assert.False(t, a.Equal(b))
	assert.True(t, a.EqualExcludingFragment(b))
}

func TestCannotHaveUsernamePasswordPort(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"http://example.com/", false},
		{"file:///etc/hosts", true},
		{"mailto:a@b", true},
	}
	for _, tt := range tests {
		u, err := Parse(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, u.CannotHaveUsernamePasswordPort(), tt.input)
	}
}

func TestShortenPathKeepsDriveLetter(t *testing.T) {
	u, err := Parse("file:///C:/")
	require.NoError(t, err)
	// A relative ".." cannot climb above the drive letter.
	r, err := ParseWithBase("..", u)
	require.NoError(t, err)
	assert.Equal(t, "file:///C:/", r.String())
}

func TestWindowsDriveLetterPredicates(t *testing.T) {
	assert.True(t, isWindowsDriveLetter("C:"))
	assert.True(t, isWindowsDriveLetter("c|"))
	assert.False(t, isWindowsDriveLetter("C:/"))
	assert.False(t, isWindowsDriveLetter("7:"))

	assert.True(t, isNormalizedWindowsDriveLetter("C:"))
	assert.False(t, isNormalizedWindowsDriveLetter("C|"))

	assert.True(t, startsWithWindowsDriveLetter([]rune("C:")))
	assert.True(t, startsWithWindowsDriveLetter([]rune("C:/x")))
	assert.True(t, startsWithWindowsDriveLetter([]rune("C|?q")))
	assert.False(t, startsWithWindowsDriveLetter([]rune("C:x")))
	assert.False(t, startsWithWindowsDriveLetter([]rune("C")))
}

func TestPercentDecode(t *testing.T) {
	assert.Equal(t, []byte("a b"), PercentDecode("a%20b"))
	assert.Equal(t, []byte("a%2xb"), PercentDecode("a%2xb"), "invalid escapes pass through")
	assert.Equal(t, []byte("a%"), PercentDecode("a%"), "truncated escape passes through")
	assert.Equal(t, []byte{0xC3, 0xA9}, PercentDecode("%C3%A9"))
}
