package url

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpaqueOriginIdentity(t *testing.T) {
	a := NewOpaqueOrigin()
	b := NewOpaqueOrigin()

	assert.True(t, a.IsOpaque())
	assert.True(t, a.IsSameOrigin(a), "an opaque origin is same origin with itself")
	assert.False(t, a.IsSameOrigin(b), "two opaque origins are never same origin")
	assert.False(t, a.IsSameOriginDomain(b))

	copied := a
	assert.True(t, a.IsSameOrigin(copied), "copies share the nonce")
}

func TestTupleOriginSameOrigin(t *testing.T) {
	port := func(p uint16) *uint16 { return &p }

	a := NewTupleOrigin("https", DomainHost("example.com"), nil)
	b := NewTupleOrigin("https", DomainHost("example.com"), nil)
	c := NewTupleOrigin("http", DomainHost("example.com"), nil)
	d := NewTupleOrigin("https", DomainHost("other.org"), nil)
	e := NewTupleOrigin("https", DomainHost("example.com"), port(8443))

	assert.True(t, a.IsSameOrigin(b))
	assert.False(t, a.IsSameOrigin(c), "scheme differs")
	assert.False(t, a.IsSameOrigin(d), "host differs")
	assert.False(t, a.IsSameOrigin(e), "port differs")
	assert.False(t, a.IsSameOrigin(NewOpaqueOrigin()))
}

func TestSameOriginDomain(t *testing.T) {
	port := func(p uint16) *uint16 { return &p }

	base := NewTupleOrigin("https", DomainHost("a.example.com"), port(8443))
	other := NewTupleOrigin("https", DomainHost("b.example.com"), nil)

	t.Run("no domains falls back to same origin", func(t *testing.T) {
		assert.False(t, base.IsSameOriginDomain(other))
		assert.True(t, base.IsSameOriginDomain(base))
	})

	t.Run("both domains set compares scheme and domain only", func(t *testing.T) {
		a := base.WithDomain("example.com")
		b := other.WithDomain("example.com")
		assert.True(t, a.IsSameOriginDomain(b), "ports and hosts may differ")
		assert.False(t, a.IsSameOriginDomain(NewTupleOrigin("http", DomainHost("x"), nil).WithDomain("example.com")))
	})

	t.Run("one domain set never matches", func(t *testing.T) {
		widened := base.WithDomain("example.com")
		assert.False(t, widened.IsSameOriginDomain(base))
		assert.False(t, base.IsSameOriginDomain(widened))
	})
}

func TestEffectiveDomain(t *testing.T) {
	assert.Nil(t, NewOpaqueOrigin().EffectiveDomain())

	o := NewTupleOrigin("https", DomainHost("example.com"), nil)
	require.NotNil(t, o.EffectiveDomain())
	assert.Equal(t, "example.com", *o.EffectiveDomain())

	widened := o.WithDomain("com")
	require.NotNil(t, widened.EffectiveDomain())
	assert.Equal(t, "com", *widened.EffectiveDomain())
}

func TestOriginSerialize(t *testing.T) {
	port := func(p uint16) *uint16 { return &p }

	assert.Equal(t, "null", NewOpaqueOrigin().Serialize())
	assert.Equal(t, "https://example.com", NewTupleOrigin("https", DomainHost("example.com"), nil).Serialize())
	assert.Equal(t, "http://example.com:8080", NewTupleOrigin("http", DomainHost("example.com"), port(8080)).Serialize())
}

func TestURLOrigin(t *testing.T) {
	t.Run("http URL yields a tuple origin", func(t *testing.T) {
		u, err := Parse("http://example.com:8080/p")
		require.NoError(t, err)
		o := u.Origin()
		assert.False(t, o.IsOpaque())
		assert.Equal(t, "http://example.com:8080", o.Serialize())
	})

	t.Run("default port omitted", func(t *testing.T) {
		u, err := Parse("https://example.com/")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", u.Origin().Serialize())
	})

	t.Run("opaque path URL yields an opaque origin", func(t *testing.T) {
		u, err := Parse("mailto:a@b")
		require.NoError(t, err)
		assert.True(t, u.Origin().IsOpaque())
	})

	t.Run("file URL origin follows policy", func(t *testing.T) {
		u, err := Parse("file:///etc/hosts")
		require.NoError(t, err)
		assert.True(t, u.Origin().IsOpaque())

		FileURLsHaveOpaqueOrigin = false
		defer func() { FileURLsHaveOpaqueOrigin = true }()
		o := u.Origin()
		assert.False(t, o.IsOpaque())
		assert.Equal(t, "file://", o.Serialize())
	})

	t.Run("every call mints a fresh opaque origin", func(t *testing.T) {
		u, err := Parse("mailto:a@b")
		require.NoError(t, err)
		assert.False(t, u.Origin().IsSameOrigin(u.Origin()))
	})
}
