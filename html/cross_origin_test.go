package html

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heathj/weburl/webidl"
)

func TestOwnPropertyKeysSameOrigin(t *testing.T) {
	loc, _, _, env := newFixture(t, "http://example.com/")

	assert.Equal(t, []PropertyKey{
		"href", "origin", "protocol", "host", "hostname", "port",
		"pathname", "search", "hash", "assign", "replace", "reload",
		"valueOf", "@@toPrimitive",
	}, loc.OwnPropertyKeys(env))
}

func TestOwnPropertyKeysCrossOrigin(t *testing.T) {
	loc, _, _, _ := newFixture(t, "http://example.com/")

	assert.Equal(t, []PropertyKey{
		"href", "replace",
		"then", "@@toStringTag", "@@hasInstance", "@@isConcatSpreadable",
	}, loc.OwnPropertyKeys(crossEnvironment(t)))
}

func TestCrossOriginGetDenied(t *testing.T) {
	loc, _, _, _ := newFixture(t, "http://example.com/")
	env := crossEnvironment(t)

	// href is allow-listed set-only; reading it is still denied.
	_, err := loc.Get(env, "href")
	require.Error(t, err)
	assert.True(t, webidl.IsSecurityError(err))

	_, err = loc.Get(env, "hash")
	require.Error(t, err)
	assert.True(t, webidl.IsSecurityError(err))
}

func TestCrossOriginGetMetaKeysUndefined(t *testing.T) {
	loc, _, _, _ := newFixture(t, "http://example.com/")
	env := crossEnvironment(t)

	for _, key := range []PropertyKey{"then", "@@toStringTag", "@@hasInstance", "@@isConcatSpreadable"} {
		v, err := loc.Get(env, key)
		require.NoError(t, err, key)
		assert.Nil(t, v, key)
	}
}

func TestCrossOriginSetHref(t *testing.T) {
	loc, nav, _, _ := newFixture(t, "http://example.com/")
	env := crossEnvironment(t)

	ok, err := loc.Set(env, "href", "https://example.com/next")
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, nav.navigations, 1)
	assert.Equal(t, "https://example.com/next", nav.navigations[0].URL.String())
}

func TestCrossOriginSetDeniedForEverythingElse(t *testing.T) {
	loc, nav, _, _ := newFixture(t, "http://example.com/")
	env := crossEnvironment(t)

	for _, key := range []PropertyKey{"hash", "replace", "custom"} {
		ok, err := loc.Set(env, key, "x")
		require.Error(t, err, key)
		assert.False(t, ok, key)
		assert.True(t, webidl.IsSecurityError(err), key)
	}
	assert.Empty(t, nav.navigations)
}

func TestCrossOriginReplaceCallable(t *testing.T) {
	loc, nav, _, _ := newFixture(t, "http://example.com/")
	env := crossEnvironment(t)

	v, err := loc.Get(env, "replace")
	require.NoError(t, err)
	fn, ok := v.(NativeFunction)
	require.True(t, ok)

	_, err = fn(env, "https://target.test/")
	require.NoError(t, err)
	require.Len(t, nav.navigations, 1)
	assert.Equal(t, HistoryReplace, nav.navigations[0].HistoryHandling)
}

func TestCrossOriginGetOwnProperty(t *testing.T) {
	loc, _, _, _ := newFixture(t, "http://example.com/")
	env := crossEnvironment(t)

	t.Run("href keeps only the setter", func(t *testing.T) {
		desc, err := loc.GetOwnProperty(env, "href")
		require.NoError(t, err)
		require.NotNil(t, desc)
		assert.Nil(t, desc.Get)
		assert.NotNil(t, desc.Set)
		assert.True(t, desc.Configurable)
		assert.False(t, desc.Enumerable)
	})

	t.Run("replace is a read-only data property", func(t *testing.T) {
		desc, err := loc.GetOwnProperty(env, "replace")
		require.NoError(t, err)
		require.NotNil(t, desc)
		assert.NotNil(t, desc.Value)
		assert.False(t, desc.Writable)
	})

	t.Run("meta keys report undefined", func(t *testing.T) {
		desc, err := loc.GetOwnProperty(env, "then")
		require.NoError(t, err)
		require.NotNil(t, desc)
		assert.Nil(t, desc.Value)
		assert.True(t, desc.Configurable)
	})

	t.Run("everything else is denied", func(t *testing.T) {
		_, err := loc.GetOwnProperty(env, "assign")
		require.Error(t, err)
		assert.True(t, webidl.IsSecurityError(err))
	})
}

func TestCrossOriginDefineAndDeleteDenied(t *testing.T) {
	loc, _, _, _ := newFixture(t, "http://example.com/")
	env := crossEnvironment(t)

	ok, err := loc.DefineOwnProperty(env, "custom", PropertyDescriptor{Value: 1})
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, webidl.IsSecurityError(err))

	ok, err = loc.Delete(env, "href")
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, webidl.IsSecurityError(err))
}

func TestDefaultPropertiesReportConfigurable(t *testing.T) {
	loc, _, _, env := newFixture(t, "http://example.com/")

	for _, key := range []PropertyKey{"href", "assign", "valueOf", "@@toPrimitive"} {
		desc, err := loc.GetOwnProperty(env, key)
		require.NoError(t, err)
		require.NotNil(t, desc, key)
		assert.True(t, desc.Configurable, key)
	}
}

func TestSameOriginDeleteDefaultProperty(t *testing.T) {
	loc, _, _, env := newFixture(t, "http://example.com/")

	ok, err := loc.Delete(env, "href")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotContains(t, loc.OwnPropertyKeys(env), PropertyKey("href"))

	v, err := loc.Get(env, "href")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSameOriginTrapRoundTrip(t *testing.T) {
	loc, nav, _, env := newFixture(t, "http://example.com/p")

	v, err := loc.Get(env, "href")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/p", v)

	ok, err := loc.Set(env, "hash", "next")
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, nav.navigations, 1)
	assert.Equal(t, "http://example.com/p#next", nav.navigations[0].URL.String())

	ok, err = loc.Set(env, "custom", 42)
	require.NoError(t, err)
	assert.True(t, ok)
	v, err = loc.Get(env, "custom")
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Contains(t, loc.OwnPropertyKeys(env), PropertyKey("custom"))
}

func TestValueOfReturnsTheLocation(t *testing.T) {
	loc, _, _, env := newFixture(t, "http://example.com/")

	v, err := loc.Get(env, "valueOf")
	require.NoError(t, err)
	fn, ok := v.(NativeFunction)
	require.True(t, ok)

	self, err := fn(env)
	require.NoError(t, err)
	assert.Same(t, loc, self)

	ok, err = loc.Set(env, "valueOf", "x")
	require.NoError(t, err)
	assert.False(t, ok, "valueOf is not writable")
}

func TestPrototypeTraps(t *testing.T) {
	loc, _, _, env := newFixture(t, "http://example.com/")
	cross := crossEnvironment(t)

	proto := loc.GetPrototypeOf(env)
	assert.NotNil(t, proto)
	assert.Nil(t, loc.GetPrototypeOf(cross))

	assert.True(t, loc.SetPrototypeOf(env, proto))
	assert.False(t, loc.SetPrototypeOf(env, "something else"))
	assert.False(t, loc.SetPrototypeOf(cross, nil))

	assert.True(t, loc.IsExtensible(env))
	assert.False(t, loc.PreventExtensions(env))
}
