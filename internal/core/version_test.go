package core

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/require"
)

func TestCompareRecipeVersions(t *testing.T) {
	cases := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{name: "newer upstream", a: "1.2.0", b: "1.1.9", want: 1},
		{name: "equal", a: "2.0", b: "2.0", want: 0},
		{name: "revision bump", a: "1.0-r1", b: "1.0-r0", want: 1},
		{name: "epoch wins", a: "1:0.9", b: "2.0", want: 1},
		{name: "older", a: "0.9", b: "1.0", want: -1},
		{name: "unparseable compares equal", a: "git-snapshot", b: "%%", want: 0},
	}
	cache := NewVersionCache()
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, cache.CompareRecipeVersions(tt.a, tt.b))
		})
	}
}

func TestSatisfiesBitbake(t *testing.T) {
	cache := NewVersionCache()

	ok, err := cache.SatisfiesBitbake(">=1.40", "1.40.0")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = cache.SatisfiesBitbake(">=2.0", "1.40.0")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = cache.SatisfiesBitbake("", "1.40.0")
	require.NoError(t, err)
	require.True(t, ok, "empty requirement is always satisfied")

	ok, err = cache.SatisfiesBitbake(">=1.38,<2.0", "1.40.0")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestSatisfiesBitbakeRejectsMalformedInput(t *testing.T) {
	cache := NewVersionCache()

	_, err := cache.SatisfiesBitbake(">>nope", "1.40.0")
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	_, err = cache.SatisfiesBitbake(">=1.40", "not-a-version")
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestVersionCacheReusesParses(t *testing.T) {
	cache := NewVersionCache()
	require.Equal(t, 1, cache.CompareRecipeVersions("1.1", "1.0"))
	require.Len(t, cache.deb, 2)
	require.Equal(t, 1, cache.CompareRecipeVersions("1.1", "1.0"))
	require.Len(t, cache.deb, 2)
}
