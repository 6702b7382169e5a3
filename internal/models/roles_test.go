package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleCodes_Unique(t *testing.T) {
	seen := map[string]Role{}
	for _, r := range Roles {
		code := r.Code()
		require.NotEmpty(t, code)
		_, dup := seen[code]
		assert.False(t, dup, "code %q reused", code)
		seen[code] = r
	}
	assert.Equal(t, "g", RoleDaughter.Code())
	assert.Equal(t, "d", RoleDad.Code())
}

func TestRoleFromCode(t *testing.T) {
	cases := map[string]Role{
		"m":        RoleMom,
		"d":        RoleDad,
		"g":        RoleDaughter,
		"s":        RoleSon,
		"daughter": RoleDaughter,
		"mom":      RoleMom,
	}
	for in, want := range cases {
		got, ok := RoleFromCode(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := RoleFromCode("x")
	assert.False(t, ok)
}

func TestThemeFromCode(t *testing.T) {
	got, ok := ThemeFromCode("p")
	assert.True(t, ok)
	assert.Equal(t, ThemePastel, got)

	got, ok = ThemeFromCode("dark")
	assert.True(t, ok)
	assert.Equal(t, ThemeDark, got)

	_, ok = ThemeFromCode("neon")
	assert.False(t, ok)
}

func TestParseRoleAndTheme(t *testing.T) {
	r, err := ParseRole("son")
	require.NoError(t, err)
	assert.Equal(t, RoleSon, r)

	_, err = ParseRole("s")
	assert.ErrorIs(t, err, ErrUnknownRole)

	th, err := ParseTheme("kids")
	require.NoError(t, err)
	assert.Equal(t, ThemeKids, th)

	_, err = ParseTheme("")
	assert.ErrorIs(t, err, ErrUnknownTheme)
}

func TestExamples_FitLimits(t *testing.T) {
	limits := DefaultLimits()
	for _, r := range Roles {
		ex := Examples(r)
		assert.NotEmpty(t, ex, r)
		assert.LessOrEqual(t, len(ex), limits.MaxButtons)
		for _, b := range ex {
			assert.Equal(t, b.Text, ClampRunes(b.Text, limits.MaxTextLength))
		}
	}

	ex := Examples(RoleMom)
	ex[0].Text = "changed"
	assert.NotEqual(t, "changed", Examples(RoleMom)[0].Text)
}
