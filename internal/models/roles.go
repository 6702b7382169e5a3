package models

type Role string

const (
	RoleMom      Role = "mom"
	RoleDad      Role = "dad"
	RoleDaughter Role = "daughter"
	RoleSon      Role = "son"
)

// Roles lists the fixed family slots in display order.
var Roles = []Role{RoleMom, RoleDad, RoleDaughter, RoleSon}

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemePastel Theme = "pastel"
	ThemeKids   Theme = "kids"
)

const DefaultTheme = ThemeLight

var Themes = []Theme{ThemeLight, ThemeDark, ThemePastel, ThemeKids}

// Single-letter codes used by the compact share payload. Daughter is "g"
// because "d" is taken by dad.
var (
	roleCodes = map[Role]string{
		RoleMom:      "m",
		RoleDad:      "d",
		RoleDaughter: "g",
		RoleSon:      "s",
	}
	themeCodes = map[Theme]string{
		ThemeLight:  "l",
		ThemeDark:   "d",
		ThemePastel: "p",
		ThemeKids:   "k",
	}
)

func (r Role) Valid() bool {
	_, ok := roleCodes[r]
	return ok
}

func (r Role) Code() string {
	return roleCodes[r]
}

func (t Theme) Valid() bool {
	_, ok := themeCodes[t]
	return ok
}

func (t Theme) Code() string {
	return themeCodes[t]
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", ErrUnknownRole
	}
	return r, nil
}

func ParseTheme(s string) (Theme, error) {
	t := Theme(s)
	if !t.Valid() {
		return "", ErrUnknownTheme
	}
	return t, nil
}

// RoleFromCode accepts both a share code ("g") and a full role name ("daughter").
func RoleFromCode(code string) (Role, bool) {
	for r, c := range roleCodes {
		if c == code || string(r) == code {
			return r, true
		}
	}
	return "", false
}

// ThemeFromCode accepts both a share code ("p") and a full theme name ("pastel").
func ThemeFromCode(code string) (Theme, bool) {
	for t, c := range themeCodes {
		if c == code || string(t) == code {
			return t, true
		}
	}
	return "", false
}
