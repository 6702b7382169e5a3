package persistence

import (
	"fmt"
	"fvm/internal/models"
	"sort"

	"github.com/spf13/cast"
)

// MigrationFunc rewrites the data block of one envelope version into the
// shape of the next. It must not touch its input.
type MigrationFunc func(data map[string]any) (map[string]any, error)

type migration struct {
	to    string
	apply MigrationFunc
}

// migrations is keyed by the version a step migrates from.
var migrations = map[string]migration{
	"1.0": {to: "2.0", apply: migrateV1ToV2},
}

// Migrate walks the migration chain from version until target is reached or
// no step is registered. Unknown versions pass through unchanged.
func Migrate(version, target string, data map[string]any) (map[string]any, string, error) {
	seen := map[string]bool{}
	for version != target {
		step, ok := migrations[version]
		if !ok || seen[version] {
			break
		}
		seen[version] = true

		next, err := step.apply(data)
		if err != nil {
			return nil, version, fmt.Errorf("migrate %s -> %s: %w", version, step.to, err)
		}
		data, version = next, step.to
	}
	return data, version, nil
}

// migrateV1ToV2 turns the flat {role: {name, buttons}} layout into
// {theme, machines}. Orders stored as strings or missing are coerced and
// renumbered.
func migrateV1ToV2(data map[string]any) (map[string]any, error) {
	if _, ok := data["machines"]; ok {
		return data, nil
	}

	theme := models.DefaultTheme
	if t, ok := models.ThemeFromCode(cast.ToString(data["theme"])); ok {
		theme = t
	}

	machines := make(map[string]any, len(models.Roles))
	for _, role := range models.Roles {
		raw, ok := data[string(role)]
		if !ok {
			continue
		}
		m, err := cast.ToStringMapE(raw)
		if err != nil {
			return nil, fmt.Errorf("role %s: %w", role, err)
		}
		machines[string(role)] = map[string]any{
			"role":    string(role),
			"name":    cast.ToString(m["name"]),
			"buttons": migrateV1Buttons(m["buttons"]),
		}
	}

	return map[string]any{
		"theme":    string(theme),
		"machines": machines,
	}, nil
}

func migrateV1Buttons(raw any) []any {
	items := cast.ToSlice(raw)

	type indexed struct {
		order  int
		button map[string]any
	}
	list := make([]indexed, 0, len(items))
	for i, item := range items {
		b, err := cast.ToStringMapE(item)
		if err != nil {
			continue
		}
		order := cast.ToInt(b["order"])
		if order <= 0 {
			order = i + 1
		}
		list = append(list, indexed{order: order, button: b})
	}
	sort.SliceStable(list, func(a, b int) bool {
		return list[a].order < list[b].order
	})

	out := make([]any, len(list))
	for i, it := range list {
		out[i] = map[string]any{
			"emoji": cast.ToString(it.button["emoji"]),
			"text":  cast.ToString(it.button["text"]),
			"order": i + 1,
		}
	}
	return out
}
