// Package share turns the application snapshot into the compact payload
// carried by share links and QR codes, and back.
//
// Wire format: base64(encodeURIComponent(JSON({v, t, m}))) where t is a
// theme code and m maps role codes to {n: name, b: [{e: emoji, t: text}]}.
// Roles without buttons are left out; ids and orders are not carried.
package share

import (
	"encoding/base64"
	"errors"
	"fmt"
	"fvm/internal/models"
	"fvm/internal/providers"
	"fvm/internal/structures"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
)

const (
	// QueryParam is the parameter written by ShareURL.
	QueryParam = "d"
	// LegacyQueryParam is read for links made by the earlier encoder.
	LegacyQueryParam = "share"

	cachePrefix = "share:"
)

var (
	errEmptyPayload   = errors.New("empty payload")
	errMissingButtons = errors.New("machine without buttons")
	errDuplicateRole  = errors.New("role given twice")
)

type CodecInterface interface {
	Encode(data *models.AppData) (string, error)
	Decode(encoded string) *models.AppData
	ShareURL(base string, data *models.AppData) (string, error)
	FromQuery(values url.Values) *models.AppData
}

type payloadButton struct {
	E string `json:"e"`
	T string `json:"t"`
}

type payloadMachine struct {
	N string          `json:"n"`
	B []payloadButton `json:"b"`
}

type payload struct {
	V string                    `json:"v"`
	T string                    `json:"t"`
	M map[string]payloadMachine `json:"m"`
}

type Codec struct {
	version string
	cache   providers.CacheProviderInterface
	metrics providers.MetricsProviderInterface
	logger  providers.Logger
}

func NewCodec(conf *structures.Config, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface, logger providers.Logger) CodecInterface {
	return &Codec{
		version: conf.Storage.Version,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

func (c *Codec) Encode(data *models.AppData) (string, error) {
	theme := data.Theme
	if !theme.Valid() {
		theme = models.DefaultTheme
	}
	p := payload{
		V: c.version,
		T: theme.Code(),
		M: make(map[string]payloadMachine),
	}
	for _, role := range models.Roles {
		m, ok := data.Machines[role]
		if !ok || m == nil || len(m.Buttons) == 0 {
			continue
		}
		pm := payloadMachine{N: m.Name, B: make([]payloadButton, len(m.Buttons))}
		for i, b := range m.Buttons {
			pm.B[i] = payloadButton{E: b.Emoji, T: b.Text}
		}
		p.M[role.Code()] = pm
	}

	raw, err := json.MarshalNoEscape(p)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString([]byte(encodeURIComponent(string(raw)))), nil
}

// Decode returns nil for anything that is not a valid share payload.
func (c *Codec) Decode(encoded string) *models.AppData {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil
	}

	key := cachePrefix + encoded
	if cached, ok := c.cache.Get(key); ok {
		data := &models.AppData{}
		if err := json.Unmarshal(cached, data); err == nil {
			c.metrics.IncShareDecodes("cached")
			return data
		}
	}

	data, err := decode(encoded)
	if err != nil {
		c.metrics.IncShareDecodes("invalid")
		c.logger.Debugf(providers.TypeApp, "Share payload rejected: %s", err)
		return nil
	}
	c.metrics.IncShareDecodes("ok")

	if raw, err := json.Marshal(data); err == nil {
		c.cache.Set(key, raw)
	}
	return data
}

func (c *Codec) ShareURL(base string, data *models.AppData) (string, error) {
	encoded, err := c.Encode(data)
	if err != nil {
		return "", err
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + QueryParam + "=" + url.QueryEscape(encoded), nil
}

// FromQuery decodes the share parameter of a request, preferring the current
// parameter over the legacy one.
func (c *Codec) FromQuery(values url.Values) *models.AppData {
	if v := values.Get(QueryParam); v != "" {
		return c.Decode(v)
	}
	if v := values.Get(LegacyQueryParam); v != "" {
		return c.Decode(v)
	}
	return nil
}

func decode(encoded string) (*models.AppData, error) {
	// Query decoding turns an unescaped '+' of the base64 alphabet into a space.
	encoded = strings.ReplaceAll(encoded, " ", "+")

	raw, err := decodeBase64(encoded)
	if err != nil {
		return nil, err
	}
	text, err := url.PathUnescape(string(raw))
	if err != nil {
		return nil, err
	}

	var p *payload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errEmptyPayload
	}

	data := models.NewAppData()
	if p.T != "" {
		theme, ok := models.ThemeFromCode(p.T)
		if !ok {
			return nil, models.ErrUnknownTheme
		}
		data.Theme = theme
	}

	seen := make(map[models.Role]bool, len(p.M))
	for code, pm := range p.M {
		role, ok := models.RoleFromCode(code)
		if !ok {
			return nil, models.ErrUnknownRole
		}
		if seen[role] {
			return nil, fmt.Errorf("%w: %s", errDuplicateRole, role)
		}
		seen[role] = true
		if pm.B == nil {
			return nil, fmt.Errorf("%w: %s", errMissingButtons, role)
		}
		m := data.Machines[role]
		m.Name = pm.N
		m.Buttons = make([]models.ButtonData, len(pm.B))
		for i, b := range pm.B {
			m.Buttons[i] = models.ButtonData{Emoji: b.E, Text: b.T, Order: i + 1}
		}
	}
	return data, nil
}

func decodeBase64(s string) ([]byte, error) {
	var firstErr error
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		raw, err := enc.DecodeString(s)
		if err == nil {
			return raw, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

var uriComponentUnescaper = strings.NewReplacer(
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeURIComponent escapes s the way browsers do for a URI component.
func encodeURIComponent(s string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
	return uriComponentUnescaper.Replace(escaped)
}
