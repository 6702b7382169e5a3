package models

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rivo/uniseg"
)

type Button struct {
	ID    string `json:"id"`
	Emoji string `json:"emoji"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// ButtonInput carries the optional fields of an add or update request.
// A nil field is left untouched on update.
type ButtonInput struct {
	Emoji *string `json:"emoji,omitempty"`
	Text  *string `json:"text,omitempty"`
}

var stripPolicy = bluemonday.StrictPolicy()

// StripMarkup removes every tag from s. Entities produced by the sanitizer are
// decoded again so "Tom & Jerry" is stored as typed.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<>&") {
		return s
	}
	return html.UnescapeString(stripPolicy.Sanitize(s))
}

// ClampRunes cuts s to at most n runes.
func ClampRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func sanitizeText(s string, maxLen int) string {
	return ClampRunes(StripMarkup(s), maxLen)
}

// normalizeEmoji keeps the first grapheme cluster of s, or falls back to def.
func normalizeEmoji(s, def string) string {
	s = strings.TrimSpace(StripMarkup(s))
	if s == "" {
		return def
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	return cluster
}
