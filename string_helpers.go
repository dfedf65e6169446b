package main

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StringTransformer defines the contract for a function that can transform a string.
type StringTransformer interface {
	TransformString(t transform.Transformer, s string) (string, int, error)
}

type defaultTransformer struct{}

func (dt defaultTransformer) TransformString(t transform.Transformer, s string) (string, int, error) {
	return transform.String(t, s)
}

// transformer is the injection point used by tests to simulate transform failures.
var transformer StringTransformer = defaultTransformer{}

// normalizeToken lowercases a string and strips diacritical marks
// (e.g. "São Paulo" becomes "sao paulo"). Both weather-condition tokens and
// user search terms go through this, so asset-family lookups and query-shape
// classification always operate on plain ASCII-ish lowercase text.
func normalizeToken(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("input string is not valid UTF-8")
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transformer.TransformString(t, s)
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(result)), nil
}

// conditionToken is the lenient form used on weather-condition strings coming
// back from the upstream API: normalization failures fall back to a plain
// lowercase of the input instead of erroring, since a condition token is only
// ever used to pick a background asset.
func conditionToken(s string) string {
	token, err := normalizeToken(s)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return token
}
