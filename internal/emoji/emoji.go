// Package emoji loads the static emoji reference data used to tag message
// text. The reference file is the emoji-data project's emoji.json.
package emoji

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Symbol is one entry of the emoji reference set. Literal is derived at load
// time from the non-qualified code point sequence; symbols without a usable
// literal never match any text.
type Symbol struct {
	Name         string `json:"name"`
	Unified      string `json:"unified"`
	NonQualified string `json:"non_qualified"`
	Literal      string `json:"character"`
}

// Load reads and decodes the reference file. The returned set is read-only
// for the process lifetime. On failure callers proceed with no symbols and
// the analyzer runs degraded (no emoji tagging).
func Load(path string) ([]Symbol, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read emoji data: %w", err)
	}

	var symbols []Symbol
	if err := json.Unmarshal(data, &symbols); err != nil {
		return nil, fmt.Errorf("decode emoji data: %w", err)
	}

	for i := range symbols {
		symbols[i].Literal = decodeLiteral(symbols[i].NonQualified)
	}

	return symbols, nil
}

// decodeLiteral converts a hyphen-delimited hex code point sequence into its
// character string. The upstream file uses the JSON string "null" for absent
// sequences. Any single code point wider than 4 hex digits invalidates the
// whole literal: those symbols are deliberately unmatchable.
func decodeLiteral(nonQualified string) string {
	if nonQualified == "" || nonQualified == "null" || strings.TrimSpace(nonQualified) == "" {
		return ""
	}

	var sb strings.Builder
	for _, code := range strings.Split(nonQualified, "-") {
		if len(code) > 4 {
			return ""
		}
		n, err := strconv.ParseInt(code, 16, 32)
		if err != nil {
			return ""
		}
		sb.WriteRune(rune(n))
	}
	return sb.String()
}
