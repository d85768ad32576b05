package domain

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/JRhoadhouse/TwitterExercise/internal/emoji"
)

// MediaTypeUnknown is stored when an attachment key has no entry in the
// message's companion media list. A single unresolvable key must not fail
// the whole record.
const MediaTypeUnknown = "unknown"

// AnalyzeMessage parses one raw feed line and derives the enriched record:
// emoji found verbatim in the text, distinct hashtags, hostnames of linked
// URLs, and resolved media attachment types. Any failure is per-message and
// leaves sibling messages unaffected.
func AnalyzeMessage(raw string, symbols []emoji.Symbol) (TweetMetadata, error) {
	var env Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return TweetMetadata{}, fmt.Errorf("parse raw message: %w", err)
	}
	if env.Data == nil {
		return TweetMetadata{}, fmt.Errorf("parse raw message: missing data object")
	}

	domains, err := extractDomains(env.Data.Entities)
	if err != nil {
		return TweetMetadata{}, err
	}

	return TweetMetadata{
		Timestamp:  env.Data.CreatedAt,
		ID:         env.Data.ID,
		Text:       env.Data.Text,
		Emojis:     matchEmojis(env.Data.Text, symbols),
		Hashtags:   extractHashtags(env.Data.Entities),
		Domains:    domains,
		MediaTypes: resolveMediaTypes(env.Data.Attachments, env.Includes),
		AnalyzedAt: clock.Now(),
	}, nil
}

// matchEmojis returns each reference symbol whose decoded literal appears in
// text, deduplicated by unified code. Symbols with an empty literal never
// match.
func matchEmojis(text string, symbols []emoji.Symbol) []emoji.Symbol {
	matched := make([]emoji.Symbol, 0)
	if text == "" {
		return matched
	}

	seen := make(map[string]struct{})
	for _, s := range symbols {
		if s.Literal == "" || !strings.Contains(text, s.Literal) {
			continue
		}
		if _, ok := seen[s.Unified]; ok {
			continue
		}
		seen[s.Unified] = struct{}{}
		matched = append(matched, s)
	}
	return matched
}

func extractHashtags(entities *Entities) []string {
	if entities == nil {
		return []string{}
	}
	tags := make([]string, 0, len(entities.Hashtags))
	for _, h := range entities.Hashtags {
		tags = append(tags, h.Tag)
	}
	return distinct(tags)
}

// extractDomains takes the hostname of every expanded URL. A URL that fails
// to parse, or parses without a hostname, fails the whole message: the feed
// only emits absolute URLs, so anything else is corrupt input.
func extractDomains(entities *Entities) ([]string, error) {
	if entities == nil {
		return []string{}, nil
	}
	hosts := make([]string, 0, len(entities.URLs))
	for _, u := range entities.URLs {
		parsed, err := url.Parse(u.ExpandedURL)
		if err != nil {
			return nil, fmt.Errorf("parse expanded url %q: %w", u.ExpandedURL, err)
		}
		if parsed.Hostname() == "" {
			return nil, fmt.Errorf("parse expanded url %q: no hostname", u.ExpandedURL)
		}
		hosts = append(hosts, parsed.Hostname())
	}
	return distinct(hosts), nil
}

func resolveMediaTypes(attachments *Attachments, includes *Includes) []string {
	if attachments == nil {
		return []string{}
	}
	types := make([]string, 0, len(attachments.MediaKeys))
	for _, key := range attachments.MediaKeys {
		types = append(types, lookupMediaType(key, includes))
	}
	return distinct(types)
}

func lookupMediaType(key string, includes *Includes) string {
	if includes == nil {
		return MediaTypeUnknown
	}
	for _, m := range includes.Media {
		if m.MediaKey == key {
			return m.Type
		}
	}
	return MediaTypeUnknown
}

// distinct keeps the first occurrence of each value, preserving order.
func distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
