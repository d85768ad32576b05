package domain

import (
	"time"

	"github.com/JRhoadhouse/TwitterExercise/internal/emoji"
)

// Envelope mirrors the raw feed event JSON as closely as necessary. Keeping
// the full entity shape makes it cheap to collect additional statistics later.
type Envelope struct {
	Data     *Tweet    `json:"data"`
	Includes *Includes `json:"includes"`
}

// Tweet is the data object of one feed event.
type Tweet struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	CreatedAt   time.Time    `json:"created_at"`
	Entities    *Entities    `json:"entities"`
	Attachments *Attachments `json:"attachments"`
}

// Entities carries the message's embedded hashtag and URL annotations.
type Entities struct {
	Hashtags []HashtagEntity `json:"hashtags"`
	URLs     []URLEntity     `json:"urls"`
}

type HashtagEntity struct {
	Tag string `json:"tag"`
}

type URLEntity struct {
	ExpandedURL string `json:"expanded_url"`
}

type Attachments struct {
	MediaKeys []string `json:"media_keys"`
}

// Includes holds the companion media list referenced by attachment keys.
type Includes struct {
	Media []Media `json:"media"`
}

type Media struct {
	MediaKey string `json:"media_key"`
	Type     string `json:"type"`
}

// TweetMetadata is the enriched record stored per analyzed message. The four
// derived collections hold distinct values in encounter order. The JSON shape
// doubles as the snapshot capture / replay format.
type TweetMetadata struct {
	Timestamp  time.Time      `json:"timestamp"`
	ID         string         `json:"id"`
	Text       string         `json:"text"`
	Emojis     []emoji.Symbol `json:"emojis"`
	Hashtags   []string       `json:"hashtags"`
	Domains    []string       `json:"domains"`
	MediaTypes []string       `json:"media_types"`
	AnalyzedAt time.Time      `json:"analyzed_at"`
}

// Equal reports strict equality of the two records: same timestamp, id, and
// text, and each derived collection holds the same set of values (emoji
// compared by unified code). AnalyzedAt is a processing artifact and is
// ignored. Collections are deduplicated at construction, so equal cardinality
// plus mutual membership is full set equality.
func (t TweetMetadata) Equal(other TweetMetadata) bool {
	if !t.Timestamp.Equal(other.Timestamp) || t.ID != other.ID || t.Text != other.Text {
		return false
	}

	if !stringSetsEqual(t.Hashtags, other.Hashtags) ||
		!stringSetsEqual(t.Domains, other.Domains) ||
		!stringSetsEqual(t.MediaTypes, other.MediaTypes) {
		return false
	}

	return emojiSetsEqual(t.Emojis, other.Emojis)
}

func stringSetsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := set[v]; !ok {
			return false
		}
	}
	return true
}

func emojiSetsEqual(a, b []emoji.Symbol) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v.Unified] = struct{}{}
	}
	for _, v := range b {
		if _, ok := set[v.Unified]; !ok {
			return false
		}
	}
	return true
}
