package report

import (
	"sort"
	"strings"
	"time"

	"github.com/JRhoadhouse/TwitterExercise/internal/domain"
	"github.com/JRhoadhouse/TwitterExercise/internal/emoji"
)

// ItemCount pairs a ranked item with the number of records containing it.
type ItemCount struct {
	Item  string
	Count int
}

// EmojiCount pairs a ranked emoji symbol with its record count.
type EmojiCount struct {
	Symbol emoji.Symbol
	Count  int
}

// Stats are the aggregate statistics over one snapshot. All percentages are
// fractions of TotalCount in [0,1].
type Stats struct {
	TotalCount int

	Span      time.Duration
	PerHour   float64
	PerMinute float64
	PerSecond float64

	TopEmojis   []EmojiCount
	TopHashtags []ItemCount
	TopDomains  []ItemCount

	EmojiPct   float64
	HashtagPct float64
	DomainPct  float64

	MediaCount     int
	MediaPct       float64
	MediaBreakdown []ItemCount

	PhotoURLCount int
	PhotoURLPct   float64
}

// Compute derives the aggregate statistics from a snapshot. An empty
// snapshot yields zero-valued Stats: rates and percentages are undefined
// without data, and callers skip the report rather than emit one.
func Compute(snapshot []domain.TweetMetadata, topK int) Stats {
	total := len(snapshot)
	if total == 0 {
		return Stats{}
	}

	s := Stats{TotalCount: total}

	minTime, maxTime := snapshot[0].Timestamp, snapshot[0].Timestamp
	for _, rec := range snapshot[1:] {
		if rec.Timestamp.Before(minTime) {
			minTime = rec.Timestamp
		}
		if rec.Timestamp.After(maxTime) {
			maxTime = rec.Timestamp
		}
	}
	s.Span = maxTime.Sub(minTime)
	s.PerHour = float64(total) / s.Span.Hours()
	s.PerMinute = float64(total) / s.Span.Minutes()
	s.PerSecond = float64(total) / s.Span.Seconds()

	s.TopEmojis = topEmojis(snapshot, topK)
	s.TopHashtags = topItems(snapshot, topK, func(r domain.TweetMetadata) []string { return r.Hashtags })
	s.TopDomains = topItems(snapshot, topK, func(r domain.TweetMetadata) []string { return r.Domains })

	withEmoji, withHashtag, withDomain, withMedia, withPhotoURL := 0, 0, 0, 0, 0
	for _, rec := range snapshot {
		if len(rec.Emojis) > 0 {
			withEmoji++
		}
		if len(rec.Hashtags) > 0 {
			withHashtag++
		}
		if len(rec.Domains) > 0 {
			withDomain++
		}
		if len(rec.MediaTypes) > 0 {
			withMedia++
		}
		if hasPhotoURL(rec.Domains) {
			withPhotoURL++
		}
	}
	s.EmojiPct = float64(withEmoji) / float64(total)
	s.HashtagPct = float64(withHashtag) / float64(total)
	s.DomainPct = float64(withDomain) / float64(total)
	s.MediaCount = withMedia
	s.MediaPct = float64(withMedia) / float64(total)
	s.PhotoURLCount = withPhotoURL
	s.PhotoURLPct = float64(withPhotoURL) / float64(total)

	s.MediaBreakdown = mediaBreakdown(snapshot)

	return s
}

// topEmojis ranks emoji by the number of records containing them, comparing
// by unified code. Ties break lexicographically on the code so reports are
// reproducible across runs.
func topEmojis(snapshot []domain.TweetMetadata, k int) []EmojiCount {
	counts := make(map[string]int)
	symbols := make(map[string]emoji.Symbol)
	for _, rec := range snapshot {
		for _, e := range rec.Emojis {
			counts[e.Unified]++
			if _, ok := symbols[e.Unified]; !ok {
				symbols[e.Unified] = e
			}
		}
	}

	ranked := make([]EmojiCount, 0, len(counts))
	for code, count := range counts {
		ranked = append(ranked, EmojiCount{Symbol: symbols[code], Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Symbol.Unified < ranked[j].Symbol.Unified
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

func topItems(snapshot []domain.TweetMetadata, k int, collection func(domain.TweetMetadata) []string) []ItemCount {
	counts := make(map[string]int)
	for _, rec := range snapshot {
		// Collections hold distinct values per record, so each increment
		// is one record containing the item.
		for _, item := range collection(rec) {
			counts[item]++
		}
	}

	ranked := make([]ItemCount, 0, len(counts))
	for item, count := range counts {
		ranked = append(ranked, ItemCount{Item: item, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Item < ranked[j].Item
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

func mediaBreakdown(snapshot []domain.TweetMetadata) []ItemCount {
	counts := make(map[string]int)
	for _, rec := range snapshot {
		for _, mt := range rec.MediaTypes {
			counts[mt]++
		}
	}

	breakdown := make([]ItemCount, 0, len(counts))
	for mt, count := range counts {
		breakdown = append(breakdown, ItemCount{Item: mt, Count: count})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Item < breakdown[j].Item
	})
	return breakdown
}

func hasPhotoURL(domains []string) bool {
	for _, d := range domains {
		lower := strings.ToLower(d)
		if lower == "pic.twitter.com" || strings.Contains(lower, "instagram") {
			return true
		}
	}
	return false
}
