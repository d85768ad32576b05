package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JRhoadhouse/TwitterExercise/internal/domain"
	"github.com/JRhoadhouse/TwitterExercise/internal/emoji"
)

func heart() emoji.Symbol {
	return emoji.Symbol{Name: "HEAVY BLACK HEART", Unified: "2764-FE0F", Literal: "❤"}
}

func copyright() emoji.Symbol {
	return emoji.Symbol{Name: "COPYRIGHT SIGN", Unified: "00A9-FE0F", Literal: "©"}
}

func snapshotOf(n int, tag func(i int) domain.TweetMetadata) []domain.TweetMetadata {
	snap := make([]domain.TweetMetadata, 0, n)
	for i := 0; i < n; i++ {
		snap = append(snap, tag(i))
	}
	return snap
}

func TestCompute_EmptySnapshot(t *testing.T) {
	assert.NotPanics(t, func() {
		s := Compute(nil, 5)
		assert.Equal(t, 0, s.TotalCount)
		assert.Empty(t, s.TopHashtags)
	})
}

func TestCompute_Rates(t *testing.T) {
	base := time.Date(2024, 4, 26, 10, 0, 0, 0, time.UTC)
	snap := snapshotOf(3, func(i int) domain.TweetMetadata {
		return domain.TweetMetadata{
			ID: fmt.Sprintf("%d", i),
			// Timestamps span exactly one hour.
			Timestamp: base.Add(time.Duration(i) * 30 * time.Minute),
		}
	})

	s := Compute(snap, 5)

	assert.Equal(t, 3, s.TotalCount)
	assert.Equal(t, time.Hour, s.Span)
	assert.InDelta(t, 3.0, s.PerHour, 0.001)
	assert.InDelta(t, 0.05, s.PerMinute, 0.001)
	assert.InDelta(t, 3.0/3600.0, s.PerSecond, 0.0001)
}

func TestCompute_TopHashtagsRanking(t *testing.T) {
	base := time.Date(2024, 4, 26, 10, 0, 0, 0, time.UTC)
	snap := snapshotOf(10, func(i int) domain.TweetMetadata {
		tags := []string{"a"}
		if i < 3 {
			tags = append(tags, "b")
		}
		return domain.TweetMetadata{ID: fmt.Sprintf("%d", i), Timestamp: base, Hashtags: tags}
	})

	s := Compute(snap, 5)

	require.Len(t, s.TopHashtags, 2)
	assert.Equal(t, ItemCount{Item: "a", Count: 10}, s.TopHashtags[0])
	assert.Equal(t, ItemCount{Item: "b", Count: 3}, s.TopHashtags[1])
	assert.InDelta(t, 1.0, s.HashtagPct, 0.001)
}

func TestCompute_TopKTruncationAndTieBreak(t *testing.T) {
	base := time.Date(2024, 4, 26, 10, 0, 0, 0, time.UTC)
	// Six distinct tags, each in exactly one record: ranking must fall back
	// to lexicographic order and keep only the first five.
	tags := []string{"zeta", "alpha", "mike", "bravo", "yankee", "delta"}
	snap := snapshotOf(6, func(i int) domain.TweetMetadata {
		return domain.TweetMetadata{ID: fmt.Sprintf("%d", i), Timestamp: base, Hashtags: []string{tags[i]}}
	})

	s := Compute(snap, 5)

	require.Len(t, s.TopHashtags, 5)
	got := make([]string, 0, 5)
	for _, h := range s.TopHashtags {
		got = append(got, h.Item)
	}
	assert.Equal(t, []string{"alpha", "bravo", "delta", "mike", "yankee"}, got)
}

func TestCompute_TopEmojisByUnifiedCode(t *testing.T) {
	base := time.Date(2024, 4, 26, 10, 0, 0, 0, time.UTC)
	snap := snapshotOf(4, func(i int) domain.TweetMetadata {
		emojis := []emoji.Symbol{heart()}
		if i == 0 {
			emojis = append(emojis, copyright())
		}
		return domain.TweetMetadata{ID: fmt.Sprintf("%d", i), Timestamp: base, Emojis: emojis}
	})

	s := Compute(snap, 5)

	require.Len(t, s.TopEmojis, 2)
	assert.Equal(t, "2764-FE0F", s.TopEmojis[0].Symbol.Unified)
	assert.Equal(t, 4, s.TopEmojis[0].Count)
	assert.Equal(t, "00A9-FE0F", s.TopEmojis[1].Symbol.Unified)
	assert.Equal(t, 1, s.TopEmojis[1].Count)
	assert.InDelta(t, 1.0, s.EmojiPct, 0.001)
}

func TestCompute_MediaBreakdownAlphabetical(t *testing.T) {
	base := time.Date(2024, 4, 26, 10, 0, 0, 0, time.UTC)
	types := [][]string{{"video"}, {"photo", "video"}, {"animated_gif"}, nil}
	snap := snapshotOf(4, func(i int) domain.TweetMetadata {
		return domain.TweetMetadata{ID: fmt.Sprintf("%d", i), Timestamp: base, MediaTypes: types[i]}
	})

	s := Compute(snap, 5)

	assert.Equal(t, 3, s.MediaCount)
	assert.InDelta(t, 0.75, s.MediaPct, 0.001)
	assert.Equal(t, []ItemCount{
		{Item: "animated_gif", Count: 1},
		{Item: "photo", Count: 1},
		{Item: "video", Count: 2},
	}, s.MediaBreakdown)
}

func TestCompute_PhotoURLHeuristic(t *testing.T) {
	base := time.Date(2024, 4, 26, 10, 0, 0, 0, time.UTC)
	domainsPerRecord := [][]string{
		{"PIC.TWITTER.COM"},
		{"www.instagram.com"},
		{"cdn.InStAgRaM.net"},
		{"example.com"},
		nil,
	}
	snap := snapshotOf(5, func(i int) domain.TweetMetadata {
		return domain.TweetMetadata{ID: fmt.Sprintf("%d", i), Timestamp: base, Domains: domainsPerRecord[i]}
	})

	s := Compute(snap, 5)

	assert.Equal(t, 3, s.PhotoURLCount)
	assert.InDelta(t, 0.6, s.PhotoURLPct, 0.001)
	assert.InDelta(t, 0.8, s.DomainPct, 0.001)
}

func TestHasPhotoURL(t *testing.T) {
	tests := []struct {
		name    string
		domains []string
		want    bool
	}{
		{"exact pic host", []string{"pic.twitter.com"}, true},
		{"uppercase pic host", []string{"PIC.Twitter.Com"}, true},
		{"instagram substring", []string{"scontent.instagram.com"}, true},
		{"pic host as substring does not match", []string{"notpic.twitter.com.evil.example"}, false},
		{"plain domain", []string{"example.com"}, false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasPhotoURL(tt.domains))
		})
	}
}

func TestFormat(t *testing.T) {
	base := time.Date(2024, 4, 26, 10, 0, 0, 0, time.UTC)
	snap := []domain.TweetMetadata{
		{ID: "1", Timestamp: base, Hashtags: []string{"go"}, Emojis: []emoji.Symbol{heart()}, MediaTypes: []string{"photo"}},
		{ID: "2", Timestamp: base.Add(time.Hour), Domains: []string{"pic.twitter.com"}},
	}

	out := Format(Compute(snap, 5))

	assert.Contains(t, out, "Total count: 2")
	assert.Contains(t, out, "Rate by Hour: 2.00")
	assert.Contains(t, out, "Character: ❤, Name: HEAVY BLACK HEART, Code: 2764-FE0F, Tweets: 1")
	assert.Contains(t, out, "Hashtag: go, Tweets: 1")
	assert.Contains(t, out, "50.00% of sampled tweets have hashtags.")
	assert.Contains(t, out, "Domain: pic.twitter.com, Tweets: 1")
	assert.Contains(t, out, "1 sampled tweets have a media attachment (50.00% of total)")
	assert.Contains(t, out, "1 sampled tweets have a photo attachment (50.00% of total)")
	assert.Contains(t, out, "photo url (pic.twitter.com or instagram) (50.00% of total)")
}
