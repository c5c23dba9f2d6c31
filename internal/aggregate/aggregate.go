package aggregate

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bbalet/stopwords"

	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/geo"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/models"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/normalize"
)

var polarityClasses = []int{-1, 0, 1}

// TimeSeries buckets posts into fixed-width intervals and counts rows per
// polarity class. The result is dense: every bucket between the first and
// last occupied one appears for every class, zero counts included.
func TimeSeries(posts []models.Post, bucketSize time.Duration) []models.SeriesPoint {
	if len(posts) == 0 {
		return nil
	}

	counts := make(map[time.Time]map[int]int)
	first, last := posts[0].CreatedAt.Truncate(bucketSize), posts[0].CreatedAt.Truncate(bucketSize)

	for _, p := range posts {
		bucket := p.CreatedAt.Truncate(bucketSize)
		if bucket.Before(first) {
			first = bucket
		}
		if bucket.After(last) {
			last = bucket
		}
		if counts[bucket] == nil {
			counts[bucket] = make(map[int]int)
		}
		counts[bucket][normalize.BucketPolarity(p.Polarity)]++
	}

	// explicit fill over the bucket x polarity cross-product
	var series []models.SeriesPoint
	for bucket := first; !bucket.After(last); bucket = bucket.Add(bucketSize) {
		for _, class := range polarityClasses {
			series = append(series, models.SeriesPoint{
				Bucket:   bucket,
				Polarity: class,
				Count:    counts[bucket][class],
			})
		}
	}
	return series
}

// Rolling sums counts per polarity class over the trailing window.
func Rolling(posts []models.Post, now time.Time, window time.Duration) models.RollingCounts {
	cutoff := now.Add(-window)

	var counts models.RollingCounts
	for _, p := range posts {
		if !p.CreatedAt.After(cutoff) {
			continue
		}
		switch normalize.BucketPolarity(p.Polarity) {
		case 1:
			counts.Positive++
		case -1:
			counts.Negative++
		default:
			counts.Neutral++
		}
	}
	return counts
}

// Change compares post volume in the trailing window against the window
// immediately before it. An empty prior window yields HasPrior == false
// instead of a division by zero.
func Change(posts []models.Post, now time.Time, window time.Duration) models.PercentChange {
	currentCutoff := now.Add(-window)
	priorCutoff := now.Add(-2 * window)

	var current, prior int
	for _, p := range posts {
		switch {
		case p.CreatedAt.After(currentCutoff):
			current++
		case p.CreatedAt.After(priorCutoff):
			prior++
		}
	}

	if prior == 0 {
		return models.PercentChange{}
	}
	return models.PercentChange{
		Percent:  float64(current-prior) / float64(prior) * 100,
		HasPrior: true,
	}
}

// GeoCounts buckets posts by region. Each row contributes to at most one
// region: the first known place found inside its free-text location.
// Unmatched rows and regions without a canonical name are skipped.
func GeoCounts(posts []models.Post, matcher *geo.Matcher) []models.RegionCount {
	counts := make(map[string]int)
	var order []string

	for _, p := range posts {
		if p.UserLocation == nil {
			continue
		}
		code, ok := matcher.Match(*p.UserLocation)
		if !ok {
			continue
		}
		if _, seen := counts[code]; !seen {
			order = append(order, code)
		}
		counts[code]++
	}

	var regions []models.RegionCount
	for _, code := range order {
		name, ok := matcher.RegionFullName(code)
		if !ok {
			// no inverse entry for this code, drop its contribution
			continue
		}
		n := counts[code]
		regions = append(regions, models.RegionCount{
			Region:   code,
			Name:     name,
			Count:    n,
			LogCount: math.Log2(float64(n)),
			Hover:    name + "<br>Num: " + strconv.Itoa(n),
		})
	}

	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Count > regions[j].Count
	})
	return regions
}

// TopHashtags counts hashtag occurrences across the window, URLs stripped
// first so fragments do not read as tags. It keeps the top ten and, when
// dropTop is set, discards the single most frequent entry (the tracked
// keyword itself dominates every window, which buries the rest of the
// chart).
func TopHashtags(posts []models.Post, dropTop bool) []models.HashtagCount {
	content := normalize.StripURLs(concatText(posts))

	counts := make(map[string]int)
	var order []string
	for _, tag := range normalize.ExtractHashtags(content) {
		if _, seen := counts[tag]; !seen {
			order = append(order, tag)
		}
		counts[tag]++
	}

	tags := make([]models.HashtagCount, 0, len(order))
	for _, tag := range order {
		tags = append(tags, models.HashtagCount{Tag: tag, Count: counts[tag]})
	}
	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i].Count > tags[j].Count
	})

	if len(tags) > 10 {
		tags = tags[:10]
	}
	if dropTop && len(tags) > 0 {
		tags = tags[1:]
	}
	return tags
}

// WordFrequencies builds the word-cloud input: cleaned window text minus
// English stopwords and tokens shorter than three characters, capped at
// the most frequent limit entries.
func WordFrequencies(posts []models.Post, limit int) []models.WordCount {
	content := normalize.CleanText(concatText(posts))
	content = stopwords.CleanString(content, "en", false)

	counts := make(map[string]int)
	var order []string
	for _, token := range strings.Fields(content) {
		if len(token) < 3 {
			continue
		}
		if _, seen := counts[token]; !seen {
			order = append(order, token)
		}
		counts[token]++
	}

	words := make([]models.WordCount, 0, len(order))
	for _, w := range order {
		words = append(words, models.WordCount{Word: w, Count: counts[w]})
	}
	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Count > words[j].Count
	})

	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	return words
}

func concatText(posts []models.Post) string {
	parts := make([]string, 0, len(posts))
	for _, p := range posts {
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, " ")
}
