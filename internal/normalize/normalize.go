package normalize

import (
	"regexp"
	"strings"
)

var (
	urlPattern      = regexp.MustCompile(`\w+://\S+`)
	mentionPattern  = regexp.MustCompile(`@[A-Za-z0-9_]+`)
	nonAlnumPattern = regexp.MustCompile(`[^A-Za-z0-9]+`)
	hashtagPattern  = regexp.MustCompile(`#(\w+)`)
	letterPattern   = regexp.MustCompile(`[A-Za-z]`)
)

// StripNonASCII drops every character outside the 7-bit ASCII range,
// which removes emoji before storage and sentiment scoring. Nil or empty
// input yields nil.
func StripNonASCII(text *string) *string {
	if text == nil || *text == "" {
		return nil
	}

	var b strings.Builder
	for _, r := range *text {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	out := b.String()
	return &out
}

// StripURLs removes URL-like runs and repost markers. Hashtag extraction
// works on this form so URL fragments do not read as tags.
func StripURLs(text string) string {
	text = urlPattern.ReplaceAllString(text, " ")
	return strings.ReplaceAll(text, "RT ", " ")
}

// CleanText prepares a post body for tokenization: URLs, repost markers
// and mentions go away, non-alphanumeric runs collapse to single spaces
// and the result is lowercased. Stored text is NOT cleaned this way; this
// feeds the word cloud and frequency counts only.
func CleanText(text string) string {
	text = StripURLs(text)
	text = strings.ReplaceAll(text, "&amp;", "and")
	text = mentionPattern.ReplaceAllString(text, " ")
	text = nonAlnumPattern.ReplaceAllString(text, " ")
	text = strings.ToLower(text)
	return strings.Join(strings.Fields(text), " ")
}

// ExtractHashtags returns every #tag whose word run contains at least one
// letter, in order of appearance, duplicates kept. A hyphen or any other
// non-word character terminates the tag.
func ExtractHashtags(text string) []string {
	var tags []string
	for _, m := range hashtagPattern.FindAllStringSubmatch(text, -1) {
		if letterPattern.MatchString(m[1]) {
			tags = append(tags, m[1])
		}
	}
	return tags
}

// BucketPolarity collapses a signed sentiment score into the three display
// classes. Any positive score counts fully positive, however small; this
// coarse policy is deliberate.
func BucketPolarity(score float64) int {
	switch {
	case score < 0:
		return -1
	case score > 0:
		return 1
	default:
		return 0
	}
}
