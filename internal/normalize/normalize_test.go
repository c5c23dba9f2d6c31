package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripNonASCII(t *testing.T) {
	assert.Nil(t, StripNonASCII(nil))

	empty := ""
	assert.Nil(t, StripNonASCII(&empty))

	in := "héllo😀"
	out := StripNonASCII(&in)
	require.NotNil(t, out)
	assert.Equal(t, "hllo", *out)

	plain := "already ascii"
	out = StripNonASCII(&plain)
	require.NotNil(t, out)
	assert.Equal(t, "already ascii", *out)
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"url removed", "read this https://t.co/abc123 now", "read this now"},
		{"mention removed", "hey @someone what's up", "hey what s up"},
		{"repost marker removed", "RT @user: the original", "the original"},
		{"ampersand entity", "cats &amp; dogs", "cats and dogs"},
		{"punctuation collapsed", "well... REALLY?!", "well really"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}

func TestExtractHashtags(t *testing.T) {
	got := ExtractHashtags("Check #COVID19 and #covid-19 now")
	assert.Equal(t, []string{"COVID19", "covid"}, got)

	// digits-only tags carry no letter and are skipped
	assert.Nil(t, ExtractHashtags("#2020 #42"))

	// duplicates and order preserved, case kept
	got = ExtractHashtags("#Go #go #Go")
	assert.Equal(t, []string{"Go", "go", "Go"}, got)

	assert.Nil(t, ExtractHashtags("no tags here"))
}

func TestBucketPolarity(t *testing.T) {
	assert.Equal(t, -1, BucketPolarity(-0.7))
	assert.Equal(t, -1, BucketPolarity(-0.0001))
	assert.Equal(t, 0, BucketPolarity(0))
	assert.Equal(t, 1, BucketPolarity(0.0001))
	assert.Equal(t, 1, BucketPolarity(0.9))
}
