package ingest

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raiakash203/Real-Time-Twitter-Analysis/config"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/models"
)

type fakeSource struct {
	events      []*models.StreamEvent
	connectErrs []error
	connects    int
	pos         int
}

func (f *fakeSource) Connect(_ context.Context) error {
	f.connects++
	if len(f.connectErrs) > 0 {
		err := f.connectErrs[0]
		f.connectErrs = f.connectErrs[1:]
		return err
	}
	if f.pos >= len(f.events) {
		return errors.New("stream closed")
	}
	return nil
}

func (f *fakeSource) Next(_ context.Context) (*models.StreamEvent, error) {
	if f.pos >= len(f.events) {
		return nil, io.EOF
	}
	ev := f.events[f.pos]
	f.pos++
	return ev, nil
}

func (f *fakeSource) Close() {}

type fakeStore struct {
	inserted []models.Post
	failIDs  map[string]bool
}

func (f *fakeStore) InsertPost(_ context.Context, post models.Post) error {
	if f.failIDs[post.ID] {
		return errors.New("storage unavailable")
	}
	f.inserted = append(f.inserted, post)
	return nil
}

type fakeDeduper struct {
	seen map[string]bool
}

func (f *fakeDeduper) IsSeen(_ context.Context, id string) bool { return f.seen[id] }

func (f *fakeDeduper) MarkSeen(_ context.Context, id string) error {
	f.seen[id] = true
	return nil
}

func testConfig() config.IngestConfig {
	return config.IngestConfig{Language: "en", MaxAttempts: 1}
}

func event(id, text string) *models.StreamEvent {
	return &models.StreamEvent{
		ID:        id,
		CreatedAt: time.Date(2020, 4, 1, 12, 0, 0, 0, time.UTC),
		Text:      text,
		Language:  "en",
	}
}

// runLoop drives Run until the fake source exhausts its events and the
// single permitted reconnect attempt fails.
func runLoop(t *testing.T, source *fakeSource, store *fakeStore, dedupe Deduper) {
	t.Helper()
	source.connectErrs = append(source.connectErrs, nil) // first connect succeeds
	loop := NewLoop(source, store, dedupe, testConfig(), nil)

	// once the stream drains, Next returns EOF and further connects fail;
	// the 1-attempt cap makes Run terminate
	err := loop.Run(context.Background())
	require.ErrorIs(t, err, ErrRetriesExhausted)
}

func TestRepostDiscarded(t *testing.T) {
	original := event("2", "the original post")
	repost := event("1", "RT someone")
	repost.IsRetweet = true
	repost.Retweeted = original

	store := &fakeStore{}
	runLoop(t, &fakeSource{events: []*models.StreamEvent{repost, original}}, store, nil)

	require.Len(t, store.inserted, 1)
	assert.Equal(t, "2", store.inserted[0].ID)
}

func TestExtendedTextPreferred(t *testing.T) {
	ev := event("1", "truncated...")
	ev.ExtendedText = "the full body of the post"

	store := &fakeStore{}
	runLoop(t, &fakeSource{events: []*models.StreamEvent{ev}}, store, nil)

	require.Len(t, store.inserted, 1)
	assert.Equal(t, "the full body of the post", store.inserted[0].Text)
}

func TestNonASCIIStrippedIndependently(t *testing.T) {
	ev := event("1", "héllo😀 world")
	ev.User.Location = "Pùne, India"
	ev.User.Description = "☀☀☀"

	store := &fakeStore{}
	runLoop(t, &fakeSource{events: []*models.StreamEvent{ev}}, store, nil)

	require.Len(t, store.inserted, 1)
	post := store.inserted[0]
	assert.Equal(t, "hllo world", post.Text)
	require.NotNil(t, post.UserLocation)
	assert.Equal(t, "Pne, India", *post.UserLocation)
	// description was all non-ASCII, stored as null
	assert.Nil(t, post.UserBio)
}

func TestLanguageFilter(t *testing.T) {
	es := event("1", "hola mundo")
	es.Language = "es"
	en := event("2", "hello world")

	store := &fakeStore{}
	runLoop(t, &fakeSource{events: []*models.StreamEvent{es, en}}, store, nil)

	require.Len(t, store.inserted, 1)
	assert.Equal(t, "2", store.inserted[0].ID)
}

func TestMalformedEventSkipped(t *testing.T) {
	missingID := event("", "no id")
	emptyText := event("3", "")

	store := &fakeStore{}
	runLoop(t, &fakeSource{events: []*models.StreamEvent{missingID, emptyText, event("4", "fine")}}, store, nil)

	require.Len(t, store.inserted, 1)
	assert.Equal(t, "4", store.inserted[0].ID)
}

func TestInsertErrorDropsEventAndContinues(t *testing.T) {
	store := &fakeStore{failIDs: map[string]bool{"1": true}}
	runLoop(t, &fakeSource{events: []*models.StreamEvent{event("1", "doomed"), event("2", "fine")}}, store, nil)

	require.Len(t, store.inserted, 1)
	assert.Equal(t, "2", store.inserted[0].ID)
}

func TestDuplicateSkippedViaDeduper(t *testing.T) {
	dedupe := &fakeDeduper{seen: map[string]bool{}}
	store := &fakeStore{}
	runLoop(t, &fakeSource{events: []*models.StreamEvent{
		event("1", "first delivery"),
		event("1", "second delivery"),
		event("2", "other"),
	}}, store, dedupe)

	require.Len(t, store.inserted, 2)
	assert.Equal(t, "1", store.inserted[0].ID)
	assert.Equal(t, "2", store.inserted[1].ID)
	assert.True(t, dedupe.seen["1"])
}

func TestCreatedAtStoredAsLocalTime(t *testing.T) {
	ev := event("1", "hello")
	store := &fakeStore{}
	runLoop(t, &fakeSource{events: []*models.StreamEvent{ev}}, store, nil)

	require.Len(t, store.inserted, 1)
	got := store.inserted[0].CreatedAt
	assert.Equal(t, time.Local, got.Location())
	assert.True(t, got.Equal(ev.CreatedAt))
}

func TestReconnectExhaustion(t *testing.T) {
	source := &fakeSource{connectErrs: []error{
		errors.New("stream drop"),
		errors.New("stream drop"),
		errors.New("stream drop"),
	}}
	loop := NewLoop(source, &fakeStore{}, nil, config.IngestConfig{MaxAttempts: 2}, nil)

	err := loop.Run(context.Background())
	require.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, StateReconnecting, loop.State())
	// initial attempt plus two capped retries
	assert.Equal(t, 3, source.connects)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loop := NewLoop(&fakeSource{}, &fakeStore{}, nil, testConfig(), nil)
	err := loop.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
