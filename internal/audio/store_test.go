package audio

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(dir+"/audio", dir+"/metadata")
	require.NoError(t, err)
	return store
}

func TestStoreSaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	saved, err := store.Save(Metadata{
		SegmentID:  "overview_1_0",
		Speaker:    "instructor",
		Text:       "Welcome to the overview.",
		Sequence:   0,
		DurationMS: 2500,
	}, []byte("audio-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "mp3", saved.Format)
	assert.NotEmpty(t, saved.FilePath)
	assert.False(t, saved.CreatedAt.IsZero())

	data, err := os.ReadFile(saved.FilePath)
	require.NoError(t, err)
	assert.Equal(t, "audio-bytes", string(data))

	loaded, found, err := store.Load("overview_1_0")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, saved.Text, loaded.Text)
	assert.Equal(t, saved.DurationMS, loaded.DurationMS)
}

func TestStoreLoadMissIsNotAnError(t *testing.T) {
	store := newTestStore(t)

	_, found, err := store.Load("nope")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStoreSaveRequiresSegmentID(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(Metadata{Speaker: "instructor", Text: "hi"}, []byte("x"))
	require.Error(t, err)
}

func TestStoreListFiltersByPrefixAndSorts(t *testing.T) {
	store := newTestStore(t)

	for i, id := range []string{"overview_1_1", "overview_1_0", "response_2_0"} {
		_, err := store.Save(Metadata{
			SegmentID: id,
			Speaker:   "instructor",
			Text:      "line",
			Sequence:  2 - i,
		}, []byte("x"))
		require.NoError(t, err)
	}

	all, err := store.List("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	overview, err := store.List("overview_1")
	require.NoError(t, err)
	require.Len(t, overview, 2)
	assert.Equal(t, "overview_1_0", overview[0].SegmentID)
	assert.Equal(t, "overview_1_1", overview[1].SegmentID)
}

func TestEstimateSpeech(t *testing.T) {
	// 150 words at 150 wpm reads in one minute.
	text := ""
	for i := 0; i < 150; i++ {
		text += "word "
	}
	assert.Equal(t, time.Minute, EstimateSpeech(text))
	assert.Equal(t, time.Duration(0), EstimateSpeech(""))
}
