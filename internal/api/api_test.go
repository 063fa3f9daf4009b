package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dialoguecast/internal/api"
	"dialoguecast/internal/audio"
	"dialoguecast/internal/overview"
	"dialoguecast/internal/queue"
	"dialoguecast/internal/script"
	"dialoguecast/internal/tts"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	store, err := audio.NewStore(dir+"/audio", dir+"/metadata")
	require.NoError(t, err)

	speakers := script.Speakers{Instructor: "instructor", CoHost: "cohost"}
	source := &script.Static{Speakers: speakers}
	svc := &overview.Service{
		Scripts:       source,
		Responses:     source,
		Synth:         tts.NewMockSynthesizer(tts.Config{DefaultVoice: "mock"}),
		Store:         store,
		Queues:        queue.NewRegistry(),
		AudioBasePath: "/api/audio",
	}

	server := httptest.NewServer(api.New(svc, svc.Queues, store))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	encoded, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(encoded))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
}

func generateOverview(t *testing.T, server *httptest.Server) string {
	t.Helper()
	resp := postJSON(t, server.URL+"/api/overview/generate", map[string]any{
		"topic":            "finite state machines",
		"duration_minutes": 2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		OverviewID    string          `json:"overview_id"`
		SegmentsCount int             `json:"segments_count"`
		Segments      []queue.Segment `json:"segments"`
	}
	decode(t, resp, &body)
	require.NotEmpty(t, body.OverviewID)
	require.Equal(t, 5, body.SegmentsCount)
	return body.OverviewID
}

func TestGenerateLoadsQueue(t *testing.T) {
	server := newTestServer(t)
	overviewID := generateOverview(t, server)

	resp, err := http.Get(server.URL + "/api/queue/" + overviewID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap queue.Snapshot
	decode(t, resp, &snap)
	assert.Equal(t, overviewID, snap.ConversationID)
	assert.Equal(t, 5, snap.TotalSegments)
	assert.Equal(t, 0, snap.CurrentPosition)
	assert.Equal(t, 4, snap.RemainingSegments)
	for i, seg := range snap.Segments {
		assert.Equal(t, i, seg.Sequence)
		assert.False(t, seg.IsResponse)
		assert.NotEmpty(t, seg.AudioURL)
		assert.NotZero(t, seg.DurationMS)
	}
}

func TestQuestionInsertsAfterCursor(t *testing.T) {
	server := newTestServer(t)
	overviewID := generateOverview(t, server)

	// Advance to position 1 so the response lands at index 2.
	resp := postJSON(t, server.URL+"/api/queue/"+overviewID+"/advance", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/api/question/text", map[string]any{
		"question":    "what is a state transition?",
		"topic":       "finite state machines",
		"overview_id": overviewID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var answer struct {
		InsertedAt    int             `json:"inserted_at"`
		SegmentsCount int             `json:"segments_count"`
		Segments      []queue.Segment `json:"segments"`
	}
	decode(t, resp, &answer)
	assert.Equal(t, 2, answer.InsertedAt)
	assert.Equal(t, 2, answer.SegmentsCount)
	for _, seg := range answer.Segments {
		assert.True(t, seg.IsResponse)
		assert.NotNil(t, seg.InsertedAt)
	}

	resp, err := http.Get(server.URL + "/api/queue/" + overviewID)
	require.NoError(t, err)
	var snap queue.Snapshot
	decode(t, resp, &snap)
	assert.Equal(t, 7, snap.TotalSegments)
	assert.Equal(t, 1, snap.CurrentPosition)
	for i, seg := range snap.Segments {
		assert.Equal(t, i, seg.Sequence)
	}
	assert.True(t, snap.Segments[2].IsResponse)
	assert.True(t, snap.Segments[3].IsResponse)
}

func TestAdvanceAtEndConflicts(t *testing.T) {
	server := newTestServer(t)
	overviewID := generateOverview(t, server)

	// Seek to the last index, then advancing must be rejected.
	resp := postJSON(t, server.URL+"/api/queue/"+overviewID+"/seek", map[string]int{"position": 4})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/api/queue/"+overviewID+"/advance", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var body struct {
		Advanced        bool `json:"advanced"`
		CurrentPosition int  `json:"current_position"`
	}
	decode(t, resp, &body)
	assert.False(t, body.Advanced)
	assert.Equal(t, 4, body.CurrentPosition)
}

func TestSeekOutOfRange(t *testing.T) {
	server := newTestServer(t)
	overviewID := generateOverview(t, server)

	for _, position := range []int{-1, 5} {
		resp := postJSON(t, server.URL+"/api/queue/"+overviewID+"/seek", map[string]int{"position": position})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "position %d", position)

		var body struct {
			Success         bool `json:"success"`
			CurrentPosition int  `json:"current_position"`
		}
		decode(t, resp, &body)
		assert.False(t, body.Success)
		assert.Equal(t, 0, body.CurrentPosition)
	}
}

func TestNextAndPause(t *testing.T) {
	server := newTestServer(t)
	overviewID := generateOverview(t, server)

	resp, err := http.Get(server.URL + "/api/queue/" + overviewID + "/next")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var seg queue.Segment
	decode(t, resp, &seg)
	assert.Equal(t, 0, seg.Sequence)

	resp = postJSON(t, server.URL+"/api/queue/"+overviewID+"/pause", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(server.URL + "/api/queue/" + overviewID)
	require.NoError(t, err)
	var snap queue.Snapshot
	decode(t, resp, &snap)
	assert.True(t, snap.Paused)
}

func TestNextOnFreshQueueIsNotFound(t *testing.T) {
	server := newTestServer(t)

	// First reference creates an empty queue; no next segment exists.
	resp, err := http.Get(server.URL + "/api/queue/unknown_overview/next")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServeAudio(t *testing.T) {
	server := newTestServer(t)
	overviewID := generateOverview(t, server)

	resp, err := http.Get(fmt.Sprintf("%s/api/audio/%s_0", server.URL, overviewID))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/api/audio/missing_segment")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListSegmentsFiltered(t *testing.T) {
	server := newTestServer(t)
	overviewID := generateOverview(t, server)

	resp, err := http.Get(server.URL + "/api/segments?overview_id=" + overviewID)
	require.NoError(t, err)

	var body struct {
		SegmentsCount int `json:"segments_count"`
	}
	decode(t, resp, &body)
	assert.Equal(t, 5, body.SegmentsCount)
}

func TestTeardown(t *testing.T) {
	server := newTestServer(t)
	overviewID := generateOverview(t, server)

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/queue/"+overviewID, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The next reference builds a fresh empty queue.
	resp, err = http.Get(server.URL + "/api/queue/" + overviewID)
	require.NoError(t, err)
	var snap queue.Snapshot
	decode(t, resp, &snap)
	assert.Equal(t, 0, snap.TotalSegments)
}

func TestGenerateRequiresTopic(t *testing.T) {
	server := newTestServer(t)
	resp := postJSON(t, server.URL+"/api/overview/generate", map[string]any{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
