package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSpeakers = Speakers{Instructor: "instructor", CoHost: "cohost"}

func TestParseDialoguePlainArray(t *testing.T) {
	reply := `[
		{"speaker": "instructor", "text": "Welcome to the overview."},
		{"speaker": "cohost", "text": "Glad to be here."}
	]`

	turns, err := parseDialogue(reply, testSpeakers)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "instructor", turns[0].Speaker)
	assert.Equal(t, 0, turns[0].Sequence)
	assert.Equal(t, 1, turns[1].Sequence)
}

func TestParseDialogueStripsCodeFence(t *testing.T) {
	reply := "Here is the dialogue:\n```json\n[{\"speaker\": \"instructor\", \"text\": \"Hello.\"}]\n```\n"

	turns, err := parseDialogue(reply, testSpeakers)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "Hello.", turns[0].Text)
}

func TestParseDialogueStripsBareFence(t *testing.T) {
	reply := "```\n[{\"speaker\": \"cohost\", \"text\": \"Hi.\"}]\n```"

	turns, err := parseDialogue(reply, testSpeakers)
	require.NoError(t, err)
	require.Len(t, turns, 1)
}

func TestParseDialogueIgnoresStrayFenceInProse(t *testing.T) {
	reply := "You could wrap the output in ``` fences, but here it is plain:\n" +
		`[{"speaker": "instructor", "text": "Hello."}]`

	turns, err := parseDialogue(reply, testSpeakers)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "Hello.", turns[0].Text)
}

func TestParseDialogueNormalizesSpeakerCase(t *testing.T) {
	reply := `[{"speaker": "Instructor", "text": "Hello."}]`

	turns, err := parseDialogue(reply, testSpeakers)
	require.NoError(t, err)
	assert.Equal(t, "instructor", turns[0].Speaker)
}

func TestParseDialogueRejectsUnknownSpeaker(t *testing.T) {
	reply := `[{"speaker": "narrator", "text": "Hello."}]`

	_, err := parseDialogue(reply, testSpeakers)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown speaker")
}

func TestParseDialogueRejectsMissingFields(t *testing.T) {
	_, err := parseDialogue(`[{"speaker": "instructor"}]`, testSpeakers)
	require.Error(t, err)

	_, err = parseDialogue(`[]`, testSpeakers)
	require.Error(t, err)

	_, err = parseDialogue(`not json`, testSpeakers)
	require.Error(t, err)
}

func TestEstimateMinutes(t *testing.T) {
	turns := []DialogueTurn{
		{Speaker: "instructor", Text: "one two three four five"},
		{Speaker: "cohost", Text: "six seven eight nine ten"},
	}
	assert.InDelta(t, 10.0/150.0, EstimateMinutes(turns), 1e-9)
}

func TestSpeakerDistribution(t *testing.T) {
	turns := []DialogueTurn{
		{Speaker: "instructor"}, {Speaker: "cohost"}, {Speaker: "instructor"},
	}
	dist := SpeakerDistribution(turns)
	assert.Equal(t, 2, dist["instructor"])
	assert.Equal(t, 1, dist["cohost"])
}
