package audio

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/faiface/beep/mp3"
)

// Speaking rate used when real audio duration is unavailable.
const wordsPerMinute = 150

// MeasureMP3 decodes the MP3 stream just far enough to report its duration.
func MeasureMP3(data []byte) (time.Duration, error) {
	streamer, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return 0, err
	}
	defer streamer.Close()
	return format.SampleRate.D(streamer.Len()), nil
}

// EstimateSpeech approximates how long the text takes to read aloud.
func EstimateSpeech(text string) time.Duration {
	words := len(strings.Fields(text))
	return time.Duration(float64(words) / wordsPerMinute * float64(time.Minute))
}
