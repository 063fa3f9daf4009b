package player

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/sirupsen/logrus"

	"dialoguecast/internal/audio"
	"dialoguecast/internal/cli/scheme/colours"
	"dialoguecast/internal/queue"
	"dialoguecast/internal/script"
)

// pausePollInterval is how often the play loop re-checks a paused queue.
const pausePollInterval = 200 * time.Millisecond

// Player streams a conversation's stored audio to the local speakers,
// walking the queue cursor forward one segment at a time. Pause and Resume
// act on both the audio stream and the queue's advisory flag.
type Player struct {
	store    *audio.Store
	queues   *queue.Registry
	speakers script.Speakers

	mu      sync.Mutex
	ctrl    *beep.Ctrl
	playing bool
}

func New(store *audio.Store, queues *queue.Registry, speakers script.Speakers) *Player {
	return &Player{store: store, queues: queues, speakers: speakers}
}

// Play plays the conversation from the current cursor until the queue runs
// out or ctx is cancelled. Segments without stored audio are announced as
// text only. The cursor only moves after a segment finished, so responses
// inserted mid-playback are picked up on the next iteration.
func (p *Player) Play(ctx context.Context, overviewID string) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var (
			seg    queue.Segment
			ok     bool
			paused bool
		)
		err := p.queues.With(overviewID, func(q *queue.Queue) error {
			seg, ok = q.Next()
			paused = q.IsPaused()
			return nil
		})
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if paused {
			time.Sleep(pausePollInterval)
			continue
		}

		p.announce(seg)

		if seg.AudioURL == "" {
			logrus.WithField("segment_id", seg.SegmentID).Warn("segment has no audio, showing text only")
		} else if err := p.playSegment(ctx, seg.SegmentID); err != nil {
			if ctx.Err() != nil {
				return err
			}
			colours.Warning.Printf("playback failed for %s: %v\n", seg.SegmentID, err)
		}

		var advanced bool
		err = p.queues.With(overviewID, func(q *queue.Queue) error {
			advanced = q.Advance()
			return nil
		})
		if err != nil {
			return err
		}
		if !advanced {
			return nil
		}
	}
}

func (p *Player) announce(seg queue.Segment) {
	label := colours.CoHost
	if seg.Speaker == p.speakers.Instructor {
		label = colours.Instructor
	}
	label.Printf("[%s] ", seg.Speaker)
	if seg.IsResponse {
		colours.Warning.Print("(response) ")
	}
	fmt.Println(seg.Text)
}

func (p *Player) playSegment(ctx context.Context, segmentID string) error {
	meta, found, err := p.store.Load(segmentID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no stored audio for segment %s", segmentID)
	}

	f, err := os.Open(meta.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", meta.FilePath, err)
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to decode %s: %w", meta.FilePath, err)
	}
	defer streamer.Close()

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return err
	}

	ctrl := &beep.Ctrl{Streamer: streamer, Paused: false}
	done := make(chan struct{}, 1)

	p.mu.Lock()
	p.ctrl = ctrl
	p.playing = true
	p.mu.Unlock()

	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		done <- struct{}{}
	})))

	select {
	case <-done:
	case <-ctx.Done():
		speaker.Clear()
		p.clearCtrl()
		return ctx.Err()
	}

	p.clearCtrl()
	return nil
}

func (p *Player) clearCtrl() {
	p.mu.Lock()
	p.ctrl = nil
	p.playing = false
	p.mu.Unlock()
}

// Pause halts the audio stream and flags the queue as paused.
func (p *Player) Pause(overviewID string) error {
	p.mu.Lock()
	if p.ctrl != nil {
		speaker.Lock()
		p.ctrl.Paused = true
		speaker.Unlock()
	}
	p.mu.Unlock()

	return p.queues.With(overviewID, func(q *queue.Queue) error {
		q.Pause()
		return nil
	})
}

// Resume restarts a paused stream and clears the queue's paused flag.
func (p *Player) Resume(overviewID string) error {
	p.mu.Lock()
	if p.ctrl != nil {
		speaker.Lock()
		p.ctrl.Paused = false
		speaker.Unlock()
	}
	p.mu.Unlock()

	return p.queues.With(overviewID, func(q *queue.Queue) error {
		q.Resume()
		return nil
	})
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}
