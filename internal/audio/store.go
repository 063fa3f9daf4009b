package audio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Metadata describes one stored audio segment. It is persisted as a JSON
// sidecar next to the encoded audio so segments can be listed and served
// without reopening the audio itself.
type Metadata struct {
	SegmentID  string    `json:"segment_id"`
	Speaker    string    `json:"speaker"`
	Text       string    `json:"text"`
	Sequence   int       `json:"sequence"`
	DurationMS int       `json:"duration_ms"`
	FilePath   string    `json:"file_path"`
	Format     string    `json:"format"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store persists synthesized segment audio and its metadata on disk.
type Store struct {
	audioDir string
	metaDir  string
}

func NewStore(audioDir, metaDir string) (*Store, error) {
	for _, dir := range []string{audioDir, metaDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage dir %s: %w", dir, err)
		}
	}
	return &Store{audioDir: audioDir, metaDir: metaDir}, nil
}

// Save writes the audio bytes and the metadata sidecar, filling in file
// path, format, and creation time.
func (s *Store) Save(meta Metadata, audio []byte) (Metadata, error) {
	if meta.SegmentID == "" {
		return Metadata{}, fmt.Errorf("metadata is missing a segment id")
	}

	meta.Format = "mp3"
	meta.FilePath = filepath.Join(s.audioDir, meta.SegmentID+".mp3")
	meta.CreatedAt = time.Now().UTC()

	if err := os.WriteFile(meta.FilePath, audio, 0644); err != nil {
		return Metadata{}, fmt.Errorf("failed to write audio for %s: %w", meta.SegmentID, err)
	}

	encoded, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to encode metadata for %s: %w", meta.SegmentID, err)
	}
	if err := os.WriteFile(s.metadataPath(meta.SegmentID), encoded, 0644); err != nil {
		return Metadata{}, fmt.Errorf("failed to write metadata for %s: %w", meta.SegmentID, err)
	}

	logrus.WithFields(logrus.Fields{
		"segment_id": meta.SegmentID,
		"bytes":      len(audio),
	}).Debug("stored segment audio")
	return meta, nil
}

// Load returns the metadata for a segment. A missing segment is reported as
// found=false, not as an error; absence is a normal outcome before synthesis
// completes.
func (s *Store) Load(segmentID string) (Metadata, bool, error) {
	data, err := os.ReadFile(s.metadataPath(segmentID))
	if os.IsNotExist(err) {
		return Metadata{}, false, nil
	}
	if err != nil {
		return Metadata{}, false, fmt.Errorf("failed to read metadata for %s: %w", segmentID, err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, false, fmt.Errorf("failed to parse metadata for %s: %w", segmentID, err)
	}
	return meta, true, nil
}

// List returns metadata for all stored segments whose id carries the given
// prefix (empty prefix matches everything), ordered by sequence.
func (s *Store) List(prefix string) ([]Metadata, error) {
	paths, err := filepath.Glob(filepath.Join(s.metaDir, "*.json"))
	if err != nil {
		return nil, err
	}

	segments := make([]Metadata, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		var meta Metadata
		if err := json.Unmarshal(data, &meta); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if prefix != "" && !strings.HasPrefix(meta.SegmentID, prefix) {
			continue
		}
		segments = append(segments, meta)
	}

	sort.Slice(segments, func(i, j int) bool {
		if segments[i].Sequence != segments[j].Sequence {
			return segments[i].Sequence < segments[j].Sequence
		}
		return segments[i].SegmentID < segments[j].SegmentID
	})
	return segments, nil
}

func (s *Store) metadataPath(segmentID string) string {
	return filepath.Join(s.metaDir, segmentID+".json")
}
