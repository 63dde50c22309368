package persistence

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/Platopotato/TRIBES-sub000/internal/engine"
)

// SnapshotFormat tags snapshot headers.
const SnapshotFormat = "tribes-snapshot/v1"

// SnapshotHeader is the first line of a snapshot file, readable without
// decoding the state.
type SnapshotHeader struct {
	Format  string    `json:"format"`
	Turn    int       `json:"turn"`
	Tribes  int       `json:"tribes"`
	SavedAt time.Time `json:"saved_at"`
}

// ErrBadSnapshot is returned for files that are not snapshots.
var ErrBadSnapshot = errors.New("persistence: not a snapshot file")

// WriteSnapshot writes s as a zstd-compressed header line plus JSON body.
func WriteSnapshot(path string, s *engine.GameState) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)

	hb, err := json.Marshal(SnapshotHeader{
		Format:  SnapshotFormat,
		Turn:    s.Turn,
		Tribes:  len(s.Tribes),
		SavedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode header: %w", err)
	}
	if _, err := bw.Write(append(hb, '\n')); err != nil {
		return err
	}
	if err := json.NewEncoder(bw).Encode(s); err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReadSnapshot decodes a snapshot written by WriteSnapshot.
func ReadSnapshot(path string) (*engine.GameState, error) {
	var s engine.GameState
	_, err := readSnapshot(path, &s)
	if err != nil {
		return nil, err
	}
	for _, t := range s.Tribes {
		t.EnsureMaps()
	}
	return &s, nil
}

// ReadSnapshotHeader returns only the header line.
func ReadSnapshotHeader(path string) (SnapshotHeader, error) {
	return readSnapshot(path, nil)
}

func readSnapshot(path string, into *engine.GameState) (SnapshotHeader, error) {
	var h SnapshotHeader
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("%s: read header: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(line, &h); err != nil || h.Format != SnapshotFormat {
		return h, fmt.Errorf("%s: %w", filepath.Base(path), ErrBadSnapshot)
	}
	if into == nil {
		return h, nil
	}
	if err := json.NewDecoder(br).Decode(into); err != nil {
		return h, fmt.Errorf("%s: decode state: %w", filepath.Base(path), err)
	}
	return h, nil
}

// SnapshotName is the conventional file name for a turn's snapshot.
func SnapshotName(turn int) string {
	return fmt.Sprintf("turn-%05d.json.zst", turn)
}

// SaveSnapshot writes s into dir under its turn's file name and returns
// the path.
func SaveSnapshot(dir string, s *engine.GameState) (string, error) {
	path := filepath.Join(dir, SnapshotName(s.Turn))
	if err := WriteSnapshot(path, s); err != nil {
		return "", fmt.Errorf("snapshot turn %d: %w", s.Turn, err)
	}
	return path, nil
}
