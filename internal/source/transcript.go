package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// TranscriptAccept mirrors the file picker's accept list.
const TranscriptAccept = ".txt,.doc,.docx,.pdf"

var transcriptPattern = "*.{txt,doc,docx,pdf}"

// Transcript is a selected transcript file held in memory.
type Transcript struct {
	Name string
	Data []byte
}

// OpenTranscript reads the file at path into a Transcript named after its base name.
func OpenTranscript(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading transcript %s: %w", path, err)
	}
	return &Transcript{Name: filepath.Base(path), Data: data}, nil
}

// Equal reports whether two selections refer to the same file contents.
// Two nil selections are equal.
func (t *Transcript) Equal(other *Transcript) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.Name == other.Name && bytes.Equal(t.Data, other.Data)
}

// Size returns the content length in bytes.
func (t *Transcript) Size() int {
	if t == nil {
		return 0
	}
	return len(t.Data)
}

// AcceptsTranscript reports whether name passes the picker's extension
// filter. The check is advisory; contents are never inspected.
func AcceptsTranscript(name string) bool {
	ok, err := doublestar.Match(transcriptPattern, strings.ToLower(filepath.Base(name)))
	return err == nil && ok
}
