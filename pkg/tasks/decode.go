package tasks

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies a snapshot document encoding.
type Format string

// Supported snapshot formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	// ErrUnknownFormat is returned for file extensions that are neither JSON nor YAML.
	ErrUnknownFormat = errors.New("unknown snapshot format")

	// ErrEmptyDocument is returned when the input holds no document at all.
	// A mission without tasks is written as "tasks: []" and is not empty.
	ErrEmptyDocument = errors.New("empty snapshot document")
)

// FormatForPath picks the format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// ReadSnapshotFile decodes a snapshot from a .json, .yaml or .yml file.
func ReadSnapshotFile(path string) (Snapshot, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return Snapshot{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return decode(f, format)
}

// ReadSnapshot decodes a snapshot from r. A document whose first non-space
// byte is '{' is read as JSON, anything else as YAML.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	br := bufio.NewReader(r)
	format := FormatYAML
	for n := 1; n <= br.Size(); n++ {
		b, err := br.Peek(n)
		if len(b) < n || err != nil {
			break
		}
		c := b[n-1]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			continue
		}
		if c == '{' {
			format = FormatJSON
		}
		break
	}
	return decode(br, format)
}

// WriteSnapshotFile encodes s to path using the format implied by its
// extension. The document is written to a temporary file in the same
// directory and renamed over path, so readers see either the old or the new
// document.
func WriteSnapshotFile(s Snapshot, path string) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := WriteSnapshot(s, tmp, format); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// WriteSnapshot encodes s to w in the given format.
func WriteSnapshot(s Snapshot, w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func decode(r io.Reader, format Format) (Snapshot, error) {
	var (
		s   Snapshot
		err error
	)
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&s)
	default:
		err = yaml.NewDecoder(r).Decode(&s)
	}
	if errors.Is(err, io.EOF) {
		return Snapshot{}, ErrEmptyDocument
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("decode: %w", err)
	}
	return s, nil
}
