package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/coral/pkg/collatz"
	errs "github.com/matzehuels/coral/pkg/errors"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a collatz.Graph to indented JSON bytes.
func MarshalGraph(g collatz.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalGraph decodes JSON bytes into a collatz.Graph.
func UnmarshalGraph(data []byte) (collatz.Graph, error) {
	return ReadGraph(bytes.NewReader(data))
}

// WriteGraph writes g as JSON to w.
func WriteGraph(g collatz.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromCollatz(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadGraph decodes a JSON graph from r.
func ReadGraph(r io.Reader) (collatz.Graph, error) {
	var d Graph
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode graph")
	}
	return ToCollatz(d)
}

// WriteGraphFile writes g to a JSON file.
func WriteGraphFile(g collatz.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// ReadGraphFile reads a JSON graph file.
func ReadGraphFile(path string) (collatz.Graph, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadGraph(f)
}

// =============================================================================
// Coral Serialization API
// =============================================================================

// FormatFromPath infers the encoding from a file extension. Anything other
// than .msgpack or .mp is treated as JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mp":
		return FormatMsgpack
	default:
		return FormatJSON
	}
}

// MarshalCoral encodes d in the given format.
func MarshalCoral(d Coral, format string) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCoral(&buf, d, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalCoral decodes and validates a document in the given format.
func UnmarshalCoral(data []byte, format string) (Coral, error) {
	return ReadCoral(bytes.NewReader(data), format)
}

// WriteCoral writes d to w. JSON output is compact.
func WriteCoral(w io.Writer, d Coral, format string) error {
	var err error
	switch format {
	case FormatJSON:
		err = json.NewEncoder(w).Encode(d)
	case FormatMsgpack:
		err = msgpack.NewEncoder(w).Encode(d)
	default:
		return errs.ValidateOneOf(errs.ErrCodeInvalidFormat, "encoding", format, Formats)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

// ReadCoral decodes a document from r and validates it.
func ReadCoral(r io.Reader, format string) (Coral, error) {
	var (
		d   Coral
		err error
	)
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&d)
	case FormatMsgpack:
		err = msgpack.NewDecoder(r).Decode(&d)
	default:
		return Coral{}, errs.ValidateOneOf(errs.ErrCodeInvalidFormat, "encoding", format, Formats)
	}
	if err != nil {
		return Coral{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode %s", format)
	}
	if err := d.Validate(); err != nil {
		return Coral{}, err
	}
	return d, nil
}

// WriteCoralFile writes d to path, choosing the encoding from the extension.
func WriteCoralFile(d Coral, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCoral(f, d, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadCoralFile reads a document, choosing the encoding from the extension.
func ReadCoralFile(path string) (Coral, error) {
	f, err := openFile(path)
	if err != nil {
		return Coral{}, err
	}
	defer f.Close()
	return ReadCoral(f, FormatFromPath(path))
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
