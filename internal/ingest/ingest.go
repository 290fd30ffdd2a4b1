// Package ingest reads game result exports (JSON arrays or JSON Lines,
// optionally zstd-compressed) into games.Record values. Every object is
// checked against an embedded JSON Schema; bad objects are reported and
// skipped, the rest of the file still loads.
package ingest

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/happykids/kidsdiag/internal/games"
)

//go:embed record.schema.json
var recordSchema []byte

const schemaURL = "https://kidsdiag.local/schema/game-result.json"

// maxLine bounds a single JSONL record.
const maxLine = 4 << 20

// ValidationError describes one rejected object.
type ValidationError struct {
	Source string // file name or "-"
	Line   int    // JSONL line or 1-based array position
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Result is the outcome of reading one export.
type Result struct {
	Records []games.Record
	Errors  []*ValidationError
}

// Options control conversion.
type Options struct {
	// ChildID is assigned to records without a child_id. Records naming a
	// different child are rejected.
	ChildID string
}

// Reader converts exports. It is safe for concurrent use.
type Reader struct {
	schema *jsonschema.Schema
	opts   Options
}

// NewReader compiles the record schema.
func NewReader(opts Options) (*Reader, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(recordSchema))
	if err != nil {
		return nil, fmt.Errorf("parse record schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add record schema: %w", err)
	}
	s, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile record schema: %w", err)
	}
	return &Reader{schema: s, opts: opts}, nil
}

// ReadFile reads an export from disk. Names ending in .zst are
// decompressed first.
func (r *Reader) ReadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	var src io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open zstd export: %w", err)
		}
		defer dec.Close()
		src = dec
	}
	return r.Read(src, path)
}

// Read parses src. The format is sniffed from the first non-blank byte: an
// opening bracket means a JSON array, anything else JSON Lines. Only I/O
// and framing problems are returned as errors.
func (r *Reader) Read(src io.Reader, name string) (*Result, error) {
	br := bufio.NewReader(src)
	first, err := peekNonSpace(br)
	if errors.Is(err, io.EOF) {
		return &Result{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if first == '[' {
		return r.readArray(br, name)
	}
	return r.readLines(br, name)
}

func (r *Reader) readArray(src io.Reader, name string) (*Result, error) {
	dec := json.NewDecoder(src)
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	res := &Result{}
	for pos := 1; dec.More(); pos++ {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("read %s: element %d: %w", name, pos, err)
		}
		r.add(res, raw, name, pos)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return res, nil
}

func (r *Reader) readLines(src io.Reader, name string) (*Result, error) {
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 64<<10), maxLine)
	res := &Result{}
	for line := 1; sc.Scan(); line++ {
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 || text[0] == '#' {
			continue
		}
		r.add(res, append([]byte(nil), text...), name, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return res, nil
}

func (r *Reader) add(res *Result, raw []byte, name string, pos int) {
	rec, err := r.Convert(raw)
	if err != nil {
		res.Errors = append(res.Errors, &ValidationError{Source: name, Line: pos, Err: err})
		return
	}
	res.Records = append(res.Records, rec)
}

// Convert validates one exported object and converts it.
func (r *Reader) Convert(raw []byte) (games.Record, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return games.Record{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := r.schema.Validate(doc); err != nil {
		return games.Record{}, err
	}

	var w wireRecord
	if err := json.Unmarshal(raw, &w); err != nil {
		return games.Record{}, fmt.Errorf("decode record: %w", err)
	}
	rec, err := w.record(raw)
	if err != nil {
		return games.Record{}, err
	}

	switch {
	case rec.ChildID == "":
		rec.ChildID = r.opts.ChildID
	case r.opts.ChildID != "" && rec.ChildID != r.opts.ChildID:
		return games.Record{}, fmt.Errorf("record belongs to child %q, importing for %q", rec.ChildID, r.opts.ChildID)
	}
	if rec.ChildID == "" {
		return games.Record{}, fmt.Errorf("record has no child_id")
	}
	if rec.ID == "" {
		rec.ID = contentID(rec.ChildID, raw)
	}
	return rec, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case 0xEF, 0xBB, 0xBF: // UTF-8 byte order mark
			continue
		}
		return b, br.UnreadByte()
	}
}
