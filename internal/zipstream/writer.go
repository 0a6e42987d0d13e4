// Package zipstream writes ZIP archives to a forward-only stream on top of
// klauspost/compress/zip. Every file member is framed with a local header,
// its data and a data descriptor. The header is created lazily with the
// first data byte and the last bytes of a member are held back until its
// size checks out. A failed member aborts the archive: completed members keep
// their data descriptors, the held-back tail of the failed member is dropped,
// and no central directory is written.
package zipstream

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/dmitrijs2005/filedrop/internal/common"
	"github.com/dmitrijs2005/filedrop/internal/stepbuf"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// Method is a ZIP compression method.
type Method uint16

const (
	Store   Method = 0
	Deflate Method = 8
)

// ParseMethod maps "store" and "deflate" to a Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(s) {
	case "", "store":
		return Store, nil
	case "deflate":
		return Deflate, nil
	default:
		return 0, fmt.Errorf("unknown compression method %q", s)
	}
}

// State is the position of the writer in its per-archive state machine.
type State int

const (
	Idle State = iota
	WritingLocalHeader
	StreamingData
	WritingDataDescriptor
	Done
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case WritingLocalHeader:
		return "writing_local_header"
	case StreamingData:
		return "streaming_data"
	case WritingDataDescriptor:
		return "writing_data_descriptor"
	case Done:
		return "done"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// DefaultHoldback is the number of trailing member bytes kept back until the
// member size has been verified.
const DefaultHoldback = 4096

var (
	ErrAborted       = errors.New("archive aborted")
	ErrClosed        = errors.New("archive already closed")
	ErrDuplicateName = errors.New("duplicate archive entry name")
	ErrInvalidName   = errors.New("invalid archive entry name")
)

// FileHeader describes a file member.
type FileHeader struct {
	Name string
	// Size is the expected uncompressed size, or -1 when unknown.
	Size     int64
	Modified time.Time
}

type Option func(*Writer)

// WithMethod sets the compression method of file members.
func WithMethod(m Method) Option {
	return func(w *Writer) { w.method = m }
}

// WithHoldback sets how many trailing bytes of a member are held back.
func WithHoldback(n int) Option {
	return func(w *Writer) {
		if n > 0 {
			w.holdback = n
		}
	}
}

// WithLevel sets the deflate compression level.
func WithLevel(level int) Option {
	return func(w *Writer) { w.level = level }
}

// Writer streams one archive. It is not safe for concurrent use.
type Writer struct {
	cw       *cutWriter
	zw       *zip.Writer
	method   Method
	level    int
	holdback int

	names   map[string]struct{}
	entries int
	def     deflater

	// pending is the last finished file member while its data descriptor
	// still waits in the zip writer for the next header or Close.
	pending *member

	state State
	err   error
}

func NewWriter(w io.Writer, opts ...Option) *Writer {
	z := &Writer{
		cw:       &cutWriter{w: w, limit: -1},
		method:   Store,
		level:    flate.DefaultCompression,
		holdback: DefaultHoldback,
		names:    make(map[string]struct{}),
	}
	for _, o := range opts {
		o(z)
	}
	z.zw = zip.NewWriter(z.cw)
	z.zw.RegisterCompressor(zip.Deflate, z.newDeflater)
	return z
}

// State returns the current state.
func (z *Writer) State() State { return z.state }

// Err returns the error that aborted the archive, if any.
func (z *Writer) Err() error { return z.err }

// Written returns the number of archive bytes emitted so far.
func (z *Writer) Written() int64 { return z.cw.n }

// Entries returns the number of members written so far.
func (z *Writer) Entries() int { return z.entries }

func (z *Writer) ready() error {
	switch z.state {
	case Aborted:
		return fmt.Errorf("%w: %w", ErrAborted, z.err)
	case Done:
		return ErrClosed
	}
	return nil
}

// Abort moves the archive to the Aborted state. Later calls fail. Bytes
// already handed to the archive are flushed, and a finished member whose
// data descriptor is still pending gets it. The central directory is never
// written.
func (z *Writer) Abort(err error) error {
	if z.state == Aborted {
		return err
	}
	z.state = Aborted
	z.err = err

	if z.zw.Flush() != nil {
		return err
	}
	if m := z.pending; m != nil {
		// Close emits the pending descriptor first; the cut drops the
		// central directory that follows it.
		z.cw.limit = z.cw.n + m.descriptorLen()
		_ = z.zw.Close()
		z.pending = nil
	}
	return err
}

func (z *Writer) register(name string) error {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "\\") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	for _, part := range strings.Split(strings.TrimSuffix(name, "/"), "/") {
		if part == "" || part == "." || part == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	if _, ok := z.names[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	z.names[name] = struct{}{}
	return nil
}

// AddDirectory writes a directory entry. A trailing slash is added if missing.
func (z *Writer) AddDirectory(name string, modified time.Time) error {
	if err := z.ready(); err != nil {
		return err
	}
	if !strings.HasSuffix(name, "/") {
		name += "/"
	}
	if err := z.register(name); err != nil {
		return err
	}

	fh := &zip.FileHeader{Name: name, Method: zip.Store, Modified: clampModified(modified)}
	fh.SetMode(fs.ModeDir | 0o755)

	z.state = WritingLocalHeader
	if _, err := z.zw.CreateHeader(fh); err != nil {
		return z.Abort(err)
	}
	z.pending = nil
	if err := z.zw.Flush(); err != nil {
		return z.Abort(err)
	}
	z.entries++
	z.state = Idle
	return nil
}

// AddFile writes one file member whose bytes fill writes into the given
// writer. The local header goes out with the first data byte, so a fill that
// fails before writing anything leaves no trace of the member. Any error
// aborts the archive and is returned unchanged.
func (z *Writer) AddFile(hdr FileHeader, fill func(w io.Writer) error) error {
	if err := z.ready(); err != nil {
		return err
	}
	if err := z.register(hdr.Name); err != nil {
		return err
	}

	m := &member{z: z, name: hdr.Name, modified: hdr.Modified, expected: hdr.Size}
	if err := fill(m); err != nil {
		return z.Abort(err)
	}
	if err := m.finish(); err != nil {
		return z.Abort(err)
	}

	z.pending = m
	z.entries++
	z.state = Idle
	return nil
}

// Close writes the pending data descriptor, the central directory and the
// end records. It does not close the underlying writer.
func (z *Writer) Close() error {
	if err := z.ready(); err != nil {
		return err
	}
	if err := z.zw.Close(); err != nil {
		return z.Abort(err)
	}
	z.pending = nil
	z.state = Done
	return nil
}

// clampModified maps times the MS-DOS fields cannot hold to 1980-01-01.
func clampModified(t time.Time) time.Time {
	if t.IsZero() || t.Year() >= 1980 {
		return t
	}
	return time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)
}

// member is the io.Writer handed to AddFile callers. Bytes flow through the
// size check, then the holdback ring, then the zip entry writer.
type member struct {
	z        *Writer
	name     string
	modified time.Time
	method   Method
	expected int64

	started bool
	n       int64
	hold    *stepbuf.HoldbackWriter
}

func (m *member) start() error {
	z := m.z
	z.state = WritingLocalHeader

	m.method = z.method
	fh := &zip.FileHeader{Name: m.name, Method: uint16(m.method), Modified: clampModified(m.modified)}
	fh.SetMode(0o644)

	// CreateHeader closes the previous member, which writes its descriptor.
	w, err := z.zw.CreateHeader(fh)
	if err != nil {
		return err
	}
	z.pending = nil

	m.hold = stepbuf.NewHoldbackWriter(w, z.holdback)
	m.started = true
	z.state = StreamingData
	return nil
}

func (m *member) Write(p []byte) (int, error) {
	if m.z.state == Aborted {
		return 0, ErrAborted
	}
	if len(p) == 0 {
		return 0, nil
	}
	if m.expected >= 0 && m.n+int64(len(p)) > m.expected {
		return 0, fmt.Errorf("%w: %s: more than %d bytes", common.ErrMemberSizeMismatch, m.name, m.expected)
	}
	if !m.started {
		if err := m.start(); err != nil {
			return 0, err
		}
	}

	m.n += int64(len(p))
	return m.hold.Write(p)
}

func (m *member) finish() error {
	if m.expected >= 0 && m.n != m.expected {
		return fmt.Errorf("%w: %s: got %d of %d bytes", common.ErrMemberSizeMismatch, m.name, m.n, m.expected)
	}
	if !m.started {
		if err := m.start(); err != nil {
			return err
		}
	}

	z := m.z
	z.state = WritingDataDescriptor
	if err := m.hold.Release(); err != nil {
		return err
	}
	if m.method == Deflate {
		if err := z.def.Close(); err != nil {
			return err
		}
	}
	return z.zw.Flush()
}

// descriptorLen is the size of the data descriptor the zip writer emits
// for m: sizes widen to 8 bytes once either reaches 4 GiB.
func (m *member) descriptorLen() int64 {
	comp := m.n
	if m.method == Deflate {
		comp = m.z.def.out.n
	}
	if m.n >= uint32max || comp >= uint32max {
		return 24
	}
	return 16
}

const uint32max = 1<<32 - 1

// deflater is the shared deflate stream of file members. Close is
// idempotent so a member can flush its compressed tail before the zip
// writer closes the entry.
type deflater struct {
	fw     *flate.Writer
	out    countWriter
	closed bool
}

func (z *Writer) newDeflater(out io.Writer) (io.WriteCloser, error) {
	d := &z.def
	d.out = countWriter{w: out}
	d.closed = false
	if d.fw == nil {
		fw, err := flate.NewWriter(&d.out, z.level)
		if err != nil {
			return nil, err
		}
		d.fw = fw
	} else {
		d.fw.Reset(&d.out)
	}
	return d, nil
}

func (d *deflater) Write(p []byte) (int, error) { return d.fw.Write(p) }

func (d *deflater) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return d.fw.Close()
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// cutWriter counts the bytes that reach w. Once limit is set (>= 0) bytes
// past it are dropped.
type cutWriter struct {
	w     io.Writer
	n     int64
	limit int64
}

func (c *cutWriter) Write(p []byte) (int, error) {
	q := p
	if c.limit >= 0 && c.n+int64(len(q)) > c.limit {
		q = q[:max(c.limit-c.n, 0)]
	}
	n, err := c.w.Write(q)
	c.n += int64(n)
	if err != nil {
		return n, err
	}
	return len(p), nil
}
