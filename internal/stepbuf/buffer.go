// Package stepbuf implements a fixed-capacity ring that exposes the last N
// bytes pushed into it. It lets a streaming writer hold back the tail of a
// stream until the stream end is known, without retaining the whole stream.
package stepbuf

// Buffer keeps the most recent Cap() pushed bytes.
type Buffer struct {
	data   []byte
	next   int   // position the next byte is written to
	pushed int64 // total bytes ever pushed
}

// New returns a Buffer holding at most capacity bytes. capacity must be positive.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		panic("stepbuf: capacity must be positive")
	}
	return &Buffer{data: make([]byte, capacity)}
}

// Push appends b, overwriting the oldest held byte once the ring has wrapped.
func (b *Buffer) Push(v byte) {
	b.data[b.next] = v
	b.next++
	if b.next == len(b.data) {
		b.next = 0
	}
	b.pushed++
}

// Len returns the number of bytes currently held: min(pushed, capacity).
func (b *Buffer) Len() int {
	if b.pushed < int64(len(b.data)) {
		return int(b.pushed)
	}
	return len(b.data)
}

// Cap returns the ring capacity.
func (b *Buffer) Cap() int { return len(b.data) }

// Pushed returns the total number of bytes pushed since creation or Reset.
func (b *Buffer) Pushed() int64 { return b.pushed }

// GetSpan returns the held bytes in push order, oldest first.
func (b *Buffer) GetSpan() []byte {
	return b.AppendSpan(make([]byte, 0, b.Len()))
}

// AppendSpan appends the held bytes in push order to dst.
func (b *Buffer) AppendSpan(dst []byte) []byte {
	if b.pushed < int64(len(b.data)) {
		return append(dst, b.data[:b.next]...)
	}
	dst = append(dst, b.data[b.next:]...)
	return append(dst, b.data[:b.next]...)
}

// Reset empties the buffer without releasing its storage.
func (b *Buffer) Reset() {
	b.next = 0
	b.pushed = 0
}
