package stepbuf

import "io"

// HoldbackWriter forwards everything written to it except the last Cap()
// bytes, which stay in the ring until Release. A stream that is abandoned
// before Release never emits its tail.
type HoldbackWriter struct {
	w     io.Writer
	ring  *Buffer
	span  []byte
	total int64
}

// NewHoldbackWriter wraps w, holding back the final capacity bytes.
func NewHoldbackWriter(w io.Writer, capacity int) *HoldbackWriter {
	return &HoldbackWriter{
		w:    w,
		ring: New(capacity),
		span: make([]byte, 0, capacity),
	}
}

// Write emits the bytes that fall out of the held tail and keeps the rest.
func (h *HoldbackWriter) Write(p []byte) (int, error) {
	held := h.ring.Len()
	excess := held + len(p) - h.ring.Cap()

	if excess > 0 {
		h.span = h.ring.AppendSpan(h.span[:0])
		fromHeld := min(excess, held)
		if _, err := h.w.Write(h.span[:fromHeld]); err != nil {
			return 0, err
		}
		if fromP := excess - fromHeld; fromP > 0 {
			if _, err := h.w.Write(p[:fromP]); err != nil {
				return 0, err
			}
			// Held bytes are all gone; restart the ring from what is left of p.
			h.ring.Reset()
			for _, v := range p[fromP:] {
				h.ring.Push(v)
			}
			h.total += int64(len(p))
			return len(p), nil
		}
	}

	for _, v := range p {
		h.ring.Push(v)
	}
	h.total += int64(len(p))
	return len(p), nil
}

// Written returns the number of bytes accepted so far, held ones included.
func (h *HoldbackWriter) Written() int64 { return h.total }

// Held returns a copy of the bytes currently held back.
func (h *HoldbackWriter) Held() []byte { return h.ring.GetSpan() }

// Release writes the held tail to the underlying writer.
func (h *HoldbackWriter) Release() error {
	h.span = h.ring.AppendSpan(h.span[:0])
	h.ring.Reset()
	if len(h.span) == 0 {
		return nil
	}
	_, err := h.w.Write(h.span)
	return err
}
