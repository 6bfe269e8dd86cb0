package textstream

import "unicode/utf8"

// Decoder turns a chunked byte stream into text. UTF-8 sequences split across
// chunk boundaries are carried over and completed by the next Feed call, and
// NUL bytes (the relay's keep-alive filler) are discarded.
type Decoder struct {
	buf []byte
}

func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends a chunk and returns every complete rune decoded so far. Bytes
// forming an incomplete trailing sequence are held until the next call.
func (d *Decoder) Feed(p []byte) string {
	for _, b := range p {
		if b == 0x00 {
			continue
		}
		d.buf = append(d.buf, b)
	}

	cut := len(d.buf)
	// Only the last rune can be incomplete, so scan back at most UTFMax bytes
	// for its start byte.
	for i := len(d.buf) - 1; i >= 0 && len(d.buf)-i < utf8.UTFMax; i-- {
		if utf8.RuneStart(d.buf[i]) {
			if !utf8.FullRune(d.buf[i:]) {
				cut = i
			}
			break
		}
	}

	out := string(d.buf[:cut])
	d.buf = append(d.buf[:0], d.buf[cut:]...)
	return out
}

// Flush returns whatever is still buffered, decoded leniently. Called once
// the stream has ended, when no continuation bytes can arrive anymore.
func (d *Decoder) Flush() string {
	out := string(d.buf)
	d.buf = d.buf[:0]
	return out
}
