// Package source implements the buffered, position-tracked character
// stream (C1) that the scanner consumes: encoding detection, rune-level
// peek/advance, and the incremental line table (C8) that backs
// line/column queries during and after a scan.
package source

import (
	"bytes"
	"regexp"
	"unicode/utf8"

	"github.com/gopythonic/pyparse/python/token"
	"github.com/gopythonic/pyparse/python/version"
)

// Reader wraps a decoded source text and its position bookkeeping. It is
// the shared base the scanner advances over; grounded on the
// offset/rdOffset advance mechanics of the teacher's scanner.Scanner.next.
type Reader struct {
	File *token.File
	Src  []byte // decoded source bytes

	ch       rune // current rune, -1 at EOF
	offset   int  // offset of ch
	rdOffset int  // offset immediately after ch
}

const bom = 0xFEFF

// NewReader builds a Reader over already-decoded source text.
func NewReader(filename string, src []byte) *Reader {
	r := &Reader{
		File: token.NewFile(filename, len(src)),
		Src:  src,
	}
	r.ch = ' '
	r.offset = 0
	r.rdOffset = 0
	r.advanceRune()
	if r.ch == bom {
		r.advanceRune()
	}
	return r
}

// advanceRune reads the next rune into r.ch.
func (r *Reader) advanceRune() {
	if r.rdOffset < len(r.Src) {
		r.offset = r.rdOffset
		if r.ch == '\n' {
			r.File.AddLine(r.offset)
		}
		ch, w := rune(r.Src[r.rdOffset]), 1
		if ch >= utf8.RuneSelf {
			ch, w = utf8.DecodeRune(r.Src[r.rdOffset:])
		}
		r.rdOffset += w
		r.ch = ch
	} else {
		r.offset = len(r.Src)
		if r.ch == '\n' {
			r.File.AddLine(r.offset)
		}
		r.ch = -1
	}
}

// Advance consumes and returns the current rune.
func (r *Reader) Advance() rune {
	ch := r.ch
	r.advanceRune()
	return ch
}

// Peek returns the rune k positions ahead without consuming (Peek(0) is
// the current, not-yet-consumed rune).
func (r *Reader) Peek(k int) rune {
	if k == 0 {
		return r.ch
	}
	// Walk forward k runes from the read offset, decoding UTF-8 as needed.
	off := r.rdOffset
	var ch rune = -1
	for i := 0; i < k && off <= len(r.Src); i++ {
		if off >= len(r.Src) {
			ch = -1
			break
		}
		b := rune(r.Src[off])
		w := 1
		if b >= utf8.RuneSelf {
			var decoded rune
			decoded, w = utf8.DecodeRune(r.Src[off:])
			b = decoded
		}
		ch = b
		off += w
	}
	return ch
}

// CurrentIndex reports the byte offset of the rune that Advance would
// next return.
func (r *Reader) CurrentIndex() int { return r.offset }

// AtEOF reports whether the reader has no more runes.
func (r *Reader) AtEOF() bool { return r.ch < 0 }

var codingCookie = regexp.MustCompile(`coding[:=]\s*([-\w.]+)`)

// DetectEncoding implements the encoding-detection chain of spec.md §4.1:
// a UTF BOM, then a PEP 263 coding cookie on line 1 or 2, then a
// version-dependent default (latin-1 for 2.x, utf-8 for 3.x). It returns
// the detected encoding name and the byte offset at which the real
// content starts (past any BOM).
func DetectEncoding(raw []byte, v version.Version) (encodingName string, contentStart int) {
	switch {
	case bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}):
		return "utf-8", 3
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE}):
		return "utf-16le", 2
	case bytes.HasPrefix(raw, []byte{0xFE, 0xFF}):
		return "utf-16be", 2
	}

	if enc, ok := cookieEncoding(raw); ok {
		return enc, 0
	}

	if v.Is2() {
		return "latin-1", 0
	}
	return "utf-8", 0
}

func cookieEncoding(raw []byte) (string, bool) {
	lines := bytes.SplitN(raw, []byte("\n"), 3)
	for i := 0; i < len(lines) && i < 2; i++ {
		if m := codingCookie.FindSubmatch(lines[i]); m != nil {
			return string(m[1]), true
		}
	}
	return "", false
}
