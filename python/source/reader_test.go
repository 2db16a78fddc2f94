package source

import (
	"testing"

	"github.com/gopythonic/pyparse/python/version"
)

func TestReaderAdvanceAndPeek(t *testing.T) {
	r := NewReader("t.py", []byte("ab"))
	if r.Peek(0) != 'a' {
		t.Fatalf("Peek(0) = %q; want 'a'", r.Peek(0))
	}
	if r.Peek(1) != 'b' {
		t.Fatalf("Peek(1) = %q; want 'b'", r.Peek(1))
	}
	if got := r.Advance(); got != 'a' {
		t.Errorf("Advance() = %q; want 'a'", got)
	}
	if got := r.Advance(); got != 'b' {
		t.Errorf("Advance() = %q; want 'b'", got)
	}
	if !r.AtEOF() {
		t.Errorf("expected AtEOF after consuming all runes")
	}
}

func TestReaderStripsLeadingBOM(t *testing.T) {
	src := append([]byte{0xEF, 0xBB, 0xBF}, []byte("x")...)
	r := NewReader("t.py", src)
	if r.Peek(0) != 'x' {
		t.Errorf("Peek(0) after BOM = %q; want 'x'", r.Peek(0))
	}
}

func TestReaderCurrentIndexTracksOffset(t *testing.T) {
	r := NewReader("t.py", []byte("abc"))
	if r.CurrentIndex() != 0 {
		t.Fatalf("CurrentIndex() = %d; want 0", r.CurrentIndex())
	}
	r.Advance()
	if r.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() after one Advance = %d; want 1", r.CurrentIndex())
	}
}

func TestDetectEncodingBOM(t *testing.T) {
	enc, start := DetectEncoding([]byte{0xEF, 0xBB, 0xBF, 'x'}, version.V38)
	if enc != "utf-8" || start != 3 {
		t.Errorf("DetectEncoding(utf-8 BOM) = %q, %d; want utf-8, 3", enc, start)
	}
}

func TestDetectEncodingCodingCookie(t *testing.T) {
	enc, start := DetectEncoding([]byte("# -*- coding: latin-1 -*-\nx = 1\n"), version.V27)
	if enc != "latin-1" || start != 0 {
		t.Errorf("DetectEncoding(cookie) = %q, %d; want latin-1, 0", enc, start)
	}
}

func TestDetectEncodingCookieOnSecondLineOnly(t *testing.T) {
	enc, _ := DetectEncoding([]byte("#!/usr/bin/env python\n# coding: utf-8\nx = 1\n"), version.V27)
	if enc != "utf-8" {
		t.Errorf("DetectEncoding should find a cookie on line 2, got %q", enc)
	}
}

func TestDetectEncodingDefaultsByVersion(t *testing.T) {
	enc2, _ := DetectEncoding([]byte("x = 1\n"), version.V27)
	if enc2 != "latin-1" {
		t.Errorf("2.x default encoding = %q; want latin-1", enc2)
	}
	enc3, _ := DetectEncoding([]byte("x = 1\n"), version.V38)
	if enc3 != "utf-8" {
		t.Errorf("3.x default encoding = %q; want utf-8", enc3)
	}
}

func TestReaderTracksLineTableViaFile(t *testing.T) {
	r := NewReader("t.py", []byte("ab\ncd\n"))
	for !r.AtEOF() {
		r.Advance()
	}
	if r.File.LineCount() < 2 {
		t.Errorf("File.LineCount() = %d; want at least 2 after scanning two newlines", r.File.LineCount())
	}
}
