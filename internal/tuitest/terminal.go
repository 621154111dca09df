package tuitest

import (
	"bytes"
	"io"
)

// queries are the status requests the program sends at startup, each with
// a canned answer: cursor position, then foreground and background color in
// both OSC terminators.
var queries = []struct {
	ask    []byte
	answer []byte
}{
	{[]byte("\x1b[6n"), []byte("\x1b[1;1R")},
	{[]byte("\x1b]10;?\x07"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{[]byte("\x1b]10;?\x1b\\"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{[]byte("\x1b]11;?\x07"), []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{[]byte("\x1b]11;?\x1b\\"), []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
}

// terminalResponder answers queries seen in the output stream, standing in
// for a real terminal emulator.
type terminalResponder struct {
	w   io.Writer
	buf []byte
}

func newTerminalResponder(w io.Writer) *terminalResponder {
	return &terminalResponder{w: w, buf: make([]byte, 0, 128)}
}

func (tr *terminalResponder) Process(chunk []byte) {
	tr.buf = append(tr.buf, chunk...)
	for tr.answerOne() {
	}
	// Keep a tail for queries split across reads.
	if len(tr.buf) > 256 {
		tr.buf = tr.buf[len(tr.buf)-64:]
	}
}

// answerOne replies to the earliest pending query and drops everything up
// to its end.
func (tr *terminalResponder) answerOne() bool {
	first, end := -1, 0
	var answer []byte
	for _, q := range queries {
		idx := bytes.Index(tr.buf, q.ask)
		if idx < 0 || (first >= 0 && idx >= first) {
			continue
		}
		first, end, answer = idx, idx+len(q.ask), q.answer
	}
	if first < 0 {
		return false
	}
	tr.buf = tr.buf[end:]
	_, _ = tr.w.Write(answer)
	return true
}
