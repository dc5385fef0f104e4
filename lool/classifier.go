package lool

import (
	"bytes"
	"unicode/utf8"
)

const lineTerminator = '\n'

const maxAbbreviatedLength = 120

// FirstLine returns everything in the payload before the first line terminator, or the whole
// payload if there is none.
func FirstLine(payload []byte) string {
	if i := bytes.IndexByte(payload, lineTerminator); i >= 0 {
		return string(payload[:i])
	}
	return string(payload)
}

// AsMessage returns the whole payload as text.
func AsMessage(payload []byte) string {
	return string(payload)
}

// Abbreviate returns a short form of a message for logging: its first line, cut to a
// reasonable length, with "..." if anything was left out.
func Abbreviate(payload []byte) string {
	line := FirstLine(payload)
	if len(line) > maxAbbreviatedLength {
		cut := maxAbbreviatedLength
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		return line[:cut] + "..."
	}
	if len(line) < len(payload) {
		return line + "..."
	}
	return line
}

// Mode selects how a payload is turned into the text that is matched against an expected
// prefix.
type Mode int

const (
	// ModeFirstLine matches against the first line of the payload.
	ModeFirstLine Mode = iota
	// ModeWholeMessage matches against the entire payload.
	ModeWholeMessage
)

func (m Mode) String() string {
	if m == ModeWholeMessage {
		return "whole message"
	}
	return "first line"
}

func (m Mode) classify(payload []byte) string {
	if m == ModeWholeMessage {
		return AsMessage(payload)
	}
	return FirstLine(payload)
}
