package lool

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "status: type=text", FirstLine([]byte("status: type=text")))
	assert.Equal(t, "partscountchanged: {", FirstLine([]byte("partscountchanged: {\n\"action\":\"PartInserted\"\n}")))
	assert.Equal(t, "", FirstLine([]byte("\nrest")))
	assert.Equal(t, "", FirstLine(nil))
}

func TestAsMessage(t *testing.T) {
	payload := "partscountchanged: {\n\"action\":\"PartInserted\"\n}"
	assert.Equal(t, payload, AsMessage([]byte(payload)))
}

func TestAbbreviate(t *testing.T) {
	t.Run("short single line is unchanged", func(t *testing.T) {
		assert.Equal(t, "status: type=text", Abbreviate([]byte("status: type=text")))
	})

	t.Run("additional lines are elided", func(t *testing.T) {
		assert.Equal(t, "paste mimetype=text/html...", Abbreviate([]byte("paste mimetype=text/html\n<html>")))
	})

	t.Run("long line is truncated", func(t *testing.T) {
		line := strings.Repeat("x", 500)
		assert.Equal(t, strings.Repeat("x", maxAbbreviatedLength)+"...", Abbreviate([]byte(line)))
	})

	t.Run("truncation does not split a character", func(t *testing.T) {
		line := strings.Repeat("x", maxAbbreviatedLength-1) + "é"
		abbreviated := Abbreviate([]byte(line + "tail"))
		assert.Equal(t, strings.Repeat("x", maxAbbreviatedLength-1)+"...", abbreviated)
	})
}

func TestModeClassify(t *testing.T) {
	payload := []byte("a\nb")
	assert.Equal(t, "a", ModeFirstLine.classify(payload))
	assert.Equal(t, "a\nb", ModeWholeMessage.classify(payload))
	assert.Equal(t, "first line", ModeFirstLine.String())
	assert.Equal(t, "whole message", ModeWholeMessage.String())
}
