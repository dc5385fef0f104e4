package wstests

import (
	"github.com/lool/ws-contract-tests/lool"
	"github.com/lool/ws-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
)

func DoPasteTests(t *T) {
	t.Run("plain text replaces selection", func(t *T) {
		t.OpenSession()
		t.RequireLoadedDocument(DocumentHello)

		t.Send(lool.UnoCommand(servicedef.UnoSelectAll))
		t.Send(lool.UnoCommand(servicedef.UnoDelete))

		text := "aaa bbb ccc"
		t.Send(lool.PasteCommand(servicedef.MimeTypeTextPlainUTF8, text))
		t.Send(lool.UnoCommand(servicedef.UnoSelectAll))
		t.Send(lool.GetTextSelectionCommand(servicedef.MimeTypeTextPlainUTF8))

		assert.Equal(t, text, t.RequireTextSelection())
	})

	t.Run("large paste does not break the session", func(t *T) {
		t.OpenSession()
		t.RequireLoadedDocument(DocumentHello)

		t.Send(lool.UnoCommand(servicedef.UnoSelectAll))
		t.Send(lool.UnoCommand(servicedef.UnoDelete))

		data := t.ReadDocument(DocumentHello)
		t.Debug("Pasting %d bytes", len(data))
		t.Send(lool.PasteCommand(servicedef.MimeTypeTextHTML, string(data)))

		// Any reply shows that the service survived the paste.
		t.Send(lool.UnoCommand(servicedef.UnoSelectAll))
		t.Send(lool.GetTextSelectionCommand(servicedef.MimeTypeTextPlainUTF8))
		t.RequireTextSelection()
	})
}
