package wstests

import (
	"github.com/lool/ws-contract-tests/lool"
	"github.com/lool/ws-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
)

// Without the option, DocumentHideWhitespace is more than twice this tall.
const maxHeightWithHiddenWhitespace = 20000

func DoRenderingOptionsTests(t *T) {
	t.Run("hide whitespace", func(t *T) {
		t.OpenSession()
		documentURL := t.LoadDocument(DocumentHideWhitespace, servicedef.LoadParams{
			Options: servicedef.RenderingOption(servicedef.RenderingHideWhitespace, true),
		})
		t.Send(lool.StatusCommand())

		status := t.RequireStatus()
		t.Debug("Status of %s: %+v", documentURL, status)
		assert.Equal(t, "text", status.Type)
		assert.Less(t, status.Height, maxHeightWithHiddenWhitespace)
	})
}
