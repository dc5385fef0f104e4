package wstests

import (
	"github.com/lool/ws-contract-tests/lool"
	"github.com/lool/ws-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const partChangeRepetitions = 10

func DoImpressPartCountTests(t *T) {
	t.Run("initial part count", func(t *T) {
		t.OpenSession()
		t.RequireLoadedDocument(DocumentInsertDelete)

		t.Send(lool.StatusCommand())
		status := t.RequireStatus()
		assert.Equal(t, "presentation", status.Type)
		assert.Equal(t, 1, status.Parts)
	})

	t.Run("part count changes", func(t *T) {
		t.RequireCapability(CapabilityPartsCountChanged)
		t.OpenSession()
		t.RequireLoadedDocument(DocumentInsertDelete)

		steps := []struct {
			unoAction      string
			expectedAction string
		}{
			{servicedef.UnoInsertPage, servicedef.PartInserted},
			{servicedef.UnoDeletePage, servicedef.PartDeleted},
			{servicedef.UnoUndo, servicedef.PartInserted},
			{servicedef.UnoRedo, servicedef.PartDeleted},
		}
		for _, step := range steps {
			for i := 0; i < partChangeRepetitions; i++ {
				t.Send(lool.UnoCommand(step.unoAction))
				change := t.RequirePartsCountChanged()
				require.Equal(t, step.expectedAction, change.Action,
					"unexpected action after %s #%d: %s", step.unoAction, i+1, change.Body.JSONString())
			}
		}
	})
}
