package wstests

import (
	"github.com/lool/ws-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func DoPasswordProtectedDocumentTests(t *T) {
	t.Run("without password", func(t *T) {
		t.OpenSession()
		t.LoadDocument(DocumentPasswordProtected, servicedef.LoadParams{})

		errorInfo := t.RequireError()
		assert.Equal(t, servicedef.CommandLoad, errorInfo.Cmd)
		assert.Equal(t, servicedef.ErrorKindPasswordRequiredToView, errorInfo.Kind)
	})

	t.Run("wrong password", func(t *T) {
		t.OpenSession()
		t.LoadDocument(DocumentPasswordProtected, servicedef.LoadParams{
			Password: ldvalue.NewOptionalString("2"),
		})

		errorInfo := t.RequireError()
		assert.Equal(t, servicedef.CommandLoad, errorInfo.Cmd)
		assert.Equal(t, servicedef.ErrorKindWrongPassword, errorInfo.Kind)
	})

	// The second load of the same document with the correct password must succeed too.
	for _, name := range []string{"correct password", "correct password again"} {
		t.Run(name, func(t *T) {
			t.OpenSession()
			documentURL := t.LoadDocument(DocumentPasswordProtected, servicedef.LoadParams{
				Password: ldvalue.NewOptionalString(DocumentPassword),
			})
			t.RequireDocumentLoaded(documentURL)
		})
	}
}
