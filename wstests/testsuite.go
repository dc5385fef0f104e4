package wstests

import (
	"github.com/lool/ws-contract-tests/framework"
)

func RunTestSuite(
	harness *framework.TestHarness,
	config SuiteConfig,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	env := &environment{harness: harness, config: config}

	return framework.Run(filter, testLogger, func(c *framework.Context) {
		t := newTestScope(c, env)
		t.Run("paste", DoPasteTests)
		t.Run("rendering options", DoRenderingOptionsTests)
		t.Run("password protected document", DoPasswordProtectedDocumentTests)
		t.Run("impress part count", DoImpressPartCountTests)
	})
}
