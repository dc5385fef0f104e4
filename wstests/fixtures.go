package wstests

import (
	"net/url"
	"os"
	"path/filepath"

	"github.com/stretchr/testify/require"
)

// Test documents that are expected to exist in the fixtures directory.
const (
	DocumentHello             = "hello.odt"
	DocumentHideWhitespace    = "hide-whitespace.odt"
	DocumentPasswordProtected = "password-protected.ods"
	DocumentInsertDelete      = "insert-delete.odp"
)

// DocumentPassword is the password of DocumentPasswordProtected.
const DocumentPassword = "1"

// FixtureURL returns the file URL of a document in dir. The service loads documents by URL,
// so the path must be absolute.
func FixtureURL(dir, name string) (string, error) {
	path, err := filepath.Abs(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String(), nil
}

// DocumentURL returns the file URL of a test document.
func (t *T) DocumentURL(name string) string {
	documentURL, err := FixtureURL(t.env.config.FixturesDir, name)
	require.NoError(t, err)
	return documentURL
}

// ReadDocument returns the raw contents of a test document.
func (t *T) ReadDocument(name string) []byte {
	data, err := os.ReadFile(filepath.Join(t.env.config.FixturesDir, name))
	require.NoError(t, err, "cannot read test document %s", name)
	return data
}
