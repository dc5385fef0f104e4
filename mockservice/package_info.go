// Package mockservice is a simulation of the document service that is instrumented for tests.
// It speaks the same WebSocket protocol, keeps a little document state per connection so that
// the contract tests can run against it, and can be made slow, chatty, silent, or rude in order
// to exercise the client's waiting logic.
//
// It does not render or parse documents. The type of a document is decided by its file
// extension, and a document whose name starts with "password-protected" requires the
// password "1".
package mockservice
