// Package wstests contains the WebSocket protocol contract tests themselves and their
// supporting API.
//
// Test harness infrastructure that is not specific to this protocol, such as test contexts,
// filtering, and result reporting, is in the lower-level framework package. The protocol
// client that the tests drive is in the lool package.
package wstests
