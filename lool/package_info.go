// Package lool implements the client side of the document service's WebSocket protocol as
// needed by the contract tests: reading frames, classifying and decoding messages, waiting
// for the response to a command among unrelated asynchronous traffic, and sending commands.
//
// Waits are bounded by a retry budget rather than a fixed deadline. Every poll interval with
// no traffic consumes one unit of the budget; any message that arrives but does not match
// renews the budget, so a server that is busy but alive is given more time than one that has
// gone silent. A close frame ends a wait immediately.
package lool
