// Package framework contains the low-level implementation of test harness infrastructure
// that can be reused for different kinds of tests.
//
// The general model is:
//
// 1. The service under test is started separately and listens for WebSocket connections on
// a known host, port, and path. The TestHarness checks that it is reachable and opens one
// connection per test.
//
// 2. There is a general notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results. Debug output is captured per test.
//
// The domain-specific code that knows what is being tested is responsible for the protocol
// spoken over the connection, and for providing a domain-specific test API on top of the
// test context.
package framework
