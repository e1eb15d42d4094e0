// Package fuzztests houses Go fuzz harnesses for the druk front end and the
// full compile pipeline. They guard against panics and hangs on arbitrary
// input; diagnostics are expected and ignored.
package fuzztests
