// Package score implements the bendable multi-level score used to rank
// candidate solutions. It exposes [Bendable], its canonical text form with
// [Parse], the [ValidateCompatible] precondition, and [Definition] for the
// configuration-time level counts.
package score
