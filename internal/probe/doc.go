// Package probe reports whether the relay's dependencies are linked into the
// running binary and whether the relay can be constructed from the current
// environment.
package probe
