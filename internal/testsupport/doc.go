// Package testsupport provides helpers for constructing test configurations
// and fixture files with per-test temp directories.
package testsupport
