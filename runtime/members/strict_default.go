//go:build !hostbridge_strict
// +build !hostbridge_strict

package members

const buildStrict = false
