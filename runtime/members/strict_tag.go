//go:build hostbridge_strict
// +build hostbridge_strict

package members

// buildStrict forces the Restricted strategy in ModeAuto for hosts that are
// known to enforce reflective access boundaries.
const buildStrict = true
