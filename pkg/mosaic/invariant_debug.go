//go:build mosaicdebug

package mosaic

const debugInvariants = true
