// Package version carries the build-time version string printed by
// "neuronos version".
package version

// String is overridden at build time via -ldflags "-X
// neuronos/internal/version.String=v0.4.0".
var String = "dev"
