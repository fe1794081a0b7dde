// Package version exposes the tool version stamped into manifests and
// reported by the CLI.
package version

// Version is the sceneforge release identifier.
const Version = "0.1.0"
