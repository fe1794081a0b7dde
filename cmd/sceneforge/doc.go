// Package main hosts the sceneforge CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into manifest
// generation, validation, rendering, queue maintenance, and diagram
// generation. It centralizes configuration resolution and structured
// logging setup so subcommands can focus on user experience instead of
// wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
