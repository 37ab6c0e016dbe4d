// Package version holds build metadata injected via ldflags, a cobra
// `version` subcommand, and the minimum-runtime gate checked before any
// setup work begins.
package version
