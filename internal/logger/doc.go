// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a sane console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithFields),
//   - verbosity-flag to level mapping and level configuration,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// All setup steps accept a context and extract the logger from it, enabling
// scoped, structured logging throughout the codebase.
package logger
