// Package shell runs command lines synchronously through the system shell,
// capturing their output and exit codes. Checked runs turn a non-zero exit
// into an error; unchecked runs hand the failing result back to the caller.
package shell
