// Package archive extracts zip archives while preserving their internal
// directory structure and refusing entries that would escape the
// destination directory.
package archive
