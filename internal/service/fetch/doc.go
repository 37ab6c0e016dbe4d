// Package fetch downloads remote assets over HTTP and can execute a fetched
// shell script from a short-lived temporary file.
package fetch
