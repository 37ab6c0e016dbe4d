// Package setup orchestrates the ringgem bootstrap: fetch and run the
// go-task installer, stage the ringgem archive, the zip installer and the
// Taskfile, install the zip tool, unpack the archive into the per-user data
// directory and drive the task runner to finish installation.
//
// The sequence is strictly linear: every step blocks until completion and
// the first failure aborts the run. A marker file in the staging directory
// refuses a second concurrent run.
package setup
