// Package library persists what has been rendered and published. It backs
// the skip-unchanged check between builds and the episode listings shown
// by the CLI. Storage is a single SQLite database in the work directory.
package library
