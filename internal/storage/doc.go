// Package storage publishes rendered feed documents and audio files to an
// object store. The production backend is Supabase Storage; a mock backend
// serves tests and dry runs.
package storage
