// Package feed retrieves syndication feeds and normalizes their entries
// into typed Article records. RSS and Atom parsing is delegated to gofeed;
// HTML bodies are stripped to plain text before any downstream component
// sees them.
package feed
