// Package synthesis turns SSML documents into encoded speech audio. The
// production engine is an HTTP text-to-speech service; a mock engine backs
// tests and dry runs.
package synthesis
