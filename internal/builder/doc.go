// Package builder orchestrates one feed-to-podcast run: fetch the source
// feed, read each article aloud through the synthesis engine, assemble
// episode audio, compose the podcast document, and publish the results.
// A per-slug file lock keeps concurrent builds of the same podcast from
// clobbering each other's output.
package builder
