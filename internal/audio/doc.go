// Package audio assembles per-chunk speech files into one episode track.
// Concatenation and background-music mixing are delegated to ffmpeg;
// intermediate chunk files are left in place for the caller to clean up.
package audio
