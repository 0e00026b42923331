// Package ssml wraps article text in speech-synthesis markup and packs the
// wrapped units into chunks that respect the engine's per-request character
// ceiling.
//
// Units are individually wrapped sentences or the article title; the packer
// merges them greedily in source order and wraps each finished chunk in root
// speak tags. A unit that alone exceeds the ceiling is emitted unsplit as
// its own oversized chunk — the synthesis engine, not the packer, decides
// whether to accept it.
package ssml
