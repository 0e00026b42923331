package ssml

// Pack merges markup units into root-wrapped chunks whose pre-wrapping
// length does not exceed maxLen. Packing is greedy first-fit in source
// order: units accumulate until the next one would overflow, then the
// accumulator closes and a new one starts. A single unit longer than
// maxLen is kept alone in its own chunk, never truncated.
//
// An empty unit slice yields zero chunks; callers must treat that as
// nothing to render.
func Pack(units []Unit, maxLen int) []string {
	if len(units) == 0 {
		return nil
	}
	if len(units) == 1 {
		return []string{WrapDocument(string(units[0]))}
	}

	chunks := make([]string, 0, len(units))
	var accumulator string
	for _, unit := range units {
		text := string(unit)
		if accumulator == "" {
			accumulator = text
			continue
		}
		if len(accumulator)+len(text) <= maxLen {
			accumulator += text
			continue
		}
		chunks = append(chunks, WrapDocument(accumulator))
		accumulator = text
	}
	if accumulator != "" {
		chunks = append(chunks, WrapDocument(accumulator))
	}
	return chunks
}

// PackArticle wraps a title and its sentences and packs them. The title
// always renders as its own leading chunk; body sentences never share a
// chunk with it.
func PackArticle(title string, sentences []string, maxLen int) []string {
	units := make([]Unit, 0, len(sentences))
	for _, sentence := range sentences {
		units = append(units, WrapSentence(sentence))
	}
	chunks := make([]string, 0, len(units)+1)
	chunks = append(chunks, WrapDocument(string(WrapTitle(title))))
	return append(chunks, Pack(units, maxLen)...)
}
