package synthesis

import "context"

// Request describes one synthesis call. Text carries a complete SSML
// document, including the speak root element.
type Request struct {
	Text     string
	Voice    string
	Language string
	Format   string
}

// Synthesizer is the contract for producing speech audio from SSML.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) ([]byte, error)
}
