// Package textseg splits plain article text into sentences using a punkt
// sentence tokenizer. The tokenizer's language model is loaded lazily on
// first use and reused for the process lifetime.
package textseg
