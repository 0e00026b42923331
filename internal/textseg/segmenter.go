package textseg

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// ErrUnavailable indicates the sentence model could not be initialized.
var ErrUnavailable = errors.New("sentence model unavailable")

// Segmenter produces ordered sentences from plain text. The zero value is
// ready to use; the underlying language model loads on first call.
type Segmenter struct {
	once      sync.Once
	tokenizer *sentences.DefaultSentenceTokenizer
	initErr   error
}

// NewSegmenter returns a segmenter with a lazily initialized model.
func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

func (s *Segmenter) init() {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		s.initErr = fmt.Errorf("%w: %v", ErrUnavailable, err)
		return
	}
	s.tokenizer = tokenizer
}

// Sentences splits text into sentences, preserving source order. Empty or
// whitespace-only input yields an empty result. The split is a pure
// function of its input and may be repeated freely.
func (s *Segmenter) Sentences(text string) ([]string, error) {
	s.once.Do(s.init)
	if s.initErr != nil {
		return nil, s.initErr
	}

	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	tokens := s.tokenizer.Tokenize(text)
	result := make([]string, 0, len(tokens))
	for _, token := range tokens {
		sentence := strings.TrimSpace(token.Text)
		if sentence == "" {
			continue
		}
		result = append(result, sentence)
	}
	return result, nil
}
