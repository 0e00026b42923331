package ssml

import "strings"

// Unit is a single string of synthesizer markup representing either the
// article title or one sentence.
type Unit string

// TitlePause separates the synthesized title from body content.
const TitlePause = "500ms"

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// WrapTitle wraps a title as a paragraph followed by a fixed-duration pause
// so the spoken title is audibly separated from the body.
func WrapTitle(title string) Unit {
	return Unit("<p>" + textEscaper.Replace(title) + `</p><break time="` + TitlePause + `"/>`)
}

// WrapSentence wraps a single sentence with no pause.
func WrapSentence(sentence string) Unit {
	return Unit("<s>" + textEscaper.Replace(sentence) + "</s>")
}

// WrapDocument wraps packed markup in root speak tags. Every chunk handed
// to the synthesis engine passes through here exactly once.
func WrapDocument(body string) string {
	return "<speak>" + body + "</speak>"
}
