package ssml

import (
	"strings"
	"testing"
)

func TestWrapTitle(t *testing.T) {
	unit := WrapTitle("Market Watch")
	want := `<p>Market Watch</p><break time="500ms"/>`
	if string(unit) != want {
		t.Fatalf("WrapTitle = %q, want %q", unit, want)
	}
}

func TestWrapSentenceNoPause(t *testing.T) {
	unit := WrapSentence("Stocks fell.")
	if string(unit) != "<s>Stocks fell.</s>" {
		t.Fatalf("WrapSentence = %q", unit)
	}
	if strings.Contains(string(unit), "break") {
		t.Fatal("sentence unit must not carry a pause")
	}
}

func TestWrapEscapesMarkupCharacters(t *testing.T) {
	unit := WrapSentence("Profits <up> & rising")
	if string(unit) != "<s>Profits &lt;up&gt; &amp; rising</s>" {
		t.Fatalf("escaping failed: %q", unit)
	}
}

func TestWrapEmptyString(t *testing.T) {
	if string(WrapSentence("")) != "<s></s>" {
		t.Fatalf("empty sentence wrap = %q", WrapSentence(""))
	}
	if string(WrapTitle("")) != `<p></p><break time="500ms"/>` {
		t.Fatalf("empty title wrap = %q", WrapTitle(""))
	}
}

func TestWrapDocument(t *testing.T) {
	if WrapDocument("<s>hi</s>") != "<speak><s>hi</s></speak>" {
		t.Fatalf("WrapDocument = %q", WrapDocument("<s>hi</s>"))
	}
}
