package contentid

import "testing"

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint("the quick brown fox")
	b := Fingerprint("the quick brown fox")
	if a != b {
		t.Fatalf("expected identical digests, got %q and %q", a, b)
	}
}

func TestFingerprintFixedWidth(t *testing.T) {
	for _, text := range []string{"", "short", "a much longer body of article text that runs on"} {
		digest := Fingerprint(text)
		if len(digest) != fingerprintBytes*2 {
			t.Fatalf("expected %d hex chars, got %d for %q", fingerprintBytes*2, len(digest), text)
		}
	}
}

func TestFingerprintDiffersAcrossInputs(t *testing.T) {
	if Fingerprint("article one") == Fingerprint("article two") {
		t.Fatal("distinct inputs produced identical digests")
	}
}

func TestFingerprintSensitiveToUnicode(t *testing.T) {
	if Fingerprint("café") == Fingerprint("cafe") {
		t.Fatal("expected digests to differ for distinct UTF-8 input")
	}
}
