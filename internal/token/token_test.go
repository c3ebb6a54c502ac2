package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	for text, kind := range keywords {
		if got := LookupKeyword(text); got != kind {
			t.Errorf("LookupKeyword(%q) = %v, want %v", text, got, kind)
		}
		if kind.String() != text {
			t.Errorf("%v.String() = %q, want %q", kind, kind.String(), text)
		}
	}
	if got := LookupKeyword("main"); got != Ident {
		t.Errorf("LookupKeyword(main) = %v, want identifier", got)
	}
}
