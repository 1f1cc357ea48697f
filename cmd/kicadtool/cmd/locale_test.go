package cmd

import "testing"

func TestLocaleForCDefault(t *testing.T) {
	l := localeFor("C")
	v, err := l.ParseFloat("3.25")
	if err != nil || v != 3.25 {
		t.Fatalf("got %v, %v; want 3.25, nil", v, err)
	}
}

func TestLocaleForUnknownFallsBackToC(t *testing.T) {
	l := localeFor("klingon")
	if _, ok := l.(cLocale); !ok {
		t.Fatalf("got %T, want cLocale fallback", l)
	}
}

func TestLocaleForCommaReplacesSeparator(t *testing.T) {
	l := localeFor("comma")
	v, err := l.ParseFloat("3,25")
	if err != nil || v != 3.25 {
		t.Fatalf("got %v, %v; want 3.25, nil", v, err)
	}
}
