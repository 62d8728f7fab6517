package search

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	got := Tokenize("A weekend in Lisbon and the Algarve")
	want := []string{"weekend", "lisbon", "algarve"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestTokenizeDedups(t *testing.T) {
	got := Tokenize("Tokyo tokyo TOKYO food food")
	want := []string{"tokyo", "food"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestTokenizeEmpty(t *testing.T) {
	if got := Tokenize("   "); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
