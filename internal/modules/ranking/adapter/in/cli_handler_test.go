package in_test

import (
	"reflect"
	"testing"

	rankingin "pairrank/internal/modules/ranking/adapter/in"
	"pairrank/internal/modules/ranking/dto"
)

func TestParseEntryLines(t *testing.T) {
	t.Parallel()
	text := "Alpha | alpha.png\n\n  Beta,beta.png  \nGamma\n"
	got := rankingin.ParseEntryLines(text)
	want := []dto.EntryInput{
		{Name: "Alpha", Image: "alpha.png"},
		{Name: "Beta", Image: "beta.png"},
		{Name: "Gamma"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected entries: %+v", got)
	}
}

func TestParseEntryPrefersPipeOverComma(t *testing.T) {
	t.Parallel()
	got := rankingin.ParseEntry("Crouching Tiger, Hidden Dragon | tiger.png")
	if got.Name != "Crouching Tiger, Hidden Dragon" || got.Image != "tiger.png" {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestParseEntryWithoutSeparator(t *testing.T) {
	t.Parallel()
	got := rankingin.ParseEntry("  Solo  ")
	if got.Name != "Solo" || got.Image != "" {
		t.Fatalf("unexpected entry: %+v", got)
	}
}
