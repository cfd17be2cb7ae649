package nlp

import (
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"testing"
)

func ptr[T any](v T) *T {
	return &v
}

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameRange(a, b *Range) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return sameFloat(a.Min, b.Min) && sameFloat(a.Max, b.Max)
}

func describeRange(r *Range) string {
	if r == nil {
		return "<nil>"
	}
	s := "{"
	if r.Min != nil {
		s += "min:" + formatFloat(*r.Min)
	}
	if r.Max != nil {
		s += " max:" + formatFloat(*r.Max)
	}
	return s + "}"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func TestParseQuery_Location(t *testing.T) {
	parser := NewQueryParser(nil)

	tests := []struct {
		name      string
		utterance string
		want      *string
	}{
		{"lower case", "apartment in molyko", ptr("molyko")},
		{"upper case with punctuation", "Apartment in MOLYKO!!", ptr("molyko")},
		{"synonym", "something close to UB junction please", ptr("molyko")},
		{"hyphenated synonym", "Looking for a flat... near Great-Soppo?", ptr("great soppo")},
		{"more specific entry first", "room at small soppo", ptr("small soppo")},
		{"digits in tag", "house at Mile 16, quiet area", ptr("mile 16")},
		{"preposition fallback", "a house near the stadium", ptr("stadium")},
		{"fallback stops at qualifier", "apartment in bastos under 80000", ptr("bastos")},
		{"area fallback", "anything in the bastos area", ptr("bastos")},
		{"neighborhood fallback", "bonamoussadi neighborhood", ptr("bonamoussadi")},
		{"too short rejected", "a room in ab", nil},
		{"numbers are not places", "a flat around 50000", nil},
		{"no location", "two bedroom house", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.ParseQuery(tt.utterance).Location
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Errorf("ParseQuery(%q).Location = %v, want %v", tt.utterance, deref(got), deref(tt.want))
			}
		})
	}
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

func TestParseQuery_PropertyType(t *testing.T) {
	parser := NewQueryParser(nil)

	tests := []struct {
		utterance string
		want      *string
	}{
		{"I need a flat", ptr("apartment")},
		{"HOUSE with a garden", ptr("house")},
		{"self-contained near campus", ptr("studio")},
		{"duplex in limbe", ptr("duplex")},
		{"single room", ptr("room")},
		{"3 bedroom place", nil},
	}

	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			got := parser.ParseQuery(tt.utterance).PropertyType
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Errorf("ParseQuery(%q).PropertyType = %v, want %v", tt.utterance, deref(got), deref(tt.want))
			}
		})
	}
}

func TestParseQuery_PriceRange(t *testing.T) {
	parser := NewQueryParser(nil)

	tests := []struct {
		name      string
		utterance string
		want      *Range
	}{
		{"cheap band", "cheap house", &Range{Max: ptr(50000.0)}},
		{"band wins over numbers", "affordable apartment under 20000", &Range{Max: ptr(50000.0)}},
		{"luxury band", "Luxury duplex", &Range{Min: ptr(150000.0)}},
		{"mid range band", "something mid-range", &Range{Min: ptr(50000.0), Max: ptr(150000.0)}},
		{"between and", "between 50000 and 100000", &Range{Min: ptr(50000.0), Max: ptr(100000.0)}},
		{"from to with suffix", "from 50k to 80k", &Range{Min: ptr(50000.0), Max: ptr(80000.0)}},
		{"dash range", "budget 40,000-70,000 monthly", &Range{Min: ptr(40000.0), Max: ptr(70000.0)}},
		{"reversed range", "between 90000 and 60000", &Range{Min: ptr(60000.0), Max: ptr(90000.0)}},
		{"under", "studio under 60000", &Range{Max: ptr(60000.0)}},
		{"less than grouped", "less than 60,000 frs", &Range{Max: ptr(60000.0)}},
		{"above", "house above 100k", &Range{Min: ptr(100000.0)}},
		{"more than million", "more than 1.5 million", &Range{Min: ptr(1500000.0)}},
		{"bare number is max", "apartment for 75000", &Range{Max: ptr(75000.0)}},
		{"bedroom count is not a price", "2 bedroom apartment", nil},
		{"small bare numbers ignored", "house at mile 17", nil},
		{"qualifier on bedrooms ignored", "less than 3 bedrooms", nil},
		{"no price", "house in molyko", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.ParseQuery(tt.utterance).PriceRange
			if !sameRange(got, tt.want) {
				t.Errorf("ParseQuery(%q).PriceRange = %s, want %s", tt.utterance, describeRange(got), describeRange(tt.want))
			}
		})
	}
}

func TestParseQuery_PriceBandIsCopied(t *testing.T) {
	parser := NewQueryParser(nil)

	first := parser.ParseQuery("cheap room")
	*first.PriceRange.Max = 1

	second := parser.ParseQuery("cheap room")
	if second.PriceRange == nil || second.PriceRange.Max == nil || *second.PriceRange.Max != 50000 {
		t.Fatalf("price band was mutated through a previous result: %s", describeRange(second.PriceRange))
	}
}

func TestParseQuery_Bedrooms(t *testing.T) {
	parser := NewQueryParser(nil)

	tests := []struct {
		utterance string
		want      *IntRange
	}{
		{"studio", &IntRange{Min: 0, Max: 0}},
		{"one bedroom flat", &IntRange{Min: 1, Max: 1}},
		{"Two bedrooms in limbe", &IntRange{Min: 2, Max: 2}},
		{"3 bedroom house", &IntRange{Min: 3, Max: 3}},
		{"a 4-bed duplex", &IntRange{Min: 4, Max: 4}},
		{"2br apartment", &IntRange{Min: 2, Max: 2}},
		{"house in bomaka", nil},
	}

	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			got := parser.ParseQuery(tt.utterance).Bedrooms
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseQuery(%q).Bedrooms = %+v, want %+v", tt.utterance, got, tt.want)
			}
		})
	}
}

func TestParseQuery_Amenities(t *testing.T) {
	parser := NewQueryParser(nil)

	tests := []struct {
		utterance string
		want      []string
	}{
		{"with wifi, parking and a generator", []string{"wifi", "parking", "generator"}},
		{"furnished flat with AC and a borehole", []string{"water", "furnished", "air_conditioning"}},
		{"apartment in molyko", nil},
	}

	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			got := parser.ParseQuery(tt.utterance).Amenities
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseQuery(%q).Amenities = %v, want %v", tt.utterance, got, tt.want)
			}
		})
	}
}

func TestParseQuery_Intent(t *testing.T) {
	parser := NewQueryParser(nil)

	tests := []struct {
		utterance string
		want      string
	}{
		{"find me a house", IntentSearch},
		{"book a tour", IntentBook},
		{"more details please", IntentInfo},
		{"help", IntentHelp},
		{"can I contact the landlord", IntentContact},
		{"how much is it", IntentPrice},
		{"where is it", IntentLocation},
		{"duplex", IntentSearch},
		{"", IntentSearch},
	}

	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			if got := parser.ParseQuery(tt.utterance).Intent; got != tt.want {
				t.Errorf("ParseQuery(%q).Intent = %q, want %q", tt.utterance, got, tt.want)
			}
		})
	}
}

func TestParseQuery_StudioInMolykoUnder60000(t *testing.T) {
	got := NewQueryParser(nil).ParseQuery("studio in molyko under 60000")

	want := SearchCriteria{
		Location:     ptr("molyko"),
		PropertyType: ptr("studio"),
		Bedrooms:     &IntRange{Min: 0, Max: 0},
		PriceRange:   &Range{Max: ptr(60000.0)},
		Intent:       IntentSearch,
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseQuery() = %+v, want %+v", got, want)
	}
}

func TestParseQuery_EmptyInputOmitsEverything(t *testing.T) {
	got := NewQueryParser(nil).ParseQuery("   ")
	if got.HasConstraints() {
		t.Errorf("expected no constraints, got %+v", got)
	}
	if got.Intent != IntentSearch {
		t.Errorf("Intent = %q, want %q", got.Intent, IntentSearch)
	}
}

func TestParseQuery_RecoversToNeutralCriteria(t *testing.T) {
	var parser QueryParser

	got := parser.ParseQuery("cheap studio for 40000")
	want := SearchCriteria{Intent: IntentSearch}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseQuery() = %+v, want %+v", got, want)
	}
}

func TestSearchCriteria_Merge(t *testing.T) {
	base := SearchCriteria{
		Location:   ptr("molyko"),
		PriceRange: &Range{Max: ptr(60000.0)},
		Intent:     IntentSearch,
	}
	next := SearchCriteria{
		PropertyType: ptr("studio"),
		PriceRange:   &Range{Max: ptr(40000.0)},
	}

	got := base.Merge(next)

	if got.Location == nil || *got.Location != "molyko" {
		t.Errorf("Merge dropped location: %+v", got)
	}
	if got.PropertyType == nil || *got.PropertyType != "studio" {
		t.Errorf("Merge ignored property type: %+v", got)
	}
	if !sameRange(got.PriceRange, &Range{Max: ptr(40000.0)}) {
		t.Errorf("Merge price = %s, want max 40000", describeRange(got.PriceRange))
	}
	if got.Intent != IntentSearch {
		t.Errorf("Merge intent = %q", got.Intent)
	}
}

func TestLoadVocabulary(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		vocab, err := LoadVocabulary("")
		if err != nil {
			t.Fatalf("LoadVocabulary() error = %v", err)
		}
		if !reflect.DeepEqual(vocab, DefaultVocabulary()) {
			t.Error("expected default vocabulary")
		}
	})

	t.Run("override replaces only given tables", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vocabulary.yaml")
		content := `
locations:
  - tag: bastos
    synonyms: [bastos, quartier bastos]
min_bare_price: 5000
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		vocab, err := LoadVocabulary(path)
		if err != nil {
			t.Fatalf("LoadVocabulary() error = %v", err)
		}
		if len(vocab.Locations) != 1 || vocab.Locations[0].Tag != "bastos" {
			t.Errorf("Locations = %+v", vocab.Locations)
		}
		if vocab.MinBarePrice != 5000 {
			t.Errorf("MinBarePrice = %v, want 5000", vocab.MinBarePrice)
		}
		if len(vocab.PropertyTypes) != len(DefaultVocabulary().PropertyTypes) {
			t.Error("property types should keep defaults")
		}

		got := NewQueryParser(vocab).ParseQuery("Quartier Bastos, 3000")
		if got.Location == nil || *got.Location != "bastos" {
			t.Errorf("Location = %v, want bastos", deref(got.Location))
		}
		if got.PriceRange != nil {
			t.Errorf("PriceRange = %s, want none below the bare price floor", describeRange(got.PriceRange))
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadVocabulary(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestDetectIntent(t *testing.T) {
	p := NewQueryParser(nil)

	tests := []struct {
		utterance string
		want      string
		wantOK    bool
	}{
		{"I want to rent something", IntentSearch, true},
		{"How much is it?", IntentPrice, true},
		{"qwerty", IntentSearch, false},
		{"", IntentSearch, false},
	}

	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			got, ok := p.DetectIntent(tt.utterance)
			if ok != tt.wantOK {
				t.Fatalf("DetectIntent(%q) ok = %v, want %v", tt.utterance, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("DetectIntent(%q) = %q, want %q", tt.utterance, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  Main   MENU!! "); got != "main menu" {
		t.Errorf("Normalize() = %q, want %q", got, "main menu")
	}
	if got := Normalize("Café"); got != "cafe" {
		t.Errorf("Normalize() = %q, want %q", got, "cafe")
	}
}
