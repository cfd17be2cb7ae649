package ranking

import (
	"HomeFinder/internal/entity"
	"HomeFinder/pkg/nlp"
	"fmt"
	"math"
	"testing"
	"time"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestRanker() *Ranker {
	r := New(DefaultConfig())
	r.now = func() time.Time { return fixedNow }
	return r
}

func ptr[T any](v T) *T {
	return &v
}

func ids(results []RankedResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.ID)
	}
	return out
}

func TestRank_EmptyCriteriaUsesQualitySignalsOnly(t *testing.T) {
	r := newTestRanker()
	old := fixedNow.AddDate(0, -6, 0)

	candidates := []entity.Property{
		{ID: "plain", Location: "molyko", Price: 40000, CreatedAt: old},
		{ID: "verified", Location: "bonduma", Price: 90000, Verified: true, CreatedAt: old},
		{ID: "rated", Location: "muea", Price: 30000, Rating: ptr(4.0), CreatedAt: old},
		{ID: "photos", Location: "limbe", Price: 70000, Images: []string{"a.jpg"}, CreatedAt: old},
		{ID: "fresh", Location: "bomaka", Price: 50000, CreatedAt: fixedNow.Add(-48 * time.Hour)},
	}

	got := r.Rank(candidates, nlp.SearchCriteria{}, entity.UserPreference{})

	want := []string{"verified", "rated", "photos", "fresh", "plain"}
	if fmt.Sprint(ids(got)) != fmt.Sprint(want) {
		t.Fatalf("Rank() order = %v, want %v", ids(got), want)
	}

	cfg := DefaultConfig()
	wantScores := map[string]float64{
		"plain":    cfg.BaseScore,
		"verified": cfg.BaseScore + cfg.VerifiedBonus,
		"rated":    cfg.BaseScore + 4*cfg.RatingWeight,
		"photos":   cfg.BaseScore + cfg.ImageBonus,
		"fresh":    cfg.BaseScore + cfg.RecencyBonus,
	}
	for _, res := range got {
		if res.Score != wantScores[res.ID] {
			t.Errorf("score of %s = %v, want %v", res.ID, res.Score, wantScores[res.ID])
		}
	}
}

func TestRank_StableAndIdempotent(t *testing.T) {
	r := newTestRanker()

	var candidates []entity.Property
	for i := 0; i < 15; i++ {
		candidates = append(candidates, entity.Property{ID: fmt.Sprintf("P%02d", i), Price: 50000})
	}

	first := r.Rank(candidates, nlp.SearchCriteria{}, entity.UserPreference{})
	if len(first) != 10 {
		t.Fatalf("len(Rank()) = %d, want 10", len(first))
	}
	for i, res := range first {
		if res.ID != candidates[i].ID {
			t.Fatalf("tie at %d broke input order: got %s want %s", i, res.ID, candidates[i].ID)
		}
	}

	second := r.Rank(candidates, nlp.SearchCriteria{}, entity.UserPreference{})
	if fmt.Sprint(ids(first)) != fmt.Sprint(ids(second)) {
		t.Errorf("Rank() not idempotent: %v vs %v", ids(first), ids(second))
	}
}

func TestRank_LimitFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limit = 2
	r := New(cfg)

	got := r.Rank([]entity.Property{{ID: "a"}, {ID: "b"}, {ID: "c"}}, nlp.SearchCriteria{}, entity.UserPreference{})
	if len(got) != 2 {
		t.Errorf("len(Rank()) = %d, want 2", len(got))
	}
}

func TestLocationScore(t *testing.T) {
	tests := []struct {
		wanted string
		actual string
		want   float64
	}{
		{"molyko", "Molyko, Buea", 1},
		{"great soppo", "Soppo", 0.5},
		{"great soppo", "Great Soppo", 1},
		{"mile 16", "Mile 16 Bolifamba", 1},
		{"bonduma", "Molyko", 0},
		{"", "Molyko", 0},
	}

	for _, tt := range tests {
		t.Run(tt.wanted+"/"+tt.actual, func(t *testing.T) {
			if got := locationScore(tt.wanted, tt.actual); got != tt.want {
				t.Errorf("locationScore(%q, %q) = %v, want %v", tt.wanted, tt.actual, got, tt.want)
			}
		})
	}
}

func TestPriceScore(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		rng   nlp.Range
		want  float64
	}{
		{"midpoint", 50000, nlp.Range{Min: ptr(0.0), Max: ptr(100000.0)}, 1},
		{"boundary", 100000, nlp.Range{Min: ptr(0.0), Max: ptr(100000.0)}, 0},
		{"quarter", 75000, nlp.Range{Min: ptr(0.0), Max: ptr(100000.0)}, 0.5},
		{"below min", 10000, nlp.Range{Min: ptr(20000.0)}, 0},
		{"above max", 70000, nlp.Range{Max: ptr(60000.0)}, 0},
		{"unconstrained always fits", 40000, nlp.Range{}, 1},
		{"degenerate range", 30000, nlp.Range{Min: ptr(30000.0), Max: ptr(30000.0)}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := priceScore(tt.price, tt.rng); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("priceScore(%v) = %v, want %v", tt.price, got, tt.want)
			}
		})
	}
}

func TestPriceScore_MidpointIsMaximal(t *testing.T) {
	ranges := []nlp.Range{
		{Min: ptr(0.0), Max: ptr(60000.0)},
		{Min: ptr(25000.0), Max: ptr(75000.0)},
		{Min: ptr(100000.0), Max: ptr(100001.0)},
		{Min: ptr(40000.0), Max: ptr(40000.0)},
	}

	for _, rng := range ranges {
		mid := (*rng.Min + *rng.Max) / 2
		best := priceScore(mid, rng)
		for step := 0; step <= 20; step++ {
			p := *rng.Min + (*rng.Max-*rng.Min)*float64(step)/20
			if s := priceScore(p, rng); s > best {
				t.Errorf("price %v scored %v above midpoint %v (%v) in [%v,%v]", p, s, mid, best, *rng.Min, *rng.Max)
			}
		}
	}
}

func TestRank_CriteriaSignals(t *testing.T) {
	r := newTestRanker()
	old := fixedNow.AddDate(-1, 0, 0)

	candidates := []entity.Property{
		{ID: "elsewhere", Location: "Limbe", PropertyType: "studio", Price: 55000, CreatedAt: old},
		{ID: "match", Location: "Molyko", PropertyType: "studio", Price: 55000, Amenities: []string{"wifi", "water"}, CreatedAt: old},
		{ID: "pricey", Location: "Molyko", PropertyType: "studio", Price: 90000, CreatedAt: old},
	}

	criteria := nlp.SearchCriteria{
		Location:   ptr("molyko"),
		PriceRange: &nlp.Range{Min: ptr(50000.0), Max: ptr(60000.0)},
		Amenities:  []string{"wifi", "parking"},
	}

	got := r.Rank(candidates, criteria, entity.UserPreference{})
	want := []string{"match", "pricey", "elsewhere"}
	if fmt.Sprint(ids(got)) != fmt.Sprint(want) {
		t.Fatalf("Rank() order = %v, want %v", ids(got), want)
	}

	cfg := DefaultConfig()
	wantTop := cfg.BaseScore + cfg.LocationWeight + cfg.PriceWeight + 0.5*cfg.AmenityWeight
	if math.Abs(got[0].Score-wantTop) > 1e-9 {
		t.Errorf("top score = %v, want %v", got[0].Score, wantTop)
	}
	if len(got[0].MatchedReasons) != 3 {
		t.Errorf("MatchedReasons = %v", got[0].MatchedReasons)
	}
}

func TestRank_PreferredTypeBonus(t *testing.T) {
	r := newTestRanker()

	candidates := []entity.Property{
		{ID: "house", PropertyType: "house"},
		{ID: "apartment", PropertyType: "Apartment"},
	}
	profile := entity.UserPreference{PreferredPropertyTypes: []string{"apartment"}}

	got := r.Rank(candidates, nlp.SearchCriteria{}, profile)
	if got[0].ID != "apartment" {
		t.Fatalf("Rank()[0] = %s, want apartment", got[0].ID)
	}
	if diff := got[0].Score - got[1].Score; diff != DefaultConfig().PreferredTypeBonus {
		t.Errorf("bonus = %v, want %v", diff, DefaultConfig().PreferredTypeBonus)
	}
}
