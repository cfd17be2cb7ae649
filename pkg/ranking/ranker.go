package ranking

import (
	"HomeFinder/internal/entity"
	"HomeFinder/pkg/nlp"
	"math"
	"sort"
	"strings"
	"time"
	"unicode"
)

// Match reason constants
const (
	ReasonLocationMatch = "Location match"
	ReasonPriceMatch    = "Price within budget"
	ReasonPreferredType = "Preferred property type"
	ReasonAmenityMatch  = "Has requested amenities"
	ReasonVerified      = "Verified listing"
	ReasonNewlyListed   = "Newly listed"
)

// Config holds the fixed weights of the scoring function.
type Config struct {
	BaseScore          float64       `yaml:"base_score"`
	LocationWeight     float64       `yaml:"location_weight"`
	PriceWeight        float64       `yaml:"price_weight"`
	PreferredTypeBonus float64       `yaml:"preferred_type_bonus"`
	AmenityWeight      float64       `yaml:"amenity_weight"`
	RatingWeight       float64       `yaml:"rating_weight"`
	ImageBonus         float64       `yaml:"image_bonus"`
	VerifiedBonus      float64       `yaml:"verified_bonus"`
	RecencyBonus       float64       `yaml:"recency_bonus"`
	RecencyWindow      time.Duration `yaml:"recency_window"`
	Limit              int           `yaml:"limit"`
}

func DefaultConfig() Config {
	return Config{
		BaseScore:          10,
		LocationWeight:     30,
		PriceWeight:        20,
		PreferredTypeBonus: 15,
		AmenityWeight:      15,
		RatingWeight:       2,
		ImageBonus:         5,
		VerifiedBonus:      10,
		RecencyBonus:       5,
		RecencyWindow:      14 * 24 * time.Hour,
		Limit:              10,
	}
}

type RankedResult struct {
	entity.Property
	Score          float64  `json:"score"`
	MatchedReasons []string `json:"matched_reasons,omitempty"`
}

type IRanker interface {
	Rank(candidates []entity.Property, criteria nlp.SearchCriteria, profile entity.UserPreference) []RankedResult
}

// Ranker scores candidates with an additive, fixed-weight function.
type Ranker struct {
	cfg Config
	now func() time.Time
}

func New(cfg Config) *Ranker {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultConfig().Limit
	}
	return &Ranker{cfg: cfg, now: time.Now}
}

// Rank returns at most cfg.Limit results by descending score. Equal scores keep
// the input order.
func (r *Ranker) Rank(candidates []entity.Property, criteria nlp.SearchCriteria, profile entity.UserPreference) []RankedResult {
	now := r.now()
	results := make([]RankedResult, 0, len(candidates))

	for _, p := range candidates {
		score, reasons := r.score(p, criteria, profile, now)
		results = append(results, RankedResult{Property: p, Score: score, MatchedReasons: reasons})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > r.cfg.Limit {
		results = results[:r.cfg.Limit]
	}

	return results
}

func (r *Ranker) score(p entity.Property, criteria nlp.SearchCriteria, profile entity.UserPreference, now time.Time) (float64, []string) {
	var reasons []string
	score := r.cfg.BaseScore

	if criteria.Location != nil {
		if fit := locationScore(*criteria.Location, p.Location); fit > 0 {
			score += fit * r.cfg.LocationWeight
			reasons = append(reasons, ReasonLocationMatch)
		}
	}

	if criteria.PriceRange != nil {
		if fit := priceScore(p.Price, *criteria.PriceRange); fit > 0 {
			score += fit * r.cfg.PriceWeight
			reasons = append(reasons, ReasonPriceMatch)
		}
	}

	if containsFold(profile.PreferredPropertyTypes, p.PropertyType) {
		score += r.cfg.PreferredTypeBonus
		reasons = append(reasons, ReasonPreferredType)
	}

	if len(criteria.Amenities) > 0 {
		if fit := amenityScore(criteria.Amenities, p.Amenities); fit > 0 {
			score += fit * r.cfg.AmenityWeight
			reasons = append(reasons, ReasonAmenityMatch)
		}
	}

	if p.Rating != nil {
		score += *p.Rating * r.cfg.RatingWeight
	}
	if len(p.Images) > 0 {
		score += r.cfg.ImageBonus
	}
	if p.Verified {
		score += r.cfg.VerifiedBonus
		reasons = append(reasons, ReasonVerified)
	}
	if !p.CreatedAt.IsZero() && now.Sub(p.CreatedAt) <= r.cfg.RecencyWindow {
		score += r.cfg.RecencyBonus
		reasons = append(reasons, ReasonNewlyListed)
	}

	return score, reasons
}

// locationScore is the fraction of wanted words contained in, or containing,
// a word of the candidate location.
func locationScore(wanted, actual string) float64 {
	wantedWords := words(wanted)
	actualWords := words(actual)
	if len(wantedWords) == 0 || len(actualWords) == 0 {
		return 0
	}

	matched := 0
	for _, w := range wantedWords {
		for _, a := range actualWords {
			if strings.Contains(a, w) || strings.Contains(w, a) {
				matched++
				break
			}
		}
	}

	return float64(matched) / float64(len(wantedWords))
}

// priceScore rewards prices near the middle of the range. A missing max
// defaults to twice the price and a missing min to zero.
func priceScore(price float64, r nlp.Range) float64 {
	minPrice := 0.0
	if r.Min != nil {
		minPrice = *r.Min
	}
	maxPrice := price * 2
	if r.Max != nil {
		maxPrice = *r.Max
	}

	if price < minPrice || price > maxPrice {
		return 0
	}

	halfRange := (maxPrice - minPrice) / 2
	if halfRange == 0 {
		return 1
	}

	midpoint := (minPrice + maxPrice) / 2
	score := 1 - math.Abs(price-midpoint)/halfRange
	if score < 0 {
		score = 0
	}
	return score
}

func amenityScore(wanted, actual []string) float64 {
	matched := 0
	for _, w := range wanted {
		if containsFold(actual, w) {
			matched++
		}
	}
	return float64(matched) / float64(len(wanted))
}

func containsFold(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), strings.TrimSpace(value)) {
			return true
		}
	}
	return false
}

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
