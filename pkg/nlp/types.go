package nlp

const (
	IntentSearch   = "search"
	IntentBook     = "book"
	IntentInfo     = "info"
	IntentHelp     = "help"
	IntentContact  = "contact"
	IntentPrice    = "price"
	IntentLocation = "location"
)

// Range is a price band. A nil bound is unconstrained.
type Range struct {
	Min *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

type IntRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// SearchCriteria is the sparse result of parsing one utterance. Absent fields
// mean "unconstrained", never "excluded".
type SearchCriteria struct {
	Location     *string   `json:"location,omitempty"`
	PropertyType *string   `json:"propertyType,omitempty"`
	PriceRange   *Range    `json:"priceRange,omitempty"`
	Bedrooms     *IntRange `json:"bedrooms,omitempty"`
	Amenities    []string  `json:"amenities,omitempty"`
	Intent       string    `json:"intent"`
}

// HasConstraints reports whether any searchable field was resolved.
func (c SearchCriteria) HasConstraints() bool {
	return c.Location != nil || c.PropertyType != nil || c.PriceRange != nil ||
		c.Bedrooms != nil || len(c.Amenities) > 0
}

// Merge returns c refined by next: every field present in next replaces the
// one in c, absent fields keep the previous value.
func (c SearchCriteria) Merge(next SearchCriteria) SearchCriteria {
	merged := c
	if next.Location != nil {
		merged.Location = next.Location
	}
	if next.PropertyType != nil {
		merged.PropertyType = next.PropertyType
	}
	if next.PriceRange != nil {
		merged.PriceRange = next.PriceRange
	}
	if next.Bedrooms != nil {
		merged.Bedrooms = next.Bedrooms
	}
	if len(next.Amenities) > 0 {
		merged.Amenities = next.Amenities
	}
	if next.Intent != "" {
		merged.Intent = next.Intent
	}
	return merged
}

type IQueryParser interface {
	ParseQuery(utterance string) SearchCriteria
	// DetectIntent reports the intent of utterance and whether a keyword
	// actually matched, as opposed to falling back to IntentSearch.
	DetectIntent(utterance string) (string, bool)
	Vocabulary() *Vocabulary
}

type TagSynonyms struct {
	Tag      string   `yaml:"tag" json:"tag"`
	Synonyms []string `yaml:"synonyms" json:"synonyms"`
}

type PriceBand struct {
	Keywords []string `yaml:"keywords" json:"keywords"`
	Min      *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max      *float64 `yaml:"max,omitempty" json:"max,omitempty"`
}

type BedroomKeyword struct {
	Keywords []string `yaml:"keywords" json:"keywords"`
	Count    int      `yaml:"count" json:"count"`
}

// Vocabulary holds every rule table the parser matches against. Order inside
// each slice is significant: the first matching entry wins.
type Vocabulary struct {
	Locations       []TagSynonyms    `yaml:"locations"`
	PropertyTypes   []TagSynonyms    `yaml:"property_types"`
	Amenities       []TagSynonyms    `yaml:"amenities"`
	Intents         []TagSynonyms    `yaml:"intents"`
	PriceBands      []PriceBand      `yaml:"price_bands"`
	BedroomKeywords []BedroomKeyword `yaml:"bedroom_keywords"`
	LocationStops   []string         `yaml:"location_stop_words"`
	MinBarePrice    float64          `yaml:"min_bare_price"`
}
