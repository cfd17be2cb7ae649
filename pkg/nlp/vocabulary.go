package nlp

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func price(v float64) *float64 {
	return &v
}

func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		Locations: []TagSynonyms{
			{Tag: "molyko", Synonyms: []string{"molyko", "ub junction", "university of buea"}},
			{Tag: "small soppo", Synonyms: []string{"small soppo"}},
			{Tag: "great soppo", Synonyms: []string{"great soppo", "soppo"}},
			{Tag: "bonduma", Synonyms: []string{"bonduma"}},
			{Tag: "bomaka", Synonyms: []string{"bomaka"}},
			{Tag: "check point", Synonyms: []string{"check point", "checkpoint"}},
			{Tag: "mile 16", Synonyms: []string{"mile 16", "mile sixteen", "bolifamba"}},
			{Tag: "mile 17", Synonyms: []string{"mile 17", "mile seventeen"}},
			{Tag: "muea", Synonyms: []string{"muea"}},
			{Tag: "bokwango", Synonyms: []string{"bokwango"}},
			{Tag: "clerks quarter", Synonyms: []string{"clerks quarter", "clerk's quarter", "gra"}},
			{Tag: "buea town", Synonyms: []string{"buea town"}},
			{Tag: "limbe", Synonyms: []string{"limbe", "victoria"}},
			{Tag: "douala", Synonyms: []string{"douala"}},
		},
		PropertyTypes: []TagSynonyms{
			{Tag: "apartment", Synonyms: []string{"apartment", "apartments", "flat", "flats", "apt"}},
			{Tag: "house", Synonyms: []string{"house", "houses", "home", "bungalow", "villa"}},
			{Tag: "studio", Synonyms: []string{"studio", "studios", "bedsitter", "self contained"}},
			{Tag: "duplex", Synonyms: []string{"duplex", "duplexes"}},
			{Tag: "room", Synonyms: []string{"room", "rooms", "single room", "chamber"}},
		},
		Amenities: []TagSynonyms{
			{Tag: "wifi", Synonyms: []string{"wifi", "wi fi", "internet"}},
			{Tag: "parking", Synonyms: []string{"parking", "garage", "car park"}},
			{Tag: "water", Synonyms: []string{"water", "borehole", "running water"}},
			{Tag: "generator", Synonyms: []string{"generator", "backup power", "standby power"}},
			{Tag: "security", Synonyms: []string{"security", "guard", "gated", "fence"}},
			{Tag: "furnished", Synonyms: []string{"furnished", "furniture"}},
			{Tag: "kitchen", Synonyms: []string{"kitchen"}},
			{Tag: "balcony", Synonyms: []string{"balcony", "terrace"}},
			{Tag: "air_conditioning", Synonyms: []string{"air conditioning", "aircon", "ac"}},
			{Tag: "pool", Synonyms: []string{"pool", "swimming pool"}},
			{Tag: "gym", Synonyms: []string{"gym", "fitness"}},
			{Tag: "laundry", Synonyms: []string{"laundry", "washing machine"}},
		},
		Intents: []TagSynonyms{
			{Tag: IntentSearch, Synonyms: []string{"search", "find", "looking for", "look for", "show me", "i need", "i want", "rent", "available"}},
			{Tag: IntentBook, Synonyms: []string{"book", "tour", "visit", "schedule", "appointment", "viewing", "inspect"}},
			{Tag: IntentInfo, Synonyms: []string{"details", "info", "information", "tell me about", "more about", "describe"}},
			{Tag: IntentHelp, Synonyms: []string{"help", "how does", "how do", "what can you"}},
			{Tag: IntentContact, Synonyms: []string{"contact", "agent", "landlord", "call", "phone", "reach"}},
			{Tag: IntentPrice, Synonyms: []string{"price", "cost", "how much", "fee"}},
			{Tag: IntentLocation, Synonyms: []string{"where", "location", "address", "directions", "map"}},
		},
		PriceBands: []PriceBand{
			{Keywords: []string{"cheap", "affordable", "low budget", "inexpensive"}, Max: price(50000)},
			{Keywords: []string{"mid range", "moderate", "average price"}, Min: price(50000), Max: price(150000)},
			{Keywords: []string{"luxury", "luxurious", "high end", "executive", "premium"}, Min: price(150000)},
		},
		BedroomKeywords: []BedroomKeyword{
			{Keywords: []string{"studio", "bedsitter"}, Count: 0},
			{Keywords: []string{"one bedroom", "single bedroom"}, Count: 1},
			{Keywords: []string{"two bedroom", "two bedrooms"}, Count: 2},
			{Keywords: []string{"three bedroom", "three bedrooms"}, Count: 3},
			{Keywords: []string{"four bedroom", "four bedrooms"}, Count: 4},
			{Keywords: []string{"five bedroom", "five bedrooms"}, Count: 5},
		},
		LocationStops: []string{
			"under", "below", "less", "above", "over", "more", "with", "for", "and", "between",
			"from", "to", "that", "which", "please", "area", "neighborhood", "neighbourhood",
			"around", "near", "at", "in", "cheap", "budget", "price", "max", "min",
		},
		MinBarePrice: 1000,
	}
}

// LoadVocabulary returns the default vocabulary, replaced table by table by any
// non-empty table found in the YAML file at path. An empty path is not an error.
func LoadVocabulary(path string) (*Vocabulary, error) {
	vocab := DefaultVocabulary()
	if path == "" {
		return vocab, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	var override Vocabulary
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary file: %w", err)
	}

	if len(override.Locations) > 0 {
		vocab.Locations = override.Locations
	}
	if len(override.PropertyTypes) > 0 {
		vocab.PropertyTypes = override.PropertyTypes
	}
	if len(override.Amenities) > 0 {
		vocab.Amenities = override.Amenities
	}
	if len(override.Intents) > 0 {
		vocab.Intents = override.Intents
	}
	if len(override.PriceBands) > 0 {
		vocab.PriceBands = override.PriceBands
	}
	if len(override.BedroomKeywords) > 0 {
		vocab.BedroomKeywords = override.BedroomKeywords
	}
	if len(override.LocationStops) > 0 {
		vocab.LocationStops = override.LocationStops
	}
	if override.MinBarePrice > 0 {
		vocab.MinBarePrice = override.MinBarePrice
	}

	return vocab, nil
}
