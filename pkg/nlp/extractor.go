package nlp

import (
	"regexp"
	"strconv"
	"strings"
)

const amountExpr = `(\d{1,3}(?:[.,]\d{3})+|\d+(?:\.\d+)?)\s*(?:(k|m|million|thousand)\b)?`

var (
	priceRangePattern = regexp.MustCompile(`\b(?:between|from)\s+` + amountExpr + `\s*(?:and|to|-)\s*` + amountExpr)
	priceDashPattern  = regexp.MustCompile(`\b` + amountExpr + `\s*-\s*` + amountExpr)
	priceUnderPattern = regexp.MustCompile(`\b(?:under|below|less than|less|cheaper than|at most|up to|not more than|maximum|max)\s*` + amountExpr)
	priceOverPattern  = regexp.MustCompile(`\b(?:above|over|more than|greater than|at least|minimum|min|starting from|from)\s*` + amountExpr)
	priceBarePattern  = regexp.MustCompile(`\b` + amountExpr)

	bedroomTailPattern = regexp.MustCompile(`^\s*(?:bedrooms?|beds?|br|bdrms?|rooms?)\b`)
	bedroomPattern     = regexp.MustCompile(`\b(\d+)\s*(?:bedrooms?|beds?|br|bdrms?)\b`)
	groupedThousands   = regexp.MustCompile(`^\d{1,3}(?:[.,]\d{3})+$`)

	locationPrepPattern = regexp.MustCompile(`\b(?:in|at|near|around)\s+([a-z][a-z ]*)`)
	locationAreaPattern = regexp.MustCompile(`([a-z][a-z ]*?)\s+(?:area|neighborhood|neighbourhood)\b`)
)

const (
	minLocationLen = 3
	maxLocationLen = 29
)

// QueryParser turns a free-form utterance into SearchCriteria using the rule
// tables of a Vocabulary. It holds no mutable state and is safe for concurrent use.
type QueryParser struct {
	vocab         *Vocabulary
	locations     []TagSynonyms
	propertyTypes []TagSynonyms
	amenities     []TagSynonyms
	intents       []TagSynonyms
	priceBands    []PriceBand
	bedrooms      []BedroomKeyword
	locationStops map[string]bool
}

func NewQueryParser(vocab *Vocabulary) IQueryParser {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}

	p := &QueryParser{
		vocab:         vocab,
		locations:     cleanTable(vocab.Locations),
		propertyTypes: cleanTable(vocab.PropertyTypes),
		amenities:     cleanTable(vocab.Amenities),
		intents:       cleanTable(vocab.Intents),
		locationStops: make(map[string]bool, len(vocab.LocationStops)),
	}

	for _, band := range vocab.PriceBands {
		p.priceBands = append(p.priceBands, PriceBand{Keywords: cleanAll(band.Keywords), Min: band.Min, Max: band.Max})
	}
	for _, kw := range vocab.BedroomKeywords {
		p.bedrooms = append(p.bedrooms, BedroomKeyword{Keywords: cleanAll(kw.Keywords), Count: kw.Count})
	}
	for _, w := range cleanAll(vocab.LocationStops) {
		p.locationStops[w] = true
	}
	for _, w := range []string{"a", "an", "my", "me", "i", "of", "need", "want", "which", "is"} {
		p.locationStops[w] = true
	}
	for _, entry := range p.propertyTypes {
		for _, syn := range entry.Synonyms {
			p.locationStops[syn] = true
		}
	}

	return p
}

func cleanTable(table []TagSynonyms) []TagSynonyms {
	out := make([]TagSynonyms, 0, len(table))
	for _, entry := range table {
		out = append(out, TagSynonyms{Tag: entry.Tag, Synonyms: cleanAll(entry.Synonyms)})
	}
	return out
}

func (p *QueryParser) Vocabulary() *Vocabulary {
	return p.vocab
}

// ParseQuery never fails: any internal fault yields the neutral search intent.
func (p *QueryParser) ParseQuery(utterance string) (criteria SearchCriteria) {
	defer func() {
		if r := recover(); r != nil {
			criteria = SearchCriteria{Intent: IntentSearch}
		}
	}()

	folded := foldText(utterance)
	clean := cleanText(utterance)
	text := padded(clean)

	criteria.Intent = p.extractIntent(text)

	if loc, ok := p.extractLocation(text, clean); ok {
		criteria.Location = &loc
	}
	if tag, ok := firstTag(p.propertyTypes, text); ok {
		criteria.PropertyType = &tag
	}
	if r, ok := p.extractPriceRange(text, folded); ok {
		criteria.PriceRange = &r
	}
	if n, ok := p.extractBedrooms(text, clean); ok {
		criteria.Bedrooms = &IntRange{Min: n, Max: n}
	}
	if amenities := allTags(p.amenities, text); len(amenities) > 0 {
		criteria.Amenities = amenities
	}

	return criteria
}

func firstTag(table []TagSynonyms, text string) (string, bool) {
	for _, entry := range table {
		for _, syn := range entry.Synonyms {
			if containsPhrase(text, syn) {
				return entry.Tag, true
			}
		}
	}
	return "", false
}

func allTags(table []TagSynonyms, text string) []string {
	var tags []string
	for _, entry := range table {
		for _, syn := range entry.Synonyms {
			if containsPhrase(text, syn) {
				tags = append(tags, entry.Tag)
				break
			}
		}
	}
	return tags
}

func (p *QueryParser) DetectIntent(utterance string) (string, bool) {
	return firstTag(p.intents, padded(cleanText(utterance)))
}

func (p *QueryParser) extractIntent(text string) string {
	if tag, ok := firstTag(p.intents, text); ok {
		return tag
	}
	return IntentSearch
}

func (p *QueryParser) extractLocation(text, clean string) (string, bool) {
	if tag, ok := firstTag(p.locations, text); ok {
		return tag, true
	}

	for _, m := range locationPrepPattern.FindAllStringSubmatch(clean, -1) {
		var words []string
		for i, w := range strings.Fields(m[1]) {
			if i == 0 && w == "the" {
				continue
			}
			if p.locationStops[w] || w == "the" {
				break
			}
			words = append(words, w)
		}
		if loc, ok := boundedLocation(words); ok {
			return loc, true
		}
	}

	for _, m := range locationAreaPattern.FindAllStringSubmatch(clean, -1) {
		fields := strings.Fields(m[1])
		var words []string
		for i := len(fields) - 1; i >= 0 && len(words) < 2; i-- {
			if p.locationStops[fields[i]] || fields[i] == "the" {
				break
			}
			words = append([]string{fields[i]}, words...)
		}
		if loc, ok := boundedLocation(words); ok {
			return loc, true
		}
	}

	return "", false
}

func boundedLocation(words []string) (string, bool) {
	loc := strings.Join(words, " ")
	if len(loc) < minLocationLen || len(loc) > maxLocationLen {
		return "", false
	}
	return loc, true
}

func (p *QueryParser) extractPriceRange(text, folded string) (Range, bool) {
	for _, band := range p.priceBands {
		for _, kw := range band.Keywords {
			if containsPhrase(text, kw) {
				return Range{Min: copyFloat(band.Min), Max: copyFloat(band.Max)}, true
			}
		}
	}

	for _, pattern := range []*regexp.Regexp{priceRangePattern, priceDashPattern} {
		for _, idx := range pattern.FindAllStringSubmatchIndex(folded, -1) {
			if followedByRooms(folded, idx[1]) {
				continue
			}
			lo, okLo := parseAmount(group(folded, idx, 1), group(folded, idx, 2))
			hi, okHi := parseAmount(group(folded, idx, 3), group(folded, idx, 4))
			if !okLo || !okHi {
				continue
			}
			if lo > hi {
				lo, hi = hi, lo
			}
			return Range{Min: &lo, Max: &hi}, true
		}
	}

	if v, ok := firstAmount(priceUnderPattern, folded, 0); ok {
		return Range{Max: &v}, true
	}
	if v, ok := firstAmount(priceOverPattern, folded, 0); ok {
		return Range{Min: &v}, true
	}
	if v, ok := firstAmount(priceBarePattern, folded, p.vocab.MinBarePrice); ok {
		return Range{Max: &v}, true
	}

	return Range{}, false
}

func firstAmount(pattern *regexp.Regexp, folded string, floor float64) (float64, bool) {
	for _, idx := range pattern.FindAllStringSubmatchIndex(folded, -1) {
		if followedByRooms(folded, idx[1]) {
			continue
		}
		v, ok := parseAmount(group(folded, idx, 1), group(folded, idx, 2))
		if !ok || v < floor {
			continue
		}
		return v, true
	}
	return 0, false
}

func group(s string, idx []int, n int) string {
	if 2*n+1 >= len(idx) || idx[2*n] < 0 {
		return ""
	}
	return s[idx[2*n]:idx[2*n+1]]
}

func followedByRooms(s string, end int) bool {
	return bedroomTailPattern.MatchString(s[end:])
}

func parseAmount(number, unit string) (float64, bool) {
	if number == "" {
		return 0, false
	}
	if groupedThousands.MatchString(number) {
		number = strings.NewReplacer(",", "", ".", "").Replace(number)
	}

	amount, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, false
	}

	switch unit {
	case "k", "thousand":
		amount *= 1000
	case "m", "million":
		amount *= 1000000
	}

	return amount, true
}

func (p *QueryParser) extractBedrooms(text, clean string) (int, bool) {
	for _, kw := range p.bedrooms {
		for _, phrase := range kw.Keywords {
			if containsPhrase(text, phrase) {
				return kw.Count, true
			}
		}
	}

	if m := bedroomPattern.FindStringSubmatch(clean); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n, true
		}
	}

	return 0, false
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
