package assistantService

import (
	"HomeFinder/internal/api/assistant"
	"HomeFinder/internal/entity"
	"HomeFinder/pkg/nlp"
	"HomeFinder/pkg/whatsapp"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Selection ids of the non-property buttons and list rows.
const (
	SelectMainSearch     = "main_search"
	SelectSmartSearch    = "smart_search"
	SelectAdvancedSearch = "advanced_search"
	SelectShowMore       = "show_more"
	SelectNewSearch      = "new_search"
	SelectFeatured       = "featured"
	SelectCompare        = "compare"
	SelectCarouselNext   = "carousel_next"
	SelectCarouselPrev   = "carousel_prev"
	SelectSaved          = "saved"
	SelectPreferences    = "preferences"
	SelectHelp           = "help"
	SelectMainMenu       = "main_menu"
)

const (
	msgWelcome = "Hi, I'm HomeFinder 🏠 I help you find a place to rent.\n" +
		"Tell me what you need, for example \"2 bedroom apartment in Molyko under 80k\", or pick an option from the menu."
	msgWelcomeBack      = "Welcome back! What are you looking for today?"
	msgHelp             = "*How to use HomeFinder*\n• Describe the place you want: area, budget, type, bedrooms, amenities.\n• Tap a result to view it, see photos, save it or book a tour.\n• Type *menu* any time for the main menu, *stop* to cancel, *restart* to start over."
	msgApology          = "Sorry, something went wrong on our side. Please try again in a moment."
	msgDidNotUnderstand = "Sorry, I didn't understand that."
	msgTryAgain         = "That option is no longer valid. Please try again."
	msgPropertyNotFound = "Sorry, that property could not be found. It may have been taken off the market."
	msgStopped          = "Okay, I've stopped. Type *menu* whenever you want to continue."
	msgRestarted        = "Let's start over."

	msgSearchPrompt   = "What are you looking for? Tell me the area, your budget and the type of place."
	msgSmartPrompt    = "Describe your ideal place in your own words, e.g. \"furnished studio near UB junction with wifi, max 60k\"."
	msgAdvancedPrompt = "Add the filters you want to change. I'll combine them with your last search, e.g. \"with parking\" or \"under 100k\"."
	msgNoActiveSearch = "There is no active search. Let's start a new one."
	msgEndOfResults   = "That's all the matches for this search."
	msgNoFeatured     = "There are no featured listings right now."
	msgNoSaved        = "You haven't saved any properties yet. Tap *Save* on a listing to keep it here."
	msgCompareEmpty   = "Search for properties first, then I can compare the top matches."

	msgBookingPrompt    = "Great choice! To book a tour of *%s*, send your name and a preferred date and time (e.g. \"Jane, Saturday 10am\")."
	msgBookingTooShort  = "Please send your name and a preferred date and time for the tour."
	msgBookingNoTarget  = "I lost track of which property you wanted to visit. Please tap *Book tour* on the listing again."
	msgBookingConfirmed = "✅ Tour request sent for *%s*.\nThe agent will confirm with you shortly."

	msgPreferencesPrompt = "Tell me what you usually look for, e.g. \"apartment in Molyko between 50k and 80k with wifi\"."
	msgPreferencesEmpty  = "I couldn't find any preferences in that. Try mentioning an area, a budget or a property type."
	msgPreferencesSaved  = "Preferences saved. I'll rank listings that match them higher."
)

var printer = message.NewPrinter(language.English)

func formatPrice(price float64) string {
	return printer.Sprintf("%d FCFA", int64(price))
}

func button(id, title string) whatsapp.Button {
	return whatsapp.Button{ID: id, Title: title}
}

func actionButton(verb assistant.ActionVerb, propertyID, title string) whatsapp.Button {
	return button(assistant.NewPropertyAction(verb, propertyID).ID(), title)
}

func mainMenu() whatsapp.List {
	return whatsapp.List{
		Title:      "HomeFinder",
		Body:       "What would you like to do?",
		ButtonText: "Main menu",
		Sections: []whatsapp.ListSection{
			{
				Title: "Search",
				Rows: []whatsapp.ListRow{
					{ID: SelectMainSearch, Title: "Search properties", Description: "Tell me what you need"},
					{ID: SelectSmartSearch, Title: "Smart search", Description: "Describe it in your own words"},
					{ID: SelectAdvancedSearch, Title: "Refine last search", Description: "Add filters to your last search"},
				},
			},
			{
				Title: "Browse",
				Rows: []whatsapp.ListRow{
					{ID: SelectFeatured, Title: "Featured listings"},
					{ID: SelectSaved, Title: "Saved properties"},
				},
			},
			{
				Title: "Account",
				Rows: []whatsapp.ListRow{
					{ID: SelectPreferences, Title: "My preferences"},
					{ID: SelectHelp, Title: "Help"},
				},
			},
		},
	}
}

func propertyCard(p entity.Property, reasons []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n📍 %s\n💰 %s / month\n", p.Title, p.Location, formatPrice(p.Price))
	fmt.Fprintf(&b, "🛏 %d bed · 🛁 %d bath · %s", p.Bedrooms, p.Bathrooms, p.PropertyType)
	if p.Verified {
		b.WriteString(" · ✔ verified")
	}
	if p.Rating != nil {
		fmt.Fprintf(&b, "\n⭐ %.1f", *p.Rating)
	}
	if len(reasons) > 0 {
		fmt.Fprintf(&b, "\n_%s_", strings.Join(reasons, ", "))
	}
	return b.String()
}

func propertyDetails(p entity.Property) string {
	var b strings.Builder
	b.WriteString(propertyCard(p, nil))
	if p.Address != "" {
		fmt.Fprintf(&b, "\n🏷 %s", p.Address)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "\n\n%s", p.Description)
	}
	if len(p.Amenities) > 0 {
		fmt.Fprintf(&b, "\n\nAmenities: %s", strings.Join(p.Amenities, ", "))
	}
	if !p.IsAvailable {
		b.WriteString("\n\n⚠ Currently not available")
	}
	return b.String()
}

func agentContact(p entity.Property) string {
	name := p.AgentName
	if name == "" {
		name = "the listing agent"
	}
	if p.AgentPhone == "" {
		return fmt.Sprintf("I've notified %s about your interest in *%s*. They will reach out to you.", name, p.Title)
	}
	return fmt.Sprintf("You can reach %s about *%s* on %s. I've also let them know you're interested.", name, p.Title, p.AgentPhone)
}

// noResultsMessage picks one hint per resolved criteria field.
func noResultsMessage(c nlp.SearchCriteria) string {
	var hints []string
	if c.Location != nil {
		hints = append(hints, fmt.Sprintf("try a nearby area instead of %s", *c.Location))
	}
	if c.PriceRange != nil {
		hints = append(hints, "try widening your budget")
	}
	if c.PropertyType != nil {
		hints = append(hints, fmt.Sprintf("try another property type than %s", *c.PropertyType))
	}
	if c.Bedrooms != nil {
		hints = append(hints, "try a different number of bedrooms")
	}
	if len(hints) == 0 {
		hints = append(hints, "tell me the area, budget or type of place you want")
	}

	var b strings.Builder
	b.WriteString("I couldn't find properties matching your search. Suggestions:")
	for _, h := range hints {
		b.WriteString("\n• ")
		b.WriteString(h)
	}
	return b.String()
}

func comparison(properties []entity.Property) string {
	var b strings.Builder
	b.WriteString("*Comparison of your top matches*")
	for i, p := range properties {
		fmt.Fprintf(&b, "\n\n%d. *%s*\n   %s · %s\n   %d bed · %d bath · %s",
			i+1, p.Title, p.Location, formatPrice(p.Price), p.Bedrooms, p.Bathrooms, p.PropertyType)
		if p.Rating != nil {
			fmt.Fprintf(&b, " · ⭐ %.1f", *p.Rating)
		}
		if len(p.Amenities) > 0 {
			fmt.Fprintf(&b, "\n   %s", strings.Join(p.Amenities, ", "))
		}
	}
	return b.String()
}

func preferenceSummary(p entity.UserPreference) string {
	if p.IsEmpty() {
		return "You have no saved preferences yet."
	}

	var lines []string
	if len(p.PreferredPropertyTypes) > 0 {
		lines = append(lines, "Types: "+strings.Join(p.PreferredPropertyTypes, ", "))
	}
	if len(p.PreferredLocations) > 0 {
		lines = append(lines, "Areas: "+strings.Join(p.PreferredLocations, ", "))
	}
	switch {
	case p.PriceMin != nil && p.PriceMax != nil:
		lines = append(lines, fmt.Sprintf("Budget: %s to %s", formatPrice(*p.PriceMin), formatPrice(*p.PriceMax)))
	case p.PriceMax != nil:
		lines = append(lines, "Budget: up to "+formatPrice(*p.PriceMax))
	case p.PriceMin != nil:
		lines = append(lines, "Budget: from "+formatPrice(*p.PriceMin))
	}
	if len(p.PreferredAmenities) > 0 {
		lines = append(lines, "Amenities: "+strings.Join(p.PreferredAmenities, ", "))
	}
	return "Your current preferences:\n" + strings.Join(lines, "\n")
}
