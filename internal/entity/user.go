package entity

import "time"

// UserPreference is the stored preference profile of one chat user.
type UserPreference struct {
	UserID                 string    `json:"user_id"`
	PreferredPropertyTypes []string  `json:"preferred_property_types,omitempty"`
	PreferredLocations     []string  `json:"preferred_locations,omitempty"`
	PriceMin               *float64  `json:"price_min,omitempty"`
	PriceMax               *float64  `json:"price_max,omitempty"`
	PreferredAmenities     []string  `json:"preferred_amenities,omitempty"`
	UpdatedAt              time.Time `json:"updated_at"`
}

func (p UserPreference) IsEmpty() bool {
	return len(p.PreferredPropertyTypes) == 0 && len(p.PreferredLocations) == 0 &&
		p.PriceMin == nil && p.PriceMax == nil && len(p.PreferredAmenities) == 0
}

type SavedProperty struct {
	UserID     string
	PropertyID string
	CreatedAt  time.Time
}

type AdminLoginData struct {
	ID    string
	Email string
}
