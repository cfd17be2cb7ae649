package entity

import "time"

// Property is a rental listing as stored in the property catalogue.
type Property struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Location     string    `json:"location"`
	Address      string    `json:"address,omitempty"`
	Price        float64   `json:"price"`
	PropertyType string    `json:"property_type"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    int       `json:"bathrooms"`
	Amenities    []string  `json:"amenities,omitempty"`
	Rating       *float64  `json:"rating,omitempty"`
	Images       []string  `json:"images,omitempty"`
	Verified     bool      `json:"verified"`
	IsFeatured   bool      `json:"is_featured"`
	IsAvailable  bool      `json:"is_available"`
	AgentName    string    `json:"agent_name,omitempty"`
	AgentPhone   string    `json:"agent_phone,omitempty"`
	AgentEmail   string    `json:"agent_email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PropertyFilter carries the filterable subset of search criteria down to the store.
type PropertyFilter struct {
	Location     string
	PropertyType string
	MinPrice     *float64
	MaxPrice     *float64
	Bedrooms     *int
	Limit        int
}
