package models

// VenueCategory doubles as the event category: events inherit it from their venue.
type VenueCategory string

const (
	CategoryMusic      VenueCategory = "music"
	CategoryTheater    VenueCategory = "theater"
	CategoryComedy     VenueCategory = "comedy"
	CategoryArt        VenueCategory = "art"
	CategorySports     VenueCategory = "sports"
	CategoryConference VenueCategory = "conference"
	CategoryMuseum     VenueCategory = "museum"
)

type Venue struct {
	VenueID      string        `gorm:"primaryKey" json:"venue_id"`
	Name         string        `gorm:"not null" json:"name"`
	Address      string        `json:"address"`
	Neighborhood string        `json:"neighborhood"`
	City         string        `json:"city"`
	State        string        `json:"state"`
	Capacity     int           `json:"capacity"`
	Category     VenueCategory `gorm:"type:varchar(20)" json:"category"`
}

func (v Venue) RecordID() string { return v.VenueID }
