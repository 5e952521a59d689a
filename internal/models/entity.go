package models

// EntityType names one of the generated dataset collections. The value doubles
// as the Sink file name and the Postgres table name.
type EntityType string

const (
	EntityUsers        EntityType = "users"
	EntityVenues       EntityType = "venues"
	EntityEvents       EntityType = "events"
	EntityReservations EntityType = "reservations"
	EntityKBArticles   EntityType = "kb_articles"
	EntityTickets      EntityType = "tickets"
)

// AllEntityTypes returns every entity type in canonical generation order.
func AllEntityTypes() []EntityType {
	return []EntityType{
		EntityUsers,
		EntityVenues,
		EntityEvents,
		EntityKBArticles,
		EntityReservations,
		EntityTickets,
	}
}

// IDPrefix returns the identifier prefix for the entity type (u_00001, kb_00001, ...).
func (e EntityType) IDPrefix() string {
	switch e {
	case EntityUsers:
		return "u"
	case EntityVenues:
		return "v"
	case EntityEvents:
		return "e"
	case EntityReservations:
		return "r"
	case EntityTickets:
		return "t"
	case EntityKBArticles:
		return "kb"
	}
	return ""
}

// Valid reports whether e is one of the known entity types.
func (e EntityType) Valid() bool {
	return e.IDPrefix() != ""
}

// Record is any entity that carries its own identifier. The Sink relies on it
// for duplicate detection.
type Record interface {
	RecordID() string
}
