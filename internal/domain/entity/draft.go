package entity

// EventDraft is the provider-bound shape of an event to create.
// Start and End are RFC 3339 instants interpreted in Timezone.
type EventDraft struct {
	Title       string
	Start       string
	End         string
	Timezone    string
	Description string
	Location    string
	Attendees   []string
}
