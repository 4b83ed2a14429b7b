package model

// TicketData is everything a renderer needs to lay out one admission ticket.
type TicketData struct {
	ReservationID string
	Reference     string
	EventTitle    string
	Excerpt       string
	Date          string
	Time          string
	Location      string
	AttendeeName  string
	AttendeeEmail string
}
