package model

// Passenger is a traveller who can hold bookings.
type Passenger struct {
	ID     string `json:"passenger_id"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"` // free-form code, e.g. M/F/O
}
