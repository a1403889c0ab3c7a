// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketBookedQueue is the RabbitMQ queue (and NATS subject root) that
// carries confirmed bookings.
const TicketBookedQueue = "ticket.booked"

// TicketBookedEvent is published after a booking has been persisted.
// It carries enough of the train, schedule and passenger records for
// downstream consumers to log or notify without reading the ledger.
type TicketBookedEvent struct {
	EventID          string `json:"event_id"`
	BookingID        string `json:"booking_id"`
	PassengerID      string `json:"passenger_id"`
	PassengerName    string `json:"passenger_name"`
	TrainID          string `json:"train_id"`
	TrainName        string `json:"train_name"`
	ScheduleID       string `json:"schedule_id"`
	DepartureStation string `json:"departure_station"`
	ArrivalStation   string `json:"arrival_station"`
	DepartureTime    string `json:"departure_time"`
	SeatNumber       int    `json:"seat_number"`
	SeatsLeft        int    `json:"seats_left"`
	BookedAt         string `json:"booked_at"`
}
