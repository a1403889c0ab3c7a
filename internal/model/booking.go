package model

import "time"

// BookingDateLayout is the text layout of Booking.BookingDate.  Stored
// files written by earlier versions of the ledger use the same layout.
const BookingDateLayout = "2006-01-02 15:04:05"

// Booking records one seat sold to a passenger on a scheduled run.
//
// Fields:
//  ID          – unique booking identifier.
//  PassengerID – passenger holding the seat.
//  TrainID     – train the seat belongs to.
//  ScheduleID  – run the seat is valid for.
//  SeatNumber  – sequential seat number derived from the train counter.
//  BookingDate – creation time formatted with BookingDateLayout.
type Booking struct {
	ID          string `json:"booking_id"`
	PassengerID string `json:"passenger_id"`
	TrainID     string `json:"train_id"`
	ScheduleID  string `json:"schedule_id"`
	SeatNumber  int    `json:"seat_number"`
	BookingDate string `json:"booking_date"`
}

// FormatBookingDate renders t in local time using BookingDateLayout.
func FormatBookingDate(t time.Time) string {
	return t.Local().Format(BookingDateLayout)
}
