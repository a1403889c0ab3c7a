// Package cli implements the interactive text menu of the ledger.  It
// reads one answer per line and prints the same prompts and record
// layouts the ledger has always shown its operator.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iliyamo/railway-ledger/internal/model"
	"github.com/iliyamo/railway-ledger/internal/service"
)

// Ledger is the subset of *service.Ledger the menu drives.
type Ledger interface {
	AddTrain(ctx context.Context, id, name string, totalSeats int, routes []string) (model.Train, error)
	AddSchedule(ctx context.Context, sc model.Schedule) (model.Schedule, error)
	AddPassenger(ctx context.Context, p model.Passenger) (model.Passenger, error)
	BookTicket(ctx context.Context, id, passengerID, trainID, scheduleID string) (model.Booking, error)
	GetTrain(id string) (model.Train, error)
	GetSchedule(id string) (model.Schedule, error)
	GetPassenger(id string) (model.Passenger, error)
	GetBooking(id string) (model.Booking, error)
}

// Menu runs the nine-option loop over an input and output stream.
type Menu struct {
	ledger Ledger
	in     *bufio.Scanner
	out    io.Writer
}

func NewMenu(ledger Ledger, in io.Reader, out io.Writer) *Menu {
	return &Menu{ledger: ledger, in: bufio.NewScanner(in), out: out}
}

// errEOF ends the loop when input runs out mid-prompt.
var errEOF = errors.New("end of input")

// Run shows the menu until the operator picks Exit, input ends or ctx
// is cancelled.  Rejected operations are reported and the loop goes
// on; only read errors are returned.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.printMenu()
		choice, err := m.prompt("Enter your choice: ")
		if err != nil {
			return m.endOfInput(err)
		}
		switch strings.TrimSpace(choice) {
		case "1":
			err = m.addTrain(ctx)
		case "2":
			err = m.addSchedule(ctx)
		case "3":
			err = m.addPassenger(ctx)
		case "4":
			err = m.bookTicket(ctx)
		case "5":
			err = m.showTrain()
		case "6":
			err = m.showSchedule()
		case "7":
			err = m.showPassenger()
		case "8":
			err = m.showBooking()
		case "9":
			fmt.Fprintln(m.out, "Exiting Railway Management System...")
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid choice! Please try again.")
		}
		if err != nil {
			return m.endOfInput(err)
		}
	}
}

func (m *Menu) endOfInput(err error) error {
	if errors.Is(err, errEOF) {
		return nil
	}
	return err
}

func (m *Menu) printMenu() {
	fmt.Fprintln(m.out, "\nRailway Management System")
	for i, item := range []string{
		"Add Train", "Add Schedule", "Add Passenger", "Book Ticket",
		"Display Train Info", "Display Schedule Info", "Display Passenger Info", "Display Booking Info",
		"Exit",
	} {
		fmt.Fprintf(m.out, "%d. %s\n", i+1, item)
	}
}

func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", errEOF
	}
	return strings.TrimRight(m.in.Text(), "\r"), nil
}

// promptInt asks again until the answer parses as an integer.
func (m *Menu) promptInt(label string) (int, error) {
	for {
		s, err := m.prompt(label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err == nil {
			return n, nil
		}
		fmt.Fprintln(m.out, "Please enter a whole number.")
	}
}

// prompts asks each label in turn and returns the trimmed answers.
func (m *Menu) prompts(labels ...string) ([]string, error) {
	out := make([]string, len(labels))
	for i, l := range labels {
		s, err := m.prompt(l)
		if err != nil {
			return nil, err
		}
		out[i] = strings.TrimSpace(s)
	}
	return out, nil
}

// SplitRoutes turns "A, B,C" into [A B C].  Blank entries are dropped.
func SplitRoutes(s string) []string {
	var routes []string
	for _, st := range strings.Split(s, ",") {
		if st = strings.TrimSpace(st); st != "" {
			routes = append(routes, st)
		}
	}
	return routes
}

func (m *Menu) addTrain(ctx context.Context) error {
	a, err := m.prompts("Enter Train ID: ", "Enter Train Name: ")
	if err != nil {
		return err
	}
	seats, err := m.promptInt("Enter Total Seats: ")
	if err != nil {
		return err
	}
	routes, err := m.prompt("Enter Routes (comma separated): ")
	if err != nil {
		return err
	}
	if _, err := m.ledger.AddTrain(ctx, a[0], a[1], seats, SplitRoutes(routes)); err != nil {
		m.report(err)
		return nil
	}
	fmt.Fprintln(m.out, "Train added successfully!")
	return nil
}

func (m *Menu) addSchedule(ctx context.Context) error {
	a, err := m.prompts(
		"Enter Schedule ID: ",
		"Enter Train ID: ",
		"Enter Departure Time (YYYY-MM-DD HH:MM): ",
		"Enter Arrival Time (YYYY-MM-DD HH:MM): ",
		"Enter Departure Station: ",
		"Enter Arrival Station: ",
	)
	if err != nil {
		return err
	}
	_, err = m.ledger.AddSchedule(ctx, model.Schedule{
		ID:               a[0],
		TrainID:          a[1],
		DepartureTime:    a[2],
		ArrivalTime:      a[3],
		DepartureStation: a[4],
		ArrivalStation:   a[5],
	})
	if err != nil {
		m.report(err)
		return nil
	}
	fmt.Fprintln(m.out, "Schedule added successfully!")
	return nil
}

func (m *Menu) addPassenger(ctx context.Context) error {
	a, err := m.prompts("Enter Passenger ID: ", "Enter Name: ")
	if err != nil {
		return err
	}
	age, err := m.promptInt("Enter Age: ")
	if err != nil {
		return err
	}
	gender, err := m.prompt("Enter Gender (M/F/O): ")
	if err != nil {
		return err
	}
	_, err = m.ledger.AddPassenger(ctx, model.Passenger{ID: a[0], Name: a[1], Age: age, Gender: strings.TrimSpace(gender)})
	if err != nil {
		m.report(err)
		return nil
	}
	fmt.Fprintln(m.out, "Passenger added successfully!")
	return nil
}

func (m *Menu) bookTicket(ctx context.Context) error {
	a, err := m.prompts("Enter Booking ID: ", "Enter Passenger ID: ", "Enter Train ID: ", "Enter Schedule ID: ")
	if err != nil {
		return err
	}
	b, err := m.ledger.BookTicket(ctx, a[0], a[1], a[2], a[3])
	if err != nil {
		m.report(err)
		return nil
	}
	fmt.Fprintf(m.out, "Ticket booked! Seat Number: %d\n", b.SeatNumber)
	return nil
}

func (m *Menu) showTrain() error {
	id, err := m.prompt("Enter Train ID: ")
	if err != nil {
		return err
	}
	t, err := m.ledger.GetTrain(strings.TrimSpace(id))
	if err != nil {
		m.report(err)
		return nil
	}
	fmt.Fprintf(m.out, "\nTrain ID: %s\n", t.ID)
	fmt.Fprintf(m.out, "Name: %s\n", t.Name)
	fmt.Fprintf(m.out, "Total Seats: %d\n", t.TotalSeats)
	fmt.Fprintf(m.out, "Available Seats: %d\n", t.AvailableSeats)
	fmt.Fprintf(m.out, "Routes: %s\n", strings.Join(t.Routes, " -> "))
	return nil
}

func (m *Menu) showSchedule() error {
	id, err := m.prompt("Enter Schedule ID: ")
	if err != nil {
		return err
	}
	sc, err := m.ledger.GetSchedule(strings.TrimSpace(id))
	if err != nil {
		m.report(err)
		return nil
	}
	fmt.Fprintf(m.out, "\nSchedule ID: %s\n", sc.ID)
	fmt.Fprintf(m.out, "Train ID: %s\n", sc.TrainID)
	fmt.Fprintf(m.out, "Departure: %s at %s\n", sc.DepartureStation, sc.DepartureTime)
	fmt.Fprintf(m.out, "Arrival: %s at %s\n", sc.ArrivalStation, sc.ArrivalTime)
	return nil
}

func (m *Menu) showPassenger() error {
	id, err := m.prompt("Enter Passenger ID: ")
	if err != nil {
		return err
	}
	p, err := m.ledger.GetPassenger(strings.TrimSpace(id))
	if err != nil {
		m.report(err)
		return nil
	}
	fmt.Fprintf(m.out, "\nPassenger ID: %s\n", p.ID)
	fmt.Fprintf(m.out, "Name: %s\n", p.Name)
	fmt.Fprintf(m.out, "Age: %d\n", p.Age)
	fmt.Fprintf(m.out, "Gender: %s\n", p.Gender)
	return nil
}

func (m *Menu) showBooking() error {
	id, err := m.prompt("Enter Booking ID: ")
	if err != nil {
		return err
	}
	b, err := m.ledger.GetBooking(strings.TrimSpace(id))
	if err != nil {
		m.report(err)
		return nil
	}
	fmt.Fprintf(m.out, "\nBooking ID: %s\n", b.ID)
	fmt.Fprintf(m.out, "Passenger ID: %s\n", b.PassengerID)
	fmt.Fprintf(m.out, "Train ID: %s\n", b.TrainID)
	fmt.Fprintf(m.out, "Schedule ID: %s\n", b.ScheduleID)
	fmt.Fprintf(m.out, "Seat Number: %d\n", b.SeatNumber)
	fmt.Fprintf(m.out, "Booking Date: %s\n", b.BookingDate)
	return nil
}

var kindTitles = map[string]string{
	"train":     "Train",
	"schedule":  "Schedule",
	"passenger": "Passenger",
	"booking":   "Booking",
}

// report prints a refused or failed operation in the operator's terms.
func (m *Menu) report(err error) {
	r, ok := service.AsRejection(err)
	if !ok {
		fmt.Fprintf(m.out, "Could not save data: %v\n", err)
		return
	}
	title := kindTitles[r.Kind]
	if title == "" {
		title = r.Kind
	}
	switch r.Reason {
	case service.ReasonDuplicateIdentifier:
		fmt.Fprintf(m.out, "%s ID already exists!\n", title)
	case service.ReasonUnknownReference:
		fmt.Fprintf(m.out, "%s does not exist!\n", title)
	case service.ReasonExhaustedResource:
		fmt.Fprintln(m.out, "No seats available on this train!")
	case service.ReasonNotFound:
		fmt.Fprintf(m.out, "%s not found!\n", title)
	case service.ReasonInvalidInput:
		fmt.Fprintf(m.out, "Invalid input: %s\n", r.Detail)
	default:
		fmt.Fprintln(m.out, r.Error())
	}
}
