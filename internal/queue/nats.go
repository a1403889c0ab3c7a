package queue

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/nats-io/nats.go"
)

// NATSPublisher publishes ticket events on
// "ticket.booked.<train>" subjects over a long-lived connection.
type NATSPublisher struct {
	nc *nats.Conn
}

// NewNATSPublisher connects to the server at url.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("railway-ledger"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			log.Printf("nats closed")
		}),
	)
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{nc: nc}, nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() {
	if p.nc != nil {
		_ = p.nc.Drain()
		p.nc.Close()
	}
}

func (p *NATSPublisher) PublishTicketBooked(_ context.Context, ev TicketBookedEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg := nats.NewMsg(TicketSubject(ev.TrainID))
	msg.Data = b
	msg.Header.Set(nats.MsgIdHdr, ev.EventID)
	return p.nc.PublishMsg(msg)
}

// TicketSubject returns the subject for bookings on trainID.
func TicketSubject(trainID string) string {
	return TicketBookedQueue + "." + subjectToken(trainID)
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS token cannot contain spaces, '>', '*', or '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
