// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketPurchasedEvent is published after a ticket purchase commits. It
// carries enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type TicketPurchasedEvent struct {
	TicketID     uint64 `json:"ticket_id"`
	UserID       uint64 `json:"user_id"`
	ShowtimeID   uint64 `json:"showtime_id"`
	HallID       uint64 `json:"hall_id"`
	HallName     string `json:"hall_name"`
	Title        string `json:"title"`
	PurchaseDate string `json:"purchase_date"`
	StartTime    string `json:"start_time"`
	Quantity     uint32 `json:"quantity"`
	AmountCents  uint64 `json:"amount_cents"`
	PurchasedAt  string `json:"purchased_at"`
}
