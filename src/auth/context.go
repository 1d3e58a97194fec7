package auth

import "context"

type contextKey string

const TicketKey contextKey = "authTicket"

func WithTicket(ctx context.Context, ticket *Ticket) context.Context {
	return context.WithValue(ctx, TicketKey, ticket)
}

func GetTicketFromContext(ctx context.Context) (*Ticket, bool) {
	ticket, ok := ctx.Value(TicketKey).(*Ticket)
	return ticket, ok
}
