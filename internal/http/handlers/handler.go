package handlers

import (
	"context"

	"uno_server/internal/domain"
	"uno_server/internal/service"
	"uno_server/internal/ws"
)

// HistoryReader lists finished games for a player.
type HistoryReader interface {
	GetByPlayerName(ctx context.Context, name string, limit int) ([]*domain.GameRecord, error)
	CountWins(ctx context.Context, name string) (int, error)
}

type Handler struct {
	Hub         *ws.Hub
	Dispatcher  ws.Dispatcher
	Tickets     *service.TicketIssuer // nil: tickets disabled
	HistoryRepo HistoryReader         // nil: history disabled

	AllowedOrigin string
	SendBuffer    int
	HistoryLimit  int
}
