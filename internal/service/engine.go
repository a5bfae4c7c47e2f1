package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"uno_server/internal/domain"
	"uno_server/internal/game"
	"uno_server/internal/logger"
)

// Transport pushes events to connections. Sends are best effort and must
// not block: the engine calls them with a room lock held.
type Transport interface {
	Send(connID, event string, payload any)
	BroadcastToRoom(roomCode, event string, payload any)
	AddConnectionToRoom(connID, roomCode string)
	RemoveConnectionFromRoom(connID, roomCode string)
	Connected(connID string) bool
}

// Store keeps a snapshot of every open room so the server can come back
// after a restart. Save and Delete are called with the room lock held.
type Store interface {
	Load(ctx context.Context) (map[string]*game.Session, error)
	Save(ctx context.Context, s *game.Session) error
	Delete(ctx context.Context, code string) error
}

// HistoryRecorder stores finished games.
type HistoryRecorder interface {
	Create(ctx context.Context, rec *domain.GameRecord) error
}

// Engine applies client commands to rooms. Each command runs under the lock
// of its room: look up, validate, mutate, persist, then broadcast.
type Engine struct {
	registry  *game.Registry
	transport Transport
	store     Store
	history   HistoryRecorder

	log        *slog.Logger
	now        func() time.Time
	wg         sync.WaitGroup
	restoredAt time.Time
}

// NewEngine wires the engine. store and history may be nil.
func NewEngine(registry *game.Registry, transport Transport, store Store, history HistoryRecorder) *Engine {
	return &Engine{
		registry:  registry,
		transport: transport,
		store:     store,
		history:   history,
		log:       logger.With("component", "engine"),
		now:       time.Now,
	}
}

// Restore loads persisted rooms into the registry.
func (e *Engine) Restore(ctx context.Context) (int, error) {
	if e.store == nil {
		return 0, nil
	}
	sessions, err := e.store.Load(ctx)
	if err != nil {
		StoreErrors.WithLabelValues("load").Inc()
		return 0, fmt.Errorf("load snapshots: %w", err)
	}
	n := e.registry.Restore(sessions)
	if n > 0 {
		e.restoredAt = e.now()
	}
	RoomsActive.Set(float64(e.registry.Len()))
	e.log.Info("rooms restored", "count", n)
	return n, nil
}

// Connect greets a new connection with its id and, when it still holds a
// seat in a restored room, puts it back into that room.
func (e *Engine) Connect(ctx context.Context, connID string) {
	e.transport.Send(connID, EventConnected, ConnectedPayload{ConnectionID: connID})

	for _, code := range e.registry.RoomsOf(connID) {
		rm, err := e.registry.Acquire(code)
		if err != nil {
			continue
		}
		s := rm.Session()
		if p, ok := s.Player(connID); ok {
			e.transport.AddConnectionToRoom(connID, s.Code)
			e.transport.Send(connID, EventRoomJoined, RoomPayload{RoomCode: s.Code, PlayerName: p.Name})
			if s.Started {
				e.transport.Send(connID, EventGameUpdate, s.ViewFor(connID))
			} else {
				e.transport.Send(connID, EventPlayersUpdate, playersPayload(s))
			}
			e.log.Info("connection reattached", "room", s.Code, "conn", connID)
		}
		rm.Release()
	}
}

// Handle runs one command from connID. Validation errors go back to the
// sender as an error event; session faults go to the whole room. The
// error is returned for callers that want it.
func (e *Engine) Handle(ctx context.Context, connID string, cmd Command) error {
	var err error
	switch c := cmd.(type) {
	case CreateRoom:
		err = e.createRoom(ctx, connID, c)
	case JoinRoom:
		err = e.joinRoom(ctx, connID, c)
	case RespondToJoinRequest:
		err = e.respondToJoinRequest(ctx, connID, c)
	case StartGame:
		err = e.startGame(ctx, connID, c)
	case PlayCard:
		err = e.playCard(ctx, connID, c)
	case DrawCard:
		err = e.drawCard(ctx, connID, c)
	case SayUno:
		err = e.sayUno(connID, c)
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
	e.report(connID, cmd, err)
	return err
}

func (e *Engine) report(connID string, cmd Command, err error) {
	name := "unknown"
	if cmd != nil {
		name = cmd.Name()
	}

	switch {
	case err == nil:
		ActionsTotal.WithLabelValues(name, "ok").Inc()
	case game.IsValidation(err):
		ActionsTotal.WithLabelValues(name, "rejected").Inc()
		e.transport.Send(connID, EventError, ErrorPayload{Message: err.Error()})
	case game.IsFatal(err):
		ActionsTotal.WithLabelValues(name, "fault").Inc()
	default:
		ActionsTotal.WithLabelValues(name, "error").Inc()
		e.log.Error("action failed", "conn", connID, "command", name, "error", err)
		e.transport.Send(connID, EventError, ErrorPayload{Message: "internal error"})
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (e *Engine) createRoom(ctx context.Context, connID string, c CreateRoom) error {
	host := game.Player{ID: connID, Name: strings.TrimSpace(c.PlayerName)}
	rm, err := e.registry.Create(host)
	if err != nil {
		return err
	}
	defer rm.Release()

	s := rm.Session()
	RoomsActive.Set(float64(e.registry.Len()))
	e.persist(ctx, s)

	e.transport.AddConnectionToRoom(connID, s.Code)
	e.transport.Send(connID, EventRoomCreated, RoomPayload{RoomCode: s.Code, PlayerName: host.Name})
	e.transport.BroadcastToRoom(s.Code, EventPlayersUpdate, playersPayload(s))
	e.log.Info("room created", "room", s.Code, "host", host.Name)
	return nil
}

func (e *Engine) joinRoom(ctx context.Context, connID string, c JoinRoom) error {
	rm, err := e.registry.Acquire(normalizeCode(c.RoomCode))
	if err != nil {
		return err
	}
	defer rm.Release()

	s := rm.Session()
	p := game.Player{ID: connID, Name: strings.TrimSpace(c.PlayerName)}
	if err := s.RequestJoin(p); err != nil {
		return err
	}
	e.persist(ctx, s)

	e.transport.Send(connID, EventWaitingForApproval, WaitingPayload{RoomCode: s.Code})
	e.transport.Send(s.HostID, EventNewJoinRequest, JoinRequestPayload{ID: p.ID, Name: p.Name})
	e.sendPending(s)
	return nil
}

func (e *Engine) respondToJoinRequest(ctx context.Context, connID string, c RespondToJoinRequest) error {
	rm, err := e.registry.Acquire(normalizeCode(c.RoomCode))
	if err != nil {
		return err
	}
	defer rm.Release()

	s := rm.Session()
	p, err := s.ResolveJoin(connID, c.PlayerID, c.Accept)
	if err != nil {
		return err
	}
	e.persist(ctx, s)

	if c.Accept {
		e.transport.AddConnectionToRoom(p.ID, s.Code)
		e.transport.Send(p.ID, EventRoomJoined, RoomPayload{RoomCode: s.Code, PlayerName: p.Name})
		e.transport.BroadcastToRoom(s.Code, EventPlayersUpdate, playersPayload(s))
		e.log.Info("player admitted", "room", s.Code, "player", p.Name)
	} else {
		e.transport.Send(p.ID, EventError, ErrorPayload{Message: "join request rejected"})
	}
	e.sendPending(s)
	return nil
}

func (e *Engine) startGame(ctx context.Context, connID string, c StartGame) error {
	rm, err := e.registry.Acquire(normalizeCode(c.RoomCode))
	if err != nil {
		return err
	}
	defer rm.Release()

	s := rm.Session()
	dropped, err := s.Start(connID)
	if err != nil {
		if game.IsFatal(err) {
			e.fault(s, err)
		}
		return err
	}
	e.persist(ctx, s)
	e.broadcastGame(s)

	for _, p := range dropped {
		e.transport.Send(p.ID, EventError, ErrorPayload{Message: game.ErrAlreadyStarted.Error()})
	}
	if len(dropped) > 0 {
		e.sendPending(s)
	}
	e.log.Info("game started", "room", s.Code, "players", len(s.Players))
	return nil
}

func (e *Engine) playCard(ctx context.Context, connID string, c PlayCard) error {
	rm, err := e.registry.Acquire(normalizeCode(c.RoomCode))
	if err != nil {
		return err
	}
	defer rm.Release()

	s := rm.Session()
	card, err := s.PlayCard(connID, c.CardIndex, c.WildColor)
	if err != nil {
		if game.IsFatal(err) {
			e.fault(s, err)
		}
		return err
	}
	e.persist(ctx, s)
	e.broadcastGame(s)

	if s.Winner != "" {
		GamesWon.Inc()
		e.log.Info("game won", "room", s.Code, "winner", s.Winner, "card", card.String())
		e.recordWin(s)
	}
	return nil
}

func (e *Engine) drawCard(ctx context.Context, connID string, c DrawCard) error {
	rm, err := e.registry.Acquire(normalizeCode(c.RoomCode))
	if err != nil {
		return err
	}
	defer rm.Release()

	s := rm.Session()
	if _, err := s.DrawCard(connID); err != nil {
		if game.IsFatal(err) {
			e.fault(s, err)
		}
		return err
	}
	e.persist(ctx, s)
	e.broadcastGame(s)
	return nil
}

// sayUno is ignored for unknown rooms and for connections without a seat.
func (e *Engine) sayUno(connID string, c SayUno) error {
	rm, err := e.registry.Acquire(normalizeCode(c.RoomCode))
	if err != nil {
		return nil
	}
	defer rm.Release()

	s := rm.Session()
	if p, ok := s.Player(connID); ok {
		e.transport.BroadcastToRoom(s.Code, EventPlayerSaidUno, SaidUnoPayload{Name: p.Name})
	}
	return nil
}

// Disconnect removes connID from every room it sits or waits in.
func (e *Engine) Disconnect(ctx context.Context, connID string) {
	for _, code := range e.registry.RoomsOf(connID) {
		rm, err := e.registry.Acquire(code)
		if err != nil {
			continue
		}
		if rm.Session().HasConnection(connID) {
			e.reconcile(ctx, rm, connID)
		}
		rm.Release()
	}
}

func (e *Engine) reconcile(ctx context.Context, rm *game.Room, connID string) {
	s := rm.Session()
	out := s.RemoveConnection(connID)
	e.transport.RemoveConnectionFromRoom(connID, s.Code)

	if out.Destroyed {
		e.destroy(ctx, rm)
		return
	}
	e.persist(ctx, s)

	if out.WasPlayer {
		e.log.Info("player left", "room", s.Code, "player", out.Removed.Name, "host_changed", out.HostChanged)
		e.transport.BroadcastToRoom(s.Code, EventPlayerLeft, PlayerLeftPayload{
			PlayerName: out.Removed.Name,
			Players:    slices.Clone(s.Players),
			Host:       s.HostID,
		})
		if s.Started {
			e.broadcastGame(s)
		} else {
			e.transport.BroadcastToRoom(s.Code, EventPlayersUpdate, playersPayload(s))
		}
	}
	if out.PendingChanged || (out.HostChanged && len(s.Pending) > 0) {
		e.sendPending(s)
	}
}

func (e *Engine) destroy(ctx context.Context, rm *game.Room) {
	code := rm.Session().Code
	e.registry.Destroy(rm)
	RoomsActive.Set(float64(e.registry.Len()))
	if e.store != nil {
		if err := e.store.Delete(ctx, code); err != nil {
			StoreErrors.WithLabelValues("delete").Inc()
			e.log.Warn("snapshot delete failed", "room", code, "error", err)
		}
	}
	e.log.Info("room destroyed", "room", code)
}

// StartCleanup periodically drops rooms in which no member is connected
// and nothing happened for maxIdle. Such rooms come from snapshots whose
// players never came back after a restart. Once maxIdle has passed since
// the restore, seats still without a connection are released as if their
// players had disconnected.
func (e *Engine) StartCleanup(ctx context.Context, interval, maxIdle time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e.cleanupStaleRooms(ctx, maxIdle)
			}
		}
	}()
}

func (e *Engine) cleanupStaleRooms(ctx context.Context, maxIdle time.Duration) int {
	now := e.now()
	removed := 0
	for _, code := range e.registry.Codes() {
		rm, err := e.registry.Acquire(code)
		if err != nil {
			continue
		}
		s := rm.Session()
		switch {
		case now.Sub(s.UpdatedAt) > maxIdle && !e.anyConnected(s):
			e.destroy(ctx, rm)
			removed++
		case now.Sub(e.restoredAt) > maxIdle:
			if e.dropAbsent(ctx, rm) {
				removed++
			}
		}
		rm.Release()
	}
	return removed
}

// dropAbsent reconciles every member of a held room that has no live
// connection. It reports whether the room was destroyed on the way.
func (e *Engine) dropAbsent(ctx context.Context, rm *game.Room) bool {
	s := rm.Session()
	for _, p := range slices.Concat(s.Players, s.Pending) {
		if e.transport.Connected(p.ID) || !s.HasConnection(p.ID) {
			continue
		}
		e.log.Info("releasing abandoned seat", "room", s.Code, "player", p.Name)
		e.reconcile(ctx, rm, p.ID)
		if len(s.Players) == 0 {
			return true
		}
	}
	return false
}

func (e *Engine) anyConnected(s *game.Session) bool {
	for _, p := range slices.Concat(s.Players, s.Pending) {
		if e.transport.Connected(p.ID) {
			return true
		}
	}
	return false
}

// Wait blocks until background history writes are done.
func (e *Engine) Wait() {
	e.wg.Wait()
}

func (e *Engine) persist(ctx context.Context, s *game.Session) {
	s.UpdatedAt = e.now()
	if e.store == nil {
		return
	}
	if err := e.store.Save(ctx, s); err != nil {
		StoreErrors.WithLabelValues("save").Inc()
		e.log.Warn("snapshot save failed", "room", s.Code, "error", err)
	}
}

func (e *Engine) fault(s *game.Session, err error) {
	kind := "setup"
	if errors.Is(err, game.ErrDeckExhausted) {
		kind = "deck_exhausted"
	}
	SessionFaults.WithLabelValues(kind).Inc()
	e.log.Error("session fault", "room", s.Code, "kind", kind, "error", err)
	e.transport.BroadcastToRoom(s.Code, EventSessionError, SessionErrorPayload{
		RoomCode: s.Code,
		Message:  err.Error(),
	})
}

// broadcastGame sends every player their own view of the table.
func (e *Engine) broadcastGame(s *game.Session) {
	for _, p := range s.Players {
		e.transport.Send(p.ID, EventGameUpdate, s.ViewFor(p.ID))
	}
}

func (e *Engine) sendPending(s *game.Session) {
	e.transport.Send(s.HostID, EventPendingUpdate, PendingPayload{
		RoomCode: s.Code,
		Pending:  slices.Clone(s.Pending),
	})
}

func playersPayload(s *game.Session) PlayersPayload {
	return PlayersPayload{
		RoomCode: s.Code,
		Players:  slices.Clone(s.Players),
		Host:     s.HostID,
	}
}

func (e *Engine) recordWin(s *game.Session) {
	if e.history == nil {
		return
	}
	rec := &domain.GameRecord{
		RoomCode: s.Code,
		Winner:   s.Winner,
		Players:  make([]string, 0, len(s.Players)),
	}
	for _, p := range s.Players {
		rec.Players = append(rec.Players, p.Name)
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.history.Create(ctx, rec); err != nil {
			e.log.Warn("game history store failed", "room", rec.RoomCode, "error", err)
		}
	}()
}
