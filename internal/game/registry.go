package game

import (
	"math/rand/v2"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	roomCodeLength  = 6
	roomCodeChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxCodeAttempts = 64
)

// Room guards one session. Every action on a room runs with its lock held.
type Room struct {
	mu      sync.Mutex
	session *Session
	closed  bool

	reg     *Registry
	indexed []string // connection ids last recorded in reg.members
}

// Session returns the guarded session. Callers must hold the room.
func (rm *Room) Session() *Session {
	return rm.session
}

// Release unlocks a room obtained from Acquire or Create. Membership
// changes made while holding the room become visible to RoomsOf.
func (rm *Room) Release() {
	rm.reg.index(rm)
	rm.mu.Unlock()
}

// Registry owns the mapping from room code to room.
type Registry struct {
	mu      sync.RWMutex
	rooms   map[string]*Room
	members map[string]map[string]struct{} // connection id -> room codes

	rng   *rand.Rand
	codes func() string
	now   func() time.Time
}

type Option func(*Registry)

// WithSeed makes shuffles and generated codes reproducible.
func WithSeed(seed uint64) Option {
	return func(r *Registry) {
		r.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithCodeGenerator replaces the default six-character room codes.
func WithCodeGenerator(gen func() string) Option {
	return func(r *Registry) {
		r.codes = gen
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		rooms:   make(map[string]*Room),
		members: make(map[string]map[string]struct{}),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return r
}

// newRand derives an independent source for one session. Caller holds r.mu.
func (r *Registry) newRand() *rand.Rand {
	return rand.New(rand.NewPCG(r.rng.Uint64(), r.rng.Uint64()))
}

// nextCode draws a candidate room code. Caller holds r.mu.
func (r *Registry) nextCode() string {
	if r.codes != nil {
		return r.codes()
	}
	b := make([]byte, roomCodeLength)
	for i := range b {
		b[i] = roomCodeChars[r.rng.IntN(len(roomCodeChars))]
	}
	return string(b)
}

// Create opens a new room hosted by host. The room is returned locked.
func (r *Registry) Create(host Player) (*Room, error) {
	if strings.TrimSpace(host.Name) == "" {
		return nil, ErrNameRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := r.nextCode()
		if _, taken := r.rooms[code]; taken {
			continue
		}
		rm := &Room{session: NewSession(code, host, r.newRand(), r.now()), reg: r}
		rm.mu.Lock()
		r.rooms[code] = rm
		return rm, nil
	}
	return nil, ErrNoRoomCode
}

// Acquire locks the room with the given code.
func (r *Registry) Acquire(code string) (*Room, error) {
	r.mu.RLock()
	rm, ok := r.rooms[code]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrRoomNotFound
	}

	rm.mu.Lock()
	if rm.closed {
		rm.mu.Unlock()
		return nil, ErrRoomNotFound
	}
	return rm, nil
}

// Destroy drops a room the caller holds. Actions already waiting on the
// room lock will see it as not found.
func (r *Registry) Destroy(rm *Room) {
	rm.closed = true
	r.mu.Lock()
	if cur, ok := r.rooms[rm.session.Code]; ok && cur == rm {
		delete(r.rooms, rm.session.Code)
	}
	r.relink(rm.session.Code, rm.indexed, nil)
	r.mu.Unlock()
	rm.indexed = nil
}

// RoomsOf returns the codes of the rooms connID sits or waits in, sorted.
func (r *Registry) RoomsOf(connID string) []string {
	r.mu.RLock()
	codes := make([]string, 0, len(r.members[connID]))
	for code := range r.members[connID] {
		codes = append(codes, code)
	}
	r.mu.RUnlock()
	sort.Strings(codes)
	return codes
}

// index records the current members of a held room.
func (r *Registry) index(rm *Room) {
	var ids []string
	if !rm.closed {
		ids = memberIDs(rm.session)
	}
	if slices.Equal(ids, rm.indexed) {
		return
	}
	r.mu.Lock()
	r.relink(rm.session.Code, rm.indexed, ids)
	r.mu.Unlock()
	rm.indexed = ids
}

// relink moves code from the old members to the new ones. Caller holds r.mu.
func (r *Registry) relink(code string, old, ids []string) {
	for _, id := range old {
		delete(r.members[id], code)
		if len(r.members[id]) == 0 {
			delete(r.members, id)
		}
	}
	for _, id := range ids {
		if r.members[id] == nil {
			r.members[id] = make(map[string]struct{})
		}
		r.members[id][code] = struct{}{}
	}
}

func memberIDs(s *Session) []string {
	ids := make([]string, 0, len(s.Players)+len(s.Pending))
	for _, p := range s.Players {
		ids = append(ids, p.ID)
	}
	for _, p := range s.Pending {
		ids = append(ids, p.ID)
	}
	return ids
}

// Restore loads persisted sessions, typically at process start. Sessions
// without players and codes already in use are skipped.
func (r *Registry) Restore(sessions map[string]*Session) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for code, s := range sessions {
		if s == nil || len(s.Players) == 0 {
			continue
		}
		if _, taken := r.rooms[code]; taken {
			continue
		}
		s.Code = code
		if s.Deck == nil {
			s.Deck = NewDeck(r.newRand())
		} else {
			s.Deck.rng = r.newRand()
		}
		if s.Hands == nil {
			s.Hands = make(map[string][]Card)
		}
		if s.Direction == 0 {
			s.Direction = 1
		}
		rm := &Room{session: s, reg: r, indexed: memberIDs(s)}
		r.relink(code, nil, rm.indexed)
		r.rooms[code] = rm
		n++
	}
	return n
}

// Codes returns the codes of all open rooms in sorted order.
func (r *Registry) Codes() []string {
	r.mu.RLock()
	codes := make([]string, 0, len(r.rooms))
	for code := range r.rooms {
		codes = append(codes, code)
	}
	r.mu.RUnlock()
	sort.Strings(codes)
	return codes
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
