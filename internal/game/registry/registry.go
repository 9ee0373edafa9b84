// Package registry tracks live rooms and which room each player is in, and
// evicts rooms that have gone idle.
package registry

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/sudokulab/arena/internal/game/domain"
)

var (
	// ErrNotFound indicates no live room with the given id.
	ErrNotFound = errors.New("room not found")
	// ErrDuplicateRoom indicates the room id is already registered.
	ErrDuplicateRoom = errors.New("room id already registered")
)

// Defaults for idle eviction.
const (
	DefaultIdleAfter     = 30 * time.Minute
	DefaultSweepInterval = 5 * time.Minute
)

// Config carries the registry's tunables. Zero values take the defaults.
type Config struct {
	IdleAfter     time.Duration
	SweepInterval time.Duration
	Clock         func() time.Time
	// OnEvict is called after each idle eviction with the evicted room's
	// id, outside the registry's locks. Optional.
	OnEvict func(roomID string)
}

// entry pairs a room with its own lock so operations on different rooms never
// contend. lastActivity and deleted are guarded by the registry mutex.
type entry struct {
	mu           sync.Mutex
	room         *domain.Room
	lastActivity time.Time
	deleted      bool
}

// Registry is the live-room index. All methods are safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	rooms   map[string]*entry
	players map[string]string // player id -> room id

	idleAfter     time.Duration
	sweepInterval time.Duration
	clock         func() time.Time
	onEvict       func(roomID string)

	stopOnce sync.Once
	stop     chan struct{}
	stopped  chan struct{}
}

// New builds a registry. Call Start to begin the idle sweep.
func New(cfg Config) *Registry {
	if cfg.IdleAfter <= 0 {
		cfg.IdleAfter = DefaultIdleAfter
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Registry{
		rooms:         make(map[string]*entry),
		players:       make(map[string]string),
		idleAfter:     cfg.IdleAfter,
		sweepInterval: cfg.SweepInterval,
		clock:         cfg.Clock,
		onEvict:       cfg.OnEvict,
		stop:          make(chan struct{}),
		stopped:       make(chan struct{}),
	}
}

// Add registers a new room and stamps its activity.
func (r *Registry) Add(room *domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rooms[room.ID]; exists {
		return ErrDuplicateRoom
	}
	r.rooms[room.ID] = &entry{room: room, lastActivity: r.clock()}
	return nil
}

// With runs fn with exclusive access to the room. When fn reports remove, the
// room and its player bindings are dropped before With returns. Errors from
// fn pass through unchanged.
func (r *Registry) With(roomID string, fn func(room *domain.Room) (remove bool, err error)) error {
	r.mu.Lock()
	e, ok := r.rooms[roomID]
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// The sweeper may have evicted the room between the lookup and taking
	// the entry lock.
	r.mu.Lock()
	deleted := e.deleted
	r.mu.Unlock()
	if deleted {
		return ErrNotFound
	}

	remove, err := fn(e.room)
	if remove {
		r.removeEntry(roomID, e)
	}
	return err
}

// Touch stamps the room's activity. Rooms are touched on create, join, and
// moves; chat and cursor traffic does not keep a room alive.
func (r *Registry) Touch(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.rooms[roomID]; ok {
		e.lastActivity = r.clock()
	}
}

// Bind records which room a player is in.
func (r *Registry) Bind(playerID, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[playerID] = roomID
}

// Unbind clears a player's room binding.
func (r *Registry) Unbind(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, playerID)
}

// RoomByPlayer returns the id of the room the player is bound to.
func (r *Registry) RoomByPlayer(playerID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	roomID, ok := r.players[playerID]
	return roomID, ok
}

// Len returns the number of live rooms.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

// Start launches the idle sweeper in its own goroutine.
func (r *Registry) Start() {
	go func() {
		defer close(r.stopped)
		ticker := time.NewTicker(r.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.Sweep()
			case <-r.stop:
				return
			}
		}
	}()
}

// Stop halts the sweeper and waits for it to exit.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
	<-r.stopped
}

// Sweep evicts every room idle for longer than the configured threshold and
// returns how many were removed.
func (r *Registry) Sweep() int {
	cutoff := r.clock().Add(-r.idleAfter)

	r.mu.Lock()
	var idle []*entry
	var ids []string
	for id, e := range r.rooms {
		if e.lastActivity.Before(cutoff) {
			idle = append(idle, e)
			ids = append(ids, id)
		}
	}
	r.mu.Unlock()

	var evicted []string
	for i, e := range idle {
		e.mu.Lock()
		r.mu.Lock()
		// Re-check under both locks: the room may have been touched or
		// removed since the scan.
		if !e.deleted && e.lastActivity.Before(cutoff) {
			r.mu.Unlock()
			r.removeEntry(ids[i], e)
			evicted = append(evicted, ids[i])
			log.Printf("registry: evicted idle room %s", ids[i])
		} else {
			r.mu.Unlock()
		}
		e.mu.Unlock()
	}
	if r.onEvict != nil {
		for _, id := range evicted {
			r.onEvict(id)
		}
	}
	return len(evicted)
}

// removeEntry drops the room and every player bound to it. The caller holds
// the entry lock.
func (r *Registry) removeEntry(roomID string, e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.deleted = true
	delete(r.rooms, roomID)
	for _, p := range e.room.Players {
		if r.players[p.ID] == roomID {
			delete(r.players, p.ID)
		}
	}
}
