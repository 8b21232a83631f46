// Package gate holds an anonymous heart tap until the profile screen learns whether the user signed in.
//
// One [Gate] lives for one visit to the profile screen. [Open] captures the stored [models.PendingFavorite] on
// mount; [Gate.Close] runs on unmount and either keeps the tap (the confirmation marker names the entry) or reverts
// the ledger to the entry's prior state. Close always clears the entry and the markers, and only acts once.
//
// The stored entry is a single slot: arming a second tap before the screen mounts replaces the first.
package gate

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/niagara/internal/favorites"
	"github.com/desertthunder/niagara/internal/models"
	"github.com/desertthunder/niagara/internal/shared"
	"github.com/desertthunder/niagara/internal/store"
)

// State is the position of a [Gate] in its lifecycle.
type State int

const (
	NoGate State = iota
	GateOpen
	Resolved
	Reverted
)

func (s State) String() string {
	switch s {
	case NoGate:
		return "no-gate"
	case GateOpen:
		return "open"
	case Resolved:
		return "resolved"
	case Reverted:
		return "reverted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Arm stores the entry for an anonymous tap on id whose membership before the tap was prevSaved.
func Arm(st *store.Store, id models.FavoriteID, prevSaved bool, at time.Time) error {
	return st.SetPendingFavorite(models.NewPendingFavorite(id, prevSaved, at))
}

// Gate is one mount of the profile screen.
type Gate struct {
	store  *store.Store
	ledger *favorites.Ledger
	logger *log.Logger

	mu    sync.Mutex
	entry models.PendingFavorite
	state State
	once  sync.Once
}

// Open reads the stored entry. When none exists but eventIDParam names an event (a deep link or a reload), it
// synthesizes one with prevSaved false so that closing without a sign-in still reverts sanely.
func Open(st *store.Store, ledger *favorites.Ledger, eventIDParam string, logger *log.Logger) *Gate {
	if logger == nil {
		logger = log.Default()
	}
	g := &Gate{store: st, ledger: ledger, logger: shared.WithLogger(logger, "component", "gate")}

	if entry, ok := st.PendingFavorite(); ok {
		g.entry, g.state = entry, GateOpen
	} else if id, err := models.NewFavoriteID(eventIDParam); err == nil {
		g.entry, g.state = models.PendingFavorite{EventID: id, PrevSaved: false}, GateOpen
		g.logger.Debug("synthesized pending favorite from navigation", "event", id)
	}

	if g.state == GateOpen {
		g.logger.Debug("gate open", "event", g.entry.EventID, "prev_saved", g.entry.PrevSaved)
	}
	return g
}

// Entry returns the captured entry while the gate is open.
func (g *Gate) Entry() (models.PendingFavorite, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.entry, g.state == GateOpen
}

// State returns the current lifecycle state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Confirmed reports whether the stored markers would resolve the gate right now.
//
// The legacy flag confirms any open entry.
func (g *Gate) Confirmed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.confirmed()
}

func (g *Gate) confirmed() bool {
	if g.state != GateOpen {
		return false
	}
	if g.store.LegacyConfirmed() {
		return true
	}
	id, ok := g.store.ConfirmedEvent()
	return ok && id == g.entry.EventID
}

// Close resolves or reverts the gate and clears the entry and markers. Later calls return the first outcome.
func (g *Gate) Close() State {
	g.once.Do(func() {
		g.mu.Lock()
		defer g.mu.Unlock()

		if g.state == GateOpen {
			if g.confirmed() {
				g.state = Resolved
				g.logger.Info("pending favorite confirmed", "event", g.entry.EventID)
			} else {
				g.state = Reverted
				if err := g.ledger.SetFavorite(g.entry.EventID, g.entry.PrevSaved); err != nil {
					g.logger.Error("failed to revert pending favorite", "event", g.entry.EventID, "error", err)
				} else {
					g.logger.Info("pending favorite reverted", "event", g.entry.EventID, "saved", g.entry.PrevSaved)
				}
			}
		}

		if err := g.store.ClearPendingFavorite(); err != nil {
			g.logger.Error("failed to clear pending favorite", "error", err)
		}
		if err := g.store.ClearConfirmation(); err != nil {
			g.logger.Error("failed to clear confirmation marker", "error", err)
		}
	})
	return g.State()
}
