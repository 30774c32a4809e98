// Package adgate runs the rewarded-ad flow that stands between an empty
// delete-credit balance and the next deletion: confirm, play one creative,
// and release the close control only once the completion condition holds.
package adgate

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"memoboard/api/internal/ads"
)

// DefaultDwell is how long an image creative must stay on screen before
// the session counts as completed. Videos complete on their natural end
// instead.
const DefaultDwell = 5 * time.Second

type State int

const (
	StateIdle State = iota
	StateConfirming
	StatePlaying
	StateCompleted
	StateSkipped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfirming:
		return "confirming"
	case StatePlaying:
		return "playing"
	case StateCompleted:
		return "completed"
	case StateSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// CreativeSource yields the inventory the gate picks from.
type CreativeSource interface {
	Pick(rng *rand.Rand) ads.Creative
}

// Prompter asks whether the user wants to watch an ad to unlock deletion.
type Prompter interface {
	ConfirmWatch(ctx context.Context) bool
}

// Player renders a creative. The returned channel closes when a video
// reaches its natural end; for images the dwell timer decides completion
// and the channel is ignored. Click-through to the advertiser link is the
// player's concern and has no effect on the gate.
type Player interface {
	Play(ctx context.Context, creative ads.Creative) (<-chan struct{}, error)
}

// Ledger is the credit sink rewarded on completion.
type Ledger interface {
	Reward()
}

// session is the ephemeral per-run state, discarded when the modal closes.
type session struct {
	creative  ads.Creative
	shownAt   time.Time
	completed bool
}

// Gate drives one ad session at a time. The close control stays gated
// until the completion condition fires: no reward is possible without
// either full video playback or the minimum image dwell. There is no skip
// path once playback starts; user cancellation happens only at the
// confirmation prompt.
type Gate struct {
	source   CreativeSource
	prompter Prompter
	player   Player
	ledger   Ledger

	dwell time.Duration
	rng   *rand.Rand
	after func(time.Duration) <-chan time.Time

	mu       sync.Mutex
	state    State
	canClose bool
	current  *session
}

func New(source CreativeSource, prompter Prompter, player Player, ledger Ledger) *Gate {
	return &Gate{
		source:   source,
		prompter: prompter,
		player:   player,
		ledger:   ledger,
		dwell:    DefaultDwell,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		after:    time.After,
		state:    StateIdle,
	}
}

// State reports the current machine state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// CanClose reports whether the close control is enabled. It flips to true
// only when the completion condition has fired.
func (g *Gate) CanClose() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.canClose
}

// Run drives one delete attempt's ad session to a verdict: true means the
// ad completed and the ledger was topped up, false means no credit was
// granted. Declining the prompt, a player failure, or context cancellation
// all resolve false; none of them are errors. A second Run while a session
// is showing resolves false immediately.
func (g *Gate) Run(ctx context.Context) bool {
	g.mu.Lock()
	if g.state != StateIdle {
		g.mu.Unlock()
		return false
	}
	g.state = StateConfirming
	g.mu.Unlock()

	if !g.prompter.ConfirmWatch(ctx) {
		g.reset()
		return false
	}

	creative := g.source.Pick(g.rng)
	g.mu.Lock()
	g.state = StatePlaying
	g.current = &session{creative: creative, shownAt: time.Now()}
	g.mu.Unlock()

	ended, err := g.player.Play(ctx, creative)
	if err != nil {
		g.reset()
		return false
	}

	if creative.Type == ads.CreativeVideo {
		select {
		case <-ended:
		case <-ctx.Done():
			g.reset()
			return false
		}
	} else {
		select {
		case <-g.after(g.dwell):
		case <-ctx.Done():
			g.reset()
			return false
		}
	}

	g.mu.Lock()
	g.state = StateCompleted
	g.canClose = true
	g.current.completed = true
	g.mu.Unlock()

	g.ledger.Reward()
	g.reset()
	return true
}

// reset tears the session down and returns the machine to Idle regardless
// of outcome.
func (g *Gate) reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = StateIdle
	g.canClose = false
	g.current = nil
}
