package adgate

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"memoboard/api/internal/ads"
)

type fixedSource struct {
	creative ads.Creative
}

func (s *fixedSource) Pick(*rand.Rand) ads.Creative { return s.creative }

type fakePrompter struct {
	accept bool
	asked  int
}

func (p *fakePrompter) ConfirmWatch(context.Context) bool {
	p.asked++
	return p.accept
}

type fakePlayer struct {
	ended  chan struct{}
	played []ads.Creative
	err    error
}

func (p *fakePlayer) Play(_ context.Context, creative ads.Creative) (<-chan struct{}, error) {
	p.played = append(p.played, creative)
	return p.ended, p.err
}

type countingLedger struct {
	rewards int
}

func (l *countingLedger) Reward() { l.rewards++ }

var (
	videoCreative = ads.Creative{Type: ads.CreativeVideo, Src: "/ads/spot.mp4", Name: "spot"}
	imageCreative = ads.Creative{Type: ads.CreativeImage, Src: "/ads/spot.jpg", Name: "spot_image"}
)

func newTestGate(creative ads.Creative, accept bool) (*Gate, *fakePrompter, *fakePlayer, *countingLedger) {
	prompter := &fakePrompter{accept: accept}
	player := &fakePlayer{ended: make(chan struct{})}
	ledger := &countingLedger{}
	gate := New(&fixedSource{creative: creative}, prompter, player, ledger)
	return gate, prompter, player, ledger
}

func TestDeclinedPromptResolvesFalse(t *testing.T) {
	gate, prompter, player, ledger := newTestGate(videoCreative, false)

	if gate.Run(context.Background()) {
		t.Fatal("Run = true after declined prompt, want false")
	}
	if prompter.asked != 1 {
		t.Fatalf("prompt asked %d times, want 1", prompter.asked)
	}
	if len(player.played) != 0 {
		t.Fatal("player ran after declined prompt")
	}
	if ledger.rewards != 0 {
		t.Fatal("ledger rewarded after declined prompt")
	}
	if gate.State() != StateIdle {
		t.Fatalf("state after decline = %s, want idle", gate.State())
	}
}

func TestVideoCompletionRewards(t *testing.T) {
	gate, _, player, ledger := newTestGate(videoCreative, true)

	done := make(chan bool, 1)
	go func() { done <- gate.Run(context.Background()) }()

	waitForState(t, gate, StatePlaying)
	if gate.CanClose() {
		t.Fatal("close control enabled before video ended")
	}

	close(player.ended)
	if !<-done {
		t.Fatal("Run = false after video ended, want true")
	}
	if ledger.rewards != 1 {
		t.Fatalf("rewards = %d, want 1", ledger.rewards)
	}
	if gate.State() != StateIdle {
		t.Fatalf("state after completion = %s, want idle", gate.State())
	}
}

func TestImageCompletionWaitsForDwell(t *testing.T) {
	gate, _, _, ledger := newTestGate(imageCreative, true)
	dwellFired := make(chan time.Time)
	gate.after = func(time.Duration) <-chan time.Time { return dwellFired }

	done := make(chan bool, 1)
	go func() { done <- gate.Run(context.Background()) }()

	waitForState(t, gate, StatePlaying)
	// The dwell timer has not fired: the close control must stay inert and
	// no reward may be granted.
	if gate.CanClose() {
		t.Fatal("close control enabled before dwell elapsed")
	}
	if ledger.rewards != 0 {
		t.Fatal("ledger rewarded before dwell elapsed")
	}

	dwellFired <- time.Now()
	if !<-done {
		t.Fatal("Run = false after dwell elapsed, want true")
	}
	if ledger.rewards != 1 {
		t.Fatalf("rewards = %d, want 1", ledger.rewards)
	}
}

func TestDwellNeverFiresMeansNoReward(t *testing.T) {
	gate, _, _, ledger := newTestGate(imageCreative, true)
	gate.after = func(time.Duration) <-chan time.Time { return make(chan time.Time) }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool, 1)
	go func() { done <- gate.Run(ctx) }()

	waitForState(t, gate, StatePlaying)
	if gate.CanClose() {
		t.Fatal("close control enabled without completion condition")
	}

	cancel()
	if <-done {
		t.Fatal("Run = true without completion condition, want false")
	}
	if ledger.rewards != 0 {
		t.Fatalf("rewards = %d, want 0", ledger.rewards)
	}
	if gate.CanClose() {
		t.Fatal("close control enabled after abandoned session")
	}
}

func TestPlayerErrorResolvesFalse(t *testing.T) {
	gate, _, player, ledger := newTestGate(videoCreative, true)
	player.err = context.DeadlineExceeded

	if gate.Run(context.Background()) {
		t.Fatal("Run = true after player error, want false")
	}
	if ledger.rewards != 0 {
		t.Fatal("ledger rewarded after player error")
	}
}

func TestSecondRunWhileShowingResolvesFalse(t *testing.T) {
	gate, _, player, _ := newTestGate(videoCreative, true)

	done := make(chan bool, 1)
	go func() { done <- gate.Run(context.Background()) }()
	waitForState(t, gate, StatePlaying)

	if gate.Run(context.Background()) {
		t.Fatal("concurrent Run = true, want false")
	}

	close(player.ended)
	if !<-done {
		t.Fatal("original Run = false, want true")
	}
}

func waitForState(t *testing.T, gate *Gate, want State) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if gate.State() == want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for state %s, at %s", want, gate.State())
		case <-time.After(time.Millisecond):
		}
	}
}
