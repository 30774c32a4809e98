// Package credits implements the delete-credit ledger: the client-local
// count of deletions the current profile may perform before watching
// another ad. The counter lives in profile storage, so it is per device
// and trivially resettable by the client; the server never sees it.
package credits

import "strconv"

// RewardAmount is what a completed ad sets the balance to. The reward is a
// reset to exactly this value, not an increment.
const RewardAmount = 7

const storageKey = "deleteCredits"

// Storage is the persisted-slot collaborator. Values are strings, matching
// the browser-profile storage this stands in for.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// Notifier receives the user-visible side effects of ledger changes. The
// ledger never renders anything itself.
type Notifier interface {
	CreditsChanged(count int)
	CreditsRewarded(count int)
}

// Ledger owns the persisted credit counter. Single-goroutine client
// context; no cross-profile synchronization.
type Ledger struct {
	storage Storage
	notify  Notifier
}

// NewLedger wraps the given storage, initializing the counter to 0 on
// first load.
func NewLedger(storage Storage, notify Notifier) *Ledger {
	l := &Ledger{storage: storage, notify: notify}
	if _, ok := storage.Get(storageKey); !ok {
		l.SetCredits(0)
	}
	return l
}

// Credits reads the persisted counter. Absent or unparseable state reads
// as 0.
func (l *Ledger) Credits() int {
	raw, ok := l.storage.Get(storageKey)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// SetCredits writes the counter and notifies the UI collaborator. No
// clamping: callers must not pass negative values. UseCredit is the only
// guarded mutation path.
func (l *Ledger) SetCredits(n int) {
	l.storage.Set(storageKey, strconv.Itoa(n))
	l.notify.CreditsChanged(n)
}

func (l *Ledger) HasCredits() bool {
	return l.Credits() > 0
}

// UseCredit decrements the balance by one and reports success. A zero
// balance returns false with no mutation.
func (l *Ledger) UseCredit() bool {
	current := l.Credits()
	if current <= 0 {
		return false
	}
	l.SetCredits(current - 1)
	return true
}

// Reward sets the balance to exactly RewardAmount regardless of the prior
// value and fires the one-time reward notification.
func (l *Ledger) Reward() {
	l.SetCredits(RewardAmount)
	l.notify.CreditsRewarded(RewardAmount)
}
