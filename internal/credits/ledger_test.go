package credits

import "testing"

type memStorage struct {
	values map[string]string
}

func newMemStorage() *memStorage {
	return &memStorage{values: make(map[string]string)}
}

func (s *memStorage) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *memStorage) Set(key, value string) {
	s.values[key] = value
}

type recordingNotifier struct {
	changed  []int
	rewarded []int
}

func (n *recordingNotifier) CreditsChanged(count int)  { n.changed = append(n.changed, count) }
func (n *recordingNotifier) CreditsRewarded(count int) { n.rewarded = append(n.rewarded, count) }

func newTestLedger() (*Ledger, *memStorage, *recordingNotifier) {
	storage := newMemStorage()
	notify := &recordingNotifier{}
	return NewLedger(storage, notify), storage, notify
}

func TestFirstLoadInitializesToZero(t *testing.T) {
	ledger, storage, _ := newTestLedger()

	if got := ledger.Credits(); got != 0 {
		t.Fatalf("Credits() = %d, want 0", got)
	}
	if raw, ok := storage.Get("deleteCredits"); !ok || raw != "0" {
		t.Fatalf("persisted slot = %q (present=%v), want \"0\"", raw, ok)
	}
}

func TestUnparseableStateReadsAsZero(t *testing.T) {
	storage := newMemStorage()
	storage.Set("deleteCredits", "not-a-number")
	ledger := NewLedger(storage, &recordingNotifier{})

	if got := ledger.Credits(); got != 0 {
		t.Fatalf("Credits() = %d, want 0", got)
	}
	if ledger.UseCredit() {
		t.Fatal("UseCredit() on unparseable state = true, want false")
	}
}

func TestUseCreditOnZeroBalance(t *testing.T) {
	ledger, _, _ := newTestLedger()

	if ledger.UseCredit() {
		t.Fatal("UseCredit() on zero balance = true, want false")
	}
	if got := ledger.Credits(); got != 0 {
		t.Fatalf("balance after failed use = %d, want 0", got)
	}
}

func TestRewardResetsToSeven(t *testing.T) {
	ledger, _, notify := newTestLedger()

	for _, prior := range []int{0, 3, 7} {
		ledger.SetCredits(prior)
		ledger.Reward()
		if got := ledger.Credits(); got != RewardAmount {
			t.Fatalf("balance after reward from %d = %d, want %d", prior, got, RewardAmount)
		}
	}
	if len(notify.rewarded) != 3 {
		t.Fatalf("reward notifications = %d, want 3", len(notify.rewarded))
	}
}

func TestRewardThenDrainToZero(t *testing.T) {
	ledger, _, _ := newTestLedger()

	ledger.Reward()
	for i := 0; i < RewardAmount; i++ {
		if !ledger.UseCredit() {
			t.Fatalf("UseCredit() %d of %d = false, want true", i+1, RewardAmount)
		}
	}
	if got := ledger.Credits(); got != 0 {
		t.Fatalf("balance after draining = %d, want 0", got)
	}
	if ledger.UseCredit() {
		t.Fatal("8th UseCredit() = true, want false")
	}
}

func TestSetCreditsNotifies(t *testing.T) {
	ledger, _, notify := newTestLedger()

	ledger.SetCredits(4)
	if len(notify.changed) == 0 || notify.changed[len(notify.changed)-1] != 4 {
		t.Fatalf("change notifications = %v, want last entry 4", notify.changed)
	}
	if len(notify.rewarded) != 0 {
		t.Fatalf("reward notifications = %v, want none from SetCredits", notify.rewarded)
	}
}
