package client

import (
	"context"
	"errors"
	"fmt"

	"memoboard/api/internal/credits"
	"memoboard/api/internal/moderation"
	"memoboard/api/internal/store"
)

const adsHiddenKey = "adsHidden"

// ErrNoCredits means the delete was blocked locally: the caller had no
// credit and either declined the ad or the ad never completed. Nothing
// reached the server.
var ErrNoCredits = errors.New("no delete credits")

// adRunner is the ad gate surface the app needs. Run blocks through one
// full watch attempt and reports whether it completed.
type adRunner interface {
	Run(ctx context.Context) bool
}

// App is the client-side application: the API client plus the delete
// credit economy that gates destructive actions.
type App struct {
	api     *API
	ledger  *credits.Ledger
	gate    adRunner
	profile *Profile
}

func NewApp(api *API, ledger *credits.Ledger, gate adRunner, profile *Profile) *App {
	return &App{api: api, ledger: ledger, gate: gate, profile: profile}
}

func (a *App) Memos(ctx context.Context) ([]store.Memo, error) {
	return a.api.Memos(ctx)
}

func (a *App) AddMemo(ctx context.Context, content string) (store.Memo, error) {
	return a.api.AddMemo(ctx, content)
}

func (a *App) UpdateMemo(ctx context.Context, id, content string) (store.Memo, error) {
	return a.api.UpdateMemo(ctx, id, content)
}

// DeleteMemo spends one delete credit and removes the memo. With an
// empty ledger it first runs the ad gate; a completed watch refills the
// ledger through the gate's reward hook. If the server rejects the
// delete after the credit was spent, the credit is restored so a
// transient failure does not cost a watched ad.
func (a *App) DeleteMemo(ctx context.Context, id string) error {
	if !a.ledger.HasCredits() {
		if !a.gate.Run(ctx) {
			return ErrNoCredits
		}
	}
	if !a.ledger.UseCredit() {
		return ErrNoCredits
	}

	if err := a.api.DeleteMemo(ctx, id); err != nil {
		a.ledger.SetCredits(a.ledger.Credits() + 1)
		return fmt.Errorf("delete memo %s: %w", id, err)
	}
	return nil
}

// Credits reports the remaining delete credits.
func (a *App) Credits() int {
	return a.ledger.Credits()
}

// QuickValidate runs the content checks locally. It is advisory, for
// as-you-type feedback; the server re-runs the same checks on submit.
func (a *App) QuickValidate(content string) moderation.Result {
	return moderation.Validate(content)
}

// Validate asks the server for the authoritative verdict.
func (a *App) Validate(ctx context.Context, content string) (moderation.Result, error) {
	return a.api.Validate(ctx, content)
}

func (a *App) HideAds() {
	a.profile.Set(adsHiddenKey, "true")
}

func (a *App) AdsHidden() bool {
	value, ok := a.profile.Get(adsHiddenKey)
	return ok && value == "true"
}
