package store

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Memo is one shared board entry. JSON tags match the wire format the API
// exposes and the list cache persists.
type Memo struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewMemoID returns an opaque row id of the form memo_<hex>.
func NewMemoID() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)
	return "memo_" + hex.EncodeToString(bytes)
}
