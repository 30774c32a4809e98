package client

import (
	"encoding/json"
	"log"
	"os"
	"sync"
)

// Profile is the client's per-device key/value store, persisted as a
// single JSON file. It backs the delete credit ledger and the ad
// visibility flag. A missing or corrupt file starts empty rather than
// failing; losing local state is acceptable, blowing up on it is not.
type Profile struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

func OpenProfile(path string) *Profile {
	p := &Profile{path: path, values: map[string]string{}}

	raw, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	if err := json.Unmarshal(raw, &p.values); err != nil {
		log.Printf("profile: %s is corrupt, starting empty: %v", path, err)
		p.values = map[string]string{}
	}
	return p
}

func (p *Profile) Get(key string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	value, ok := p.values[key]
	return value, ok
}

func (p *Profile) Set(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = value
	p.save()
}

// save runs under p.mu.
func (p *Profile) save() {
	encoded, err := json.MarshalIndent(p.values, "", "  ")
	if err != nil {
		log.Printf("profile: encode: %v", err)
		return
	}
	if err := os.WriteFile(p.path, encoded, 0o600); err != nil {
		log.Printf("profile: save %s: %v", p.path, err)
	}
}
