package main

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
)

//go:embed players.json
var embeddedRoster []byte

var errPlayerNotFound = errors.New("player not found in roster")

// SearchResult is one autocomplete hit. FullName is the last segment of the
// player's profile link, which the scraped dataset uses as a stable handle.
type SearchResult struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

// Roster is the read-only player directory: case-insensitive name lookup,
// substring search, and uniform random draw.
type Roster struct {
	names   []string
	byName  map[string]string
	players map[string]PlayerAttributes
}

func loadRoster(cfg *Config) (*Roster, error) {
	data := embeddedRoster
	if cfg.rosterFile != "" {
		var err error
		data, err = os.ReadFile(cfg.rosterFile)
		if err != nil {
			return nil, fmt.Errorf("reading roster file: %w", err)
		}
	}
	return newRoster(data)
}

func newRoster(data []byte) (*Roster, error) {
	var raw map[string]PlayerAttributes
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing roster: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("roster is empty")
	}

	r := &Roster{
		names:   make([]string, 0, len(raw)),
		byName:  make(map[string]string, len(raw)),
		players: raw,
	}
	for name := range raw {
		r.names = append(r.names, name)
		r.byName[strings.ToLower(name)] = name
	}
	sort.Strings(r.names)

	return r, nil
}

func (r *Roster) Len() int {
	return len(r.names)
}

func (r *Roster) GetByName(name string) (PlayerAttributes, error) {
	canonical, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return PlayerAttributes{}, errPlayerNotFound
	}
	return r.players[canonical], nil
}

// Search returns every roster entry whose name contains the query,
// case-insensitively, in name order.
func (r *Roster) Search(query string) []SearchResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var matches []SearchResult
	for _, name := range r.names {
		if !strings.Contains(strings.ToLower(name), query) {
			continue
		}
		attrs := r.players[name]
		suffix := attrs.Link
		if idx := strings.LastIndex(suffix, "/"); idx >= 0 {
			suffix = suffix[idx+1:]
		}
		matches = append(matches, SearchResult{
			Name:     name,
			FullName: suffix,
		})
	}
	return matches
}

// Random draws a uniformly random player.
func (r *Roster) Random() (string, PlayerAttributes, error) {
	if len(r.names) == 0 {
		return "", PlayerAttributes{}, errPlayerNotFound
	}
	name := r.names[rand.Intn(len(r.names))]
	return name, r.players[name], nil
}
