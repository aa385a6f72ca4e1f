package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rosterFixture = []byte(`{
	"device": {"link": "https://example.org/player/7592/device", "country": "Denmark", "team": "Astralis", "birth_year": 1995, "role": "AWPer", "majapp": 13},
	"dupreeh": {"link": "https://example.org/player/7398/dupreeh", "country": "Denmark", "team": "Vitality", "birth_year": 1993, "role": "Rifler", "majapp": 14},
	"NiKo": {"link": "https://example.org/player/3741/niko", "country": "Bosnia and Herzegovina", "team": "G2", "birth_year": 1997, "role": "Rifler", "majapp": 9}
}`)

func TestRosterGetByName(t *testing.T) {
	r, err := newRoster(rosterFixture)
	require.NoError(t, err)

	attrs, err := r.GetByName("niko")
	require.NoError(t, err)
	assert.Equal(t, "G2", attrs.Team)

	attrs, err = r.GetByName("  NIKO  ")
	require.NoError(t, err)
	assert.Equal(t, "G2", attrs.Team)

	_, err = r.GetByName("nobody")
	assert.ErrorIs(t, err, errPlayerNotFound)
}

func TestRosterSearch(t *testing.T) {
	r, err := newRoster(rosterFixture)
	require.NoError(t, err)

	matches := r.Search("d")
	assert.Equal(t, []SearchResult{
		{Name: "device", FullName: "device"},
		{Name: "dupreeh", FullName: "dupreeh"},
	}, matches, "results come back in name order with the link suffix")

	assert.Nil(t, r.Search("zzz"))
	assert.Nil(t, r.Search("  "))
}

func TestRosterRandom(t *testing.T) {
	r, err := newRoster(rosterFixture)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		name, attrs, err := r.Random()
		require.NoError(t, err)
		expected, err := r.GetByName(name)
		require.NoError(t, err)
		assert.Equal(t, expected, attrs)
	}
}

func TestRosterRejectsBadInput(t *testing.T) {
	_, err := newRoster([]byte(`not json`))
	assert.Error(t, err)

	_, err = newRoster([]byte(`{}`))
	assert.Error(t, err)
}

func TestEmbeddedRosterLoads(t *testing.T) {
	r, err := loadRoster(&Config{})
	require.NoError(t, err)
	assert.Greater(t, r.Len(), 20)

	// Every entry must resolve to a region-table country or Other, and carry
	// a plausible birth year.
	for _, name := range r.names {
		attrs := r.players[name]
		assert.NotEmptyf(t, attrs.Country, "player %s has no country", name)
		assert.Greaterf(t, attrs.BirthYear, 1980, "player %s birth year", name)
	}
}
