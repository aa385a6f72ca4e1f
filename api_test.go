package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) (*httprouter.Router, *Roster, *secretBox) {
	t.Helper()

	roster, err := newRoster([]byte(`{
		"ZywOo": {"link": "https://example.org/player/9216/zywoo", "country": "France", "team": "Vitality", "birth_year": 2000, "role": "AWPer", "majapp": 6},
		"s1mple": {"link": "https://example.org/player/7998/s1mple", "country": "Ukraine", "team": "BC.Game", "birth_year": 1997, "role": "AWPer", "majapp": 10}
	}`))
	require.NoError(t, err)

	box, err := newSecretBox("")
	require.NoError(t, err)

	cfg := testConfig()
	mgr := newRoomManager(cfg, roster, box)
	mux := httprouter.New()
	errs := make(chan error, 8)
	registerAPI(cfg, mux, roster, box, mgr, errs)

	return mux, roster, box
}

func TestSearchPlayersEndpoint(t *testing.T) {
	mux, _, _ := newTestAPI(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/search-players?q=zyw", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var matches []SearchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "ZywOo", matches[0].Name)
	assert.Equal(t, "zywoo", matches[0].FullName)
}

func TestSearchPlayersRequiresQuery(t *testing.T) {
	mux, _, _ := newTestAPI(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/search-players", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchPlayersReturnsEmptyList(t *testing.T) {
	mux, _, _ := newTestAPI(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/players?query=nobody", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()), "no matches encodes as an empty array, not null")
}

func TestRandomPlayerAndDecryptRoundTrip(t *testing.T) {
	mux, _, _ := newTestAPI(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/random-player", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var drawn struct {
		EncryptedData string `json:"encryptedData"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &drawn))
	require.NotEmpty(t, drawn.EncryptedData)

	body := strings.NewReader(`{"encryptedData": "` + drawn.EncryptedData + `"}`)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/decrypt", body))
	require.Equal(t, http.StatusOK, w.Code)

	var payload hiddenPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Contains(t, []string{"ZywOo", "s1mple"}, payload.HiddenName)
	assert.Empty(t, payload.Link, "profile links identify the player and stay out of sealed payloads")
}

func TestDecryptRejectsGarbage(t *testing.T) {
	mux, _, _ := newTestAPI(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/decrypt", strings.NewReader(`{"encryptedData": "bm90IGEgcGF5bG9hZA=="}`)))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/decrypt", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGuessCheckEndpoint(t *testing.T) {
	mux, _, _ := newTestAPI(t)

	check := func(body string) map[string]bool {
		t.Helper()
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/guess", strings.NewReader(body)))
		require.Equal(t, http.StatusOK, w.Code)
		var out map[string]bool
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		return out
	}

	assert.True(t, check(`{"guess": "zywoo", "hiddenName": "ZywOo"}`)["correct"])
	assert.False(t, check(`{"guess": "s1mple", "hiddenName": "ZywOo"}`)["correct"])
	assert.False(t, check(`{"guess": "ZywOo", "hiddenName": "Unknown"}`)["correct"], "hidden names outside the roster never verify")

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/guess", strings.NewReader(`{"guess": ""}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoomListEndpoint(t *testing.T) {
	_, roster, box := newTestAPI(t)

	// Exercise the handler directly with a populated registry.
	mgr := newRoomManager(testConfig(), roster, box)
	mgr.create(newTestClient("host"), 2)

	errs := make(chan error, 1)
	handler := serveRoomList(testConfig(), mgr, errs)

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/api/rooms", nil), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rooms []RoomSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rooms))
	require.Len(t, rooms, 1)
	assert.Equal(t, 1, rooms[0].Members)
	assert.Equal(t, "lobby", rooms[0].Phase)
}
