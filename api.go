package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
)

func writeJSON(cfg *Config, w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	securityHeaders(cfg, w)
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// serveSearchPlayers backs the guess autocomplete: substring matches over the
// roster, with the profile-link suffix for client-side deduplication.
func serveSearchPlayers(cfg *Config, roster *Roster, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		query := r.URL.Query().Get("q")
		if query == "" {
			query = r.URL.Query().Get("query")
		}
		if query == "" {
			_ = writeJSON(cfg, w, http.StatusBadRequest, map[string]string{"error": "missing query parameter"})
			return
		}

		matches := roster.Search(query)
		if matches == nil {
			matches = []SearchResult{}
		}

		if err := writeJSON(cfg, w, http.StatusOK, matches); err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: %d roster matches for %q to %s in %s",
			len(matches),
			query,
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

// serveRandomPlayer draws a single-player target. The payload is sealed so
// the browser can render the round without being handed the answer.
func serveRandomPlayer(cfg *Config, roster *Roster, box *secretBox, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		name, attrs, err := roster.Random()
		if err != nil {
			_ = writeJSON(cfg, w, http.StatusInternalServerError, map[string]string{"error": "roster draw failed"})
			return
		}

		handle, err := box.sealTarget(name, attrs)
		if err != nil {
			_ = writeJSON(cfg, w, http.StatusInternalServerError, map[string]string{"error": "sealing failed"})
			return
		}

		if err := writeJSON(cfg, w, http.StatusOK, map[string]string{"encryptedData": handle}); err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: Random player to %s", realIP(r))
	}
}

func serveGuessCheck(cfg *Config, roster *Roster, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req struct {
			Guess      string `json:"guess"`
			HiddenName string `json:"hiddenName"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Guess == "" || req.HiddenName == "" {
			_ = writeJSON(cfg, w, http.StatusBadRequest, map[string]string{"error": "missing guess or hiddenName"})
			return
		}

		_, err := roster.GetByName(req.HiddenName)
		correct := err == nil && strings.EqualFold(strings.TrimSpace(req.Guess), strings.TrimSpace(req.HiddenName))

		if err := writeJSON(cfg, w, http.StatusOK, map[string]bool{"correct": correct}); err != nil {
			errs <- err

			return
		}
	}
}

func serveDecrypt(cfg *Config, box *secretBox, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req struct {
			EncryptedData string `json:"encryptedData"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EncryptedData == "" {
			_ = writeJSON(cfg, w, http.StatusBadRequest, map[string]string{"error": "missing encryptedData"})
			return
		}

		payload, err := box.open(req.EncryptedData)
		if err != nil {
			_ = writeJSON(cfg, w, http.StatusInternalServerError, map[string]string{"error": "decryption failed"})
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write(payload); err != nil {
			errs <- err

			return
		}
	}
}

func serveRoomList(cfg *Config, mgr *RoomManager, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if err := writeJSON(cfg, w, http.StatusOK, mgr.list()); err != nil {
			errs <- err

			return
		}
	}
}

func registerAPI(cfg *Config, mux *httprouter.Router, roster *Roster, box *secretBox, mgr *RoomManager, errs chan<- error) {
	mux.GET(cfg.prefix+"/api/players", serveSearchPlayers(cfg, roster, errs))

	mux.GET(cfg.prefix+"/api/search-players", serveSearchPlayers(cfg, roster, errs))

	mux.GET(cfg.prefix+"/api/random-player", serveRandomPlayer(cfg, roster, box, errs))

	mux.POST(cfg.prefix+"/api/guess", serveGuessCheck(cfg, roster, errs))

	mux.POST(cfg.prefix+"/api/decrypt", serveDecrypt(cfg, box, errs))

	mux.GET(cfg.prefix+"/api/rooms", serveRoomList(cfg, mgr, errs))
}
