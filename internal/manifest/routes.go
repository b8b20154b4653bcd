package manifest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the manifest API routes.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Route("/api/manifest", func(r chi.Router) {
		r.Get("/", handleList(store))
		r.Get("/runs/last", handleLastRun(store))
		r.Get("/{sourceID}", handleGet(store))
	})
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := store.List(r.Context(), r.URL.Query().Get("type"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if entries == nil {
			entries = []Entry{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entries)
	}
}

func handleGet(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sourceID := chi.URLParam(r, "sourceID")
		entry, err := store.Get(r.Context(), sourceID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if entry == nil {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entry)
	}
}

func handleLastRun(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run, failures, err := store.LastRun(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if run == nil {
			http.Error(w, `{"error":"no runs recorded"}`, http.StatusNotFound)
			return
		}
		if failures == nil {
			failures = []Failure{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"run": run, "failures": failures})
	}
}

// writeError writes a JSON error payload. Dynamic messages go through
// the encoder so quotes in error text stay valid JSON.
func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
