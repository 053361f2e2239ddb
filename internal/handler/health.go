package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/BRO3886/user-search/internal/errors"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func Health(w http.ResponseWriter, r *http.Request) {
	errors.RespondJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "user-search",
		"time":    time.Now().Unix(),
	})
}

// Ready reports whether the document store answers.
func Ready(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := p.Ping(r.Context()); err != nil {
			errors.RespondJSON(w, http.StatusServiceUnavailable, map[string]any{"ready": false, "error": err.Error()})
			return
		}
		errors.RespondJSON(w, http.StatusOK, map[string]any{"ready": true})
	}
}
