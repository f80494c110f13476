package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-desk/internal/session"
	apierrors "github.com/gokatarajesh/quiz-desk/pkg/http/errors"
)

// SnapshotSource exposes the live session state.
type SnapshotSource interface {
	Snapshot() session.Snapshot
}

// sessionView is the /v1/session payload.
type sessionView struct {
	session.Snapshot
	QuizStarted   bool   `json:"quizStarted"`
	QuizSubmitted bool   `json:"quizSubmitted"`
	Clock         string `json:"clock"`
}

// NewHTTPServer wires the local operations routes: health, metrics and a
// read-only view of the session.
func NewHTTPServer(addr string, logger zerolog.Logger, gatherer prometheus.Gatherer, source SnapshotSource) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("/v1/session", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			apierrors.RespondMethodNotAllowed(w, http.MethodGet)
			return
		}
		if source == nil {
			apierrors.RespondError(w, http.StatusServiceUnavailable, apierrors.ErrCodeNoSession, "no session attached")
			return
		}
		snap := source.Snapshot()
		view := sessionView{
			Snapshot:      snap,
			QuizStarted:   snap.QuizStarted(),
			QuizSubmitted: snap.QuizSubmitted(),
			Clock:         clock(snap.TimeLeft),
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(view); err != nil {
			logger.Warn().Err(err).Msg("encode session view")
		}
	})

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func clock(seconds int) string {
	return (time.Duration(max(seconds, 0)) * time.Second).String()
}
