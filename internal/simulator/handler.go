package simulator

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// Config wires dependencies for the HTTP handler.
type Config struct {
	Job *Job
	// FailEvery makes every Nth summary request answer 503. Zero disables it.
	FailEvery int
	Logger    *slog.Logger
}

// NewHandler builds the operation handler: status and finished pages on GET,
// operator actions on POST.
func NewHandler(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &handler{job: cfg.Job, failEvery: cfg.FailEvery, logger: logger}
}

type handler struct {
	job       *Job
	failEvery int
	logger    *slog.Logger

	mu        sync.Mutex
	summaries int
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.job == nil {
		writeError(w, http.StatusInternalServerError, "no_job")
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPost:
		h.handleAction(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *handler) handleGet(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Get("output") != "json" {
		writeError(w, http.StatusBadRequest, "unsupported_output")
		return
	}
	switch query.Get("status") {
	case "status":
		if h.shouldFail() {
			h.logger.Warn("injected summary failure")
			writeError(w, http.StatusServiceUnavailable, "injected_failure")
			return
		}
		writeJSON(w, http.StatusOK, h.job.Summary())
	case "finished":
		index, err := strconv.Atoi(query.Get("index"))
		if err != nil || index < 0 {
			writeError(w, http.StatusBadRequest, "invalid_index")
			return
		}
		size, err := strconv.Atoi(query.Get("size"))
		if err != nil || size <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_size")
			return
		}
		writeJSON(w, http.StatusOK, finishedResponse{Page: h.job.Finished(index, size)})
	default:
		writeError(w, http.StatusBadRequest, "unknown_status")
	}
}

func (h *handler) handleAction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	action := strings.TrimSpace(r.PostForm.Get("action"))
	var err error
	switch strings.ToLower(action) {
	case "start":
		err = h.job.Start()
	case "abort":
		err = h.job.Abort()
	default:
		writeError(w, http.StatusBadRequest, "unknown_action")
		return
	}
	switch {
	case errors.Is(err, ErrRunning):
		writeError(w, http.StatusConflict, "already_running")
		return
	case errors.Is(err, ErrIdle):
		writeError(w, http.StatusConflict, "not_running")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "action_failed")
		return
	}
	h.logger.Info("action accepted", "action", action)
	writeJSON(w, http.StatusOK, actionResponse{Ok: true})
}

func (h *handler) shouldFail() bool {
	if h.failEvery <= 0 {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.summaries++
	return h.summaries%h.failEvery == 0
}
