package api

import (
	"fmt"
	"net/http"

	achievementin "studysprint/internal/modules/achievement/port/in"
	statsdto "studysprint/internal/modules/stats/dto"
	statsin "studysprint/internal/modules/stats/port/in"
	"studysprint/internal/modules/store/dto"
	storein "studysprint/internal/modules/store/port/in"
	apperrors "studysprint/internal/platform/errors"
)

type Handler struct {
	store        storein.Usecase
	achievements achievementin.Usecase
	stats        statsin.Usecase
}

func NewHandler(store storein.Usecase, achievements achievementin.Usecase, stats statsin.Usecase) *Handler {
	return &Handler{store: store, achievements: achievements, stats: stats}
}

type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
	Tags     int    `json:"tags"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Snapshot(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Sessions: len(snap.Sessions), Tags: len(snap.Tags)})
}

func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Snapshot(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// ListSessions handles GET /sessions?tag=
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.ListSessions(r.Context(), dto.ListSessionsInput{TagID: r.URL.Query().Get("tag")})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.store.ListTags(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.GetSettings(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.store.GetProfile(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	out, err := h.achievements.List(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// RefreshAchievements handles POST /achievements/refresh
func (h *Handler) RefreshAchievements(w http.ResponseWriter, r *http.Request) {
	out, err := h.achievements.Refresh(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Stats handles GET /stats?tag=
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	tagID := r.URL.Query().Get("tag")
	if tagID != "" {
		if !h.tagExists(r, tagID) {
			writeErr(w, r, fmt.Errorf("tag %s: %w", tagID, apperrors.ErrNotFound))
			return
		}
	}
	out, err := h.stats.Summary(r.Context(), statsdto.SummaryInput{TagID: tagID})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) tagExists(r *http.Request, tagID string) bool {
	snap, err := h.store.Snapshot(r.Context())
	if err != nil {
		return false
	}
	_, ok := snap.TagByID(tagID)
	return ok
}
