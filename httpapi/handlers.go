package httpapi

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Harshan-Nayak/xlist/command"
	"github.com/Harshan-Nayak/xlist/pkg/types"
	"github.com/Harshan-Nayak/xlist/query"
	"github.com/Harshan-Nayak/xlist/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

// Handlers adapts the service facades to HTTP.
type Handlers struct {
	svc *service.Service
}

// NewHandlers wraps svc.
func NewHandlers(svc *service.Service) *Handlers {
	return &Handlers{svc: svc}
}

// Healthz reports whether the store answers.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.HealthCheck(r.Context()); err != nil {
		writeFailure(w, r, http.StatusServiceUnavailable, "UNAVAILABLE", "service unavailable")
		return
	}
	writeData(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Categories lists the fixed category set.
func (h *Handlers) Categories(w http.ResponseWriter, r *http.Request) {
	writeData(w, r, http.StatusOK, categoriesResponse{
		All:        types.CategoryAll,
		Categories: types.Categories,
	})
}

// ListProfiles serves the public directory.
func (h *Handlers) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.svc.Queries().Directory.Query(r.Context(), query.DirectoryQueryInput{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("q"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, toProfileResponses(profiles))
}

// GetProfile serves one public profile.
func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := profileIDParam(w, r)
	if !ok {
		return
	}
	profile, err := h.svc.Queries().ProfileDetail.Query(r.Context(), query.ProfileQueryInput{ProfileID: id})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, toProfileResponse(*profile))
}

// MyProfile returns the caller's published profile.
func (h *Handlers) MyProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.Queries().OwnerProfiles.First(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, toProfileResponse(*profile))
}

// CreateProfile publishes the caller's profile.
func (h *Handlers) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	created := &types.Profile{}
	err := h.svc.Commands().ProfileCreate.Execute(r.Context(), command.ProfileCreateInput{
		Draft:  req.draft(),
		Actor:  ActorFromContext(r.Context()),
		Result: created,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusCreated, toProfileResponse(*created))
}

// UpdateProfile applies an owner's partial edit.
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := profileIDParam(w, r)
	if !ok {
		return
	}
	var req updateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	updated := &types.Profile{}
	err := h.svc.Commands().ProfileUpdate.Execute(r.Context(), command.ProfileUpdateInput{
		ProfileID: id,
		Patch:     req.patch(),
		Actor:     ActorFromContext(r.Context()),
		Result:    updated,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, toProfileResponse(*updated))
}

// DeleteProfile removes an owned profile.
func (h *Handlers) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := profileIDParam(w, r)
	if !ok {
		return
	}
	err := h.svc.Commands().ProfileDelete.Execute(r.Context(), command.ProfileDeleteInput{
		ProfileID: id,
		Actor:     ActorFromContext(r.Context()),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Visit records a click in the background and sends the visitor to the
// external profile. The redirect never waits on the recording.
func (h *Handlers) Visit(w http.ResponseWriter, r *http.Request) {
	id, ok := profileIDParam(w, r)
	if !ok {
		return
	}
	profile, err := h.svc.Queries().ProfileDetail.Query(r.Context(), query.ProfileQueryInput{ProfileID: id})
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.track(r, id, false)
	http.Redirect(w, r, types.ExternalProfileURL(profile.XHandle), http.StatusFound)
}

// TrackClick accepts a click beacon sent by a client that navigates on its own.
func (h *Handlers) TrackClick(w http.ResponseWriter, r *http.Request) {
	id, ok := profileIDParam(w, r)
	if !ok {
		return
	}
	// existence is checked in the background so the beacon never waits on the store
	h.track(r, id, true)
	writeData(w, r, http.StatusAccepted, map[string]bool{"accepted": true})
}

// Analytics serves the owner's click dashboard.
func (h *Handlers) Analytics(w http.ResponseWriter, r *http.Request) {
	id, ok := profileIDParam(w, r)
	if !ok {
		return
	}
	snap, err := h.svc.Queries().Analytics.Query(r.Context(), query.AnalyticsInput{
		ProfileID: id,
		Actor:     ActorFromContext(r.Context()),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, toAnalyticsResponse(snap))
}

// ClickHistory serves the owner's raw click events.
func (h *Handlers) ClickHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := profileIDParam(w, r)
	if !ok {
		return
	}
	since, err := timeParam(r, "since")
	if err != nil {
		writeError(w, r, types.ValidationError(err, "since must be RFC3339"))
		return
	}
	until, err := timeParam(r, "until")
	if err != nil {
		writeError(w, r, types.ValidationError(err, "until must be RFC3339"))
		return
	}
	events, err := h.svc.Queries().ClickHistory.Query(r.Context(), query.ClickHistoryInput{
		ProfileID: id,
		Since:     since,
		Until:     until,
		Actor:     ActorFromContext(r.Context()),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, toClickResponses(events))
}

func (h *Handlers) track(r *http.Request, id uuid.UUID, verify bool) {
	tracker := h.svc.Tracker()
	if tracker == nil {
		return
	}
	tracker.Track(r.Context(), command.ClickRecordInput{
		ProfileID:     id,
		UserAgent:     r.UserAgent(),
		IPAddress:     clientIP(r),
		Actor:         ActorFromContext(r.Context()),
		VerifyProfile: verify,
	})
}

func profileIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		writeFailure(w, r, http.StatusBadRequest, types.TextCodeInvalidInput, "invalid profile id")
		return uuid.Nil, false
	}
	return id, true
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		writeFailure(w, r, http.StatusBadRequest, types.TextCodeInvalidInput, "malformed JSON body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeFailure(w, r, http.StatusBadRequest, types.TextCodeInvalidInput, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var fieldErrs validatorErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		parts := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			parts = append(parts, fe.Field()+" failed "+fe.Tag())
		}
		return strings.Join(parts, "; ")
	}
	return "invalid request"
}

func timeParam(r *http.Request, name string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
