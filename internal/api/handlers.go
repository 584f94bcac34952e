package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"salonbook/internal/database"
	"salonbook/internal/models"
	"salonbook/internal/service"
)

// BookingAPI is the slice of the booking service the handlers use.
type BookingAPI interface {
	IsSlotAvailable(ctx context.Context, providerID int64, start time.Time) (bool, error)
	Create(ctx context.Context, req service.CreateBookingRequest) (*models.Booking, error)
	Reschedule(ctx context.Context, bookingID int64, version int64, newStart time.Time) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID int64, actorUserID int64) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	GetDaySchedule(ctx context.Context, providerID int64, date string) (*models.DaySchedule, error)
}

type ReviewAPI interface {
	Upsert(ctx context.Context, bookingID int64, rating int, comment string, actorUserID int64) (*models.Review, error)
}

type CatalogAPI interface {
	ListServices(ctx context.Context) ([]*models.Service, error)
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, database.ErrSlotTaken),
		errors.Is(err, database.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, database.ErrPastDate),
		errors.Is(err, database.ErrDateTooFar):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	statusCode := statusFromError(err)
	if statusCode == http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("request failed")
		writeError(w, statusCode, "internal error")
		return
	}
	writeError(w, statusCode, err.Error())
}

func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	providerID, err := strconv.ParseInt(r.URL.Query().Get("provider_id"), 10, 64)
	if err != nil || providerID <= 0 {
		writeError(w, http.StatusBadRequest, "provider_id is required")
		return
	}

	start, err := time.Parse(time.RFC3339, strings.TrimSpace(r.URL.Query().Get("start")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start; expected RFC3339")
		return
	}

	available, err := s.bookings.IsSlotAvailable(r.Context(), providerID, start)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"provider_id": providerID,
		"start":       start,
		"available":   available,
	})
}

func (s *HTTPServer) handleProviderSlots(w http.ResponseWriter, r *http.Request) {
	providerID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || providerID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid provider id")
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}

	schedule, err := s.bookings.GetDaySchedule(r.Context(), providerID, date)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, schedule)
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req service.CreateBookingRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := s.bookings.Create(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	booking, err := s.bookings.GetBooking(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleReschedule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	var req struct {
		Start   time.Time `json:"start"`
		Version int64     `json:"version"`
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Version <= 0 {
		writeError(w, http.StatusBadRequest, "version is required")
		return
	}

	booking, err := s.bookings.Reschedule(r.Context(), id, req.Version, req.Start)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleCancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	actorUserID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || actorUserID <= 0 {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	if err := s.bookings.Cancel(r.Context(), id, actorUserID); err != nil {
		s.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleUpsertReview(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
		UserID  int64  `json:"user_id"`
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	review, err := s.reviews.Upsert(r.Context(), id, req.Rating, req.Comment, req.UserID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, review)
}

func (s *HTTPServer) handleListServices(w http.ResponseWriter, r *http.Request) {
	services, err := s.catalog.ListServices(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"services": services})
}
