package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"internhub/internal/middleware"
	"internhub/internal/models"

	"github.com/go-chi/chi/v5"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	dateLayout      = "2006-01-02"
)

var errNoUser = errors.New("no authenticated user in context")

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// idParam parses a positive numeric URL parameter.
func idParam(r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func queryUint(r *http.Request, name string) (uint, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.New(name + " must be a positive integer")
	}
	return uint(id), nil
}

// queryBool parses an optional boolean filter; "all" and "" leave it unset.
func queryBool(r *http.Request, name string) (*bool, error) {
	raw := strings.ToLower(r.URL.Query().Get(name))
	if raw == "" || raw == "all" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errors.New(name + " must be true, false or all")
	}
	return &value, nil
}

func pagination(r *http.Request) (page, limit int, err error) {
	page, limit = 1, defaultPageSize
	if raw := r.URL.Query().Get("page"); raw != "" {
		p, convErr := strconv.Atoi(raw)
		if convErr != nil || p < 1 {
			return 0, 0, errors.New("page must be a positive integer")
		}
		page = p
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		l, convErr := strconv.Atoi(raw)
		if convErr != nil || l < 1 || l > maxPageSize {
			return 0, 0, errors.New("limit must be a positive integer between 1 and 100")
		}
		limit = l
	}
	return page, limit, nil
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func currentUser(r *http.Request) (*models.User, error) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return nil, errNoUser
	}
	return user, nil
}
