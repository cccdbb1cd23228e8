// Package search coordinates resolving a city name into candidate
// locations and fetching current weather for the one the user picks.
//
// Session holds the transient state and its transition rules. Network
// calls are not made here: Begin* methods hand back a request ticket that
// a driver executes, and Complete* methods apply the result. Each ticket
// carries a sequence number; a completion whose number is no longer the
// live one is dropped, so a slow response can never overwrite newer state.
package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ngmaloney/weather-now/internal/forecast"
	"github.com/ngmaloney/weather-now/internal/models"
)

// Status is the mutually exclusive UI status.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// ResolveRequest is a geocoding lookup the driver must perform.
type ResolveRequest struct {
	Seq   uint64
	Query string
}

// FetchRequest is a current-weather lookup the driver must perform.
type FetchRequest struct {
	Seq      uint64
	Location models.Location
}

// Session is the search-and-resolve state. The zero value is ready to use.
type Session struct {
	query      string
	candidates []models.Location
	selected   *models.Location
	weather    *models.Conditions
	loading    bool
	err        *Error
	seq        uint64
}

// BeginResolve starts a new search. Downstream state (error, candidates,
// selection, weather) is cleared whether or not the query is valid. A
// blank query fails with a validation error and yields no request.
func (s *Session) BeginResolve(query string) (ResolveRequest, error) {
	s.seq++
	s.query = strings.TrimSpace(query)
	s.err = nil
	s.candidates = []models.Location{}
	s.selected = nil
	s.weather = nil
	s.loading = false

	if s.query == "" {
		s.err = newError(KindValidation, nil)
		return ResolveRequest{}, s.err
	}

	s.loading = true
	return ResolveRequest{Seq: s.seq, Query: s.query}, nil
}

// CompleteResolve applies the outcome of a geocoding request. It reports
// whether the result was applied (false for stale completions) and the
// user-facing error, if any.
func (s *Session) CompleteResolve(seq uint64, results []models.Location, cause error) (bool, error) {
	if seq != s.seq {
		return false, nil
	}
	s.loading = false

	if cause != nil {
		s.err = newError(KindTransport, cause)
		return true, s.err
	}
	if len(results) == 0 {
		s.err = newError(KindNotFound, nil)
		return true, s.err
	}

	s.candidates = append([]models.Location(nil), results...)
	return true, nil
}

// Select promotes candidate index of the latest results to the selection.
// Every selection schedules exactly one weather fetch, returned here.
func (s *Session) Select(index int) (FetchRequest, error) {
	if index < 0 || index >= len(s.candidates) {
		return FetchRequest{}, fmt.Errorf("no candidate at index %d", index)
	}
	loc := s.candidates[index]
	s.selected = &loc
	return s.beginFetch(), nil
}

// Refresh re-fetches weather for the current selection.
func (s *Session) Refresh() (FetchRequest, error) {
	if s.selected == nil {
		return FetchRequest{}, errors.New("no location selected")
	}
	return s.beginFetch(), nil
}

func (s *Session) beginFetch() FetchRequest {
	s.seq++
	s.err = nil
	s.weather = nil
	s.loading = true
	return FetchRequest{Seq: s.seq, Location: *s.selected}
}

// CompleteFetch applies the outcome of a weather request. Like
// CompleteResolve it ignores stale completions.
func (s *Session) CompleteFetch(seq uint64, conditions *models.Conditions, cause error) (bool, error) {
	if seq != s.seq {
		return false, nil
	}
	s.loading = false

	switch {
	case errors.Is(cause, forecast.ErrNoCurrentConditions):
		s.err = newError(KindDataUnavailable, cause)
	case cause != nil:
		s.err = newError(KindTransport, cause)
	case conditions == nil:
		s.err = newError(KindDataUnavailable, nil)
	default:
		s.weather = conditions
		return true, nil
	}
	return true, s.err
}

// Query returns the trimmed text of the latest search.
func (s *Session) Query() string { return s.query }

// Candidates returns the latest results in service order. It is never
// nil once a search has started. Callers must not modify it.
func (s *Session) Candidates() []models.Location { return s.candidates }

// Selected returns the current selection, or nil.
func (s *Session) Selected() *models.Location { return s.selected }

// Weather returns the snapshot for the current selection, or nil.
func (s *Session) Weather() *models.Conditions { return s.weather }

// Loading reports whether a request is outstanding.
func (s *Session) Loading() bool { return s.loading }

// Err returns the last reported error, or nil.
func (s *Session) Err() error {
	if s.err == nil {
		return nil
	}
	return s.err
}

// Status derives the UI status from the loading flag and error.
func (s *Session) Status() Status {
	switch {
	case s.loading:
		return StatusLoading
	case s.err != nil:
		return StatusError
	default:
		return StatusIdle
	}
}

// Seq returns the sequence number of the live request.
func (s *Session) Seq() uint64 { return s.seq }
