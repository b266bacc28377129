package client

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/erraggy/oascapture/internal/httputil"
	"github.com/erraggy/oascapture/oaserrors"
)

// statusRange is the half-open interval [from, to).
type statusRange struct {
	from, to int
}

// StatusSet is a union of expected status codes and ranges.
// The zero value expects nothing; calls use [DefaultStatuses] until
// Expect is called.
type StatusSet struct {
	ranges []statusRange
	errs   []error
}

// DefaultStatuses is [200, 500): success, redirection and client errors.
func DefaultStatuses() StatusSet {
	return StatusSet{ranges: []statusRange{{200, 500}}}
}

// Statuses expects exactly the given codes.
func Statuses(codes ...int) StatusSet {
	var s StatusSet
	for _, c := range codes {
		s = s.add(c, c+1, fmt.Sprint(c))
	}
	return s
}

// Status is a standard HTTP status code. Values only come from the
// predeclared variables below, so sets built from them need no validation.
type Status struct {
	code int
}

// Standard statuses.
var (
	StatusOK                  = Status{http.StatusOK}
	StatusCreated             = Status{http.StatusCreated}
	StatusAccepted            = Status{http.StatusAccepted}
	StatusNoContent           = Status{http.StatusNoContent}
	StatusMovedPermanently    = Status{http.StatusMovedPermanently}
	StatusFound               = Status{http.StatusFound}
	StatusSeeOther            = Status{http.StatusSeeOther}
	StatusNotModified         = Status{http.StatusNotModified}
	StatusBadRequest          = Status{http.StatusBadRequest}
	StatusUnauthorized        = Status{http.StatusUnauthorized}
	StatusForbidden           = Status{http.StatusForbidden}
	StatusNotFound            = Status{http.StatusNotFound}
	StatusMethodNotAllowed    = Status{http.StatusMethodNotAllowed}
	StatusConflict            = Status{http.StatusConflict}
	StatusGone                = Status{http.StatusGone}
	StatusUnprocessableEntity = Status{http.StatusUnprocessableEntity}
	StatusTooManyRequests     = Status{http.StatusTooManyRequests}
	StatusInternalServerError = Status{http.StatusInternalServerError}
	StatusBadGateway          = Status{http.StatusBadGateway}
	StatusServiceUnavailable  = Status{http.StatusServiceUnavailable}
)

// Code returns the numeric status code.
func (s Status) Code() int { return s.code }

// String implements fmt.Stringer.
func (s Status) String() string { return fmt.Sprint(s.code) }

// Expected expects exactly the given statuses. Unlike [Statuses] it records
// no validation errors. The zero Status is ignored.
func Expected(statuses ...Status) StatusSet {
	var s StatusSet
	for _, st := range statuses {
		if st.code == 0 {
			continue
		}
		s.ranges = append(s.ranges, statusRange{st.code, st.code + 1})
	}
	return s
}

// StatusRange expects the half-open range [from, to).
func StatusRange(from, to int) StatusSet {
	return StatusSet{}.add(from, to, fmt.Sprintf("[%d, %d)", from, to))
}

// StatusRangeInclusive expects the closed range [from, to].
func StatusRangeInclusive(from, to int) StatusSet {
	return StatusSet{}.add(from, to+1, fmt.Sprintf("[%d, %d]", from, to))
}

// Union returns the codes expected by s or other.
func (s StatusSet) Union(other StatusSet) StatusSet {
	return StatusSet{
		ranges: append(slices.Clone(s.ranges), other.ranges...),
		errs:   append(slices.Clone(s.errs), other.errs...),
	}
}

func (s StatusSet) add(from, to int, desc string) StatusSet {
	out := StatusSet{ranges: slices.Clone(s.ranges), errs: slices.Clone(s.errs)}
	switch {
	case !httputil.IsValidStatus(from) || !httputil.IsValidStatus(to-1):
		out.errs = append(out.errs, &oaserrors.RequestError{
			Field: "status", Name: desc, Message: "status codes must be within [100, 600)",
		})
	case to <= from:
		out.errs = append(out.errs, &oaserrors.RequestError{
			Field: "status", Name: desc, Message: "range is reversed or empty",
		})
	default:
		out.ranges = append(out.ranges, statusRange{from, to})
	}
	return out
}

// Validate reports invalid codes and reversed ranges.
func (s StatusSet) Validate() error {
	if len(s.errs) > 0 {
		return s.errs[0]
	}
	if len(s.ranges) == 0 {
		return &oaserrors.RequestError{Field: "status", Message: "no status codes expected"}
	}
	return nil
}

// Contains reports whether code is expected.
func (s StatusSet) Contains(code int) bool {
	for _, r := range s.ranges {
		if code >= r.from && code < r.to {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (s StatusSet) String() string {
	parts := make([]string, 0, len(s.ranges))
	for _, r := range s.ranges {
		if r.to == r.from+1 {
			parts = append(parts, fmt.Sprint(r.from))
			continue
		}
		parts = append(parts, fmt.Sprintf("[%d, %d)", r.from, r.to))
	}
	return strings.Join(parts, " | ")
}
