// Package domain holds the launch record, its external shape and the contracts around them
package domain

import (
	"time"
)

// DatePrecisions are the accepted date_precision values, coarsest first
var DatePrecisions = []string{"half", "quarter", "year", "month", "day", "hour"}

// Capabilities required by the mutating routes
const (
	CapCreate = "launch:create"
	CapUpdate = "launch:update"
	CapDelete = "launch:delete"
)

// Record is the stored row
type Record struct {
	ID            string
	FlightNumber  int
	Name          string
	DateUTC       time.Time
	DatePrecision string
	Upcoming      bool
	Success       *bool
	Details       *string
	Rocket        *string
	Launchpad     *string
	TBD           bool
	Net           bool
	Window        *int
	AutoUpdate    bool
	Payloads      []string

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Launch is what clients see
// rocket and launchpad are ids unless the request populated them
type Launch struct {
	ID            string   `json:"id" example:"5eb87d46ffd86e000604b388"`
	FlightNumber  int      `json:"flight_number" example:"91"`
	Name          string   `json:"name" example:"CRS-20"`
	DateUTC       string   `json:"date_utc" example:"2020-03-07T04:50:31Z"`
	DateUnix      int64    `json:"date_unix" example:"1583556631"`
	DatePrecision string   `json:"date_precision" example:"hour"`
	Upcoming      bool     `json:"upcoming"`
	Success       *bool    `json:"success"`
	Details       *string  `json:"details"`
	Rocket        any      `json:"rocket"`
	Launchpad     any      `json:"launchpad"`
	TBD           bool     `json:"tbd"`
	Net           bool     `json:"net"`
	Window        *int     `json:"window"`
	AutoUpdate    bool     `json:"auto_update"`
	Payloads      []string `json:"payloads"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

// Stored normalizes t to what both stores keep: UTC at microsecond precision
func Stored(t time.Time) time.Time { return t.UTC().Truncate(time.Microsecond) }

// ToExternal projects a Record for clients; created_by never leaves the server
func ToExternal(r Record) Launch {
	payloads := r.Payloads
	if payloads == nil {
		payloads = []string{}
	}
	return Launch{
		ID:            r.ID,
		FlightNumber:  r.FlightNumber,
		Name:          r.Name,
		DateUTC:       r.DateUTC.UTC().Format(time.RFC3339Nano),
		DateUnix:      r.DateUTC.Unix(),
		DatePrecision: r.DatePrecision,
		Upcoming:      r.Upcoming,
		Success:       r.Success,
		Details:       r.Details,
		Rocket:        ref(r.Rocket),
		Launchpad:     ref(r.Launchpad),
		TBD:           r.TBD,
		Net:           r.Net,
		Window:        r.Window,
		AutoUpdate:    r.AutoUpdate,
		Payloads:      payloads,
		CreatedAt:     r.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:     r.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// a nil *string must encode as null, not as a typed nil inside any
func ref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
