package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// CreateInput is the POST body
type CreateInput struct {
	FlightNumber  int       `json:"flight_number" validate:"required,min=1" example:"187"`
	Name          string    `json:"name" validate:"required,min=1,max=200" example:"Starlink 4-36"`
	DateUTC       time.Time `json:"date_utc" validate:"required" example:"2022-10-20T14:50:00Z"`
	DatePrecision string    `json:"date_precision" validate:"required,oneof=half quarter year month day hour" example:"hour"`
	Upcoming      *bool     `json:"upcoming" validate:"required"`
	Success       *bool     `json:"success,omitempty"`
	Details       *string   `json:"details,omitempty" validate:"omitempty,max=4000"`
	Rocket        *string   `json:"rocket,omitempty" validate:"omitempty,min=1,max=64" example:"5e9d0d95eda69973a809d1ec"`
	Launchpad     *string   `json:"launchpad,omitempty" validate:"omitempty,min=1,max=64" example:"5e9e4502f509094188566f88"`
	TBD           bool      `json:"tbd"`
	Net           bool      `json:"net"`
	Window        *int      `json:"window,omitempty" validate:"omitempty,min=0"`
	AutoUpdate    *bool     `json:"auto_update,omitempty"`
	Payloads      []string  `json:"payloads,omitempty" validate:"omitempty,max=64,dive,min=1,max=64"`
}

// Record builds the row for a new launch; AutoUpdate defaults on
func (in CreateInput) Record() Record {
	r := Record{
		FlightNumber:  in.FlightNumber,
		Name:          in.Name,
		DateUTC:       Stored(in.DateUTC),
		DatePrecision: in.DatePrecision,
		Success:       in.Success,
		Details:       in.Details,
		Rocket:        in.Rocket,
		Launchpad:     in.Launchpad,
		TBD:           in.TBD,
		Net:           in.Net,
		Window:        in.Window,
		AutoUpdate:    true,
		Payloads:      in.Payloads,
	}
	if in.Upcoming != nil {
		r.Upcoming = *in.Upcoming
	}
	if in.AutoUpdate != nil {
		r.AutoUpdate = *in.AutoUpdate
	}
	return r
}

// InputOf is the inverse of Record, used to validate a merged patch
func InputOf(r Record) CreateInput {
	up, auto := r.Upcoming, r.AutoUpdate
	return CreateInput{
		FlightNumber:  r.FlightNumber,
		Name:          r.Name,
		DateUTC:       r.DateUTC,
		DatePrecision: r.DatePrecision,
		Upcoming:      &up,
		Success:       r.Success,
		Details:       r.Details,
		Rocket:        r.Rocket,
		Launchpad:     r.Launchpad,
		TBD:           r.TBD,
		Net:           r.Net,
		Window:        r.Window,
		AutoUpdate:    &auto,
		Payloads:      r.Payloads,
	}
}

// Opt is a PATCH field: absent leaves the value alone, null clears it
type Opt[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON only runs for present keys
func (o *Opt[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// PatchInput is the PATCH body; the merged record is validated as a CreateInput
type PatchInput struct {
	FlightNumber  Opt[int]       `json:"flight_number"`
	Name          Opt[string]    `json:"name"`
	DateUTC       Opt[time.Time] `json:"date_utc"`
	DatePrecision Opt[string]    `json:"date_precision"`
	Upcoming      Opt[bool]      `json:"upcoming"`
	Success       Opt[bool]      `json:"success"`
	Details       Opt[string]    `json:"details"`
	Rocket        Opt[string]    `json:"rocket"`
	Launchpad     Opt[string]    `json:"launchpad"`
	TBD           Opt[bool]      `json:"tbd"`
	Net           Opt[bool]      `json:"net"`
	Window        Opt[int]       `json:"window"`
	AutoUpdate    Opt[bool]      `json:"auto_update"`
	Payloads      Opt[[]string]  `json:"payloads"`
}

// Apply merges p over r; a null on a required field zeroes it so validation rejects the result
func (p PatchInput) Apply(r Record) Record {
	set(&r.FlightNumber, p.FlightNumber)
	set(&r.Name, p.Name)
	set(&r.DateUTC, p.DateUTC)
	set(&r.DatePrecision, p.DatePrecision)
	set(&r.Upcoming, p.Upcoming)
	setPtr(&r.Success, p.Success)
	setPtr(&r.Details, p.Details)
	setPtr(&r.Rocket, p.Rocket)
	setPtr(&r.Launchpad, p.Launchpad)
	set(&r.TBD, p.TBD)
	set(&r.Net, p.Net)
	setPtr(&r.Window, p.Window)
	set(&r.AutoUpdate, p.AutoUpdate)
	set(&r.Payloads, p.Payloads)
	r.DateUTC = Stored(r.DateUTC)
	return r
}

// Empty reports whether no field was sent
func (p PatchInput) Empty() bool {
	return !(p.FlightNumber.Set || p.Name.Set || p.DateUTC.Set || p.DatePrecision.Set ||
		p.Upcoming.Set || p.Success.Set || p.Details.Set || p.Rocket.Set || p.Launchpad.Set ||
		p.TBD.Set || p.Net.Set || p.Window.Set || p.AutoUpdate.Set || p.Payloads.Set)
}

func set[T any](dst *T, o Opt[T]) {
	if !o.Set {
		return
	}
	if o.Value == nil {
		var zero T
		*dst = zero
		return
	}
	*dst = *o.Value
}

func setPtr[T any](dst **T, o Opt[T]) {
	if o.Set {
		*dst = o.Value
	}
}

// Deleted is the DELETE response
type Deleted struct {
	Deleted bool `json:"deleted"`
}
