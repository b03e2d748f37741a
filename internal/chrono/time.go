package chrono

import (
	"time"
)

var santiago *time.Location

func init() {
	var err error
	santiago, err = time.LoadLocation("America/Santiago")
	if err != nil {
		panic(err)
	}
}

// Santiago returns a [*time.Location] for America/Santiago, the timezone
// every SIGA campus operates in.
func Santiago() *time.Location {
	return santiago
}

// API is the interface that anything depending on the system clock should use.
type API interface {
	// Now returns the current time, the timezone of the time will default to America/Santiago.
	Now() time.Time
	Location() *time.Location
}

// StandardTime is the standard implementation of API using the standard library.
type StandardTime struct{}

// NewStandardTime is the constructor of StandardTime.
func NewStandardTime() StandardTime {
	return StandardTime{}
}

func (StandardTime) Now() time.Time {
	return time.Now().In(santiago)
}

func (StandardTime) Location() *time.Location {
	return santiago
}

// FixedTime always returns the same instant.
type FixedTime struct {
	At time.Time
}

func (f FixedTime) Now() time.Time {
	return f.At.In(santiago)
}

func (FixedTime) Location() *time.Location {
	return santiago
}
