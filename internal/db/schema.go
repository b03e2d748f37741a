package db

import _ "embed"

//go:embed schema.sql
var Schema string

// DayOffset and BlockOffset convert the zero based matrix coordinates of the
// catalog into the one based columns of horario.
const (
	DayOffset   = 1
	BlockOffset = 1
)
