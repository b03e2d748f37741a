package catalog

import (
	"fmt"
	"strings"
)

// Campus is a physical site of the university, Code is the value the portal
// uses in its "sede" select.
type Campus struct {
	Name string
	Code string
}

var (
	CasaCentral        = Campus{Name: "Casa Central", Code: "1"}
	Concepcion         = Campus{Name: "Concepción", Code: "4"}
	SantiagoSanJoaquin = Campus{Name: "Santiago San Joaquín", Code: "7"}
	SantiagoVitacura   = Campus{Name: "Santiago Vitacura", Code: "2"}
	VinaDelMar         = Campus{Name: "Viña del Mar", Code: "3"}
)

// Campuses lists every known campus.
var Campuses = []Campus{
	CasaCentral,
	Concepcion,
	SantiagoSanJoaquin,
	SantiagoVitacura,
	VinaDelMar,
}

// LookupCampus finds a campus by its name (case insensitive) or its portal code.
func LookupCampus(nameOrCode string) (Campus, error) {
	nameOrCode = strings.TrimSpace(nameOrCode)
	for _, c := range Campuses {
		if c.Code == nameOrCode || strings.EqualFold(c.Name, nameOrCode) {
			return c, nil
		}
	}
	return Campus{}, fmt.Errorf("unknown campus '%s'", nameOrCode)
}

// Shift is the schedule track (jornada) filter of the portal.
type Shift struct {
	Name string
	Code string
}

var (
	Diurno     = Shift{Name: "Diurno", Code: "1"}
	Vespertino = Shift{Name: "Vespertino", Code: "2"}
)

// LookupShift finds a shift by its name (case insensitive) or its portal code,
// an empty string defaults to Diurno.
func LookupShift(nameOrCode string) (Shift, error) {
	nameOrCode = strings.TrimSpace(nameOrCode)
	if nameOrCode == "" {
		return Diurno, nil
	}
	for _, s := range []Shift{Diurno, Vespertino} {
		if s.Code == nameOrCode || strings.EqualFold(s.Name, nameOrCode) {
			return s, nil
		}
	}
	return Shift{}, fmt.Errorf("unknown shift '%s'", nameOrCode)
}
