package importer

import "fmt"

const (
	PhaseBegin      = "begin"
	PhaseCampus     = "campus"
	PhaseSemester   = "semester"
	PhaseProfessors = "professors"
	PhaseSubjects   = "subjects"
	PhaseSections   = "sections"
	PhaseCommit     = "commit"
)

// PersistenceError is returned when an import fails, nothing of the failed
// import is left in the database.
type PersistenceError struct {
	Phase string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("import failed during %s: %v", e.Phase, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
