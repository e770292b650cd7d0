package proc

// InitPID is the PID rendering starts from
const InitPID ProcessID = 1

// Snapshot is the flat collection of records discovered in one pass over
// the process table. Records are keyed by (PID, IsThread): a thread TID can
// coincide with an unrelated process PID, so the plain id alone is not
// unique across the process/thread dichotomy.
type Snapshot struct {
	Records []*Record
}

// Find returns the record with the given id, or nil when the snapshot has
// none
func (s *Snapshot) Find(pid ProcessID, isThread bool) *Record {
	for _, r := range s.Records {
		if r.PID == pid && r.IsThread == isThread {
			return r
		}
	}
	return nil
}

// Init returns the record rendering starts from (PID 1, not a thread), or
// nil when the snapshot has no such record.
func (s *Snapshot) Init() *Record {
	return s.Find(InitPID, false)
}

// AnyNamespacesUnreadable reports whether at least one record's namespaces
// could not be read. Callers surface this once, in aggregate, rather than
// per record.
func (s *Snapshot) AnyNamespacesUnreadable() bool {
	for _, r := range s.Records {
		if !r.NamespacesOK {
			return true
		}
	}
	return false
}
