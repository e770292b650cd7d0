package proc

// ProcessID represents a unique identifier for a process or thread
type ProcessID int

// Namespace represents a single namespace symlink target.
//
// The kernel exposes the namespaces a process belongs to as symbolic links:
//
//	/proc/<pid>/ns/net -> net:[4026531840]
//
// Type holds the short label before the colon ("net") and Inode holds the
// entire target string ("net:[4026531840]"). Inode values are opaque
// references compared only for string equality, never interpreted
// numerically.
type Namespace struct {
	Type  string
	Inode string
}

// Record holds basic metadata for one process or thread and its place in
// the tree once it has been built
type Record struct {
	PID      ProcessID // Process ID (thread TID when IsThread is set)
	PPID     ProcessID // Parent process ID
	Name     string    // Command name from /proc/<pid>/stat
	IsThread bool      // True for a thread record, false for a main process

	Namespaces   []Namespace // Namespaces in discovery order
	NamespacesOK bool        // False when the ns directory could not be read

	Children []*Record // Populated by tree.Build
	Keep     bool      // Populated by tree.MarkKeep
}

// Label returns the display form of the record's name: threads are wrapped
// in braces like pstree shows them, processes are not.
func (r *Record) Label() string {
	if r.IsThread {
		return "{" + r.Name + "}"
	}
	return r.Name
}
