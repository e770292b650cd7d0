package tree

import (
	"nstree/proc"
)

// Build links every record's Children to the records whose PPID matches its
// PID. An index from parent id to members is built once, so construction is
// O(n) over the snapshot. Child order follows snapshot order, which keeps
// rendering reproducible for a given input.
//
// Records whose PPID matches no PID (kernel threads under ppid 0, or the
// init process itself) simply end up as roots with no parent; rendering
// later starts from PID 1 regardless.
func Build(s *proc.Snapshot) {
	byParent := make(map[proc.ProcessID][]*proc.Record, len(s.Records))
	for _, r := range s.Records {
		byParent[r.PPID] = append(byParent[r.PPID], r)
	}

	for _, r := range s.Records {
		children := byParent[r.PID]
		if children == nil {
			// Leaves get an empty list, not a nil one
			children = []*proc.Record{}
		}
		r.Children = children
	}
}
