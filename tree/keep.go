package tree

import (
	"errors"

	"nstree/proc"
)

// ErrCycle reports that the parent links among the scanned records form a
// loop. /proc data should never do this, but the ppid fields are not
// trusted enough to recurse over unchecked.
var ErrCycle = errors.New("parent links form a cycle")

// MarkKeep walks the tree rooted at root, setting Keep on every node that
// individually qualifies under f or has a qualifying descendant. Keep flows
// upward only, so the kept subtree always stays path-connected to the root.
// With an empty filter every node is kept.
func MarkKeep(root *proc.Record, f Filter) error {
	return markKeep(root, nil, f, make(map[*proc.Record]bool))
}

func markKeep(rec *proc.Record, parent []proc.Namespace, f Filter, visiting map[*proc.Record]bool) error {
	if visiting[rec] {
		return ErrCycle
	}
	visiting[rec] = true

	rec.Keep = f.Qualifies(rec, parent)

	for _, child := range rec.Children {
		if err := markKeep(child, rec.Namespaces, f, visiting); err != nil {
			return err
		}
		if child.Keep {
			rec.Keep = true
		}
	}

	// Only the current path counts as visiting; a record reachable twice
	// through duplicate pids is odd input, not a cycle.
	delete(visiting, rec)
	return nil
}
