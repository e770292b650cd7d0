package tree

import (
	"nstree/proc"
)

// Wildcard is the filter specifier matching any namespace type
const Wildcard = "*"

// Filter is an ordered list of namespace type specifiers. Each entry is
// either a concrete type name like "net" or the Wildcard token. An empty
// filter disables pruning entirely: every process qualifies.
type Filter []string

// Qualifies reports whether rec individually matches the filter, comparing
// its namespaces against the parent namespace list (nil for the root).
//
// A named specifier only ever qualifies on a namespace the process actually
// has: a missing type contributes nothing rather than counting as a
// difference. Specifiers combine with a short-circuit OR.
func (f Filter) Qualifies(rec *proc.Record, parent []proc.Namespace) bool {
	if len(f) == 0 {
		return true
	}

	for _, spec := range f {
		if spec == Wildcard {
			for _, ns := range rec.Namespaces {
				if proc.Differs(ns, parent) {
					return true
				}
			}
			continue
		}

		inode, ok := proc.FindInode(rec.Namespaces, spec)
		if !ok {
			continue
		}
		if proc.Differs(proc.Namespace{Type: spec, Inode: inode}, parent) {
			return true
		}
	}

	return false
}
