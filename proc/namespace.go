package proc

// FindInode returns the inode string for the first namespace of the given
// type in list, or false when the type is not present. Duplicate types are
// not meaningful in /proc data; lookup stops at the first match.
func FindInode(list []Namespace, typ string) (string, bool) {
	for _, ns := range list {
		if ns.Type == typ {
			return ns.Inode, true
		}
	}
	return "", false
}

// Differs reports whether entry is novel relative to the parent namespace
// list: the parent has no namespace of the same type, or it points at a
// different inode. A nil parent list means there is nothing to compare
// against (the root of the tree), so every entry differs.
func Differs(entry Namespace, parent []Namespace) bool {
	inode, ok := FindInode(parent, entry.Type)
	return !ok || inode != entry.Inode
}
