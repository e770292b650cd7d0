package render

import (
	"fmt"
	"io"
	"strings"

	"nstree/proc"
	"nstree/tree"
)

// Renderer prints the kept portion of a process tree as indented lines
// with pstree-style branch glyphs
type Renderer struct {
	w io.Writer
}

// New creates a Renderer writing to w
func New(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Print renders the kept subtree rooted at root. The root line carries the
// last-child glyph with an empty prefix. Unkept nodes are skipped entirely;
// keep flows upward only, so a skipped node never hides a kept descendant.
func (r *Renderer) Print(root *proc.Record) error {
	if root == nil || !root.Keep {
		return nil
	}
	return r.print(root, "", true, nil, make(map[*proc.Record]bool))
}

func (r *Renderer) print(rec *proc.Record, prefix string, last bool, parent []proc.Namespace, visiting map[*proc.Record]bool) error {
	if visiting[rec] {
		return fmt.Errorf("rendering %s(%d): %w", rec.Name, rec.PID, tree.ErrCycle)
	}
	visiting[rec] = true

	var line strings.Builder
	line.WriteString(prefix)
	if last {
		line.WriteString("└─")
	} else {
		line.WriteString("├─")
	}

	fmt.Fprintf(&line, "%s(%d)", rec.Label(), rec.PID)
	if !rec.NamespacesOK {
		// Marks that the namespaces could not be read, which is not the
		// same as nothing differing
		line.WriteByte('*')
	}

	// Annotate only the namespaces that differ from the parent's
	first := true
	for _, ns := range rec.Namespaces {
		if !proc.Differs(ns, parent) {
			continue
		}
		if first {
			line.WriteString(" [")
			first = false
		} else {
			line.WriteString(", ")
		}
		line.WriteString(ns.Inode)
	}
	if !first {
		line.WriteByte(']')
	}
	line.WriteByte('\n')

	if _, err := io.WriteString(r.w, line.String()); err != nil {
		return err
	}

	childPrefix := prefix + "│ "
	if last {
		childPrefix = prefix + "  "
	}

	// The last kept child decides the glyphs, not the last child overall;
	// unkept children may trail it.
	lastKept := -1
	for i := len(rec.Children) - 1; i >= 0; i-- {
		if rec.Children[i].Keep {
			lastKept = i
			break
		}
	}

	for i, child := range rec.Children {
		if !child.Keep {
			continue
		}
		if err := r.print(child, childPrefix, i == lastKept, rec.Namespaces, visiting); err != nil {
			return err
		}
	}

	delete(visiting, rec)
	return nil
}
