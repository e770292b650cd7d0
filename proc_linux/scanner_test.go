//go:build linux

package proc_linux

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"nstree/proc"
)

// writeProcEntry lays out one fake /proc record: a stat file plus optional
// ns symlinks. ns targets are dangling symlinks, which readlink resolves
// just like the kernel's magic links.
func writeProcEntry(t *testing.T, root, dir, stat string, ns map[string]string) {
	t.Helper()

	d := filepath.Join(root, dir)
	require.NoError(t, os.MkdirAll(d, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(d, "stat"), []byte(stat), 0o644))

	if ns == nil {
		return
	}
	nsDir := filepath.Join(d, "ns")
	require.NoError(t, os.MkdirAll(nsDir, 0o755))
	for name, target := range ns {
		require.NoError(t, os.Symlink(target, filepath.Join(nsDir, name)))
	}
}

func testScanner(root string) *Scanner {
	s := NewScanner()
	s.Root = root
	return s
}

func TestSnapshotBasicScan(t *testing.T) {
	root := t.TempDir()
	writeProcEntry(t, root, "1", "1 (init) S 0 1 1 0", map[string]string{
		"net": "net:[4026531840]",
		"uts": "uts:[4026531838]",
	})
	writeProcEntry(t, root, "42", "42 (nginx) S 1 42 42 0", map[string]string{
		"net": "net:[4026532001]",
	})

	snap, err := testScanner(root).Snapshot(false)
	require.NoError(t, err)
	require.Len(t, snap.Records, 2)

	initRec := snap.Find(1, false)
	require.NotNil(t, initRec)
	require.Equal(t, "init", initRec.Name)
	require.Equal(t, proc.ProcessID(0), initRec.PPID)
	require.True(t, initRec.NamespacesOK)
	// ReadDir sorts entries, so discovery order is name order
	require.Equal(t, []proc.Namespace{
		{Type: "net", Inode: "net:[4026531840]"},
		{Type: "uts", Inode: "uts:[4026531838]"},
	}, initRec.Namespaces)

	nginx := snap.Find(42, false)
	require.NotNil(t, nginx)
	require.Equal(t, proc.ProcessID(1), nginx.PPID)
	require.False(t, nginx.IsThread)
}

func TestSnapshotSkipsNonPidEntries(t *testing.T) {
	root := t.TempDir()
	writeProcEntry(t, root, "1", "1 (init) S 0 1 1 0", nil)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sys"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "self"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "uptime"), []byte("1.0 1.0\n"), 0o644))

	snap, err := testScanner(root).Snapshot(false)
	require.NoError(t, err)
	require.Len(t, snap.Records, 1)
}

func TestSnapshotSkipsVanishedProcess(t *testing.T) {
	root := t.TempDir()
	writeProcEntry(t, root, "1", "1 (init) S 0 1 1 0", nil)
	// A pid dir with no stat file: process exited between ReadDir and read
	require.NoError(t, os.MkdirAll(filepath.Join(root, "99"), 0o755))

	snap, err := testScanner(root).Snapshot(false)
	require.NoError(t, err)
	require.Len(t, snap.Records, 1)
	require.Nil(t, snap.Find(99, false))
}

func TestSnapshotCommWithParensAndSpaces(t *testing.T) {
	root := t.TempDir()
	writeProcEntry(t, root, "2", "2 (tmux: server(1)) S 1 2 2 0", nil)

	snap, err := testScanner(root).Snapshot(false)
	require.NoError(t, err)

	r := snap.Find(2, false)
	require.NotNil(t, r)
	require.Equal(t, "tmux: server(1)", r.Name)
	require.Equal(t, proc.ProcessID(1), r.PPID)
}

func TestSnapshotMalformedStatStillIncluded(t *testing.T) {
	root := t.TempDir()
	writeProcEntry(t, root, "7", "not a stat line", nil)

	snap, err := testScanner(root).Snapshot(false)
	require.NoError(t, err)
	require.Len(t, snap.Records, 1)

	r := snap.Records[0]
	require.Equal(t, proc.ProcessID(0), r.PID)
	require.Equal(t, proc.ProcessID(0), r.PPID)
	require.Empty(t, r.Name)
}

func TestSnapshotUnreadableNamespaces(t *testing.T) {
	root := t.TempDir()
	// No ns directory at all, as when readlink permission is denied
	writeProcEntry(t, root, "3", "3 (secret) S 1 3 3 0", nil)

	snap, err := testScanner(root).Snapshot(false)
	require.NoError(t, err)

	r := snap.Find(3, false)
	require.NotNil(t, r)
	require.False(t, r.NamespacesOK)
	require.Empty(t, r.Namespaces)
	require.True(t, snap.AnyNamespacesUnreadable())
}

func TestSnapshotThreads(t *testing.T) {
	root := t.TempDir()
	writeProcEntry(t, root, "1", "1 (init) S 0 1 1 0", nil)
	writeProcEntry(t, root, "2", "2 (nginx) S 1 2 2 0", map[string]string{
		"net": "net:[100]",
	})
	// Main thread mirrors the process and must not be duplicated
	writeProcEntry(t, root, "2/task/2", "2 (nginx) S 1 2 2 0", nil)
	// The kernel reports the thread's parent as pid 1; the scanner must
	// override it with the owning pid
	writeProcEntry(t, root, "2/task/7", "7 (nginx) S 1 2 2 0", map[string]string{
		"net": "net:[100]",
	})

	snap, err := testScanner(root).Snapshot(true)
	require.NoError(t, err)
	require.Len(t, snap.Records, 3)

	th := snap.Find(7, true)
	require.NotNil(t, th)
	require.True(t, th.IsThread)
	require.Equal(t, proc.ProcessID(2), th.PPID)
	require.True(t, th.NamespacesOK)

	require.Nil(t, snap.Find(7, false))
}

func TestSnapshotThreadsExcludedByDefault(t *testing.T) {
	root := t.TempDir()
	writeProcEntry(t, root, "1", "1 (init) S 0 1 1 0", nil)
	writeProcEntry(t, root, "2", "2 (nginx) S 1 2 2 0", nil)
	writeProcEntry(t, root, "2/task/7", "7 (nginx) S 1 2 2 0", nil)

	snap, err := testScanner(root).Snapshot(false)
	require.NoError(t, err)
	require.Len(t, snap.Records, 2)
	require.Nil(t, snap.Find(7, true))
}

func TestSnapshotMissingRoot(t *testing.T) {
	_, err := testScanner(filepath.Join(t.TempDir(), "nope")).Snapshot(false)
	require.Error(t, err)
}

func TestParseNamespaceLink(t *testing.T) {
	require.Equal(t, proc.Namespace{Type: "net", Inode: "net:[4026531840]"},
		parseNamespaceLink("net:[4026531840]"))
	require.Equal(t, proc.Namespace{Type: "weird", Inode: "weird"},
		parseNamespaceLink("weird"))
}
