//go:build linux

package proc_linux

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"nstree/proc"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sys/unix"
)

// Scanner enumerates processes (and optionally threads) from a proc
// filesystem and produces the flat snapshot the tree stages consume
type Scanner struct {
	// Root is the proc mount to scan. Empty means /proc.
	Root string

	log *logger.Logger
}

// NewScanner creates a Scanner reading from the standard /proc mount
func NewScanner() *Scanner {
	return &Scanner{
		Root: "/proc",
		log:  logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "nstree-scan")),
	}
}

// Snapshot walks the proc root and returns one record per live process,
// plus one record per extra thread when includeThreads is set.
//
// Individual records that vanish mid-walk are skipped; only failing to read
// the proc root itself is an error.
func (s *Scanner) Snapshot(includeThreads bool) (*proc.Snapshot, error) {
	root := s.Root
	if root == "" {
		root = "/proc"
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", root, err)
	}

	snap := &proc.Snapshot{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil || pid <= 0 {
			continue // not a PID dir
		}

		dir := filepath.Join(root, e.Name())
		rec, err := s.readRecord(dir, false)
		if err != nil {
			s.log.Debugln("Skipping", dir, ":", err)
			continue
		}
		snap.Records = append(snap.Records, rec)

		if includeThreads {
			s.scanThreads(snap, dir, pid)
		}
	}

	s.log.Infoln("Scanned", len(snap.Records), "records from", root)

	return snap, nil
}

// scanThreads reads every extra thread under <dir>/task into the snapshot
func (s *Scanner) scanThreads(snap *proc.Snapshot, dir string, pid int) {
	taskDir := filepath.Join(dir, "task")
	tasks, err := os.ReadDir(taskDir)
	if err != nil {
		// Process vanished, or the task dir is unreadable; the main
		// record already made it in
		s.log.Debugln("Skipping", taskDir, ":", err)
		return
	}

	for _, t := range tasks {
		tid, err := strconv.Atoi(t.Name())
		if err != nil {
			continue
		}
		if tid == pid {
			continue // the main thread is the process record itself
		}

		rec, err := s.readRecord(filepath.Join(taskDir, t.Name()), true)
		if err != nil {
			s.log.Debugln("Skipping", filepath.Join(taskDir, t.Name()), ":", err)
			continue
		}

		// Threads nest under their owning process, not under their
		// kernel-reported parent, the way pstree shows them
		rec.PPID = proc.ProcessID(pid)
		snap.Records = append(snap.Records, rec)
	}
}

// readRecord reads <dir>/stat and <dir>/ns for one process or thread
func (s *Scanner) readRecord(dir string, isThread bool) (*proc.Record, error) {
	data, err := os.ReadFile(filepath.Join(dir, "stat"))
	if err != nil {
		return nil, fmt.Errorf("read stat: %w", err)
	}

	rec := &proc.Record{IsThread: isThread}
	parseStatLine(string(data), rec)
	rec.Namespaces, rec.NamespacesOK = readNamespaces(filepath.Join(dir, "ns"))

	return rec, nil
}

// parseStatLine extracts the pid, comm and ppid from a /proc stat line.
//
// The comm field is wrapped in parentheses and may itself contain
// parentheses or spaces, so it is bracketed by the first '(' and the last
// ')' rather than split on whitespace. Malformed input leaves zero/empty
// defaults in place; the record is still usable.
func parseStatLine(line string, rec *proc.Record) {
	lparen := strings.IndexByte(line, '(')
	rparen := strings.LastIndexByte(line, ')')

	head := line
	if lparen >= 0 {
		head = line[:lparen]
	}
	if pid, err := strconv.Atoi(strings.TrimSpace(head)); err == nil {
		rec.PID = proc.ProcessID(pid)
	}

	if lparen < 0 || rparen < lparen {
		return
	}
	rec.Name = line[lparen+1 : rparen]

	// After the comm come the single-character state and then the ppid
	rest := strings.Fields(line[rparen+1:])
	if len(rest) >= 2 {
		if ppid, err := strconv.Atoi(rest[1]); err == nil {
			rec.PPID = proc.ProcessID(ppid)
		}
	}
}

// readNamespaces reads every symlink target under a ns directory. The
// second return is false when the directory itself cannot be read, which
// usually means insufficient privilege; callers must not confuse that with
// a process whose namespaces simply match its parent's.
func readNamespaces(nsDir string) ([]proc.Namespace, bool) {
	entries, err := os.ReadDir(nsDir)
	if err != nil {
		return nil, false
	}

	list := make([]proc.Namespace, 0, len(entries))
	buf := make([]byte, 256)
	for _, e := range entries {
		n, err := unix.Readlink(filepath.Join(nsDir, e.Name()), buf)
		if err != nil || n <= 0 {
			continue
		}
		list = append(list, parseNamespaceLink(string(buf[:n])))
	}

	return list, true
}

// parseNamespaceLink splits a ns symlink target like "net:[4026531840]"
// into its short type and the full target string. A target without a colon
// keeps the whole string as its type.
func parseNamespaceLink(target string) proc.Namespace {
	typ := target
	if i := strings.IndexByte(target, ':'); i >= 0 {
		typ = target[:i]
	}
	return proc.Namespace{Type: typ, Inode: target}
}
