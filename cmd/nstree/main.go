//go:build linux

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"nstree/proc_linux"
	"nstree/render"
	"nstree/tree"
)

// nsFlag collects repeatable --ns values; each value may also be a
// comma-separated list
type nsFlag []string

func (f *nsFlag) String() string {
	return strings.Join(*f, ",")
}

func (f *nsFlag) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		*f = append(*f, part)
	}
	return nil
}

func main() {
	var filters nsFlag
	showThreads := flag.Bool("show-threads", false, "Include threads in the tree")
	flag.BoolVar(showThreads, "t", false, "Include threads in the tree (shorthand)")
	flag.Var(&filters, "ns", "Only show subtrees where the given namespace `type` differs ('*' for any type, repeatable)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Unknown argument: %s\n", flag.Arg(0))
		usage()
		os.Exit(1)
	}

	err := run(proc_linux.NewScanner(), *showThreads, tree.Filter(filters), os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [OPTIONS]\n", os.Args[0])
	fmt.Fprintln(out, "Visualizes the process tree like pstree while displaying namespace")
	fmt.Fprintln(out, "information. Only namespaces that differ from the parent's are shown.")
	fmt.Fprintln(out, "Threads are hidden by default.")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	flag.PrintDefaults()
}

// run executes the scan -> build -> mark -> render pipeline
func run(scanner *proc_linux.Scanner, showThreads bool, filters tree.Filter, stdout, stderr io.Writer) error {
	snap, err := scanner.Snapshot(showThreads)
	if err != nil {
		return err
	}

	tree.Build(snap)

	root := snap.Init()
	if root == nil {
		// A proc mount without PID 1 leaves nothing to render; that is
		// not an error
		return nil
	}

	if err := tree.MarkKeep(root, filters); err != nil {
		return err
	}

	if err := render.New(stdout).Print(root); err != nil {
		return err
	}

	if snap.AnyNamespacesUnreadable() {
		fmt.Fprintln(stderr, "Warning: some namespaces could not be read (insufficient privileges?)")
	}

	return nil
}
