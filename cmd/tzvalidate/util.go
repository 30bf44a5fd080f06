package main

import (
	"io"
	"os"
	"sort"

	"golang.org/x/term"
)

func sortedStrings(s []string) []string {
	sort.Strings(s)
	return s
}

// isTerminal reports whether w is a terminal file descriptor.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
