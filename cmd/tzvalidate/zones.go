package main

import (
	"bufio"
	"io"
	"strings"
)

// readZones returns the first word of every non-blank, non-comment line.
func readZones(r io.Reader) ([]string, error) {
	var zones []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		zones = append(zones, strings.Fields(line)[0])
	}
	return zones, sc.Err()
}
