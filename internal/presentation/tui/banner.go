package tui

import (
	"fmt"
	"io"
)

// PrintBanner writes the lattice banner. Colors are dropped when w is not a terminal.
func PrintBanner(w io.Writer) {
	s := NewStyler(w)
	lines := []struct {
		text, color string
	}{
		{" _       _   _   _          ", "#818cf8"},
		{"| | __ _| |_| |_(_) ___ ___ ", "#a78bfa"},
		{"| |/ _` | __| __| |/ __/ _ \\", "#c084fc"},
		{"| | (_| | |_| |_| | (_|  __/", "#e879f9"},
		{"|_|\\__,_|\\__|\\__|_|\\___\\___|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, s.paint(l.text, l.color, false))
	}
	fmt.Fprintln(w)
}
