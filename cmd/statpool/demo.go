package main

import (
	"fmt"
	"io"

	"github.com/gookit/color"

	"github.com/udisondev/statpool/internal/stat"
)

// runDemo walks p through drain, refill and a max raise, printing the
// status after each step.
func runDemo(w io.Writer, key string, p *stat.Pool) {
	fmt.Fprintf(w, "%s\n", color.Bold.Sprint(key))
	printStatus(w, p, "Initial state")

	p.Decrease(30)
	printStatus(w, p, "After decreasing by 30")

	p.Increase(15)
	printStatus(w, p, "After increasing by 15")

	p.Deplete()
	printStatus(w, p, "After deplete()")

	p.Increase(25)
	printStatus(w, p, "After restoring by 25")

	p.Fill()
	printStatus(w, p, "After fill()")

	p.SetMax(p.Max() + 50)
	printStatus(w, p, fmt.Sprintf("Max changed to %d", p.Max()))
}

func printStatus(w io.Writer, p *stat.Pool, label string) {
	fmt.Fprintf(w, "  %s: %d (%.0f%%) [%s]\n", label, p.Value(), p.Percentage()*100, status(p))
}

func status(p *stat.Pool) string {
	switch {
	case p.IsDepleted():
		return color.Red.Sprint("EMPTY")
	case p.IsFilled():
		return color.Green.Sprint("FULL")
	default:
		return color.Yellow.Sprint("PARTIAL")
	}
}
