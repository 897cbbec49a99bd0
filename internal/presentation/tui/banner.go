package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for Ensemble.
func PrintBanner() {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`                                _     _      `, "#818cf8"},
		{`   ___ _ __  ___  ___ _ __ ___ | |__ | | ___ `, "#a78bfa"},
		{`  / _ \ '_ \/ __|/ _ \ '_ ' _ \| '_ \| |/ _ \`, "#c084fc"},
		{` |  __/ | | \__ \  __/ | | | | | |_) | |  __/`, "#e879f9"},
		{`  \___|_| |_|___/\___|_| |_| |_|_.__/|_|\___|`, "#f472b6"},
	}

	fmt.Println()
	for _, l := range lines {
		fmt.Println(termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Println()
}
