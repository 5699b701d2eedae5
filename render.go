package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mrdg/sidetone/keyer"
)

func renderState(st keyer.State, volSteps int, w io.Writer) {
	key := colorize("up  ", colorGreen)
	if st.KeyDown {
		key = colorize("DOWN", colorRed)
	}
	ptt := colorize("rx", colorGreen)
	if st.PTT {
		ptt = colorize("TX", colorRed)
	}
	mute := "off"
	if st.MuteOnPTT {
		mute = "on"
	}

	fmt.Fprintf(w, "key %s  ptt %s  mute-on-ptt %s\n", key, ptt, mute)
	fmt.Fprintf(w, "freq   %s\n", colorize(fmt.Sprintf("%d Hz", st.Frequency), colorBlue))
	fmt.Fprintf(w, "speed  %s\n", colorize(fmt.Sprintf("%d wpm", st.Speed), colorBlue))
	fmt.Fprintf(w, "amp    %s %.4f", bar(st.Amplitude, 20), st.Amplitude)
	if st.VolumeStep >= 0 {
		fmt.Fprintf(w, " (step %d/%d)", st.VolumeStep, volSteps-1)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "master %s %.4f\n", bar(st.Master, 20), st.Master)
}

// bar draws level (0..1) as a bar of the given width.
func bar(level float64, width int) string {
	n := int(level*float64(width) + 0.5)
	if n > width {
		n = width
	}
	if n < 0 {
		n = 0
	}
	return colorize(strings.Repeat("█", n), colorMagenta) + strings.Repeat("·", width-n)
}

const (
	colorBlack = iota + 30
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
)

func colorize(text string, color int) string {
	return fmt.Sprintf("\033[%dm%s\033[0m", color, text)
}
