package display

import (
	"fmt"
	"io"
)

// Homepage is printed in the start banner.
const Homepage = "http://www.brownieplayer.com/"

// Printer is the subset of the logger the screens need.
type Printer interface {
	Info(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
	Blank()
	Rule()
}

// PrintBanner pushes the boot messages up with two bare lines, then prints
// the framed homepage header.
func PrintBanner(w io.Writer, p Printer, version string) {
	fmt.Fprint(w, "\n\n")
	p.Rule()
	p.Blank()
	p.Info(Homepage)
	p.Debug("Version %s", version)
	p.Rule()
	p.Blank()
}
