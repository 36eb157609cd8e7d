package style

import (
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
)

var (
	// Respect https://no-color.org/.
	noColor = os.Getenv("NO_COLOR") != ""

	isTTY   = isatty.IsTerminal(os.Stdout.Fd())
	isColor = isTTY && !noColor
)

func IsStdoutTTY() bool         { return isTTY }
func StdoutSupportsColor() bool { return isColor }

// SGR parameters used across the CLI.
const (
	Reset  = 0
	Bold   = 1
	Red    = 31
	Green  = 32
	Yellow = 33
	Cyan   = 36
)

func doS(ms []int) string {
	if len(ms) == 0 {
		return "\033[0m"
	}
	var b strings.Builder
	_, _ = b.WriteString("\033[")
	for i, m := range ms {
		if i != 0 {
			_ = b.WriteByte(';')
		}
		_, _ = b.WriteString(strconv.FormatInt(int64(m), 10))
	}
	_ = b.WriteByte('m')
	return b.String()
}

func S(ms ...int) string {
	if isColor {
		return doS(ms)
	}
	return ""
}

func WithS(s string, ms ...int) string { return S(ms...) + s + S() }
