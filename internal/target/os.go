package target

import (
	"fmt"
	"strings"

	"github.com/bianoble/savesync/internal/config"
)

// OS is one of the operating systems a save entry carries a path for.
type OS string

const (
	Windows OS = "windows"
	Linux   OS = "linux"
	MacOS   OS = "macos"
)

// SupportedOS lists every OS in display order.
var SupportedOS = []OS{Windows, Linux, MacOS}

// ParseOS converts an OS name. Matching is case-insensitive.
func ParseOS(s string) (OS, error) {
	switch OS(strings.ToLower(strings.TrimSpace(s))) {
	case Windows:
		return Windows, nil
	case Linux:
		return Linux, nil
	case MacOS:
		return MacOS, nil
	default:
		return "", fmt.Errorf("unknown OS '%s' — must be one of: windows, linux, macos", s)
	}
}

// Valid reports whether o is a supported OS.
func (o OS) Valid() bool {
	switch o {
	case Windows, Linux, MacOS:
		return true
	}
	return false
}

func (o OS) String() string { return string(o) }

// PathFor returns the entry path configured for o, or "" for an unknown OS.
func PathFor(paths config.SavePaths, o OS) string {
	switch o {
	case Windows:
		return paths.Windows
	case Linux:
		return paths.Linux
	case MacOS:
		return paths.MacOS
	default:
		return ""
	}
}
