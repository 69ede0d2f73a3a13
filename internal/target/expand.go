package target

import (
	"os"
	"strings"
)

// ExpandHome replaces a leading "~" with home. "~user" forms are left alone.
func ExpandHome(path, home string) string {
	if home == "" || !strings.HasPrefix(path, "~") {
		return path
	}
	if len(path) == 1 {
		return home
	}
	if path[1] == '/' || path[1] == '\\' {
		return strings.TrimRight(home, `/\`) + path[1:]
	}
	return path
}

// ExpandVars substitutes $VAR, ${VAR} and %VAR% references using lookup.
// References to unset variables are kept verbatim.
func ExpandVars(path string, lookup func(string) (string, bool)) string {
	if !strings.ContainsAny(path, "$%") {
		return path
	}

	var b strings.Builder
	for i := 0; i < len(path); {
		c := path[i]
		switch c {
		case '$':
			name, width := scanDollar(path[i+1:])
			if width == 0 {
				b.WriteByte(c)
				i++
				continue
			}
			if v, ok := lookup(name); ok {
				b.WriteString(v)
			} else {
				b.WriteString(path[i : i+1+width])
			}
			i += 1 + width
		case '%':
			end := strings.IndexByte(path[i+1:], '%')
			if end <= 0 || !isVarName(path[i+1:i+1+end]) {
				b.WriteByte(c)
				i++
				continue
			}
			name := path[i+1 : i+1+end]
			if v, ok := lookup(name); ok {
				b.WriteString(v)
			} else {
				b.WriteString(path[i : i+end+2])
			}
			i += end + 2
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// scanDollar reads the name following a '$'. width is the number of bytes
// consumed, zero when no reference starts here.
func scanDollar(s string) (name string, width int) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end <= 1 {
			return "", 0
		}
		return s[1:end], end + 1
	}
	n := 0
	for n < len(s) && isNameByte(s[n]) {
		n++
	}
	return s[:n], n
}

func isVarName(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isNameByte(s[i]) {
			return false
		}
	}
	return s != ""
}

func isNameByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// ExpandLocal expands home and environment references using the process
// environment.
func ExpandLocal(path string) string {
	home, _ := os.UserHomeDir()
	return ExpandVars(ExpandHome(path, home), os.LookupEnv)
}
