package shell

import "fmt"

// Theme is the colour scheme of the shell. It only changes presentation.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// ParseTheme returns the theme named s.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(s); t {
	case Light, Dark:
		return t, nil
	case "":
		return Light, nil
	}
	return "", fmt.Errorf("unknown theme %q, want %q or %q", s, Light, Dark)
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Style returns the glamour style of the theme.
func (t Theme) Style() string {
	if t == Dark {
		return "dark"
	}
	return "light"
}
