package bot

import (
	"fmt"
	"strings"
)

// ParseRegisterArgs parses arguments for /register.
// Format: [-c currency] <name...>; currency defaults to JPY.
func ParseRegisterArgs(args string) (name, currency string, err error) {
	parts := strings.Fields(args)
	if len(parts) == 0 {
		return "", "", fmt.Errorf("usage: /register [-c currency] <name>")
	}

	currency = "JPY"
	if parts[0] == "-c" {
		if len(parts) < 3 {
			return "", "", fmt.Errorf("usage: /register [-c currency] <name>")
		}
		currency = strings.ToUpper(parts[1])
		if !validCurrencyCode(currency) {
			return "", "", fmt.Errorf("invalid currency %q, expected a code like USD or EUR", parts[1])
		}
		parts = parts[2:]
	}

	return strings.Join(parts, " "), currency, nil
}

// ParseNameArg extracts an alert name from a command argument string.
func ParseNameArg(args string) (string, error) {
	name := strings.TrimSpace(args)
	if name == "" {
		return "", fmt.Errorf("alert name is required")
	}
	return name, nil
}

func validCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
