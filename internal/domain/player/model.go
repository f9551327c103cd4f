package player

import (
	"fmt"
	"strings"
)

// Player is an athlete from the reference dataset.
type Player struct {
	ID            int64
	ExternalID    string
	FullName      string
	Nationality   string
	Position      string
	CurrentClubID int64
	ShirtNumber   int
}

func (p Player) Validate() error {
	if p.ExternalID == "" {
		return fmt.Errorf("player external id is required")
	}
	if !HasUsableName(p.FullName) {
		return fmt.Errorf("player name is required")
	}
	if p.ShirtNumber < 0 || p.ShirtNumber > 99 {
		return fmt.Errorf("invalid shirt number: %d", p.ShirtNumber)
	}

	return nil
}

// HasUsableName rejects blank names and provider placeholders such as "-" or "?".
func HasUsableName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false
	}
	return strings.ContainsFunc(trimmed, func(r rune) bool {
		return r != '-' && r != '?' && r != '.' && r != '_'
	})
}
