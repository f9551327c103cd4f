package season

import "fmt"

// Season is keyed by its display label ("19/20"). ExternalID is the provider
// season id, which is the start year ("2019").
type Season struct {
	ID         int64
	ExternalID string
	Label      string
	StartYear  int
	EndYear    int
}

func (s Season) Validate() error {
	if s.Label == "" {
		return fmt.Errorf("season label is required")
	}
	if _, ok := NormalizeSlashLabel(s.Label); !ok {
		return fmt.Errorf("invalid season label: %s", s.Label)
	}
	if s.StartYear != 0 && s.EndYear != 0 && s.EndYear < s.StartYear {
		return fmt.Errorf("season end year %d is before start year %d", s.EndYear, s.StartYear)
	}

	return nil
}
