package competition

import "fmt"

// Competition is a league or cup as reported by the upstream catalogue.
type Competition struct {
	ID               int64
	ExternalID       string
	Name             string
	CountryCode      string
	ClubCount        int
	PlayerCount      int
	TotalMarketValue int64
}

func (c Competition) Validate() error {
	if c.ExternalID == "" {
		return fmt.Errorf("competition external id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("competition name is required")
	}
	if c.ClubCount < 0 || c.PlayerCount < 0 {
		return fmt.Errorf("competition counts must not be negative")
	}

	return nil
}
