package club

import (
	"fmt"
	"strings"
)

// Club is a football club with its branding fields.
type Club struct {
	ID             int64
	ExternalID     string
	Name           string
	OfficialName   string
	Slug           string
	CountryCode    string
	CrestURL       string
	PrimaryColor   string
	SecondaryColor string
}

func (c Club) Validate() error {
	if c.ExternalID == "" && c.Slug == "" {
		return fmt.Errorf("club external id or slug is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("club name is required")
	}

	return nil
}

// NeedsProfile reports whether branding fields are still missing.
func (c Club) NeedsProfile() bool {
	return c.OfficialName == "" || c.CrestURL == ""
}

// Profile carries the branding fields filled in from the upstream club profile.
type Profile struct {
	OfficialName   string
	CountryCode    string
	CrestURL       string
	PrimaryColor   string
	SecondaryColor string
}

// ClubSeason links a club to a competition for one season.
type ClubSeason struct {
	ID            int64
	CompetitionID int64
	SeasonID      int64
	ClubID        int64
}

func (cs ClubSeason) Validate() error {
	if cs.CompetitionID <= 0 || cs.SeasonID <= 0 || cs.ClubID <= 0 {
		return fmt.Errorf("club season requires competition, season and club ids")
	}

	return nil
}
