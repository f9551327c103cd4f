package contract

import (
	"errors"
	"fmt"
)

// ErrMissingReference is returned when the player, club or season of a
// contract does not exist. Contracts are never force-inserted.
var ErrMissingReference = errors.New("contract references a missing player, club or season")

// Contract records that a player wore a jersey number for a club in a season.
type Contract struct {
	ID           int64
	PlayerID     int64
	ClubID       int64
	SeasonID     int64
	JerseyNumber int
}

func (c Contract) Validate() error {
	if c.PlayerID <= 0 || c.ClubID <= 0 || c.SeasonID <= 0 {
		return fmt.Errorf("contract requires player, club and season ids")
	}
	if c.JerseyNumber < 0 || c.JerseyNumber > 99 {
		return fmt.Errorf("invalid jersey number: %d", c.JerseyNumber)
	}

	return nil
}
