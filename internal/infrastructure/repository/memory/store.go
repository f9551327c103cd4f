package memory

// Store bundles the in-process repositories so contract references resolve
// against the same players, clubs and seasons.
type Store struct {
	Competitions *CompetitionRepository
	Seasons      *SeasonRepository
	Clubs        *ClubRepository
	Players      *PlayerRepository
	Contracts    *ContractRepository
}

func NewStore() *Store {
	players := NewPlayerRepository(nil)
	clubs := NewClubRepository(nil)
	seasons := NewSeasonRepository(nil)
	return &Store{
		Competitions: NewCompetitionRepository(),
		Seasons:      seasons,
		Clubs:        clubs,
		Players:      players,
		Contracts:    NewContractRepository(players, clubs, seasons),
	}
}
