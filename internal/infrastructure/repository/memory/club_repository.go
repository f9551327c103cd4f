package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/jersey-metadata/internal/domain/club"
)

type ClubRepository struct {
	mu         sync.RWMutex
	nextID     int64
	rows       []club.Club
	nextLinkID int64
	links      []club.ClubSeason
}

func NewClubRepository(seed []club.Club) *ClubRepository {
	r := &ClubRepository{}
	for _, item := range seed {
		_, _ = r.Upsert(context.Background(), item)
	}
	return r
}

// Upsert is keyed by external id, or slug when the external id is empty.
// Empty branding fields keep the stored value.
func (r *ClubRepository) Upsert(_ context.Context, item club.Club) (club.Club, error) {
	item.ExternalID = strings.TrimSpace(item.ExternalID)
	item.Slug = strings.TrimSpace(item.Slug)
	if err := item.Validate(); err != nil {
		return club.Club{}, fmt.Errorf("upsert club: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.rows {
		row := &r.rows[idx]
		if !sameClubKey(*row, item) {
			continue
		}
		merged := mergeClub(*row, item)
		if merged.Slug != row.Slug && r.slugTaken(merged.Slug, row.ID) {
			return club.Club{}, fmt.Errorf("upsert club: slug %q already used", merged.Slug)
		}
		*row = merged
		return *row, nil
	}

	if item.Slug != "" && r.slugTaken(item.Slug, 0) {
		return club.Club{}, fmt.Errorf("upsert club: slug %q already used", item.Slug)
	}
	r.nextID++
	item.ID = r.nextID
	r.rows = append(r.rows, item)
	return item, nil
}

func sameClubKey(row, item club.Club) bool {
	if item.ExternalID != "" {
		return row.ExternalID == item.ExternalID
	}
	return row.ExternalID == "" && row.Slug == item.Slug
}

func (r *ClubRepository) slugTaken(slug string, exceptID int64) bool {
	if slug == "" {
		return false
	}
	for _, row := range r.rows {
		if row.Slug == slug && row.ID != exceptID {
			return true
		}
	}
	return false
}

func mergeClub(row, item club.Club) club.Club {
	row.Name = item.Name
	row.OfficialName = keep(row.OfficialName, item.OfficialName)
	row.Slug = keep(row.Slug, item.Slug)
	row.CountryCode = keep(row.CountryCode, item.CountryCode)
	row.CrestURL = keep(row.CrestURL, item.CrestURL)
	row.PrimaryColor = keep(row.PrimaryColor, item.PrimaryColor)
	row.SecondaryColor = keep(row.SecondaryColor, item.SecondaryColor)
	return row
}

func (r *ClubRepository) UpdateProfile(_ context.Context, id int64, profile club.Profile) (club.Club, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.rows {
		row := &r.rows[idx]
		if row.ID != id {
			continue
		}
		row.OfficialName = keep(row.OfficialName, profile.OfficialName)
		row.CountryCode = keep(row.CountryCode, profile.CountryCode)
		row.CrestURL = keep(row.CrestURL, profile.CrestURL)
		row.PrimaryColor = keep(row.PrimaryColor, profile.PrimaryColor)
		row.SecondaryColor = keep(row.SecondaryColor, profile.SecondaryColor)
		return *row, true, nil
	}
	return club.Club{}, false, nil
}

func (r *ClubRepository) UpsertClubSeason(_ context.Context, item club.ClubSeason) (club.ClubSeason, error) {
	if err := item.Validate(); err != nil {
		return club.ClubSeason{}, fmt.Errorf("upsert club season: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, link := range r.links {
		if link.CompetitionID == item.CompetitionID && link.SeasonID == item.SeasonID && link.ClubID == item.ClubID {
			return link, nil
		}
	}
	r.nextLinkID++
	item.ID = r.nextLinkID
	r.links = append(r.links, item)
	return item, nil
}

func (r *ClubRepository) GetByID(_ context.Context, id int64) (club.Club, bool, error) {
	return r.find(func(item club.Club) bool { return item.ID == id })
}

func (r *ClubRepository) GetBySlug(_ context.Context, slug string) (club.Club, bool, error) {
	slug = strings.TrimSpace(slug)
	return r.find(func(item club.Club) bool { return slug != "" && item.Slug == slug })
}

func (r *ClubRepository) GetByExternalID(_ context.Context, externalID string) (club.Club, bool, error) {
	externalID = strings.TrimSpace(externalID)
	return r.find(func(item club.Club) bool { return externalID != "" && item.ExternalID == externalID })
}

// SearchByName mirrors the ILIKE query: case-insensitive substring, no accent
// folding, exact matches first, then prefix matches, then the rest by name.
func (r *ClubRepository) SearchByName(_ context.Context, term string, limit int) ([]club.Club, error) {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return []club.Club{}, nil
	}

	r.mu.RLock()
	out := make([]club.Club, 0)
	for _, item := range r.rows {
		if strings.Contains(strings.ToLower(item.Name), needle) || strings.Contains(strings.ToLower(item.OfficialName), needle) {
			out = append(out, item)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := searchRank(out[i], needle), searchRank(out[j], needle)
		if ri != rj {
			return ri < rj
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func searchRank(item club.Club, needle string) int {
	name, official := strings.ToLower(item.Name), strings.ToLower(item.OfficialName)
	switch {
	case name == needle || official == needle:
		return 0
	case strings.HasPrefix(name, needle) || strings.HasPrefix(official, needle):
		return 1
	default:
		return 2
	}
}

func (r *ClubRepository) FindByExactName(_ context.Context, name string) (club.Club, bool, error) {
	name = strings.TrimSpace(name)
	return r.find(func(item club.Club) bool {
		return name != "" && (item.Name == name || item.OfficialName == name)
	})
}

func (r *ClubRepository) find(match func(club.Club) bool) (club.Club, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.rows {
		if match(item) {
			return item, true, nil
		}
	}
	return club.Club{}, false, nil
}

func keep(stored, incoming string) string {
	if strings.TrimSpace(incoming) == "" {
		return stored
	}
	return incoming
}
