package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/jersey-metadata/internal/domain/club"
	"github.com/riskibarqy/jersey-metadata/internal/domain/contract"
	"github.com/riskibarqy/jersey-metadata/internal/domain/player"
	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultMinContracts    = 5
	defaultBackfillWorkers = 4
	defaultDispatchTimeout = 10 * time.Second
	maxBackfillWorkerLimit = 32
)

type BackfillConfig struct {
	// MinContracts is the coverage threshold; a club/season with fewer contracts needs backfill.
	MinContracts    int
	MaxWorkers      int
	DispatchTimeout time.Duration
}

func (c BackfillConfig) normalize() BackfillConfig {
	if c.MinContracts <= 0 {
		c.MinContracts = defaultMinContracts
	}
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = defaultBackfillWorkers
	}
	if c.MaxWorkers > maxBackfillWorkerLimit {
		c.MaxWorkers = maxBackfillWorkerLimit
	}
	if c.DispatchTimeout <= 0 {
		c.DispatchTimeout = defaultDispatchTimeout
	}
	return c
}

type DispatchStatus string

const (
	DispatchStatusDispatched DispatchStatus = "dispatched"
	DispatchStatusSkipped    DispatchStatus = "skipped"
	DispatchStatusFailed     DispatchStatus = "failed"
)

// DispatchOutcome reports what AutoBackfillIfNeeded did. Callers log it and move on.
type DispatchOutcome struct {
	Status         DispatchStatus
	Reason         string
	Attempts       int
	LabelOnlyRetry bool
	Err            error
}

type BackfillOptions struct {
	ClubID      int64
	SeasonID    int64
	SeasonLabel string
	// PlayerExternalIDs narrows the upstream roster; empty means the full roster.
	// Ids the roster lacks are counted as skipped players.
	PlayerExternalIDs []string
	// Players is an explicit subset backfilled without fetching the roster.
	// It cannot be combined with PlayerExternalIDs.
	Players []ExternalPlayer
}

// BackfillPlan is a validated backfill target: the club exists and the season
// is stored (created from the label when needed).
type BackfillPlan struct {
	Club              club.Club
	Season            season.Season
	SeasonCreated     bool
	PlayerExternalIDs []string
	Players           []ExternalPlayer
}

type BackfillReport struct {
	ClubID            int64  `json:"clubId"`
	SeasonID          int64  `json:"seasonId"`
	SeasonLabel       string `json:"seasonLabel"`
	SeasonCreated     bool   `json:"seasonCreated"`
	ProfileEnriched   bool   `json:"profileEnriched"`
	PlayersUpserted   int    `json:"playersUpserted"`
	PlayersSkipped    int    `json:"playersSkipped"`
	PlayersFailed     int    `json:"playersFailed"`
	ContractsUpserted int    `json:"contractsUpserted"`
	ContractsSkipped  int    `json:"contractsSkipped"`
	ContractsFailed   int    `json:"contractsFailed"`
	HistoryFailed     int    `json:"historyFailed"`
	DurationMs        int64  `json:"durationMs"`
}

type BackfillService struct {
	seasons    season.Repository
	clubs      club.Repository
	players    player.Repository
	contracts  contract.Repository
	resolver   *SeasonResolver
	provider   ReferenceDataProvider
	dispatcher BackfillDispatcher
	cfg        BackfillConfig
	logger     *logging.Logger
}

func NewBackfillService(
	seasons season.Repository,
	clubs club.Repository,
	players player.Repository,
	contracts contract.Repository,
	provider ReferenceDataProvider,
	dispatcher BackfillDispatcher,
	cfg BackfillConfig,
	logger *logging.Logger,
) *BackfillService {
	if logger == nil {
		logger = logging.Default()
	}

	return &BackfillService{
		seasons:    seasons,
		clubs:      clubs,
		players:    players,
		contracts:  contracts,
		resolver:   NewSeasonResolver(seasons),
		provider:   provider,
		dispatcher: dispatcher,
		cfg:        cfg.normalize(),
		logger:     logger.Named("backfill"),
	}
}

// NeedsBackfill is true when the club/season holds fewer contracts than the threshold.
func (s *BackfillService) NeedsBackfill(ctx context.Context, clubID, seasonID int64) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BackfillService.NeedsBackfill")
	defer span.End()

	if clubID <= 0 || seasonID <= 0 {
		return false, fmt.Errorf("%w: club id and season id are required", ErrInvalidInput)
	}

	count, err := s.contracts.CountByClubSeason(ctx, clubID, seasonID)
	if err != nil {
		return false, fmt.Errorf("count contracts club=%d season=%d: %w", clubID, seasonID, err)
	}
	return count < s.cfg.MinContracts, nil
}

// AutoBackfillIfNeeded dispatches a worker backfill when coverage is thin or
// cannot be checked. It never returns an error; failures are in the outcome.
func (s *BackfillService) AutoBackfillIfNeeded(ctx context.Context, clubID, seasonID int64, seasonLabel string) DispatchOutcome {
	ctx, span := startUsecaseSpan(ctx, "usecase.BackfillService.AutoBackfillIfNeeded",
		attribute.Int64("club.id", clubID),
		attribute.Int64("season.id", seasonID),
	)
	defer span.End()

	label := strings.TrimSpace(seasonLabel)
	if clubID <= 0 {
		return DispatchOutcome{Status: DispatchStatusSkipped, Reason: "club id is required"}
	}
	if seasonID <= 0 && label == "" {
		return DispatchOutcome{Status: DispatchStatusSkipped, Reason: "season id or label is required"}
	}

	if seasonID <= 0 {
		item, found, err := s.resolver.Resolve(ctx, label)
		if err != nil || !found {
			if err != nil {
				s.logger.WarnContext(ctx, "season resolution failed, dispatching with raw label", "club_id", clubID, "season_label", label, "error", err)
			}
			return s.dispatch(ctx, BackfillRequest{ClubID: clubID, SeasonLabel: label}, "season unresolved locally")
		}
		seasonID = item.ID
		label = item.Label
	} else if label == "" {
		if item, found, err := s.seasons.GetByID(ctx, seasonID); err == nil && found {
			label = item.Label
		}
	}

	req := BackfillRequest{ClubID: clubID, SeasonID: seasonID, SeasonLabel: label}
	needs, err := s.NeedsBackfill(ctx, clubID, seasonID)
	if err != nil {
		s.logger.WarnContext(ctx, "coverage check failed, dispatching backfill", "club_id", clubID, "season_id", seasonID, "error", err)
		return s.dispatch(ctx, req, "coverage check failed")
	}
	if !needs {
		return DispatchOutcome{Status: DispatchStatusSkipped, Reason: "coverage sufficient"}
	}
	return s.dispatch(ctx, req, "coverage below threshold")
}

func (s *BackfillService) dispatch(ctx context.Context, req BackfillRequest, reason string) DispatchOutcome {
	if s.dispatcher == nil {
		return DispatchOutcome{Status: DispatchStatusFailed, Reason: reason, Err: fmt.Errorf("%w: backfill dispatcher is not configured", ErrDependencyUnavailable)}
	}

	outcome := DispatchOutcome{Status: DispatchStatusDispatched, Reason: reason, Attempts: 1}
	err := s.dispatchOnce(ctx, req)
	if err != nil && errors.Is(err, ErrSeasonNotFound) && req.SeasonID > 0 && req.SeasonLabel != "" {
		s.logger.InfoContext(ctx, "worker rejected season id, retrying with label only",
			"club_id", req.ClubID, "season_id", req.SeasonID, "season_label", req.SeasonLabel)
		req.SeasonID = 0
		outcome.Attempts++
		outcome.LabelOnlyRetry = true
		err = s.dispatchOnce(ctx, req)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "backfill dispatch failed",
			"club_id", req.ClubID, "season_id", req.SeasonID, "season_label", req.SeasonLabel,
			"attempts", outcome.Attempts, "error", err)
		outcome.Status = DispatchStatusFailed
		outcome.Err = err
		return outcome
	}

	s.logger.InfoContext(ctx, "backfill dispatched",
		"club_id", req.ClubID, "season_id", req.SeasonID, "season_label", req.SeasonLabel, "reason", reason)
	return outcome
}

func (s *BackfillService) dispatchOnce(ctx context.Context, req BackfillRequest) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.DispatchTimeout)
	defer cancel()
	return s.dispatcher.Dispatch(ctx, req)
}

// BackfillClubSeason plans and executes a backfill in the caller's goroutine.
func (s *BackfillService) BackfillClubSeason(ctx context.Context, opts BackfillOptions) (BackfillReport, error) {
	plan, err := s.PlanClubSeason(ctx, opts)
	if err != nil {
		return BackfillReport{}, err
	}
	return s.ExecutePlan(ctx, plan)
}

// PlanClubSeason validates the club and settles the season. A season id that
// is not stored is rejected with ErrSeasonNotFound even when a label is also
// given; a label alone is resolved, or created when it parses.
func (s *BackfillService) PlanClubSeason(ctx context.Context, opts BackfillOptions) (BackfillPlan, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BackfillService.PlanClubSeason")
	defer span.End()

	label := strings.TrimSpace(opts.SeasonLabel)
	if opts.ClubID <= 0 {
		return BackfillPlan{}, fmt.Errorf("%w: club id is required", ErrInvalidInput)
	}
	if opts.SeasonID <= 0 && label == "" {
		return BackfillPlan{}, fmt.Errorf("%w: season id or season label is required", ErrInvalidInput)
	}
	if len(opts.Players) > 0 && len(opts.PlayerExternalIDs) > 0 {
		return BackfillPlan{}, fmt.Errorf("%w: players and player external ids are mutually exclusive", ErrInvalidInput)
	}

	clubItem, found, err := s.clubs.GetByID(ctx, opts.ClubID)
	if err != nil {
		return BackfillPlan{}, fmt.Errorf("get club id=%d: %w", opts.ClubID, err)
	}
	if !found {
		return BackfillPlan{}, fmt.Errorf("%w: club id=%d", ErrNotFound, opts.ClubID)
	}
	if clubItem.ExternalID == "" {
		return BackfillPlan{}, fmt.Errorf("%w: club id=%d has no provider id", ErrInvalidInput, opts.ClubID)
	}

	plan := BackfillPlan{Club: clubItem, PlayerExternalIDs: opts.PlayerExternalIDs, Players: opts.Players}

	if opts.SeasonID > 0 {
		item, found, err := s.seasons.GetByID(ctx, opts.SeasonID)
		if err != nil {
			return BackfillPlan{}, fmt.Errorf("get season id=%d: %w", opts.SeasonID, err)
		}
		if !found {
			return BackfillPlan{}, fmt.Errorf("%w: season id=%d", ErrSeasonNotFound, opts.SeasonID)
		}
		plan.Season = item
		return plan, nil
	}

	item, found, err := s.resolver.Resolve(ctx, label)
	if err != nil {
		return BackfillPlan{}, err
	}
	if found {
		plan.Season = item
		return plan, nil
	}

	candidate, ok := season.FromLabel(label)
	if !ok {
		return BackfillPlan{}, fmt.Errorf("%w: season label %q", ErrSeasonNotFound, label)
	}
	created, err := s.seasons.Upsert(ctx, candidate)
	if err != nil {
		return BackfillPlan{}, fmt.Errorf("%w: create season %q: %w", ErrPersistence, candidate.Label, err)
	}
	s.logger.InfoContext(ctx, "season created for backfill", "season_id", created.ID, "season_label", created.Label)
	plan.Season = created
	plan.SeasonCreated = true
	return plan, nil
}

// ExecutePlan fetches the roster and jersey history upstream and upserts
// players and contracts. Per-item failures are counted, not returned.
func (s *BackfillService) ExecutePlan(ctx context.Context, plan BackfillPlan) (BackfillReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BackfillService.ExecutePlan",
		attribute.Int64("club.id", plan.Club.ID),
		attribute.Int64("season.id", plan.Season.ID),
	)
	defer span.End()

	start := time.Now()
	report := BackfillReport{
		ClubID:        plan.Club.ID,
		SeasonID:      plan.Season.ID,
		SeasonLabel:   plan.Season.Label,
		SeasonCreated: plan.SeasonCreated,
	}
	if s.provider == nil {
		return report, fmt.Errorf("%w: upstream provider is not configured", ErrDependencyUnavailable)
	}

	if plan.Club.NeedsProfile() {
		report.ProfileEnriched = s.enrichClubProfile(ctx, plan.Club)
	}

	providerSeasonID := providerSeasonID(plan.Season)
	roster, missing, err := s.playersFor(ctx, plan, providerSeasonID)
	if err != nil {
		s.logger.WarnContext(ctx, "roster fetch failed", "club_id", plan.Club.ID, "season", providerSeasonID, "error", err)
		report.DurationMs = time.Since(start).Milliseconds()
		return report, fmt.Errorf("list roster club=%s season=%s: %w", plan.Club.ExternalID, providerSeasonID, err)
	}

	run := &backfillRun{
		service: s,
		club:    plan.Club,
		season:  plan.Season,
		seasons: map[string]season.Season{providerSeasonID: plan.Season},
	}
	if len(missing) > 0 {
		run.playersSkipped.Add(int32(len(missing)))
		s.logger.WarnContext(ctx, "requested players missing from roster",
			"club_id", plan.Club.ID, "season", providerSeasonID, "player_external_ids", missing)
	}

	pool, err := ants.NewPool(min(s.cfg.MaxWorkers, max(len(roster), 1)))
	if err != nil {
		return report, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, item := range roster {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			run.backfillPlayer(ctx, item)
		}); err != nil {
			workers.Done()
			workers.Wait()
			return run.report(report, start), fmt.Errorf("submit player to worker pool: %w", err)
		}
	}
	workers.Wait()

	report = run.report(report, start)
	s.logger.InfoContext(ctx, "club season backfilled",
		"club_id", report.ClubID,
		"season_label", report.SeasonLabel,
		"players_upserted", report.PlayersUpserted,
		"players_skipped", report.PlayersSkipped,
		"players_failed", report.PlayersFailed,
		"contracts_upserted", report.ContractsUpserted,
		"contracts_skipped", report.ContractsSkipped,
		"contracts_failed", report.ContractsFailed,
		"duration_ms", report.DurationMs,
	)
	return report, nil
}

func (s *BackfillService) enrichClubProfile(ctx context.Context, item club.Club) bool {
	profile, err := s.provider.GetClubProfile(ctx, item.ExternalID)
	if err != nil {
		s.logger.WarnContext(ctx, "club profile fetch failed", "club_id", item.ID, "error", err)
		return false
	}

	// a stored country code wins over the profile's
	update := club.Profile{
		OfficialName:   strings.TrimSpace(profile.OfficialName),
		CrestURL:       strings.TrimSpace(profile.CrestURL),
		PrimaryColor:   strings.TrimSpace(profile.PrimaryColor),
		SecondaryColor: strings.TrimSpace(profile.SecondaryColor),
	}
	if item.CountryCode == "" {
		update.CountryCode = strings.TrimSpace(profile.CountryCode)
	}
	if !profileChanges(item, update) {
		return false
	}

	_, found, err := s.clubs.UpdateProfile(ctx, item.ID, update)
	if err != nil {
		s.logger.WarnContext(ctx, "club profile update failed", "club_id", item.ID, "error", errors.Join(ErrPersistence, err))
		return false
	}
	if !found {
		s.logger.WarnContext(ctx, "club vanished before profile update", "club_id", item.ID)
		return false
	}
	return true
}

func profileChanges(item club.Club, update club.Profile) bool {
	changed := func(stored, incoming string) bool {
		return incoming != "" && incoming != stored
	}
	return changed(item.OfficialName, update.OfficialName) ||
		changed(item.CountryCode, update.CountryCode) ||
		changed(item.CrestURL, update.CrestURL) ||
		changed(item.PrimaryColor, update.PrimaryColor) ||
		changed(item.SecondaryColor, update.SecondaryColor)
}

type backfillRun struct {
	service *BackfillService
	club    club.Club
	season  season.Season

	seasonMu sync.Mutex
	seasons  map[string]season.Season

	playersUpserted   atomic.Int32
	playersSkipped    atomic.Int32
	playersFailed     atomic.Int32
	contractsUpserted atomic.Int32
	contractsSkipped  atomic.Int32
	contractsFailed   atomic.Int32
	historyFailed     atomic.Int32
}

func (r *backfillRun) backfillPlayer(ctx context.Context, item ExternalPlayer) {
	logger := r.service.logger
	if item.ExternalID == "" || !player.HasUsableName(item.Name) {
		r.playersSkipped.Add(1)
		return
	}

	saved, err := r.service.players.Upsert(ctx, player.Player{
		ExternalID:    item.ExternalID,
		FullName:      strings.TrimSpace(item.Name),
		Nationality:   item.Nationality,
		Position:      item.Position,
		CurrentClubID: r.club.ID,
		ShirtNumber:   item.ShirtNumber,
	})
	if err != nil {
		r.playersFailed.Add(1)
		logger.WarnContext(ctx, "player upsert failed", "player_external_id", item.ExternalID, "error", errors.Join(ErrPersistence, err))
		return
	}
	r.playersUpserted.Add(1)

	history, err := r.service.provider.ListJerseyNumbers(ctx, item.ExternalID)
	if err != nil {
		r.historyFailed.Add(1)
		logger.WarnContext(ctx, "jersey history fetch failed", "player_external_id", item.ExternalID, "error", err)
		return
	}

	for _, entry := range history {
		if entry.ClubExternalID != r.club.ExternalID {
			continue
		}
		seasonItem, ok := r.lookupSeason(ctx, entry.SeasonID)
		if !ok {
			r.contractsSkipped.Add(1)
			continue
		}

		_, err := r.service.contracts.Upsert(ctx, contract.Contract{
			PlayerID:     saved.ID,
			ClubID:       r.club.ID,
			SeasonID:     seasonItem.ID,
			JerseyNumber: entry.JerseyNumber,
		})
		switch {
		case err == nil:
			r.contractsUpserted.Add(1)
		case errors.Is(err, contract.ErrMissingReference):
			r.contractsSkipped.Add(1)
		default:
			r.contractsFailed.Add(1)
			logger.WarnContext(ctx, "contract upsert failed",
				"player_id", saved.ID, "season_id", seasonItem.ID, "jersey_number", entry.JerseyNumber,
				"error", errors.Join(ErrPersistence, err))
		}
	}
}

// lookupSeason maps a provider season id to a stored season. Unknown seasons
// are skipped; only the season being backfilled is ever created.
func (r *backfillRun) lookupSeason(ctx context.Context, providerID string) (season.Season, bool) {
	providerID = strings.TrimSpace(providerID)
	if providerID == "" {
		return season.Season{}, false
	}

	r.seasonMu.Lock()
	defer r.seasonMu.Unlock()
	if item, ok := r.seasons[providerID]; ok {
		return item, item.ID > 0
	}

	label := providerID
	year, isYear := season.ParseStartYear(providerID)
	if isYear {
		label = season.LabelFromStartYear(year)
	} else if normalized, ok := season.NormalizeSlashLabel(providerID); ok {
		label = normalized
	}
	item, found, err := r.service.seasons.GetByExternalIDOrLabel(ctx, providerID, label)
	if err != nil {
		r.service.logger.WarnContext(ctx, "season lookup failed", "provider_season_id", providerID, "error", err)
		return season.Season{}, false
	}
	if found && isYear && item.ExternalID != providerID && !item.StartsIn(year) {
		found = false
	}
	if !found {
		item = season.Season{}
	}
	r.seasons[providerID] = item
	return item, found
}

func (r *backfillRun) report(base BackfillReport, start time.Time) BackfillReport {
	base.PlayersUpserted = int(r.playersUpserted.Load())
	base.PlayersSkipped = int(r.playersSkipped.Load())
	base.PlayersFailed = int(r.playersFailed.Load())
	base.ContractsUpserted = int(r.contractsUpserted.Load())
	base.ContractsSkipped = int(r.contractsSkipped.Load())
	base.ContractsFailed = int(r.contractsFailed.Load())
	base.HistoryFailed = int(r.historyFailed.Load())
	base.DurationMs = time.Since(start).Milliseconds()
	return base
}

func providerSeasonID(item season.Season) string {
	if item.ExternalID != "" {
		return item.ExternalID
	}
	if item.StartYear > 0 {
		return strconv.Itoa(item.StartYear)
	}
	if start, _, ok := season.YearsFromLabel(item.Label); ok {
		return strconv.Itoa(start)
	}
	return ""
}

// playersFor returns the explicit subset as is, or the upstream roster
// narrowed to the requested ids along with the requested ids it lacks.
func (s *BackfillService) playersFor(ctx context.Context, plan BackfillPlan, providerSeasonID string) ([]ExternalPlayer, []string, error) {
	if len(plan.Players) > 0 {
		return plan.Players, nil, nil
	}
	roster, err := s.provider.ListClubPlayers(ctx, plan.Club.ExternalID, providerSeasonID)
	if err != nil {
		return nil, nil, err
	}
	selected, missing := filterRoster(roster, plan.PlayerExternalIDs)
	return selected, missing, nil
}

func filterRoster(roster []ExternalPlayer, only []string) ([]ExternalPlayer, []string) {
	if len(only) == 0 {
		return roster, nil
	}

	wanted := make([]string, 0, len(only))
	for _, id := range only {
		id = strings.TrimSpace(id)
		if id != "" && !slices.Contains(wanted, id) {
			wanted = append(wanted, id)
		}
	}
	if len(wanted) == 0 {
		return roster, nil
	}

	out := make([]ExternalPlayer, 0, len(wanted))
	found := make(map[string]struct{}, len(wanted))
	for _, item := range roster {
		if slices.Contains(wanted, item.ExternalID) {
			out = append(out, item)
			found[item.ExternalID] = struct{}{}
		}
	}

	var missing []string
	for _, id := range wanted {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return out, missing
}
