package sync

import (
	"context"
	"fmt"
	"time"

	"stationwatch/core/logger"
	"stationwatch/feature/station/models"
	"stationwatch/feature/station/provider"
	"stationwatch/feature/station/reconcile"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outcome is the terminal state of one sync cycle.
type Outcome string

const (
	// OutcomeCommitted means the cycle's transaction committed.
	OutcomeCommitted Outcome = "committed"
	// OutcomeAborted means the cycle failed before any store write.
	OutcomeAborted Outcome = "aborted"
	// OutcomeRolledBack means the apply transaction failed and was rolled
	// back; the store is exactly as it was before the cycle.
	OutcomeRolledBack Outcome = "rolled_back"
)

// CycleReport is the sole observable result of one cycle: either commit
// counts or an abort reason, never partial state.
type CycleReport struct {
	// CycleID correlates the report with log entries and archived snapshots.
	CycleID string
	// Outcome is the terminal state of the cycle.
	Outcome Outcome
	// Reason describes the failure for non-committed outcomes.
	Reason string
	// FetchedAt is the snapshot's fetch timestamp.
	FetchedAt time.Time
	// Inserted counts first-sighted stations added to the catalog.
	Inserted int
	// Updated counts stations with a non-empty change-set.
	Updated int
	// Unchanged counts stations with no differing trackable field.
	Unchanged int
	// Measurements counts appended time-series rows.
	Measurements int
	// Skipped counts descriptors dropped for failing validation.
	Skipped int
	// Duration is the wall-clock time of the cycle.
	Duration time.Duration
}

// Catalog is the store surface the orchestrator needs.
type Catalog interface {
	// LoadCatalog loads all station rows keyed by identifier.
	LoadCatalog(ctx context.Context) (map[string]models.Station, error)
	// Apply persists one reconciliation result atomically.
	Apply(ctx context.Context, result reconcile.Result) error
}

// Archiver stores raw snapshot payloads, best-effort.
type Archiver interface {
	Archive(ctx context.Context, providerName, cycleID string, fetchedAt time.Time, raw []byte) error
}

// Service drives one fetch → reconcile → persist cycle. Cycles are
// sequential; running at most one cycle at a time is the scheduler's
// responsibility, not enforced here.
type Service struct {
	provider provider.Adapter
	catalog  Catalog
	archiver Archiver
	log      *zap.Logger
}

// NewService creates the orchestrator. archiver may be nil when snapshot
// archiving is disabled.
func NewService(p provider.Adapter, catalog Catalog, archiver Archiver, log *zap.Logger) *Service {
	return &Service{
		provider: p,
		catalog:  catalog,
		archiver: archiver,
		log:      log,
	}
}

// RunCycle executes one sync cycle. A fetch or catalog-load failure aborts
// with zero writes; an apply failure rolls the whole transaction back. The
// returned report is always non-nil. There is no retry here: the next
// scheduled run retries naturally.
func (s *Service) RunCycle(ctx context.Context) (*CycleReport, error) {
	start := time.Now()
	report := &CycleReport{CycleID: uuid.NewString()}
	l := logger.WithCycle(s.log, report.CycleID)

	l.Info("Cycle started", zap.String("provider", s.provider.Name()))

	snapshot, err := s.provider.FetchSnapshot(ctx)
	if err != nil {
		report.Outcome = OutcomeAborted
		report.Reason = err.Error()
		report.Duration = time.Since(start)
		l.Error("Snapshot fetch failed, cycle aborted", zap.Error(err))
		return report, fmt.Errorf("cycle aborted: %w", err)
	}
	report.FetchedAt = snapshot.FetchedAt

	if s.archiver != nil {
		// Best-effort: an archive failure never fails the cycle.
		if err := s.archiver.Archive(ctx, s.provider.Name(), report.CycleID, snapshot.FetchedAt, snapshot.Raw); err != nil {
			l.Warn("Snapshot archive failed", zap.Error(err))
		}
	}

	catalog, err := s.catalog.LoadCatalog(ctx)
	if err != nil {
		report.Outcome = OutcomeAborted
		report.Reason = err.Error()
		report.Duration = time.Since(start)
		l.Error("Catalog load failed, cycle aborted", zap.Error(err))
		return report, fmt.Errorf("cycle aborted: %w", err)
	}

	result := reconcile.Diff(catalog, snapshot.Descriptors, snapshot.FetchedAt)

	for _, skipped := range result.Skipped {
		l.Warn("Dropping invalid descriptor",
			zap.String("station_id", skipped.StationID),
			zap.String("reason", skipped.Reason))
	}

	if err := s.catalog.Apply(ctx, result); err != nil {
		report.Outcome = OutcomeRolledBack
		report.Reason = err.Error()
		report.Duration = time.Since(start)
		l.Error("Apply failed, cycle rolled back", zap.Error(err))
		return report, fmt.Errorf("cycle rolled back: %w", err)
	}

	report.Outcome = OutcomeCommitted
	report.Inserted = len(result.Insertions)
	report.Updated = len(result.Updates)
	report.Unchanged = result.Unchanged
	report.Measurements = len(result.Measurements)
	report.Skipped = len(result.Skipped)
	report.Duration = time.Since(start)

	l.Info("Cycle committed",
		zap.Int("inserted", report.Inserted),
		zap.Int("updated", report.Updated),
		zap.Int("unchanged", report.Unchanged),
		zap.Int("measurements", report.Measurements),
		zap.Int("skipped", report.Skipped),
		zap.Duration("duration", report.Duration))

	return report, nil
}
