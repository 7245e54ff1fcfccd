package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"stationwatch/feature/station/models"
	"stationwatch/feature/station/provider"
	"stationwatch/feature/station/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fetchedAt = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

// fakeProvider returns a canned snapshot or a fetch error.
type fakeProvider struct {
	snapshot *provider.Snapshot
	err      error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) FetchSnapshot(ctx context.Context) (*provider.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

// fakeCatalog records calls and injects failures.
type fakeCatalog struct {
	catalog  map[string]models.Station
	loadErr  error
	applyErr error
	applied  []reconcile.Result
}

func (f *fakeCatalog) LoadCatalog(ctx context.Context) (map[string]models.Station, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.catalog, nil
}

func (f *fakeCatalog) Apply(ctx context.Context, result reconcile.Result) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = append(f.applied, result)
	return nil
}

// fakeArchiver records uploads and can fail.
type fakeArchiver struct {
	err      error
	archived int
}

func (f *fakeArchiver) Archive(ctx context.Context, providerName, cycleID string, fetchedAt time.Time, raw []byte) error {
	if f.err != nil {
		return f.err
	}
	f.archived++
	return nil
}

func snapshotWith(descriptors ...models.StationDescriptor) *provider.Snapshot {
	return &provider.Snapshot{
		Descriptors: descriptors,
		Raw:         []byte(`{}`),
		FetchedAt:   fetchedAt,
	}
}

func validDescriptor(id string) models.StationDescriptor {
	lat, lon := 48.85, 2.35
	return models.StationDescriptor{ID: id, Name: "Rue X", Latitude: &lat, Longitude: &lon}
}

func TestRunCycle_Committed(t *testing.T) {
	catalog := &fakeCatalog{
		catalog: map[string]models.Station{
			"42": {ID: "42", Name: "Rue X", Latitude: 48.85, Longitude: 2.35},
		},
	}
	p := &fakeProvider{snapshot: snapshotWith(validDescriptor("42"), validDescriptor("43"))}

	service := NewService(p, catalog, nil, zap.NewNop())

	report, err := service.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeCommitted, report.Outcome)
	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, 0, report.Updated)
	assert.Equal(t, 1, report.Unchanged)
	assert.Equal(t, 2, report.Measurements)
	assert.Equal(t, fetchedAt, report.FetchedAt)
	assert.NotEmpty(t, report.CycleID)

	require.Len(t, catalog.applied, 1)
	assert.Equal(t, fetchedAt, catalog.applied[0].ObservedAt)
}

// A fetch failure aborts before any store interaction: fail closed, zero writes.
func TestRunCycle_FetchFailureAborts(t *testing.T) {
	catalog := &fakeCatalog{}
	p := &fakeProvider{err: &provider.FetchError{Provider: "fake", Err: errors.New("timeout")}}

	service := NewService(p, catalog, nil, zap.NewNop())

	report, err := service.RunCycle(context.Background())
	require.Error(t, err)

	var fetchErr *provider.FetchError
	assert.ErrorAs(t, err, &fetchErr)

	assert.Equal(t, OutcomeAborted, report.Outcome)
	assert.NotEmpty(t, report.Reason)
	assert.Empty(t, catalog.applied)
}

func TestRunCycle_CatalogLoadFailureAborts(t *testing.T) {
	catalog := &fakeCatalog{loadErr: errors.New("disk gone")}
	p := &fakeProvider{snapshot: snapshotWith(validDescriptor("42"))}

	service := NewService(p, catalog, nil, zap.NewNop())

	report, err := service.RunCycle(context.Background())
	require.Error(t, err)
	assert.Equal(t, OutcomeAborted, report.Outcome)
	assert.Empty(t, catalog.applied)
}

func TestRunCycle_ApplyFailureRollsBack(t *testing.T) {
	catalog := &fakeCatalog{applyErr: errors.New("constraint violation")}
	p := &fakeProvider{snapshot: snapshotWith(validDescriptor("42"))}

	service := NewService(p, catalog, nil, zap.NewNop())

	report, err := service.RunCycle(context.Background())
	require.Error(t, err)

	assert.Equal(t, OutcomeRolledBack, report.Outcome)
	assert.Contains(t, report.Reason, "constraint violation")
	// Counts stay zero: the report never carries partial state
	assert.Equal(t, 0, report.Inserted)
	assert.Equal(t, 0, report.Measurements)
}

func TestRunCycle_InvalidDescriptorsSkipped(t *testing.T) {
	catalog := &fakeCatalog{}
	p := &fakeProvider{snapshot: snapshotWith(
		validDescriptor("42"),
		models.StationDescriptor{ID: "", Name: "ghost"},
	)}

	service := NewService(p, catalog, nil, zap.NewNop())

	report, err := service.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeCommitted, report.Outcome)
	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Measurements)
}

func TestRunCycle_ArchiveFailureIsBestEffort(t *testing.T) {
	catalog := &fakeCatalog{}
	archiver := &fakeArchiver{err: errors.New("bucket unreachable")}
	p := &fakeProvider{snapshot: snapshotWith(validDescriptor("42"))}

	service := NewService(p, catalog, archiver, zap.NewNop())

	report, err := service.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCommitted, report.Outcome)
}

func TestRunCycle_ArchivesSnapshot(t *testing.T) {
	catalog := &fakeCatalog{}
	archiver := &fakeArchiver{}
	p := &fakeProvider{snapshot: snapshotWith(validDescriptor("42"))}

	service := NewService(p, catalog, archiver, zap.NewNop())

	_, err := service.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, archiver.archived)
}

// Two cycles over an unchanged world: the second commits zero insertions and
// updates but still appends one measurement per station.
func TestRunCycle_IdempotentAcrossCycles(t *testing.T) {
	catalog := &fakeCatalog{catalog: map[string]models.Station{}}
	d := validDescriptor("42")
	stands := 20
	d.BikeStands = &stands
	p := &fakeProvider{snapshot: snapshotWith(d)}

	service := NewService(p, catalog, nil, zap.NewNop())

	first, err := service.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Inserted)

	// Simulate the commit of cycle one
	catalog.catalog = map[string]models.Station{
		"42": {ID: "42", Name: "Rue X", Latitude: 48.85, Longitude: 2.35, BikeStands: 20},
	}

	second, err := service.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 0, second.Updated)
	assert.Equal(t, 1, second.Unchanged)
	assert.Equal(t, 1, second.Measurements)
}
