package usages

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/angelmondragon/carbon-api/pkg/db/models"
	pkgerrors "github.com/angelmondragon/carbon-api/pkg/errors"
	"github.com/angelmondragon/carbon-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	types map[int]models.UsageType
}

func (s stubResolver) Resolve(_ context.Context, id int) (*models.UsageType, error) {
	t, ok := s.types[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "usage type not found")
	}
	return &t, nil
}

func newStubResolver() stubResolver {
	types := map[int]models.UsageType{}
	for _, t := range models.DefaultUsageTypes() {
		types[t.ID] = t
	}
	return stubResolver{types: types}
}

type stubStore struct {
	records   map[uuid.UUID]models.UsageRecord
	createErr error
	listErr   error
	creates   int
	updates   []UpdateFields
}

func newStubStore() *stubStore {
	return &stubStore{records: map[uuid.UUID]models.UsageRecord{}}
}

func (s *stubStore) Create(_ context.Context, record *models.UsageRecord) (*models.UsageRecord, error) {
	s.creates++
	if s.createErr != nil {
		return nil, s.createErr
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	s.records[record.ID] = *record
	return record, nil
}

func (s *stubStore) Get(_ context.Context, id uuid.UUID, ownerID string) (*models.UsageRecord, error) {
	record, ok := s.records[id]
	if !ok || record.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return &record, nil
}

func (s *stubStore) List(_ context.Context, ownerID string, _ pagination.Params) ([]models.UsageRecord, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.UsageRecord
	for _, record := range s.records {
		if record.OwnerID == ownerID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *stubStore) Update(ctx context.Context, id uuid.UUID, ownerID string, fields UpdateFields) (*models.UsageRecord, error) {
	s.updates = append(s.updates, fields)
	record, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if fields.Amount != nil {
		record.Amount = *fields.Amount
	}
	if fields.UsageType != nil {
		record.UsageType = *fields.UsageType
	}
	s.records[id] = *record
	return record, nil
}

func (s *stubStore) Delete(_ context.Context, id uuid.UUID, ownerID string) (int64, error) {
	record, ok := s.records[id]
	if !ok || record.OwnerID != ownerID {
		return 0, ErrNotFound
	}
	delete(s.records, id)
	return 1, nil
}

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*60*60))

func newTestService(t *testing.T, store *stubStore) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:  store,
		Types: newStubResolver(),
		Now:   func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{Types: newStubResolver()})
	require.Error(t, err)
	_, err = NewService(ServiceParams{Repo: newStubStore()})
	require.Error(t, err)
}

func TestRecordSnapshotsTypeAndStampsUTC(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store)

	got, err := svc.Record(context.Background(), "user-x", CreateInput{Amount: 1312, UsageTypeID: 100})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, "user-x", got.OwnerID)
	assert.Equal(t, 1312.0, got.Amount)
	assert.Equal(t, models.UsageTypeSnapshot{TypeID: 100, Name: "electricity", Unit: "kwh", Factor: 1.5}, got.UsageType)
	assert.Equal(t, time.UTC, got.RecordedAt.Location())
	assert.True(t, fixedNow.Equal(got.RecordedAt))
}

func TestRecordUnknownTypeWritesNothing(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store)

	_, err := svc.Record(context.Background(), "user-x", CreateInput{Amount: 1, UsageTypeID: 7})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Zero(t, store.creates)
}

func TestRecordRejectsNonFiniteAmount(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store)

	for _, amount := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := svc.Record(context.Background(), "user-x", CreateInput{Amount: amount, UsageTypeID: 100})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	}
	assert.Zero(t, store.creates)
}

func TestRecordRequiresOwner(t *testing.T) {
	svc := newTestService(t, newStubStore())

	_, err := svc.Record(context.Background(), "", CreateInput{Amount: 1, UsageTypeID: 100})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestRecordStorageFaultIsInternal(t *testing.T) {
	store := newStubStore()
	store.createErr = errors.New("disk full")
	svc := newTestService(t, store)

	_, err := svc.Record(context.Background(), "user-x", CreateInput{Amount: 1, UsageTypeID: 100})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
}

func TestGetForeignRecordIsNotFound(t *testing.T) {
	svc := newTestService(t, newStubStore())
	ctx := context.Background()

	created, err := svc.Record(ctx, "user-x", CreateInput{Amount: 1, UsageTypeID: 100})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "user-y", created.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	own, err := svc.Get(ctx, "user-x", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, own)
}

func TestUpdateTypeOnlyKeepsAmount(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	created, err := svc.Record(ctx, "user-x", CreateInput{Amount: 1312, UsageTypeID: 100})
	require.NoError(t, err)

	typeID := 101
	updated, err := svc.Update(ctx, "user-x", created.ID, UpdateInput{UsageTypeID: &typeID})
	require.NoError(t, err)
	assert.Equal(t, 101, updated.UsageType.TypeID)
	assert.Equal(t, "water", updated.UsageType.Name)
	assert.Equal(t, 1312.0, updated.Amount)

	require.Len(t, store.updates, 1)
	assert.Nil(t, store.updates[0].Amount)
}

func TestUpdateUnknownTypeDoesNotTouchRecord(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	created, err := svc.Record(ctx, "user-x", CreateInput{Amount: 3, UsageTypeID: 100})
	require.NoError(t, err)

	typeID := 999
	_, err = svc.Update(ctx, "user-x", created.ID, UpdateInput{UsageTypeID: &typeID})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Empty(t, store.updates)
}

func TestUpdateForeignRecordIsNotFound(t *testing.T) {
	svc := newTestService(t, newStubStore())
	ctx := context.Background()

	created, err := svc.Record(ctx, "user-x", CreateInput{Amount: 3, UsageTypeID: 100})
	require.NoError(t, err)

	amount := 9.0
	_, err = svc.Update(ctx, "user-y", created.ID, UpdateInput{Amount: &amount})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteThenGetIsNotFound(t *testing.T) {
	svc := newTestService(t, newStubStore())
	ctx := context.Background()

	created, err := svc.Record(ctx, "user-x", CreateInput{Amount: 3, UsageTypeID: 100})
	require.NoError(t, err)

	result, err := svc.Delete(ctx, "user-x", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Usage entry deleted successfully", result.Msg)
	assert.Equal(t, int64(1), result.Detail.DeletedCount)

	_, err = svc.Delete(ctx, "user-x", created.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.Get(ctx, "user-x", created.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListReturnsEmptySliceAndMapsFaults(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	records, err := svc.List(ctx, "user-x", pagination.Default())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)

	store.listErr = errors.New("timeout")
	_, err = svc.List(ctx, "user-x", pagination.Default())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
}
