package usagetypes

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/carbon-api/pkg/db/models"
	pkgerrors "github.com/angelmondragon/carbon-api/pkg/errors"
	"github.com/angelmondragon/carbon-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubStore struct {
	types    map[int]models.UsageType
	findErr  error
	listErr  error
	finds    int
	upserted []models.UsageType
}

func newStubStore() *stubStore {
	types := map[int]models.UsageType{}
	for _, t := range models.DefaultUsageTypes() {
		types[t.ID] = t
	}
	return &stubStore{types: types}
}

func (s *stubStore) FindByID(_ context.Context, id int) (*models.UsageType, error) {
	s.finds++
	if s.findErr != nil {
		return nil, s.findErr
	}
	t, ok := s.types[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func (s *stubStore) List(context.Context, pagination.Params) ([]models.UsageType, error) {
	return nil, s.listErr
}

func (s *stubStore) Upsert(_ context.Context, types []models.UsageType) error {
	s.upserted = append(s.upserted, types...)
	for _, t := range types {
		s.types[t.ID] = t
	}
	return nil
}

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestResolveCachesKnownTypes(t *testing.T) {
	store := newStubStore()
	svc, err := NewService(store)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := svc.Resolve(ctx, 102)
	require.NoError(t, err)
	assert.Equal(t, "heating", first.Name)
	assert.Equal(t, "kwh", first.Unit)

	second, err := svc.Resolve(ctx, 102)
	require.NoError(t, err)
	assert.Equal(t, *first, *second)
	assert.Equal(t, 1, store.finds)
}

func TestResolveUnknownTypeIsNotFound(t *testing.T) {
	svc, err := NewService(newStubStore())
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestResolveStorageFaultIsDependency(t *testing.T) {
	store := newStubStore()
	store.findErr = errors.New("connection reset")
	svc, err := NewService(store)
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), 100)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestListNeverReturnsNil(t *testing.T) {
	svc, err := NewService(newStubStore())
	require.NoError(t, err)

	types, err := svc.List(context.Background(), pagination.Default())
	require.NoError(t, err)
	assert.NotNil(t, types)
	assert.Empty(t, types)
}

func TestSeedDropsCache(t *testing.T) {
	store := newStubStore()
	svc, err := NewService(store)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Resolve(ctx, 100)
	require.NoError(t, err)

	require.NoError(t, svc.Seed(ctx, []models.UsageType{{ID: 100, Name: "electricity", Unit: "kwh", Factor: 0.4}}))

	got, err := svc.Resolve(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 0.4, got.Factor)
	assert.Equal(t, 2, store.finds)
}
