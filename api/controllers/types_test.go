package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/carbon-api/pkg/db/models"
	"github.com/angelmondragon/carbon-api/pkg/pagination"
)

type testUsageTypesService struct {
	types []models.UsageType
}

func (s *testUsageTypesService) Resolve(context.Context, int) (*models.UsageType, error) {
	return nil, nil
}

func (s *testUsageTypesService) List(_ context.Context, params pagination.Params) ([]models.UsageType, error) {
	end := min(params.Offset+params.Limit, len(s.types))
	if params.Offset >= len(s.types) {
		return []models.UsageType{}, nil
	}
	return s.types[params.Offset:end], nil
}

func (s *testUsageTypesService) Seed(context.Context, []models.UsageType) error {
	return nil
}

func TestUsageTypeListIsPaginated(t *testing.T) {
	svc := &testUsageTypesService{types: models.DefaultUsageTypes()}

	resp := httptest.NewRecorder()
	UsageTypeList(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/types?limit=2&offset=1", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var body []models.UsageType
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 2 || body[0].ID != 101 || body[1].ID != 102 {
		t.Fatalf("unexpected page %+v", body)
	}

	resp = httptest.NewRecorder()
	UsageTypeList(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/types?offset=-1", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
