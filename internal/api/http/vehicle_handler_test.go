package http

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rental-backoffice/internal/domain"
	"rental-backoffice/internal/service"
)

func TestVehicleHandler_List(t *testing.T) {
	s := newTestServer()
	s.vehicles.On("ListVehicles", mock.Anything, domain.VehicleFilter{
		CategoryID: 2, AvailableOnly: true, Page: 1, PageSize: defaultListLimit,
	}).Return([]domain.VehicleRecord{{ID: 1, Vehicle: domain.Vehicle{LicensePlate: "AB123CD"}}}, int32(1), nil).Once()

	rec := s.do(t, operator, http.MethodGet, "/api/vehicles?category_id=2&available_only=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, float64(1), data["total_count"])
	assert.Len(t, data["vehicles"], 1)

	rec = s.do(t, operator, http.MethodGet, "/api/vehicles?available_only=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, operator, http.MethodGet, "/api/vehicles?category_id=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVehicleHandler_Categories(t *testing.T) {
	s := newTestServer()
	s.vehicles.On("ListCategories", mock.Anything).
		Return([]domain.VehicleCategory{{ID: 1, Name: "Economy", DailyRate: decimal.NewFromInt(35)}}, nil).Once()

	rec := s.do(t, operator, http.MethodGet, "/api/vehicles/categories/list", "")
	require.Equal(t, http.StatusOK, rec.Code)
	categories := decode(t, rec)["data"].([]any)
	require.Len(t, categories, 1)
	assert.Equal(t, "Economy", categories[0].(map[string]any)["name"])
	s.vehicles.AssertNotCalled(t, "GetVehicle", mock.Anything, mock.Anything)
}

func TestVehicleHandler_GetCreateUpdate(t *testing.T) {
	t.Run("Get with history", func(t *testing.T) {
		s := newTestServer()
		s.vehicles.On("GetVehicle", mock.Anything, int32(3)).Return(&domain.VehicleDetail{
			VehicleRecord: domain.VehicleRecord{ID: 3},
			RentalHistory: []domain.VehicleRentalEntry{{ID: 8, RentalNumber: "2024-0008"}},
		}, nil).Once()

		rec := s.do(t, operator, http.MethodGet, "/api/vehicles/3", "")
		require.Equal(t, http.StatusOK, rec.Code)
		history := decode(t, rec)["data"].(map[string]any)["rental_history"].([]any)
		assert.Len(t, history, 1)
	})

	t.Run("Get unknown", func(t *testing.T) {
		s := newTestServer()
		s.vehicles.On("GetVehicle", mock.Anything, int32(4)).Return(nil, service.ErrVehicleNotFound).Once()
		rec := s.do(t, operator, http.MethodGet, "/api/vehicles/4", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Veicolo non trovato", decode(t, rec)["message"])
	})

	t.Run("Create", func(t *testing.T) {
		s := newTestServer()
		s.vehicles.On("CreateVehicle", mock.Anything, operator, mock.MatchedBy(func(v domain.VehicleRecord) bool {
			return v.LicensePlate == "AB123CD" && v.CategoryID != nil && *v.CategoryID == 2 && v.Seats == 5
		})).Return(&domain.VehicleRecord{ID: 9}, nil).Once()

		rec := s.do(t, operator, http.MethodPost, "/api/vehicles",
			`{"license_plate":"AB123CD","brand":"Fiat","model":"Panda","category_id":2,"seats":5}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
		s.vehicles.AssertExpectations(t)
	})

	t.Run("Create duplicate plate", func(t *testing.T) {
		s := newTestServer()
		s.vehicles.On("CreateVehicle", mock.Anything, operator, mock.Anything).Return(nil, service.ErrVehicleExists).Once()
		rec := s.do(t, operator, http.MethodPost, "/api/vehicles", `{"license_plate":"AB123CD"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Update", func(t *testing.T) {
		s := newTestServer()
		s.vehicles.On("UpdateVehicle", mock.Anything, operator, int32(3), mock.MatchedBy(func(v domain.VehicleRecord) bool {
			return v.Status == domain.VehicleStatusMaintenance
		})).Return(&domain.VehicleRecord{ID: 3}, nil).Once()

		rec := s.do(t, operator, http.MethodPut, "/api/vehicles/3", `{"license_plate":"AB123CD","status":"maintenance"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
