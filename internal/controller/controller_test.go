package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"care-admin-service/internal/dto"
	"care-admin-service/internal/middleware"
	"care-admin-service/internal/repository"
	"care-admin-service/internal/service"
	"care-admin-service/internal/store"
)

type stubGeocoder struct{}

func (stubGeocoder) Search(query string) (*dto.GeocodeResponse, error) {
	return &dto.GeocodeResponse{DisplayName: query, LatLng: "18.520400,73.856700"}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := store.NewMemoryStore()
	orderRepo := repository.NewOrderRepository(mem)
	booking, err := service.NewBookingService(orderRepo, "Asia/Kolkata")
	require.NoError(t, err)
	partners := service.NewPartnerService(repository.NewPathologyRepository(mem))
	hospitals := service.NewHospitalService(repository.NewHospitalRepository(mem))
	auth := service.NewAuthService(repository.NewAdminRepository(mem), "123456")
	dashboard := service.NewDashboardService(orderRepo, repository.NewPathologyRepository(mem), repository.NewHospitalRepository(mem))

	ctrl := New(booking, partners, hospitals, auth, dashboard, stubGeocoder{})

	r := gin.New()
	r.POST("/auth/login", ctrl.Login)
	r.POST("/auth/verify-otp", ctrl.VerifyOTP)

	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware(auth))
	protected.GET("/orders", ctrl.GetOrders)
	protected.PATCH("/orders/:orderId/booking", ctrl.UpdateBooking)
	protected.POST("/hospitals", ctrl.RegisterHospital)
	protected.POST("/pathologies/:id/verify", ctrl.VerifyPathology)
	return r, mem
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// loginSession recorre el flujo completo phone+password+OTP y devuelve el
// token de sesión.
func loginSession(t *testing.T, r *gin.Engine, mem *store.MemoryStore) string {
	t.Helper()
	require.NoError(t, mem.Update(context.Background(), "admins/9999999999", map[string]interface{}{"password": "secreta"}))

	w := doJSON(r, http.MethodPost, "/auth/login", "", map[string]string{"phone": "9999999999", "password": "secreta"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/auth/verify-otp", "", map[string]string{"phone": "9999999999", "code": "123456"})
	require.Equal(t, http.StatusOK, w.Code)

	var res dto.VerifyOTPResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func TestLoginFlow(t *testing.T) {
	r, mem := newTestRouter(t)
	require.NoError(t, mem.Update(context.Background(), "admins/9999999999", map[string]interface{}{"password": "secreta"}))

	tests := []struct {
		name           string
		path           string
		body           map[string]string
		expectedStatus int
	}{
		{
			name:           "wrong password",
			path:           "/auth/login",
			body:           map[string]string{"phone": "9999999999", "password": "incorrecta"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "otp without pending login",
			path:           "/auth/verify-otp",
			body:           map[string]string{"phone": "9999999999", "code": "123456"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing fields",
			path:           "/auth/login",
			body:           map[string]string{"phone": "9999999999"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "valid credential",
			path:           "/auth/login",
			body:           map[string]string{"phone": "9999999999", "password": "secreta"},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, tt.path, "", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodGet, "/orders", "token-falso", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateBookingHandler(t *testing.T) {
	r, mem := newTestRouter(t)
	token := loginSession(t, r, mem)
	require.NoError(t, mem.Update(context.Background(), "transportOrders/TX1", map[string]interface{}{"status": "pending"}))

	tests := []struct {
		name           string
		orderID        string
		body           dto.BookingEditRequest
		expectedStatus int
	}{
		{
			name:           "valid edit",
			orderID:        "TX1",
			body:           dto.BookingEditRequest{Date: "2025-06-11", Time: "23:14", Status: "confirmed"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing time",
			orderID:        "TX1",
			body:           dto.BookingEditRequest{Date: "2025-06-11", Status: "confirmed"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid status",
			orderID:        "TX1",
			body:           dto.BookingEditRequest{Date: "2025-06-11", Time: "23:14", Status: "done"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown order",
			orderID:        "NOPE",
			body:           dto.BookingEditRequest{Date: "2025-06-11", Time: "23:14", Status: "confirmed"},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPatch, "/orders/"+tt.orderID+"/booking", token, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}

	t.Run("persisted values", func(t *testing.T) {
		data, err := mem.Get(context.Background(), "transportOrders/TX1")
		require.NoError(t, err)
		assert.Equal(t, "2025-06-11T23:14:00+05:30", data["bookingTime"])
		assert.Equal(t, "2025-06-11T23:04:00+05:30", data["arrivalTime"])
	})
}

func TestRegisterHospitalHandler(t *testing.T) {
	r, mem := newTestRouter(t)
	token := loginSession(t, r, mem)

	t.Run("all fields blank", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/hospitals", token, dto.RegisterHospitalRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "All fields are required.")
	})

	t.Run("valid form", func(t *testing.T) {
		form := dto.RegisterHospitalRequest{
			Name: "City Care", Address: "MG Road", Number: "020123",
			OpenTime: "09:00", CloseTime: "21:00",
			BlockStart: "13:00", BlockEnd: "14:00",
			CoverageKm: "5", LatLng: "18.52,73.85", IsOpen: true,
		}
		w := doJSON(r, http.MethodPost, "/hospitals", token, form)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "09:00 - 21:00")
		assert.Contains(t, w.Body.String(), "5 km")
	})
}

func TestVerifyPathologyHandler(t *testing.T) {
	r, mem := newTestRouter(t)
	token := loginSession(t, r, mem)
	require.NoError(t, mem.Update(context.Background(), "pathologyPartners/P1", map[string]interface{}{"path_name": "Lab", "verified": false}))

	w := doJSON(r, http.MethodPost, "/pathologies/P1/verify", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	data, err := mem.Get(context.Background(), "pathologyPartners/P1")
	require.NoError(t, err)
	assert.Equal(t, true, data["verified"])

	w = doJSON(r, http.MethodPost, "/pathologies/NOPE/verify", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
