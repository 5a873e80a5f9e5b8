package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localride/internal/models"
	"localride/internal/notify"
	"localride/internal/rides"
	"localride/internal/store"
)

// memStore is a minimal in-memory rides.Store for handler tests.
type memStore struct {
	mu             sync.Mutex
	profiles       map[uint]bool
	driverProfiles map[uint]*models.DriverProfile
	rides          map[uint]*models.Ride
	nextID         uint
}

func newMemStore() *memStore {
	return &memStore{
		profiles:       make(map[uint]bool),
		driverProfiles: make(map[uint]*models.DriverProfile),
		rides:          make(map[uint]*models.Ride),
	}
}

func (m *memStore) GetProfileByUserID(userID uint) (*models.Profile, error) {
	if !m.profiles[userID] {
		return nil, store.ErrNotFound
	}
	return &models.Profile{UserID: userID}, nil
}

func (m *memStore) GetDriverProfileByUserID(userID uint) (*models.DriverProfile, error) {
	if dp, ok := m.driverProfiles[userID]; ok {
		return dp, nil
	}
	return nil, store.ErrNotFound
}

func (m *memStore) GetUserByID(userID uint) (*models.User, error) {
	u := &models.User{Email: fmt.Sprintf("u%d@test.local", userID)}
	u.ID = userID
	return u, nil
}

func (m *memStore) CreateRide(ride *models.Ride) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	ride.ID = m.nextID
	copied := *ride
	m.rides[ride.ID] = &copied
	return nil
}

func (m *memStore) GetRideForUser(rideID, userID uint) (*models.Ride, error) {
	if r, ok := m.rides[rideID]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, store.ErrNotFound
}

func (m *memStore) ListRidesByCustomer(customerID uint) ([]models.Ride, error) {
	var out []models.Ride
	for _, r := range m.rides {
		if r.CustomerID == customerID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memStore) ListRidesByDriver(driverUserID uint) ([]models.Ride, error) {
	return nil, nil
}

func (m *memStore) ListPendingRidesByVehicleType(vehicleType string) ([]models.Ride, error) {
	var out []models.Ride
	for _, r := range m.rides {
		if r.Status == models.RideStatusPending && r.VehicleType == vehicleType {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memStore) AcceptRide(rideID, driverUserID uint) (*models.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[rideID]
	if !ok || r.Status != models.RideStatusPending {
		return nil, store.ErrRideUnavailable
	}
	r.DriverID = &driverUserID
	r.Status = models.RideStatusAccepted
	copied := *r
	return &copied, nil
}

func (m *memStore) StartRide(rideID, driverUserID uint) (*models.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[rideID]
	if !ok || r.Status != models.RideStatusAccepted || r.DriverID == nil || *r.DriverID != driverUserID {
		return nil, store.ErrRideUnavailable
	}
	r.Status = models.RideStatusInProgress
	copied := *r
	return &copied, nil
}

func (m *memStore) CompleteRide(rideID, driverUserID uint, distanceKm, finalFare float64) (*models.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[rideID]
	if !ok || r.Status != models.RideStatusInProgress || r.DriverID == nil || *r.DriverID != driverUserID {
		return nil, store.ErrRideUnavailable
	}
	r.Status = models.RideStatusCompleted
	r.DistanceKm = &distanceKm
	r.FinalFare = &finalFare
	copied := *r
	return &copied, nil
}

func (m *memStore) CancelRide(rideID, userID uint) (*models.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[rideID]
	if !ok || models.IsTerminalRideStatus(r.Status) {
		return nil, store.ErrRideUnavailable
	}
	r.Status = models.RideStatusCancelled
	copied := *r
	return &copied, nil
}

func (m *memStore) CreateNotification(n *models.RideNotification) error { return nil }

type noopPublisher struct{}

func (noopPublisher) Publish(userID uint, eventType string, payload interface{}) {}

// stubAuth plays the part of RequireAuth with a fixed identity.
func stubAuth(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

func setupRideTestRouter(ms *memStore, userID uint, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := rides.NewService(ms, notify.Noop{}, noopPublisher{})
	rc := NewRideController(svc)

	r := gin.New()
	auth := stubAuth(userID, role)
	r.POST("/customer/rides", auth, rc.CreateRide)
	r.GET("/customer/rides", auth, rc.ListCustomerRides)
	r.POST("/driver/rides/:id/accept", auth, rc.AcceptRide)
	r.POST("/driver/rides/:id/start", auth, rc.StartRide)
	r.POST("/driver/rides/:id/complete", auth, rc.CompleteRide)
	return r
}

func postJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateRideHandler(t *testing.T) {
	validBody := map[string]interface{}{
		"from_location": "City Center",
		"to_location":   "Airport",
		"pickup_time":   time.Now().Add(time.Hour).Format(time.RFC3339),
		"vehicle_type":  "car",
	}

	testCases := []struct {
		name       string
		hasProfile bool
		mutate     func(body map[string]interface{})
		wantStatus int
	}{
		{"success", true, nil, http.StatusCreated},
		{"no profile", false, nil, http.StatusNotFound},
		{
			"missing vehicle type", true,
			func(b map[string]interface{}) { delete(b, "vehicle_type") },
			http.StatusBadRequest,
		},
		{
			"unknown vehicle type", true,
			func(b map[string]interface{}) { b["vehicle_type"] = "truck" },
			http.StatusBadRequest,
		},
		{
			"missing from_location", true,
			func(b map[string]interface{}) { delete(b, "from_location") },
			http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ms := newMemStore()
			if tc.hasProfile {
				ms.profiles[1] = true
			}
			r := setupRideTestRouter(ms, 1, "customer")

			body := map[string]interface{}{}
			for k, v := range validBody {
				body[k] = v
			}
			if tc.mutate != nil {
				tc.mutate(body)
			}

			w := postJSON(r, "/customer/rides", body)
			assert.Equal(t, tc.wantStatus, w.Code)

			if tc.wantStatus == http.StatusCreated {
				var resp struct {
					Success bool        `json:"success"`
					Ride    models.Ride `json:"ride"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.True(t, resp.Success)
				assert.Equal(t, models.RideStatusPending, resp.Ride.Status)
				assert.Nil(t, resp.Ride.DriverID)
			} else {
				var resp map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Contains(t, resp, "error")
			}
		})
	}
}

func TestAcceptRideHandler(t *testing.T) {
	ms := newMemStore()
	ms.profiles[1] = true
	ms.profiles[2] = true
	ms.driverProfiles[2] = &models.DriverProfile{UserID: 2, VehicleType: "car"}

	// Seed a pending ride from customer 1.
	ride := &models.Ride{CustomerID: 1, VehicleType: "car", Status: models.RideStatusPending}
	require.NoError(t, ms.CreateRide(ride))

	driverRouter := setupRideTestRouter(ms, 2, "driver")

	w := postJSON(driverRouter, fmt.Sprintf("/driver/rides/%d/accept", ride.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])

	// Second accept is a structured conflict, not a reassignment.
	ms.profiles[3] = true
	ms.driverProfiles[3] = &models.DriverProfile{UserID: 3, VehicleType: "car"}
	otherDriver := setupRideTestRouter(ms, 3, "driver")

	w = postJSON(otherDriver, fmt.Sprintf("/driver/rides/%d/accept", ride.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Bad ride id format
	w = postJSON(driverRouter, "/driver/rides/abc/accept", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing ride
	w = postJSON(driverRouter, "/driver/rides/9999/accept", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCompleteRideHandlerValidation(t *testing.T) {
	ms := newMemStore()
	ms.profiles[1] = true
	ms.profiles[2] = true
	ms.driverProfiles[2] = &models.DriverProfile{UserID: 2, VehicleType: "car"}

	ride := &models.Ride{CustomerID: 1, VehicleType: "car", Status: models.RideStatusPending}
	require.NoError(t, ms.CreateRide(ride))

	driverRouter := setupRideTestRouter(ms, 2, "driver")
	postJSON(driverRouter, fmt.Sprintf("/driver/rides/%d/accept", ride.ID), nil)
	postJSON(driverRouter, fmt.Sprintf("/driver/rides/%d/start", ride.ID), nil)

	// Missing final_fare
	w := postJSON(driverRouter, fmt.Sprintf("/driver/rides/%d/complete", ride.ID),
		map[string]interface{}{"distance_km": 12.5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing distance_km
	w = postJSON(driverRouter, fmt.Sprintf("/driver/rides/%d/complete", ride.ID),
		map[string]interface{}{"final_fare": 150})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Both present completes the ride
	w = postJSON(driverRouter, fmt.Sprintf("/driver/rides/%d/complete", ride.ID),
		map[string]interface{}{"distance_km": 12.5, "final_fare": 150})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool        `json:"success"`
		Ride    models.Ride `json:"ride"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.RideStatusCompleted, resp.Ride.Status)
	require.NotNil(t, resp.Ride.FinalFare)
	assert.Equal(t, 150.0, *resp.Ride.FinalFare)
}
