// Package store is the gorm-backed persistence layer. Every query that
// touches a ride or notification carries the caller's id in the WHERE
// clause, so a row is only ever visible to its customer, its assigned
// driver, or the addressed user.
package store

import (
	"errors"

	"gorm.io/gorm"

	"localride/internal/models"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- Profiles ---

func (s *Store) GetProfileByUserID(userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (s *Store) GetDriverProfileByUserID(userID uint) (*models.DriverProfile, error) {
	var dp models.DriverProfile
	if err := s.db.Where("user_id = ?", userID).First(&dp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &dp, nil
}

// UpsertDriverProfile creates the driver's onboarding record or updates
// the mutable fields on the existing one.
func (s *Store) UpsertDriverProfile(dp *models.DriverProfile) error {
	var existing models.DriverProfile
	err := s.db.Where("user_id = ?", dp.UserID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.Create(dp).Error
	}
	if err != nil {
		return err
	}
	existing.VehicleType = dp.VehicleType
	existing.VehicleNumber = dp.VehicleNumber
	existing.LicenseNumber = dp.LicenseNumber
	if err := s.db.Save(&existing).Error; err != nil {
		return err
	}
	*dp = existing
	return nil
}

func (s *Store) SetDriverAvailability(userID uint, available bool) (*models.DriverProfile, error) {
	res := s.db.Model(&models.DriverProfile{}).
		Where("user_id = ?", userID).
		Update("is_available", available)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetDriverProfileByUserID(userID)
}

func (s *Store) UpdateDriverLocation(userID uint, lat, lng float64) error {
	res := s.db.Model(&models.DriverProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"current_latitude":  lat,
			"current_longitude": lng,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Locations ---

func (s *Store) CreateLocation(loc *models.Location) error {
	return s.db.Create(loc).Error
}

func (s *Store) ListLocations() ([]models.Location, error) {
	var locations []models.Location
	if err := s.db.Order("name asc").Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// --- Rides ---

func (s *Store) CreateRide(ride *models.Ride) error {
	return s.db.Create(ride).Error
}

// GetRideForUser fetches a ride only if userID is its customer or its
// assigned driver.
func (s *Store) GetRideForUser(rideID, userID uint) (*models.Ride, error) {
	var ride models.Ride
	err := s.db.
		Where("id = ?", rideID).
		Where("customer_id = ? OR driver_id = ?", userID, userID).
		First(&ride).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ride, nil
}

func (s *Store) ListRidesByCustomer(customerID uint) ([]models.Ride, error) {
	var rides []models.Ride
	err := s.db.
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&rides).Error
	if err != nil {
		return nil, err
	}
	return rides, nil
}

func (s *Store) ListRidesByDriver(driverUserID uint) ([]models.Ride, error) {
	var rides []models.Ride
	err := s.db.
		Where("driver_id = ?", driverUserID).
		Order("created_at desc").
		Find(&rides).Error
	if err != nil {
		return nil, err
	}
	return rides, nil
}

// ListPendingRidesByVehicleType is the driver's "available rides" view:
// unassigned pending rides whose requested vehicle type exactly matches.
func (s *Store) ListPendingRidesByVehicleType(vehicleType string) ([]models.Ride, error) {
	var rides []models.Ride
	err := s.db.
		Where("status = ? AND vehicle_type = ?", models.RideStatusPending, vehicleType).
		Order("pickup_time asc").
		Find(&rides).Error
	if err != nil {
		return nil, err
	}
	return rides, nil
}

// AcceptRide claims a pending ride for driverUserID. The status guard
// and the update run as a single conditional UPDATE so two drivers
// racing on the same ride cannot both win: whoever matches the pending
// row first gets it, the other sees zero rows and ErrRideUnavailable.
func (s *Store) AcceptRide(rideID, driverUserID uint) (*models.Ride, error) {
	res := s.db.Model(&models.Ride{}).
		Where("id = ? AND status = ?", rideID, models.RideStatusPending).
		Updates(map[string]interface{}{
			"driver_id": driverUserID,
			"status":    models.RideStatusAccepted,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrRideUnavailable
	}

	var ride models.Ride
	if err := s.db.First(&ride, rideID).Error; err != nil {
		return nil, err
	}
	return &ride, nil
}

// StartRide moves an accepted ride to in_progress. Only the assigned
// driver matches the guard.
func (s *Store) StartRide(rideID, driverUserID uint) (*models.Ride, error) {
	res := s.db.Model(&models.Ride{}).
		Where("id = ? AND status = ? AND driver_id = ?", rideID, models.RideStatusAccepted, driverUserID).
		Update("status", models.RideStatusInProgress)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrRideUnavailable
	}

	var ride models.Ride
	if err := s.db.First(&ride, rideID).Error; err != nil {
		return nil, err
	}
	return &ride, nil
}

// CompleteRide finishes an in-progress ride, persisting distance and
// final fare atomically with the status change.
func (s *Store) CompleteRide(rideID, driverUserID uint, distanceKm, finalFare float64) (*models.Ride, error) {
	res := s.db.Model(&models.Ride{}).
		Where("id = ? AND status = ? AND driver_id = ?", rideID, models.RideStatusInProgress, driverUserID).
		Updates(map[string]interface{}{
			"status":      models.RideStatusCompleted,
			"distance_km": distanceKm,
			"final_fare":  finalFare,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrRideUnavailable
	}

	var ride models.Ride
	if err := s.db.First(&ride, rideID).Error; err != nil {
		return nil, err
	}
	return &ride, nil
}

// CancelRide cancels any non-terminal ride the caller is a party to.
func (s *Store) CancelRide(rideID, userID uint) (*models.Ride, error) {
	res := s.db.Model(&models.Ride{}).
		Where("id = ? AND status IN ?", rideID, []string{
			models.RideStatusPending,
			models.RideStatusAccepted,
			models.RideStatusInProgress,
		}).
		Where("customer_id = ? OR driver_id = ?", userID, userID).
		Update("status", models.RideStatusCancelled)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrRideUnavailable
	}

	var ride models.Ride
	if err := s.db.First(&ride, rideID).Error; err != nil {
		return nil, err
	}
	return &ride, nil
}

// --- Notifications ---

func (s *Store) CreateNotification(n *models.RideNotification) error {
	return s.db.Create(n).Error
}

func (s *Store) ListNotificationsByUser(userID uint) ([]models.RideNotification, error) {
	var notifications []models.RideNotification
	err := s.db.
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead flips is_read for a notification addressed to
// userID. Other users' notifications are invisible here.
func (s *Store) MarkNotificationRead(notificationID, userID uint) error {
	res := s.db.Model(&models.RideNotification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Users ---

// GetUserByID is used by the notification side-channel to resolve a
// recipient address.
func (s *Store) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail is used by login.
func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", email).
		Preload("Profile").
		Preload("DriverProfile").
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
