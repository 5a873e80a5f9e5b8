// Package rides is the ride lifecycle manager: it owns every status
// transition, the guards in front of each one, and the side effects
// (notification rows, best-effort email, feed events) behind each one.
package rides

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"localride/internal/fare"
	"localride/internal/models"
	"localride/internal/notify"
	"localride/internal/store"
)

// Store is what the lifecycle manager needs from persistence.
// Implemented by *store.Store; tests substitute an in-memory fake.
type Store interface {
	GetProfileByUserID(userID uint) (*models.Profile, error)
	GetDriverProfileByUserID(userID uint) (*models.DriverProfile, error)
	GetUserByID(userID uint) (*models.User, error)

	CreateRide(ride *models.Ride) error
	GetRideForUser(rideID, userID uint) (*models.Ride, error)
	ListRidesByCustomer(customerID uint) ([]models.Ride, error)
	ListRidesByDriver(driverUserID uint) ([]models.Ride, error)
	ListPendingRidesByVehicleType(vehicleType string) ([]models.Ride, error)

	AcceptRide(rideID, driverUserID uint) (*models.Ride, error)
	StartRide(rideID, driverUserID uint) (*models.Ride, error)
	CompleteRide(rideID, driverUserID uint, distanceKm, finalFare float64) (*models.Ride, error)
	CancelRide(rideID, userID uint) (*models.Ride, error)

	CreateNotification(n *models.RideNotification) error
}

// Publisher pushes change events to connected dashboards.
type Publisher interface {
	Publish(userID uint, eventType string, payload interface{})
}

type Service struct {
	store  Store
	mailer notify.Mailer
	hub    Publisher
}

func NewService(s Store, mailer notify.Mailer, hub Publisher) *Service {
	return &Service{store: s, mailer: mailer, hub: hub}
}

// CreateInput is the booking request body after JSON binding.
type CreateInput struct {
	FromLocation  string
	ToLocation    string
	FromLatitude  *float64
	FromLongitude *float64
	ToLatitude    *float64
	ToLongitude   *float64
	PickupTime    time.Time
	VehicleType   string
	Notes         string
}

// Create books a new ride for the calling customer. The ride always
// starts pending with no driver assigned.
func (s *Service) Create(userID uint, input CreateInput) (*models.Ride, error) {
	if _, err := s.store.GetProfileByUserID(userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	if input.FromLocation == "" {
		return nil, ValidationError{Message: "from_location is required"}
	}
	if input.ToLocation == "" {
		return nil, ValidationError{Message: "to_location is required"}
	}
	if input.PickupTime.IsZero() {
		return nil, ValidationError{Message: "pickup_time is required"}
	}
	if input.VehicleType == "" {
		return nil, ValidationError{Message: "vehicle_type is required"}
	}

	estimated, err := fare.Estimate(input.VehicleType)
	if err != nil {
		return nil, ValidationError{Message: err.Error()}
	}

	ride := &models.Ride{
		CustomerID:    userID,
		FromLocation:  input.FromLocation,
		ToLocation:    input.ToLocation,
		FromLatitude:  input.FromLatitude,
		FromLongitude: input.FromLongitude,
		ToLatitude:    input.ToLatitude,
		ToLongitude:   input.ToLongitude,
		PickupTime:    input.PickupTime,
		VehicleType:   input.VehicleType,
		EstimatedFare: estimated,
		Status:        models.RideStatusPending,
		Notes:         input.Notes,
	}
	if err := s.store.CreateRide(ride); err != nil {
		return nil, err
	}

	s.notifyUser(ride, userID, fmt.Sprintf(
		"Your ride from %s to %s has been requested. Estimated fare: %d.",
		ride.FromLocation, ride.ToLocation, ride.EstimatedFare))
	s.dispatchEmail(userID, "Ride requested",
		fmt.Sprintf("Your ride from %s to %s is booked for %s. Estimated fare: %d.",
			ride.FromLocation, ride.ToLocation, ride.PickupTime.Format(time.RFC1123), ride.EstimatedFare))
	s.hub.Publish(userID, "ride.updated", ride)

	return ride, nil
}

// Accept claims a pending ride for the calling driver. The pending
// check and the driver assignment are one conditional update in the
// store, so concurrent accepts resolve to exactly one winner.
func (s *Service) Accept(userID, rideID uint) (*models.Ride, error) {
	if _, err := s.store.GetProfileByUserID(userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	if _, err := s.store.GetDriverProfileByUserID(userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDriverProfileNotFound
		}
		return nil, err
	}

	ride, err := s.store.AcceptRide(rideID, userID)
	if err != nil {
		if errors.Is(err, store.ErrRideUnavailable) {
			return nil, ErrRideUnavailable
		}
		return nil, err
	}

	s.notifyUser(ride, ride.CustomerID, fmt.Sprintf(
		"A driver has accepted your ride from %s to %s.", ride.FromLocation, ride.ToLocation))
	s.notifyUser(ride, userID, fmt.Sprintf(
		"You accepted the ride from %s to %s.", ride.FromLocation, ride.ToLocation))
	s.dispatchEmail(ride.CustomerID, "Ride accepted",
		fmt.Sprintf("A driver has accepted your ride from %s to %s.", ride.FromLocation, ride.ToLocation))
	s.dispatchEmail(userID, "Ride accepted",
		fmt.Sprintf("You accepted the ride from %s to %s. Pickup at %s.",
			ride.FromLocation, ride.ToLocation, ride.PickupTime.Format(time.RFC1123)))
	s.publishRide(ride)

	return ride, nil
}

// Start moves the caller's accepted ride to in_progress.
func (s *Service) Start(userID, rideID uint) (*models.Ride, error) {
	ride, err := s.store.StartRide(rideID, userID)
	if err != nil {
		if errors.Is(err, store.ErrRideUnavailable) {
			return nil, ErrRideUnavailable
		}
		return nil, err
	}

	s.notifyUser(ride, ride.CustomerID, fmt.Sprintf(
		"Your ride from %s to %s is now in progress.", ride.FromLocation, ride.ToLocation))
	s.publishRide(ride)

	return ride, nil
}

// Complete finishes the caller's in-progress ride. Both distance and
// final fare are required; they land atomically with the status.
func (s *Service) Complete(userID, rideID uint, distanceKm, finalFare *float64) (*models.Ride, error) {
	if distanceKm == nil {
		return nil, ValidationError{Message: "distance_km is required"}
	}
	if finalFare == nil {
		return nil, ValidationError{Message: "final_fare is required"}
	}
	if *distanceKm <= 0 {
		return nil, ValidationError{Message: "distance_km must be positive"}
	}
	if *finalFare <= 0 {
		return nil, ValidationError{Message: "final_fare must be positive"}
	}

	ride, err := s.store.CompleteRide(rideID, userID, *distanceKm, *finalFare)
	if err != nil {
		if errors.Is(err, store.ErrRideUnavailable) {
			return nil, ErrRideUnavailable
		}
		return nil, err
	}

	s.notifyUser(ride, ride.CustomerID, fmt.Sprintf(
		"Your ride from %s to %s is complete. Fare: %.2f.", ride.FromLocation, ride.ToLocation, *finalFare))
	s.dispatchEmail(ride.CustomerID, "Ride completed",
		fmt.Sprintf("Your ride from %s to %s is complete. Distance: %.1f km, fare: %.2f.",
			ride.FromLocation, ride.ToLocation, *distanceKm, *finalFare))
	s.publishRide(ride)

	return ride, nil
}

// Cancel cancels a non-terminal ride the caller is a party to and
// tells the other party.
func (s *Service) Cancel(userID, rideID uint) (*models.Ride, error) {
	ride, err := s.store.CancelRide(rideID, userID)
	if err != nil {
		if errors.Is(err, store.ErrRideUnavailable) {
			return nil, ErrRideUnavailable
		}
		return nil, err
	}

	message := fmt.Sprintf("The ride from %s to %s has been cancelled.", ride.FromLocation, ride.ToLocation)
	if ride.CustomerID != userID {
		s.notifyUser(ride, ride.CustomerID, message)
	}
	if ride.DriverID != nil && *ride.DriverID != userID {
		s.notifyUser(ride, *ride.DriverID, message)
	}
	s.publishRide(ride)

	return ride, nil
}

// Get returns a ride visible to the caller.
func (s *Service) Get(userID, rideID uint) (*models.Ride, error) {
	ride, err := s.store.GetRideForUser(rideID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRideNotFound
		}
		return nil, err
	}
	return ride, nil
}

// ListForCustomer is the customer's ride history, newest first.
func (s *Service) ListForCustomer(userID uint) ([]models.Ride, error) {
	return s.store.ListRidesByCustomer(userID)
}

// ListForDriver is the driver's assigned rides, newest first.
func (s *Service) ListForDriver(userID uint) ([]models.Ride, error) {
	return s.store.ListRidesByDriver(userID)
}

// ListAvailable is the driver's browse view: pending rides whose
// vehicle type exactly matches the driver's.
func (s *Service) ListAvailable(userID uint) ([]models.Ride, error) {
	dp, err := s.store.GetDriverProfileByUserID(userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDriverProfileNotFound
		}
		return nil, err
	}
	return s.store.ListPendingRidesByVehicleType(dp.VehicleType)
}

// notifyUser writes the in-app notification row and pushes it on the
// feed. A failed insert is logged, not propagated: notifications are a
// side effect, never a reason to fail the transition that caused them.
func (s *Service) notifyUser(ride *models.Ride, userID uint, message string) {
	n := &models.RideNotification{
		RideID:  ride.ID,
		UserID:  userID,
		Message: message,
	}
	if err := s.store.CreateNotification(n); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"ride_id": ride.ID,
			"user_id": userID,
		}).Warn("Failed to create ride notification.")
		return
	}
	s.hub.Publish(userID, "notification.created", n)
}

// dispatchEmail sends best-effort. Failures are logged and swallowed.
func (s *Service) dispatchEmail(userID uint, subject, body string) {
	user, err := s.store.GetUserByID(userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Could not resolve email recipient.")
		return
	}
	if err := s.mailer.Send(user.Email, subject, body); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"subject": subject,
		}).Warn("Ride email dispatch failed.")
	}
}

// publishRide fans a ride change out to everyone on the ride.
func (s *Service) publishRide(ride *models.Ride) {
	s.hub.Publish(ride.CustomerID, "ride.updated", ride)
	if ride.DriverID != nil {
		s.hub.Publish(*ride.DriverID, "ride.updated", ride)
	}
}
