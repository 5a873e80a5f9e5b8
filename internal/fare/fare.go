// Package fare computes the advisory fare estimate shown to a customer
// when they book. The estimate is display-only; the authoritative
// final_fare is entered by the driver at completion.
package fare

import (
	"fmt"
	"math/rand"

	"localride/internal/models"
)

// Base fares per vehicle type, in whole currency units.
const (
	BikeBase = 30
	AutoBase = 50
	CarBase  = 80
)

// surcharge spread added on top of the base fare, exclusive.
const spread = 100

var baseFares = map[string]int{
	models.VehicleTypeBike: BikeBase,
	models.VehicleTypeAuto: AutoBase,
	models.VehicleTypeCar:  CarBase,
}

// ErrUnknownVehicleType is returned for any vehicle type outside
// {auto, car, bike}. Unknown types are never silently defaulted.
type ErrUnknownVehicleType struct {
	VehicleType string
}

func (e ErrUnknownVehicleType) Error() string {
	return fmt.Sprintf("unknown vehicle type %q", e.VehicleType)
}

// Estimate returns base(vehicleType) plus a random surcharge in
// [0, 100). The result always satisfies base <= fare < base+100.
func Estimate(vehicleType string) (int, error) {
	base, ok := baseFares[vehicleType]
	if !ok {
		return 0, ErrUnknownVehicleType{VehicleType: vehicleType}
	}
	return base + rand.Intn(spread), nil
}
