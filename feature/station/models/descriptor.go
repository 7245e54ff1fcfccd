package models

import "fmt"

// StationDescriptor is one station as reported by a provider snapshot.
// Identifier, name and coordinates are required; every other field is
// optional and nil when the provider does not supply it. Absence is a
// first-class state, distinct from zero or empty string.
type StationDescriptor struct {
	// ID is the provider-assigned identifier.
	ID string
	// Name is the display name.
	Name string
	// Address is the street address, empty when not supplied.
	Address string
	// Latitude of the station. Required.
	Latitude *float64
	// Longitude of the station. Required.
	Longitude *float64
	// Banking indicates a payment terminal, nil when not supplied.
	Banking *bool
	// Bonus marks an uphill bonus station, nil when not supplied.
	Bonus *bool
	// BikeStands is the total stand capacity, nil when not supplied.
	BikeStands *int
	// Bikes is the total number of available bikes (regular + e-bikes),
	// nil when not supplied.
	Bikes *int
	// EBikes is the number of available e-bikes, nil when the provider
	// does not break out e-bikes.
	EBikes *int
	// FreeStands is the number of free docking points, nil when not supplied.
	FreeStands *int
	// Status is the provider-reported status label, nil when not supplied.
	Status *string
}

// ValidationError reports a descriptor missing a required field. It is
// scoped to the offending descriptor only: the rest of the snapshot is
// still processed.
type ValidationError struct {
	// StationID is the identifier of the offending descriptor, may be empty.
	StationID string
	// Field is the missing required field.
	Field string
}

func (e *ValidationError) Error() string {
	if e.StationID == "" {
		return fmt.Sprintf("descriptor missing required field %s", e.Field)
	}
	return fmt.Sprintf("descriptor %s missing required field %s", e.StationID, e.Field)
}

// Validate checks the required fields of a descriptor.
func (d StationDescriptor) Validate() error {
	if d.ID == "" {
		return &ValidationError{Field: "id"}
	}
	if d.Latitude == nil {
		return &ValidationError{StationID: d.ID, Field: "latitude"}
	}
	if d.Longitude == nil {
		return &ValidationError{StationID: d.ID, Field: "longitude"}
	}
	return nil
}
