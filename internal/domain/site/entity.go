package site

import (
	"time"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/utils"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Site is a work location with a circular geofence. RadiusM == 0 disables the fence.
type Site struct {
	ID        string
	Name      string
	Latitude  float64
	Longitude float64
	RadiusM   int
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s Site) Coordinate() utils.Coordinate {
	return utils.Coordinate{Lat: s.Latitude, Lng: s.Longitude}
}

func (s Site) IsActive() bool {
	return s.Status == StatusActive
}
