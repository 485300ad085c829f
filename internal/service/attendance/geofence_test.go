package attendance

import (
	"testing"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/site"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestValidateGeofence(t *testing.T) {
	s := site.Site{ID: "s-1", Name: "Warehouse", Latitude: 50.0755, Longitude: 14.4378, RadiusM: 200}

	tests := []struct {
		name     string
		offsetM  float64
		radiusM  int
		accepted bool
		distance int
	}{
		{"exact site point", 0, 200, true, 0},
		{"on the boundary", 200, 200, true, 200},
		{"fraction below the boundary rounds onto it", 200.4, 200, true, 200},
		{"fraction above the boundary rounds past it", 200.6, 200, false, 201},
		{"just outside", 201, 200, false, 201},
		{"far away", 5000, 200, false, 5000},
		{"zero radius accepts anything", 5000, 0, true, 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fence := s
			fence.RadiusM = tt.radiusM
			point := utils.OffsetNorth(s.Coordinate(), tt.offsetM)

			result := ValidateGeofence(point, fence)

			assert.Equal(t, tt.accepted, result.Accepted)
			assert.Equal(t, tt.distance, result.DistanceM)
		})
	}
}
