package attendance

import (
	"math"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/site"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/utils"
)

type GeofenceResult struct {
	Accepted  bool
	DistanceM int
}

// ValidateGeofence measures how far point is from the site and whether it lies
// inside the site's radius. A zero radius accepts any point.
func ValidateGeofence(point utils.Coordinate, s site.Site) GeofenceResult {
	// the fence is checked on the stored whole-meter distance, so 200.4 m passes a 200 m radius
	distance := int(math.Round(utils.HaversineDistance(point, s.Coordinate())))

	return GeofenceResult{
		Accepted:  s.RadiusM == 0 || distance <= s.RadiusM,
		DistanceM: distance,
	}
}
