package mihon

import "github.com/dexreader/dexreader/internal/entities"

// Foreign publication status codes as used by Mihon's source API.
const (
	statusUnknown            int32 = 0
	statusOngoing            int32 = 1
	statusCompleted          int32 = 2
	statusLicensed           int32 = 3
	statusPublishingFinished int32 = 4
	statusCancelled          int32 = 5
	statusOnHiatus           int32 = 6
)

// statusTable maps foreign codes to the native status, in the order used to
// pick the inverse mapping. Several foreign codes collapse onto one native
// status, so a round trip keeps the first matching code; the distinctions
// between "licensed" and plain ongoing, or "publishing finished" and plain
// completed, are lost.
var statusTable = []struct {
	foreign int32
	native  entities.PublicationStatus
}{
	{statusOngoing, entities.StatusOngoing},
	{statusCompleted, entities.StatusCompleted},
	{statusOnHiatus, entities.StatusHiatus},
	{statusCancelled, entities.StatusCancelled},
	{statusLicensed, entities.StatusOngoing},
	{statusPublishingFinished, entities.StatusCompleted},
}

// NativeStatus converts a foreign status code to the native status. Unknown
// codes map to ongoing, the least committal reading of a missing value.
func NativeStatus(code int32) entities.PublicationStatus {
	for _, row := range statusTable {
		if row.foreign == code {
			return row.native
		}
	}
	return entities.StatusOngoing
}

// ForeignStatus converts a native status to the first foreign code that maps
// back to it.
func ForeignStatus(status entities.PublicationStatus) int32 {
	for _, row := range statusTable {
		if row.native == status {
			return row.foreign
		}
	}
	return statusUnknown
}
