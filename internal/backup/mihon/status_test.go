package mihon

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dexreader/dexreader/internal/entities"
)

func TestNativeStatus(t *testing.T) {
	assert.Equal(t, entities.StatusOngoing, NativeStatus(statusOngoing))
	assert.Equal(t, entities.StatusCompleted, NativeStatus(statusCompleted))
	assert.Equal(t, entities.StatusHiatus, NativeStatus(statusOnHiatus))
	assert.Equal(t, entities.StatusCancelled, NativeStatus(statusCancelled))

	// Licensed and publishing-finished collapse onto the nearest native
	// status.
	assert.Equal(t, entities.StatusOngoing, NativeStatus(statusLicensed))
	assert.Equal(t, entities.StatusCompleted, NativeStatus(statusPublishingFinished))

	// Unknown and future codes default to ongoing.
	assert.Equal(t, entities.StatusOngoing, NativeStatus(statusUnknown))
	assert.Equal(t, entities.StatusOngoing, NativeStatus(99))
}

func TestForeignStatus(t *testing.T) {
	assert.Equal(t, statusOngoing, ForeignStatus(entities.StatusOngoing))
	assert.Equal(t, statusCompleted, ForeignStatus(entities.StatusCompleted))
	assert.Equal(t, statusOnHiatus, ForeignStatus(entities.StatusHiatus))
	assert.Equal(t, statusCancelled, ForeignStatus(entities.StatusCancelled))
}

func TestStatusRoundTripIsLossyButStable(t *testing.T) {
	// Every native status survives a native -> foreign -> native trip.
	for _, s := range []entities.PublicationStatus{
		entities.StatusOngoing,
		entities.StatusCompleted,
		entities.StatusHiatus,
		entities.StatusCancelled,
	} {
		assert.Equal(t, s, NativeStatus(ForeignStatus(s)))
	}

	// The reverse trip is lossy: licensed comes back as plain ongoing.
	assert.Equal(t, statusOngoing, ForeignStatus(NativeStatus(statusLicensed)))
}
