package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocation(t *testing.T) {
	assert.Equal(t, "Europe/Lisbon", Location("Europe/Lisbon").String())
	assert.Equal(t, Default(), Location("").String())
	assert.Equal(t, Default(), Location("Mars/Olympus").String())
}

func TestSetDefault(t *testing.T) {
	t.Cleanup(func() { SetDefault(DefaultTimezone) })

	SetDefault("UTC")
	assert.Equal(t, time.UTC.String(), Location("").String())

	SetDefault("Not/AZone")
	assert.Equal(t, "UTC", Default())
}
