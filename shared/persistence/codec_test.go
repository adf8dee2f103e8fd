package persistence

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/akbar-farajov/booking-system/shared/booking"
	"github.com/akbar-farajov/booking-system/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBooking() models.BookingConfiguration {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	days := booking.GenerateDays(start, 3)
	days[0].HotelID = models.Ref(1)
	days[0].LunchID = models.Ref(2)
	days[2].DinnerID = models.Ref(1)
	return models.BookingConfiguration{
		Citizenship:     models.Ref(2),
		StartDate:       &start,
		NumberOfDays:    3,
		Destination:     models.Ref("France"),
		BoardType:       models.Ref(models.BoardTypeFull),
		DailySelections: days,
	}
}

func TestEncode_Envelope(t *testing.T) {
	data, err := Encode(sampleBooking())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.EqualValues(t, Version, raw["version"])

	b := raw["state"].(map[string]any)["booking"].(map[string]any)
	assert.Equal(t, "2025-06-01", b["startDate"])
	assert.Equal(t, "FB", b["boardType"])
	days := b["dailySelections"].([]any)
	require.Len(t, days, 3)
	assert.Equal(t, "2025-06-03", days[2].(map[string]any)["date"])
	assert.Nil(t, days[1].(map[string]any)["hotelId"])
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		booking models.BookingConfiguration
	}{
		{name: "initial booking", booking: models.NewBookingConfiguration()},
		{name: "configured booking", booking: sampleBooking()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.booking)
			require.NoError(t, err)

			decoded, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, tt.booking, decoded)
		})
	}
}

func TestRoundTrip_KeepsCalendarDayAcrossZones(t *testing.T) {
	loc := time.FixedZone("UTC+14", 14*60*60)
	start := models.CalendarDate(time.Date(2025, 12, 31, 0, 0, 0, 0, loc))
	b := models.NewBookingConfiguration()
	b.StartDate = &start
	b.DailySelections = booking.GenerateDays(start, 2)

	data, err := Encode(b)
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, "2025-12-31", decoded.StartDate.Format(dateLayout))
	assert.Equal(t, "2026-01-01", decoded.DailySelections[1].Date.Format(dateLayout))
}

func TestDecode_AcceptsTimestamps(t *testing.T) {
	data := []byte(`{"state":{"booking":{"startDate":"2025-06-01T00:00:00.000Z","numberOfDays":1,
		"dailySelections":[{"day":1,"date":"2025-06-01T00:00:00Z","hotelId":3}]}},"version":1}`)

	b, err := Decode(data)
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).Equal(*b.StartDate))
	assert.Equal(t, 3, *b.DailySelections[0].HotelID)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{name: "not json", data: `{`, wantErr: ErrCorruptSnapshot},
		{name: "bad date", data: `{"state":{"booking":{"startDate":"June 1st"}},"version":1}`, wantErr: ErrCorruptSnapshot},
		{name: "bad day date", data: `{"state":{"booking":{"dailySelections":[{"day":1,"date":""}]}},"version":1}`, wantErr: ErrCorruptSnapshot},
		{name: "unknown version", data: `{"state":{"booking":{}},"version":2}`, wantErr: ErrUnsupportedVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
