package kafka

import (
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/buoy-swell-service/internal/domain"
)

func testReport() domain.SwellReport {
	dir := 287.0
	return domain.SwellReport{
		ID:         "46219-0011223344556677",
		Station:    domain.Station{ID: 46219, Name: "South Channel Islands"},
		ObservedAt: time.Date(2021, 3, 2, 5, 40, 0, 0, time.UTC),
		Resolution: domain.ResolutionSpectral,
		Buckets:    []domain.PeriodBucket{{Seconds: 15, Energy: 2.87}},
		Peaks:      []domain.Peak{{Index: 7, Period: 14.71, Seconds: 15, Energy: 2.87, Direction: &dir, Cardinal: "WNW"}},
	}
}

func TestSerializeReport(t *testing.T) {
	msg, err := serializeReport(testReport())
	require.NoError(t, err)

	assert.Equal(t, []byte("46219"), msg.Key)
	assert.Contains(t, string(msg.Value), `"resolution":"spectral"`)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, HeaderStationID, msg.Headers[0].Key)
	assert.Equal(t, []byte("46219"), msg.Headers[0].Value)
	assert.Equal(t, HeaderObservedAt, msg.Headers[1].Key)
	assert.Equal(t, []byte("2021-03-02T05:40:00Z"), msg.Headers[1].Value)
	assert.Equal(t, HeaderResolution, msg.Headers[2].Key)
	assert.Equal(t, []byte("spectral"), msg.Headers[2].Value)
}

func TestDecodeReport_RoundTripsPeaks(t *testing.T) {
	msg, err := serializeReport(testReport())
	require.NoError(t, err)

	got, err := decodeReport(msg)
	require.NoError(t, err)
	assert.Equal(t, "46219-0011223344556677", got.ID)
	require.Len(t, got.Peaks, 1)
	require.NotNil(t, got.Peaks[0].Direction)
	assert.InDelta(t, 287.0, *got.Peaks[0].Direction, 0)
}

func TestDecodeReport_Invalid(t *testing.T) {
	_, err := decodeReport(kafkago.Message{Value: []byte("not json"), Offset: 9})
	require.ErrorIs(t, err, ErrUndecodable)
	assert.Contains(t, err.Error(), "offset 9")
}
