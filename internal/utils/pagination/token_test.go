package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeCursor(t *testing.T) {
	date := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)

	token := EncodeCursor(date, 42)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedDate, decodedID, err := DecodeCursor(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, date, decodedDate, "Date should match after decode")
	assert.Equal(t, int64(42), decodedID, "Transaction id should match after decode")

	// Nanosecond precision survives a round trip.
	now := time.Now().UTC()
	nowToken := EncodeCursor(now, 7)
	decodedNow, _, err := DecodeCursor(nowToken)
	assert.NoError(t, err)
	assert.True(t, now.Equal(decodedNow), "Current time should match after decode")
}

func TestDecodeCursorError(t *testing.T) {
	_, _, err := DecodeCursor("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	// Base64 encoded date without a separator.
	_, _, err = DecodeCursor("MjAyMy0wNS0xNVQwMDowMDowMFo=")
	assert.Error(t, err, "Should return an error for invalid token format")
	assert.Contains(t, err.Error(), "split")

	// Base64 encoded "notadate|12"
	_, _, err = DecodeCursor("bm90YWRhdGV8MTI=")
	assert.Error(t, err, "Should return an error for invalid date format")
	assert.Contains(t, err.Error(), "date parse")

	// Base64 encoded "2023-05-15T00:00:00Z|notanid"
	_, _, err = DecodeCursor("MjAyMy0wNS0xNVQwMDowMDowMFp8bm90YW5pZA==")
	assert.Error(t, err, "Should return an error for invalid id")
	assert.Contains(t, err.Error(), "id parse")
}
