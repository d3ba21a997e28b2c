package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexTime_UnmarshalJSON(t *testing.T) {
	want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		in       string
		want     time.Time
		unparsed bool
	}{
		{"rfc3339", `"2024-05-01T10:00:00Z"`, want, false},
		{"con offset", `"2024-05-01T05:00:00-05:00"`, want, false},
		{"sin zona con espacio", `"2024-05-01 10:00:00"`, want, false},
		{"sin zona con T", `"2024-05-01T10:00:00"`, want, false},
		{"epoch segundos", `1714557600`, want, false},
		{"epoch millis", `1714557600000`, want, false},
		{"epoch millis en texto", `"1714557600000"`, want, false},
		{"null", `null`, time.Time{}, false},
		{"vacío", `""`, time.Time{}, false},
		{"texto libre", `"ayer a las diez"`, time.Time{}, true},
		{"booleano", `true`, time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ft FlexTime
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ft))
			assert.True(t, ft.Time.Equal(tt.want), "got %v", ft.Time)
			assert.Equal(t, tt.unparsed, ft.Unparsed())
		})
	}
}

func TestWebhookRequest_TimestampIlegibleNoFallaElDecode(t *testing.T) {
	var req WebhookRequest
	err := json.Unmarshal([]byte(`{"device_id":"esp32_1","weight":12.5,"timestamp":"01/05/2024 10h"}`), &req)
	require.NoError(t, err)
	assert.Equal(t, "esp32_1", req.DeviceID)
	require.NotNil(t, req.Weight)
	assert.True(t, req.Timestamp.Unparsed())
}
