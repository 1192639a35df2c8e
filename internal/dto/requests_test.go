package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalTime_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    *time.Time
		wantErr bool
	}{
		{name: "missing", body: `{}`},
		{name: "null", body: `{"dueDate": null}`},
		{name: "empty", body: `{"dueDate": ""}`},
		{name: "rfc3339", body: `{"dueDate": "2024-05-10T18:30:00.000Z"}`, want: ptr(time.Date(2024, 5, 10, 18, 30, 0, 0, time.UTC))},
		{name: "date only", body: `{"dueDate": "2024-05-10"}`, want: ptr(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))},
		{name: "garbage", body: `{"dueDate": "next tuesday"}`, wantErr: true},
		{name: "number", body: `{"dueDate": 12}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req TaskRequest
			err := json.Unmarshal([]byte(tt.body), &req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, req.DueDate.Time)
				return
			}
			require.NotNil(t, req.DueDate.Time)
			assert.True(t, tt.want.Equal(*req.DueDate.Time))
		})
	}
}

func TestTaskRequest_ToChecklist(t *testing.T) {
	var missing TaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title": "t"}`), &missing))
	assert.Nil(t, missing.ToChecklist())
	assert.Nil(t, missing.ToPriority())

	var empty TaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"checklist": [], "priority": {"typeOfPriority": "low"}}`), &empty))
	assert.NotNil(t, empty.ToChecklist())
	assert.Empty(t, empty.ToChecklist())
	assert.Equal(t, "low", string(empty.ToPriority().TypeOfPriority))
}

func ptr(t time.Time) *time.Time {
	return &t
}
