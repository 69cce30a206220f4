// ABOUTME: Tests for the sparse-patch merge semantics of the entities
package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestContactMergePreservesStoredValues(t *testing.T) {
	created := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := &Contact{
		HubSpotID:   "1",
		FullName:    "Jens Hansen",
		Email:       "jens@example.dk",
		Phone:       "12345678",
		CreatedAt:   &created,
		ExtractedAt: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	laterCreated := time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)
	incoming := &Contact{
		HubSpotID: "1",
		Email:     "jens.hansen@example.dk",
		CreatedAt: &laterCreated,
	}

	existing.MergeFrom(incoming)

	require.Equal(t, "jens.hansen@example.dk", existing.Email, "populated incoming field should win")
	require.Equal(t, "Jens Hansen", existing.FullName, "empty incoming field must not clobber")
	require.Equal(t, "12345678", existing.Phone)
	require.Equal(t, created, *existing.CreatedAt, "creation date never moves")
	require.WithinDuration(t, time.Now().UTC(), existing.ExtractedAt, time.Minute, "extraction stamp always moves")
}

func TestDealMergeRefreshesCreatedAt(t *testing.T) {
	created := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	amount := 1000.0

	existing := &Deal{HubSpotID: "d1", DealName: "Solar install", CreatedAt: &created, Amount: &amount}
	existing.MergeFrom(&Deal{HubSpotID: "d1", CreatedAt: &newer})

	require.Equal(t, newer, *existing.CreatedAt, "deals do refresh creation date")
	require.Equal(t, amount, *existing.Amount, "absent amount must not clobber")

	existing.MergeFrom(&Deal{HubSpotID: "d1"})
	require.Equal(t, newer, *existing.CreatedAt, "nil incoming creation date preserved")
}

func TestTicketMergeKeepsCreatedAt(t *testing.T) {
	created := time.Date(2023, 3, 3, 0, 0, 0, 0, time.UTC)
	newer := created.AddDate(1, 0, 0)
	existing := &Ticket{HubSpotID: "t1", TicketName: "Inverter fault", CreatedAt: &created}
	existing.MergeFrom(&Ticket{HubSpotID: "t1", TicketStatus: "Lukket", CreatedAt: &newer})

	require.Equal(t, created, *existing.CreatedAt)
	require.Equal(t, "Lukket", existing.TicketStatus)
}

func TestActivityMergeAttachesMissingDetail(t *testing.T) {
	existing := &Activity{HubSpotID: "a1", ActivityType: ActivityCall}
	incoming := &Activity{
		HubSpotID:    "a1",
		ActivityType: ActivityCall,
		Call:         &CallDetail{Direction: "OUTBOUND", RawPropertiesJSON: `{"x":1}`},
	}

	existing.MergeFrom(incoming)
	require.NotNil(t, existing.Call)
	require.Equal(t, "OUTBOUND", existing.Call.Direction)
}

func TestActivityMergePatchesPresentDetail(t *testing.T) {
	existing := &Activity{
		HubSpotID:    "a1",
		ActivityType: ActivityCall,
		Call:         &CallDetail{Direction: "OUTBOUND", Status: "COMPLETED"},
	}
	incoming := &Activity{
		HubSpotID:    "a1",
		ActivityType: ActivityCall,
		Call:         &CallDetail{Status: "CANCELED"},
	}

	existing.MergeFrom(incoming)
	require.Equal(t, "CANCELED", existing.Call.Status)
	require.Equal(t, "OUTBOUND", existing.Call.Direction, "empty incoming detail field must not clobber")
}

func TestActivityFromRecordAttachesExactlyOneDetail(t *testing.T) {
	raw, err := json.Marshal(map[string]any{
		"id": "a1",
		"properties": map[string]any{
			"hs_meeting_title":      "Kickoff",
			"hs_meeting_start_time": "2030-01-01T10:00:00Z",
		},
	})
	require.NoError(t, err)
	rec, err := ParseRecord(raw)
	require.NoError(t, err)

	a, err := ActivityFromRecord(ActivityMeeting, rec)
	require.NoError(t, err)

	kind, detail := a.Detail()
	require.Equal(t, ActivityMeeting, kind)
	require.NotNil(t, detail)
	require.Nil(t, a.Call)
	require.Nil(t, a.Email)
	require.Nil(t, a.Task)
	require.Nil(t, a.Note)
	require.Nil(t, a.SMS)
	require.Equal(t, StatusUpcoming, a.Status)
}

func TestActivityFromRecordRejectsUnknownType(t *testing.T) {
	rec := mustParse(t, `{"id": "a1", "properties": {}}`)
	_, err := ActivityFromRecord("FAX", rec)
	var unsupported *UnsupportedTypeError
	require.ErrorAs(t, err, &unsupported)
	require.Equal(t, "FAX", unsupported.Type)
}

func TestActivityDetailRoundTripsThroughJSON(t *testing.T) {
	a := &Activity{
		HubSpotID:    "a1",
		ActivityType: ActivityEmail,
		Email: &EmailDetail{
			EmailDirection:     "INCOMING",
			NumberOfEmailOpens: "3",
			RawPropertiesJSON:  `{"hs_email_subject":"hello"}`,
		},
	}
	kind, detail := a.Detail()
	payload, err := json.Marshal(detail)
	require.NoError(t, err)

	restored := &Activity{ActivityType: ActivityEmail}
	require.NoError(t, restored.AttachDetailJSON(kind, payload))
	require.Equal(t, "INCOMING", restored.Email.EmailDirection)
	require.Equal(t, "3", restored.Email.NumberOfEmailOpens)
	require.Equal(t, `{"hs_email_subject":"hello"}`, restored.Email.RawPropertiesJSON)
}
