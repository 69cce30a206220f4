// ABOUTME: Activity tagged union covering calls, emails, meetings, tasks,
// ABOUTME: notes, and SMS, each with at most one typed detail payload
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Activity type discriminators.
const (
	ActivityCall    = "CALL"
	ActivityEmail   = "EMAIL"
	ActivityMeeting = "MEETING"
	ActivityTask    = "TASK"
	ActivityNote    = "NOTE"
	ActivitySMS     = "SMS"
)

// Activity is one timeline engagement of any kind. Exactly one of the detail
// pointers is set, matching ActivityType; the constructor enforces this.
type Activity struct {
	ID                int64
	HubSpotID         string
	RecordID          string
	ActivityType      string
	Subject           string
	Body              string
	ActivityOwner     string
	SourceObjectType  string
	SourceObjectID    string
	SourceObjectName  string
	SourceObjectEmail string
	ActivityDate      *time.Time
	Status            string
	ExtractedAt       time.Time

	Call    *CallDetail
	Email   *EmailDetail
	Meeting *MeetingDetail
	Task    *TaskDetail
	Note    *NoteDetail
	SMS     *SMSDetail
}

// ActivityFromRecord maps a raw engagement record onto an Activity of the
// given type. An unrecognized type yields an UnsupportedTypeError so the
// caller can drop the record and keep going.
func ActivityFromRecord(activityType string, rec *Record) (*Activity, error) {
	id := rec.HubSpotID()
	if id == "" {
		return nil, ErrMissingID
	}
	p := rec.Props()
	raw := rec.RawProps()
	now := time.Now().UTC()

	srcType, srcID := rec.PrimaryAssociation()
	a := &Activity{
		HubSpotID:        id,
		RecordID:         p.FirstString("hs_object_id", "id"),
		ActivityType:     strings.ToUpper(activityType),
		ActivityOwner:    p.String("hubspot_owner_id"),
		SourceObjectType: srcType,
		SourceObjectID:   srcID,
		ActivityDate:     p.Time("hs_timestamp"),
		ExtractedAt:      now,
	}

	switch a.ActivityType {
	case ActivityCall:
		a.Subject = p.String("hs_call_title")
		a.Body = StripHTML(p.String("hs_call_body"))
		a.Call = &CallDetail{
			Direction:         p.String("hs_call_direction"),
			Status:            p.String("hs_call_status"),
			CallTitle:         p.String("hs_call_title"),
			CallDirection:     p.String("hs_call_direction"),
			CreatedDate:       p.Time("hs_createdate"),
			CreatedByUserID:   p.String("hs_created_by_user_id"),
			LastModifiedDate:  p.Time("hs_lastmodifieddate"),
			RawPropertiesJSON: raw,
			ExtractedAt:       now,
		}
	case ActivityEmail:
		a.Subject = p.String("hs_email_subject")
		a.Body = StripHTML(p.FirstString("hs_email_text", "hs_email_html"))
		a.Email = &EmailDetail{
			Status:              p.String("hs_email_status"),
			TextBody:            p.String("hs_email_text"),
			HTMLBody:            p.String("hs_email_html"),
			CreatedDate:         p.Time("hs_createdate"),
			CreatedByUserID:     p.String("hs_created_by_user_id"),
			EmailClickRate:      p.String("hs_email_click_rate"),
			EmailDirection:      p.String("hs_email_direction"),
			EmailOpenRate:       p.String("hs_email_open_rate"),
			EmailReplyRate:      p.String("hs_email_reply_rate"),
			LastModifiedDate:    p.Time("hs_lastmodifieddate"),
			NumberOfEmailClicks: p.String("hs_num_email_clicks"),
			NumberOfEmailOpens:  p.String("hs_num_email_opens"),
			UpdatedByUserID:     p.String("hs_updated_by_user_id"),
			RawPropertiesJSON:   raw,
			ExtractedAt:         now,
		}
	case ActivityMeeting:
		a.Subject = p.String("hs_meeting_title")
		a.Body = StripHTML(p.String("hs_meeting_body"))
		a.ActivityDate = p.FirstTime("hs_meeting_start_time", "hs_timestamp")
		a.Meeting = &MeetingDetail{
			StartTime:                  p.Time("hs_meeting_start_time"),
			EndTime:                    p.Time("hs_meeting_end_time"),
			ContactFirstOutreachDate:   p.Time("hs_contact_first_outreach_date"),
			CreatedDate:                p.Time("hs_createdate"),
			CreatedByUserID:            p.String("hs_created_by_user_id"),
			HubSpotTeam:                p.String("hubspot_team_id"),
			AttendeeOwnerIDs:           p.String("hs_attendee_owner_ids"),
			LastModifiedDate:           p.Time("hs_lastmodifieddate"),
			LocationType:               p.String("hs_meeting_location_type"),
			MeetingLocation:            p.String("hs_meeting_location"),
			MeetingName:                p.String("hs_meeting_title"),
			MeetingSource:              p.String("hs_meeting_source"),
			TimeToBookFromFirstContact: p.String("hs_time_to_book_meeting_from_first_contact"),
			RawPropertiesJSON:          raw,
			ExtractedAt:                now,
		}
	case ActivityTask:
		a.Subject = p.String("hs_task_subject")
		a.Body = StripHTML(p.String("hs_task_body"))
		a.Task = &TaskDetail{
			Priority:          p.String("hs_task_priority"),
			Status:            p.String("hs_task_status"),
			CommunicationBody: p.String("hs_task_body"),
			CreatedAt:         p.Time("hs_createdate"),
			IsOverdue:         p.String("hs_task_is_overdue"),
			LastModifiedAt:    p.Time("hs_lastmodifieddate"),
			TaskType:          p.String("hs_task_type"),
			UpdatedByUserID:   p.String("hs_updated_by_user_id"),
			RawPropertiesJSON: raw,
			ExtractedAt:       now,
		}
	case ActivityNote:
		a.Body = StripHTML(p.String("hs_note_body"))
		a.Note = &NoteDetail{
			CreatedDate:       p.Time("hs_createdate"),
			CreatedByUserID:   p.String("hs_created_by_user_id"),
			LastModifiedDate:  p.Time("hs_lastmodifieddate"),
			RawPropertiesJSON: raw,
			ExtractedAt:       now,
		}
	case ActivitySMS:
		a.Subject = p.String("hs_sms_title")
		a.Body = StripHTML(p.FirstString("hs_sms_body", "hs_sms_text"))
		a.SMS = &SMSDetail{
			Direction:          p.FirstString("hs_sms_direction", "hs_sms_message_direction"),
			Status:             p.FirstString("hs_sms_status", "hs_sms_message_status"),
			ChannelAccountName: p.String("hs_channel_account_name"),
			ChannelName:        p.String("hs_channel_name"),
			MessageBody:        p.FirstString("hs_sms_message_body", "hs_sms_body", "hs_sms_text"),
			AssignedTo:         ManualOwnerName(p.String("hs_activity_assigned_to")),
			ActivityDate:       p.Time("hs_activity_date"),
			ChannelType:        p.String("hs_communication_channel_type"),
			CommunicationBody:  p.String("hs_sms_message_body"),
			FirstMessageDate:   p.Time("hs_conversation_first_message_timestamp"),
			CreatedByUserID:    p.String("hs_created_by_user_id"),
			HubSpotTeam:        p.String("hubspot_team_id"),
			LoggedFrom:         p.String("hs_logged_from"),
			ObjectCreatedAt:    p.Time("hs_object_create_date"),
			ObjectModifiedAt:   p.Time("hs_lastmodifieddate"),
			OwnerAssignedDate:  p.Time("hs_owner_assigneddate"),
			RecordSource:       p.String("hs_object_source"),
			RecordSourceDetail: p.String("hs_object_source_detail_1"),
			UpdatedByUserID:    p.String("hs_updated_by_user_id"),
			RawPropertiesJSON:  raw,
			ExtractedAt:        now,
		}
	default:
		return nil, &UnsupportedTypeError{Type: activityType}
	}

	a.Status = DetermineActivityStatus(a.ActivityType, p, a.ActivityDate, now)
	return a, nil
}

// MergeFrom patches this activity with populated incoming fields and merges
// the detail payload: patch when the variant is already attached, attach
// otherwise.
func (a *Activity) MergeFrom(in *Activity) {
	patchString(&a.RecordID, in.RecordID)
	patchString(&a.Subject, in.Subject)
	patchString(&a.Body, in.Body)
	patchString(&a.ActivityOwner, in.ActivityOwner)
	patchString(&a.SourceObjectType, in.SourceObjectType)
	patchString(&a.SourceObjectID, in.SourceObjectID)
	patchString(&a.SourceObjectName, in.SourceObjectName)
	patchString(&a.SourceObjectEmail, in.SourceObjectEmail)
	patchTime(&a.ActivityDate, in.ActivityDate)
	patchString(&a.Status, in.Status)
	a.ExtractedAt = time.Now().UTC()

	switch {
	case in.Call != nil:
		if a.Call != nil {
			a.Call.MergeFrom(in.Call)
		} else {
			a.Call = in.Call
		}
	case in.Email != nil:
		if a.Email != nil {
			a.Email.MergeFrom(in.Email)
		} else {
			a.Email = in.Email
		}
	case in.Meeting != nil:
		if a.Meeting != nil {
			a.Meeting.MergeFrom(in.Meeting)
		} else {
			a.Meeting = in.Meeting
		}
	case in.Task != nil:
		if a.Task != nil {
			a.Task.MergeFrom(in.Task)
		} else {
			a.Task = in.Task
		}
	case in.Note != nil:
		if a.Note != nil {
			a.Note.MergeFrom(in.Note)
		} else {
			a.Note = in.Note
		}
	case in.SMS != nil:
		if a.SMS != nil {
			a.SMS.MergeFrom(in.SMS)
		} else {
			a.SMS = in.SMS
		}
	}
}

// Detail returns the attached variant and its discriminator, or "" and nil
// when no detail is present.
func (a *Activity) Detail() (string, any) {
	switch {
	case a.Call != nil:
		return ActivityCall, a.Call
	case a.Email != nil:
		return ActivityEmail, a.Email
	case a.Meeting != nil:
		return ActivityMeeting, a.Meeting
	case a.Task != nil:
		return ActivityTask, a.Task
	case a.Note != nil:
		return ActivityNote, a.Note
	case a.SMS != nil:
		return ActivitySMS, a.SMS
	}
	return "", nil
}

// AttachDetailJSON decodes a persisted detail payload back onto the matching
// variant pointer.
func (a *Activity) AttachDetailJSON(kind string, data []byte) error {
	var err error
	switch kind {
	case ActivityCall:
		a.Call = &CallDetail{}
		err = json.Unmarshal(data, a.Call)
	case ActivityEmail:
		a.Email = &EmailDetail{}
		err = json.Unmarshal(data, a.Email)
	case ActivityMeeting:
		a.Meeting = &MeetingDetail{}
		err = json.Unmarshal(data, a.Meeting)
	case ActivityTask:
		a.Task = &TaskDetail{}
		err = json.Unmarshal(data, a.Task)
	case ActivityNote:
		a.Note = &NoteDetail{}
		err = json.Unmarshal(data, a.Note)
	case ActivitySMS:
		a.SMS = &SMSDetail{}
		err = json.Unmarshal(data, a.SMS)
	default:
		return fmt.Errorf("unknown activity detail kind %q", kind)
	}
	if err != nil {
		return fmt.Errorf("decode %s detail: %w", kind, err)
	}
	return nil
}

// CallDetail carries the call-specific payload.
type CallDetail struct {
	Direction         string
	Status            string
	CallTitle         string
	CallDirection     string
	CreatedDate       *time.Time
	CreatedByUserID   string
	LastModifiedDate  *time.Time
	RawPropertiesJSON string
	ExtractedAt       time.Time
}

func (d *CallDetail) MergeFrom(in *CallDetail) {
	patchString(&d.Direction, in.Direction)
	patchString(&d.Status, in.Status)
	patchString(&d.CallTitle, in.CallTitle)
	patchString(&d.CallDirection, in.CallDirection)
	patchTime(&d.CreatedDate, in.CreatedDate)
	patchString(&d.CreatedByUserID, in.CreatedByUserID)
	patchTime(&d.LastModifiedDate, in.LastModifiedDate)
	patchString(&d.RawPropertiesJSON, in.RawPropertiesJSON)
	d.ExtractedAt = time.Now().UTC()
}

// EmailDetail carries the email-specific payload, including the engagement
// rates the timeline derives open and click events from.
type EmailDetail struct {
	Status              string
	TextBody            string
	HTMLBody            string
	CreatedDate         *time.Time
	CreatedByUserID     string
	EmailClickRate      string
	EmailDirection      string
	EmailOpenRate       string
	EmailReplyRate      string
	LastModifiedDate    *time.Time
	NumberOfEmailClicks string
	NumberOfEmailOpens  string
	UpdatedByUserID     string
	RawPropertiesJSON   string
	ExtractedAt         time.Time
}

func (d *EmailDetail) MergeFrom(in *EmailDetail) {
	patchString(&d.Status, in.Status)
	patchString(&d.TextBody, in.TextBody)
	patchString(&d.HTMLBody, in.HTMLBody)
	patchTime(&d.CreatedDate, in.CreatedDate)
	patchString(&d.CreatedByUserID, in.CreatedByUserID)
	patchString(&d.EmailClickRate, in.EmailClickRate)
	patchString(&d.EmailDirection, in.EmailDirection)
	patchString(&d.EmailOpenRate, in.EmailOpenRate)
	patchString(&d.EmailReplyRate, in.EmailReplyRate)
	patchTime(&d.LastModifiedDate, in.LastModifiedDate)
	patchString(&d.NumberOfEmailClicks, in.NumberOfEmailClicks)
	patchString(&d.NumberOfEmailOpens, in.NumberOfEmailOpens)
	patchString(&d.UpdatedByUserID, in.UpdatedByUserID)
	patchString(&d.RawPropertiesJSON, in.RawPropertiesJSON)
	d.ExtractedAt = time.Now().UTC()
}

// MeetingDetail carries the meeting-specific payload.
type MeetingDetail struct {
	StartTime                  *time.Time
	EndTime                    *time.Time
	ContactFirstOutreachDate   *time.Time
	CreatedDate                *time.Time
	CreatedByUserID            string
	HubSpotTeam                string
	AttendeeOwnerIDs           string
	LastModifiedDate           *time.Time
	LocationType               string
	MeetingLocation            string
	MeetingName                string
	MeetingSource              string
	TimeToBookFromFirstContact string
	RawPropertiesJSON          string
	ExtractedAt                time.Time
}

func (d *MeetingDetail) MergeFrom(in *MeetingDetail) {
	patchTime(&d.StartTime, in.StartTime)
	patchTime(&d.EndTime, in.EndTime)
	patchTime(&d.ContactFirstOutreachDate, in.ContactFirstOutreachDate)
	patchTime(&d.CreatedDate, in.CreatedDate)
	patchString(&d.CreatedByUserID, in.CreatedByUserID)
	patchString(&d.HubSpotTeam, in.HubSpotTeam)
	patchString(&d.AttendeeOwnerIDs, in.AttendeeOwnerIDs)
	patchTime(&d.LastModifiedDate, in.LastModifiedDate)
	patchString(&d.LocationType, in.LocationType)
	patchString(&d.MeetingLocation, in.MeetingLocation)
	patchString(&d.MeetingName, in.MeetingName)
	patchString(&d.MeetingSource, in.MeetingSource)
	patchString(&d.TimeToBookFromFirstContact, in.TimeToBookFromFirstContact)
	patchString(&d.RawPropertiesJSON, in.RawPropertiesJSON)
	d.ExtractedAt = time.Now().UTC()
}

// TaskDetail carries the task-specific payload.
type TaskDetail struct {
	Priority          string
	Status            string
	CommunicationBody string
	CreatedAt         *time.Time
	IsOverdue         string
	LastModifiedAt    *time.Time
	TaskType          string
	UpdatedByUserID   string
	RawPropertiesJSON string
	ExtractedAt       time.Time
}

func (d *TaskDetail) MergeFrom(in *TaskDetail) {
	patchString(&d.Priority, in.Priority)
	patchString(&d.Status, in.Status)
	patchString(&d.CommunicationBody, in.CommunicationBody)
	patchTime(&d.CreatedAt, in.CreatedAt)
	patchString(&d.IsOverdue, in.IsOverdue)
	patchTime(&d.LastModifiedAt, in.LastModifiedAt)
	patchString(&d.TaskType, in.TaskType)
	patchString(&d.UpdatedByUserID, in.UpdatedByUserID)
	patchString(&d.RawPropertiesJSON, in.RawPropertiesJSON)
	d.ExtractedAt = time.Now().UTC()
}

// NoteDetail carries the note-specific payload.
type NoteDetail struct {
	CreatedDate       *time.Time
	CreatedByUserID   string
	LastModifiedDate  *time.Time
	RawPropertiesJSON string
	ExtractedAt       time.Time
}

func (d *NoteDetail) MergeFrom(in *NoteDetail) {
	patchTime(&d.CreatedDate, in.CreatedDate)
	patchString(&d.CreatedByUserID, in.CreatedByUserID)
	patchTime(&d.LastModifiedDate, in.LastModifiedDate)
	patchString(&d.RawPropertiesJSON, in.RawPropertiesJSON)
	d.ExtractedAt = time.Now().UTC()
}

// SMSDetail carries the SMS-specific payload.
type SMSDetail struct {
	Direction          string
	Status             string
	ChannelAccountName string
	ChannelName        string
	MessageBody        string
	AssignedTo         string
	ActivityDate       *time.Time
	ChannelType        string
	CommunicationBody  string
	FirstMessageDate   *time.Time
	CreatedByUserID    string
	HubSpotTeam        string
	LoggedFrom         string
	ObjectCreatedAt    *time.Time
	ObjectModifiedAt   *time.Time
	OwnerAssignedDate  *time.Time
	RecordSource       string
	RecordSourceDetail string
	UpdatedByUserID    string
	RawPropertiesJSON  string
	ExtractedAt        time.Time
}

func (d *SMSDetail) MergeFrom(in *SMSDetail) {
	patchString(&d.Direction, in.Direction)
	patchString(&d.Status, in.Status)
	patchString(&d.ChannelAccountName, in.ChannelAccountName)
	patchString(&d.ChannelName, in.ChannelName)
	patchString(&d.MessageBody, in.MessageBody)
	patchString(&d.AssignedTo, in.AssignedTo)
	patchTime(&d.ActivityDate, in.ActivityDate)
	patchString(&d.ChannelType, in.ChannelType)
	patchString(&d.CommunicationBody, in.CommunicationBody)
	patchTime(&d.FirstMessageDate, in.FirstMessageDate)
	patchString(&d.CreatedByUserID, in.CreatedByUserID)
	patchString(&d.HubSpotTeam, in.HubSpotTeam)
	patchString(&d.LoggedFrom, in.LoggedFrom)
	patchTime(&d.ObjectCreatedAt, in.ObjectCreatedAt)
	patchTime(&d.ObjectModifiedAt, in.ObjectModifiedAt)
	patchTime(&d.OwnerAssignedDate, in.OwnerAssignedDate)
	patchString(&d.RecordSource, in.RecordSource)
	patchString(&d.RecordSourceDetail, in.RecordSourceDetail)
	patchString(&d.UpdatedByUserID, in.UpdatedByUserID)
	patchString(&d.RawPropertiesJSON, in.RawPropertiesJSON)
	d.ExtractedAt = time.Now().UTC()
}
