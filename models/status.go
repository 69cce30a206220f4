// ABOUTME: Pure activity status derivation from raw properties and a clock
// ABOUTME: Yields one of completed, overdue, due, or upcoming
package models

import (
	"strings"
	"time"
)

// Derived activity statuses.
const (
	StatusCompleted = "completed"
	StatusOverdue   = "overdue"
	StatusDue       = "due"
	StatusUpcoming  = "upcoming"
)

// DetermineActivityStatus derives the display status of an activity from its
// raw properties. The clock is a parameter so the rules stay deterministic
// under test.
func DetermineActivityStatus(activityType string, p Props, activityDate *time.Time, now time.Time) string {
	switch strings.ToUpper(activityType) {
	case ActivityTask:
		return taskStatus(p, activityDate, now)
	case ActivityMeeting:
		return meetingStatus(p, activityDate, now)
	case ActivityCall:
		return callStatus(p, activityDate, now)
	case ActivityEmail, ActivityNote, ActivitySMS:
		return StatusCompleted
	default:
		if activityDate != nil && activityDate.After(now) {
			return StatusUpcoming
		}
		return StatusCompleted
	}
}

func taskStatus(p Props, activityDate *time.Time, now time.Time) string {
	if p.String("hs_task_completion_timestamp") != "" || p.String("hs_task_completion_date") != "" {
		return StatusCompleted
	}
	status := strings.ToUpper(p.String("hs_task_status"))
	switch status {
	case "COMPLETE", "COMPLETED", "END":
		return StatusCompleted
	}
	if due := p.Time("hs_task_due_date"); due != nil {
		overdueFlag := strings.ToLower(p.String("hs_task_is_overdue"))
		if overdueFlag == "true" || overdueFlag == "1" {
			return StatusOverdue
		}
		if due.Before(now) {
			return StatusOverdue
		}
		if due.Sub(now) <= 24*time.Hour {
			return StatusDue
		}
		return StatusUpcoming
	}
	if start := p.Time("hs_task_start_date"); start != nil && start.After(now) {
		return StatusUpcoming
	}
	switch status {
	case "WAITING", "NOT_STARTED", "DEFERRED":
		if activityDate != nil && activityDate.After(now) {
			return StatusUpcoming
		}
		return StatusDue
	case "IN_PROGRESS":
		return StatusDue
	}
	if activityDate != nil {
		if activityDate.After(now) {
			return StatusUpcoming
		}
		return StatusCompleted
	}
	return StatusDue
}

func meetingStatus(p Props, activityDate *time.Time, now time.Time) string {
	if start := p.Time("hs_meeting_start_time"); start != nil {
		if start.After(now) {
			return StatusUpcoming
		}
		return StatusCompleted
	}
	if activityDate != nil && activityDate.After(now) {
		return StatusUpcoming
	}
	return StatusCompleted
}

func callStatus(p Props, activityDate *time.Time, now time.Time) string {
	status := strings.ToUpper(p.String("hs_call_status"))
	if status == "SCHEDULED" {
		if activityDate != nil && activityDate.After(now) {
			return StatusUpcoming
		}
		return StatusDue
	}
	if status != "" {
		return StatusCompleted
	}
	if activityDate != nil && activityDate.After(now) {
		return StatusUpcoming
	}
	return StatusCompleted
}
