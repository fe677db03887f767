package zoom

import (
	"encoding/json"
	"time"
)

// Meeting types.
const (
	MeetingInstant            = 1
	MeetingScheduled          = 2
	MeetingRecurringNoFixed   = 3
	MeetingRecurringFixedTime = 8
)

// User is a Zoom account user.
type User struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email"`
	Type        int    `json:"type"`
	Status      string `json:"status,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
}

// Meeting is a scheduled or instant meeting.
type Meeting struct {
	ID        int64      `json:"id"`
	UUID      string     `json:"uuid"`
	HostID    string     `json:"host_id,omitempty"`
	Topic     string     `json:"topic"`
	Type      int        `json:"type"`
	StartTime *time.Time `json:"start_time,omitempty"`
	Duration  int        `json:"duration"`
	Timezone  string     `json:"timezone,omitempty"`
	Agenda    string     `json:"agenda,omitempty"`
	JoinURL   string     `json:"join_url,omitempty"`
	Password  string     `json:"password,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// MeetingRequest creates or updates a meeting. For updates only non-zero
// fields are sent.
type MeetingRequest struct {
	Topic     string
	Type      int
	StartTime time.Time
	Duration  int
	Timezone  string
	Agenda    string
	Password  string
}

// MarshalJSON writes start_time in the UTC form Zoom expects.
func (r MeetingRequest) MarshalJSON() ([]byte, error) {
	body := struct {
		Topic     string `json:"topic,omitempty"`
		Type      int    `json:"type,omitempty"`
		StartTime string `json:"start_time,omitempty"`
		Duration  int    `json:"duration,omitempty"`
		Timezone  string `json:"timezone,omitempty"`
		Agenda    string `json:"agenda,omitempty"`
		Password  string `json:"password,omitempty"`
	}{
		Topic:    r.Topic,
		Type:     r.Type,
		Duration: r.Duration,
		Timezone: r.Timezone,
		Agenda:   r.Agenda,
		Password: r.Password,
	}
	if !r.StartTime.IsZero() {
		body.StartTime = r.StartTime.UTC().Format("2006-01-02T15:04:05Z")
	}
	return json.Marshal(body)
}

// Recording is a cloud recording of one meeting instance.
type Recording struct {
	UUID           string          `json:"uuid"`
	ID             int64           `json:"id"`
	Topic          string          `json:"topic"`
	StartTime      *time.Time      `json:"start_time,omitempty"`
	Duration       int             `json:"duration"`
	TotalSize      int64           `json:"total_size"`
	RecordingCount int             `json:"recording_count"`
	ShareURL       string          `json:"share_url,omitempty"`
	Files          []RecordingFile `json:"recording_files"`
}

// RecordingFile is one file of a recording.
type RecordingFile struct {
	ID            string `json:"id"`
	FileType      string `json:"file_type"`
	FileSize      int64  `json:"file_size"`
	RecordingType string `json:"recording_type"`
	Status        string `json:"status"`
	PlayURL       string `json:"play_url,omitempty"`
	DownloadURL   string `json:"download_url,omitempty"`
}
