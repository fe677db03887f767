package clickup

import (
	"bytes"
	"strconv"
	"time"
)

// Priorities, 1 is most urgent.
const (
	PriorityUrgent = 1
	PriorityHigh   = 2
	PriorityNormal = 3
	PriorityLow    = 4
)

// Millis is a Unix millisecond timestamp. ClickUp sends them as strings
// and accepts numbers.
type Millis struct {
	time.Time
}

// MillisOf wraps t.
func MillisOf(t time.Time) *Millis {
	return &Millis{Time: t}
}

// UnmarshalJSON accepts "1700000000000", 1700000000000 and null.
func (m *Millis) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		m.Time = time.Time{}
		return nil
	}
	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	m.Time = time.UnixMilli(ms)
	return nil
}

// MarshalJSON writes milliseconds as a number.
func (m Millis) MarshalJSON() ([]byte, error) {
	if m.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(m.UnixMilli(), 10)), nil
}

// FlexID is an identifier ClickUp sends as either a number or a string.
type FlexID string

// UnmarshalJSON accepts 90080 and "90080".
func (f *FlexID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	*f = FlexID(bytes.Trim(data, `"`))
	return nil
}

// Team is a workspace.
type Team struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Color   string   `json:"color,omitempty"`
	Members []Member `json:"members,omitempty"`
}

// Member wraps a team member.
type Member struct {
	User User `json:"user"`
}

// User is a ClickUp user.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Space groups folders and lists.
type Space struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Private  bool     `json:"private"`
	Statuses []Status `json:"statuses,omitempty"`
}

// Folder groups lists.
type Folder struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Lists []List `json:"lists,omitempty"`
}

// List holds tasks.
type List struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TaskCount *int   `json:"task_count,omitempty"`
}

// Status is a task status.
type Status struct {
	Status string `json:"status"`
	Color  string `json:"color,omitempty"`
	Type   string `json:"type,omitempty"`
}

// Priority is a task priority.
type Priority struct {
	ID       string `json:"id"`
	Priority string `json:"priority"`
}

// Tag is a task tag.
type Tag struct {
	Name string `json:"name"`
}

// Task is a ClickUp task.
type Task struct {
	ID          string    `json:"id"`
	CustomID    string    `json:"custom_id,omitempty"`
	Name        string    `json:"name"`
	TextContent string    `json:"text_content,omitempty"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	Priority    *Priority `json:"priority,omitempty"`
	Assignees   []User    `json:"assignees,omitempty"`
	Tags        []Tag     `json:"tags,omitempty"`
	DueDate     *Millis   `json:"due_date,omitempty"`
	DateCreated *Millis   `json:"date_created,omitempty"`
	URL         string    `json:"url,omitempty"`
	List        *List     `json:"list,omitempty"`
}

// TaskRequest creates a task.
type TaskRequest struct {
	Name                string   `json:"name"`
	MarkdownDescription string   `json:"markdown_description,omitempty"`
	Assignees           []int    `json:"assignees,omitempty"`
	Tags                []string `json:"tags,omitempty"`
	Status              string   `json:"status,omitempty"`
	Priority            int      `json:"priority,omitempty"`
	DueDate             *Millis  `json:"due_date,omitempty"`
}

// TaskUpdate changes the set fields of a task.
type TaskUpdate struct {
	Name                *string `json:"name,omitempty"`
	MarkdownDescription *string `json:"markdown_description,omitempty"`
	Status              *string `json:"status,omitempty"`
	Priority            *int    `json:"priority,omitempty"`
	DueDate             *Millis `json:"due_date,omitempty"`
}

// IsZero reports whether the update changes nothing.
func (u TaskUpdate) IsZero() bool {
	return u.Name == nil && u.MarkdownDescription == nil && u.Status == nil && u.Priority == nil && u.DueDate == nil
}

// TaskFilter narrows a task listing.
type TaskFilter struct {
	Statuses      []string
	Assignees     []string
	IncludeClosed bool
	Subtasks      bool
}

// Comment is the result of posting a comment.
type Comment struct {
	ID     FlexID  `json:"id"`
	HistID string  `json:"hist_id,omitempty"`
	Date   *Millis `json:"date,omitempty"`
}
