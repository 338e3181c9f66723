package model

import (
	"time"

	"flowcrm/internal/stage"
)

// Deal is a sales opportunity moving through the pipeline. IDs and the
// created/updated timestamps are assigned by the backend; the client never
// invents them.
type Deal struct {
	ID    int         `json:"id"`
	Title string      `json:"title"`
	Value float64     `json:"value"`
	Stage stage.Stage `json:"stage"`

	// ExpectedCloseDate is a calendar date (YYYY-MM-DD), no time component.
	ExpectedCloseDate string `json:"expectedCloseDate,omitempty"`

	ContactID *int   `json:"contactId,omitempty"`
	CompanyID *int   `json:"companyId,omitempty"`
	Notes     string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Contact struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	JobTitle  string `json:"jobTitle,omitempty"`
	CompanyID *int   `json:"companyId,omitempty"`
	Notes     string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Company struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Industry string `json:"industry,omitempty"`
	Website  string `json:"website,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Notes    string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ActivityType string

const (
	ActivityCall    ActivityType = "Call"
	ActivityMeeting ActivityType = "Meeting"
	ActivityEmail   ActivityType = "Email"
	ActivityTask    ActivityType = "Task"
	ActivityNote    ActivityType = "Note"
)

func ActivityTypes() []ActivityType {
	return []ActivityType{ActivityCall, ActivityMeeting, ActivityEmail, ActivityTask, ActivityNote}
}

func ValidActivityType(t ActivityType) bool {
	for _, at := range ActivityTypes() {
		if at == t {
			return true
		}
	}
	return false
}

// Activity is a logged touchpoint. Unlike deal close dates, activity dates
// carry date+time.
type Activity struct {
	ID          int          `json:"id"`
	Type        ActivityType `json:"type"`
	Description string       `json:"description"`
	Date        time.Time    `json:"date"`

	DealID    *int `json:"dealId,omitempty"`
	ContactID *int `json:"contactId,omitempty"`
	CompanyID *int `json:"companyId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
