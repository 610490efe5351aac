package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// HackathonConfig holds the event-wide settings.
type HackathonConfig struct {
	Name             string    `json:"name"`
	Venue            string    `json:"venue"`
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	SubmissionsOpen  bool      `json:"submissionsOpen"`
	MaxTeamSize      int       `json:"maxTeamSize"`
	JudgingRounds    []string  `json:"judgingRounds"`
	RegistrationOpen bool      `json:"registrationOpen"`
}

// ScheduleItem is one entry of the event agenda.
type ScheduleItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Location    string    `json:"location,omitempty"`
}

// ProblemStatement is a challenge teams can pick.
type ProblemStatement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Track       string `json:"track,omitempty"`
}

// Document is the aggregate root persisted as a single JSON blob. Every
// mutation replaces the whole document.
type Document struct {
	Users             []User             `json:"users"`
	Teams             []Team             `json:"teams"`
	Volunteers        []Volunteer        `json:"volunteers"`
	Judges            []Judge            `json:"judges"`
	Announcements     []Announcement     `json:"announcements"`
	Config            HackathonConfig    `json:"config"`
	Schedule          []ScheduleItem     `json:"schedule"`
	ProblemStatements []ProblemStatement `json:"problemStatements"`
	HelpRequests      []HelpRequest      `json:"helpRequests"`
}

// MarshalDocument encodes the document for the backing store.
func MarshalDocument(doc *Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return data, nil
}

// UnmarshalDocument decodes a stored document.
func UnmarshalDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return &doc, nil
}

// FindTeam returns a pointer into Teams for in-place mutation.
func (d *Document) FindTeam(id string) (*Team, bool) {
	for i := range d.Teams {
		if d.Teams[i].ID == id {
			return &d.Teams[i], true
		}
	}
	return nil, false
}

func (d *Document) FindUserByEmail(email string) (*User, bool) {
	for i := range d.Users {
		if d.Users[i].Email == email {
			return &d.Users[i], true
		}
	}
	return nil, false
}

func (d *Document) FindUser(id string) (*User, bool) {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i], true
		}
	}
	return nil, false
}

func (d *Document) FindVolunteer(id string) (*Volunteer, bool) {
	for i := range d.Volunteers {
		if d.Volunteers[i].ID == id {
			return &d.Volunteers[i], true
		}
	}
	return nil, false
}

func (d *Document) FindJudge(id string) (*Judge, bool) {
	for i := range d.Judges {
		if d.Judges[i].ID == id {
			return &d.Judges[i], true
		}
	}
	return nil, false
}

func (d *Document) FindHelpRequest(id string) (*HelpRequest, bool) {
	for i := range d.HelpRequests {
		if d.HelpRequests[i].ID == id {
			return &d.HelpRequests[i], true
		}
	}
	return nil, false
}

// RemoveAnnouncement deletes the announcement with the given id and reports
// whether it existed.
func (d *Document) RemoveAnnouncement(id string) bool {
	for i := range d.Announcements {
		if d.Announcements[i].ID == id {
			d.Announcements = append(d.Announcements[:i], d.Announcements[i+1:]...)
			return true
		}
	}
	return false
}
