package domain

import "time"

// SeedDocument returns the fixture data written on first access. Event times
// are placed relative to now so a fresh instance always looks "live".
func SeedDocument(now time.Time) *Document {
	now = now.UTC()
	start := now.Truncate(time.Hour)
	end := start.Add(36 * time.Hour)

	return &Document{
		Users: []User{
			{ID: "user-admin", Name: "Event Admin", Email: "admin@hackathon.local", Role: RoleAdmin, CreatedAt: now},
			{ID: "user-volunteer-1", Name: "Priya Volunteer", Email: "volunteer@hackathon.local", Role: RoleVolunteer, CreatedAt: now},
			{ID: "user-judge-1", Name: "Jordan Judge", Email: "judge@hackathon.local", Role: RoleJudge, CreatedAt: now},
		},
		Teams: []Team{
			{
				ID:                 "team-1",
				Name:               "Null Pointers",
				Members:            []TeamMember{{Name: "Ana", Role: "lead"}, {Name: "Ben"}},
				ProblemStatementID: "ps-1",
				RoomNumber:         "A1",
				TableNumber:        "1",
				OnboardingStatus:   StatusNotStarted,
				Sessions:           []Session{},
				CreatedAt:          now,
			},
			{
				ID:                 "team-2",
				Name:               "Byte Me",
				Members:            []TeamMember{{Name: "Chen", Role: "lead"}, {Name: "Dana"}, {Name: "Eli"}},
				ProblemStatementID: "ps-2",
				RoomNumber:         "A1",
				TableNumber:        "2",
				OnboardingStatus:   StatusNotStarted,
				Sessions:           []Session{},
				CreatedAt:          now,
			},
		},
		Volunteers: []Volunteer{
			{ID: "vol-1", UserID: "user-volunteer-1", Name: "Priya Volunteer", Email: "volunteer@hackathon.local", AssignedTeamIDs: []string{}},
		},
		Judges: []Judge{
			{ID: "judge-1", UserID: "user-judge-1", Name: "Jordan Judge", Email: "judge@hackathon.local", Expertise: "AI/ML", AssignedTeamIDs: []string{}},
		},
		Announcements: []Announcement{
			{ID: "ann-welcome", Message: "Welcome! Check in at the front desk to start your clock.", CreatedAt: now, Author: "Event Admin", Priority: PriorityImportant, IsSticky: true, Category: "general"},
		},
		Config: HackathonConfig{
			Name:             "Campus Hackathon",
			Venue:            "Main Hall",
			StartTime:        start,
			EndTime:          end,
			SubmissionsOpen:  true,
			MaxTeamSize:      MaxTeamMembers,
			JudgingRounds:    []string{"round1", "round2"},
			RegistrationOpen: true,
		},
		Schedule: []ScheduleItem{
			{ID: "sched-1", Title: "Opening Ceremony", StartTime: start, EndTime: start.Add(time.Hour), Location: "Main Hall"},
			{ID: "sched-2", Title: "Hacking Begins", StartTime: start.Add(time.Hour), EndTime: end.Add(-2 * time.Hour), Location: "Rooms A-C"},
			{ID: "sched-3", Title: "Judging", StartTime: end.Add(-2 * time.Hour), EndTime: end, Location: "Main Hall"},
		},
		ProblemStatements: []ProblemStatement{
			{ID: "ps-1", Title: "Campus Navigation", Description: "Help students find their way around campus.", Track: "Open Innovation"},
			{ID: "ps-2", Title: "Sustainable Canteen", Description: "Reduce food waste in the campus canteen.", Track: "Sustainability"},
		},
		HelpRequests: []HelpRequest{},
	}
}
