package mocks

import (
	"context"

	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

// MockBlobStore is a mock implementation of ports.BlobStore
type MockBlobStore struct {
	mock.Mock
}

func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{}
}

func (m *MockBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockBlobStore) Set(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockBlobStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockDocumentRepository is a mock implementation of ports.DocumentRepository.
// Update runs fn against the document returned by the expectation.
type MockDocumentRepository struct {
	mock.Mock
}

func NewMockDocumentRepository() *MockDocumentRepository {
	return &MockDocumentRepository{}
}

func (m *MockDocumentRepository) Load(ctx context.Context) (*domain.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) Replace(ctx context.Context, doc *domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) Update(ctx context.Context, fn func(doc *domain.Document) error) (*domain.Document, error) {
	args := m.Called(ctx, fn)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	doc, _ := args.Get(0).(*domain.Document)
	if doc == nil {
		return nil, nil
	}
	if err := fn(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (m *MockDocumentRepository) Reset(ctx context.Context) (*domain.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

// MockEventPublisher is a mock implementation of ports.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) Publish(ctx context.Context, evt domain.Event) domain.Event {
	m.Called(ctx, evt)
	return evt
}

// MockNotifier is a mock implementation of ports.Notifier
type MockNotifier struct {
	mock.Mock
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) ShowNotification(ctx context.Context, title string, opts ports.NotificationOptions) {
	m.Called(ctx, title, opts)
}

// MockTeamService is a mock implementation of ports.TeamService
type MockTeamService struct {
	mock.Mock
}

func NewMockTeamService() *MockTeamService {
	return &MockTeamService{}
}

func (m *MockTeamService) ListTeams(ctx context.Context) ([]domain.Team, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Team), args.Error(1)
}

func (m *MockTeamService) GetTeam(ctx context.Context, teamID string) (*domain.Team, error) {
	args := m.Called(ctx, teamID)
	return teamResult(args)
}

func (m *MockTeamService) CreateTeam(ctx context.Context, params domain.TeamParams) (*domain.Team, error) {
	args := m.Called(ctx, params)
	return teamResult(args)
}

func (m *MockTeamService) UpdateTeam(ctx context.Context, teamID string, patch domain.TeamPatch, opts ...ports.UpdateOption) (*domain.Team, error) {
	args := m.Called(ctx, teamID, patch)
	return teamResult(args)
}

func (m *MockTeamService) CheckInTeam(ctx context.Context, teamID string) (*domain.Team, error) {
	args := m.Called(ctx, teamID)
	return teamResult(args)
}

func (m *MockTeamService) SubmitProject(ctx context.Context, teamID string, submission domain.Submission) (*domain.Team, error) {
	args := m.Called(ctx, teamID, submission)
	return teamResult(args)
}

func (m *MockTeamService) UpdateScore(ctx context.Context, teamID string, score float64) (*domain.Team, error) {
	args := m.Called(ctx, teamID, score)
	return teamResult(args)
}

func (m *MockTeamService) UpdateJudging(ctx context.Context, params ports.UpdateJudgingParams) (*domain.Team, error) {
	args := m.Called(ctx, params)
	return teamResult(args)
}

func (m *MockTeamService) AssignJudge(ctx context.Context, teamID, judgeID string) (*domain.Team, error) {
	args := m.Called(ctx, teamID, judgeID)
	return teamResult(args)
}

// MockTimeTrackingService is a mock implementation of ports.TimeTrackingService
type MockTimeTrackingService struct {
	mock.Mock
}

func NewMockTimeTrackingService() *MockTimeTrackingService {
	return &MockTimeTrackingService{}
}

func (m *MockTimeTrackingService) StartOnboarding(ctx context.Context, teamID string) (*domain.Team, error) {
	args := m.Called(ctx, teamID)
	return teamResult(args)
}

func (m *MockTimeTrackingService) StartBreak(ctx context.Context, teamID, reason string) (*domain.Team, error) {
	args := m.Called(ctx, teamID, reason)
	return teamResult(args)
}

func (m *MockTimeTrackingService) EndBreak(ctx context.Context, teamID string) (*domain.Team, error) {
	args := m.Called(ctx, teamID)
	return teamResult(args)
}

func (m *MockTimeTrackingService) CompleteOnboarding(ctx context.Context, teamID string) (*domain.Team, error) {
	args := m.Called(ctx, teamID)
	return teamResult(args)
}

func (m *MockTimeTrackingService) Timer(ctx context.Context, teamID string) (*ports.TeamTimer, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.TeamTimer), args.Error(1)
}

// MockAnnouncementService is a mock implementation of ports.AnnouncementService
type MockAnnouncementService struct {
	mock.Mock
}

func NewMockAnnouncementService() *MockAnnouncementService {
	return &MockAnnouncementService{}
}

func (m *MockAnnouncementService) ListAnnouncements(ctx context.Context) ([]domain.Announcement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Announcement), args.Error(1)
}

func (m *MockAnnouncementService) PostAnnouncement(ctx context.Context, params domain.AnnouncementParams) (*domain.Announcement, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Announcement), args.Error(1)
}

func (m *MockAnnouncementService) DeleteAnnouncement(ctx context.Context, announcementID string) error {
	args := m.Called(ctx, announcementID)
	return args.Error(0)
}

// MockVolunteerService is a mock implementation of ports.VolunteerService
type MockVolunteerService struct {
	mock.Mock
}

func NewMockVolunteerService() *MockVolunteerService {
	return &MockVolunteerService{}
}

func (m *MockVolunteerService) ListVolunteers(ctx context.Context) ([]domain.Volunteer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Volunteer), args.Error(1)
}

func (m *MockVolunteerService) AssignVolunteer(ctx context.Context, volunteerID string, teamIDs []string) (*domain.Volunteer, error) {
	args := m.Called(ctx, volunteerID, teamIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Volunteer), args.Error(1)
}

// MockHelpService is a mock implementation of ports.HelpService
type MockHelpService struct {
	mock.Mock
}

func NewMockHelpService() *MockHelpService {
	return &MockHelpService{}
}

func (m *MockHelpService) ListHelpRequests(ctx context.Context) ([]domain.HelpRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HelpRequest), args.Error(1)
}

func (m *MockHelpService) RequestHelp(ctx context.Context, teamID, message string) (*domain.HelpRequest, error) {
	args := m.Called(ctx, teamID, message)
	return helpResult(args)
}

func (m *MockHelpService) UpdateHelpRequestStatus(ctx context.Context, requestID string, status domain.HelpStatus, volunteerID string) (*domain.HelpRequest, error) {
	args := m.Called(ctx, requestID, status, volunteerID)
	return helpResult(args)
}

// MockScheduleService is a mock implementation of ports.ScheduleService
type MockScheduleService struct {
	mock.Mock
}

func NewMockScheduleService() *MockScheduleService {
	return &MockScheduleService{}
}

func (m *MockScheduleService) GetSchedule(ctx context.Context) ([]domain.ScheduleItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScheduleItem), args.Error(1)
}

func (m *MockScheduleService) UpdateSchedule(ctx context.Context, items []domain.ScheduleItem) ([]domain.ScheduleItem, error) {
	args := m.Called(ctx, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScheduleItem), args.Error(1)
}

// MockAuthService is a mock implementation of ports.AuthService
type MockAuthService struct {
	mock.Mock
}

func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) Login(ctx context.Context, params domain.LoginParams) (*domain.User, error) {
	args := m.Called(ctx, params)
	return userResult(args)
}

func (m *MockAuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	return userResult(args)
}

// MockAdminService is a mock implementation of ports.AdminService
type MockAdminService struct {
	mock.Mock
}

func NewMockAdminService() *MockAdminService {
	return &MockAdminService{}
}

func (m *MockAdminService) Snapshot(ctx context.Context) (*domain.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockAdminService) ResetDocument(ctx context.Context) (*domain.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func teamResult(args mock.Arguments) (*domain.Team, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Team), args.Error(1)
}

func helpResult(args mock.Arguments) (*domain.HelpRequest, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HelpRequest), args.Error(1)
}

func userResult(args mock.Arguments) (*domain.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
