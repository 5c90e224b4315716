package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/grantmatch/grant-match-api/internal/engine"
	"github.com/grantmatch/grant-match-api/internal/models"
	"github.com/grantmatch/grant-match-api/internal/repository"
)

// In-memory repository fakes shared by the service tests.

type mockProfileRepository struct {
	profiles map[uuid.UUID]*models.BusinessProfile
}

func newMockProfileRepository() *mockProfileRepository {
	return &mockProfileRepository{profiles: make(map[uuid.UUID]*models.BusinessProfile)}
}

func (m *mockProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BusinessProfile, error) {
	profile, ok := m.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *profile
	return &copied, nil
}

func (m *mockProfileRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*models.BusinessProfile, error) {
	for _, profile := range m.profiles {
		if profile.UserID == userID {
			copied := *profile
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockProfileRepository) GetAllIDs(ctx context.Context) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(m.profiles))
	for id := range m.profiles {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *mockProfileRepository) Create(ctx context.Context, profile *models.BusinessProfile) error {
	copied := *profile
	m.profiles[profile.ID] = &copied
	return nil
}

func (m *mockProfileRepository) Update(ctx context.Context, profile *models.BusinessProfile) error {
	if _, ok := m.profiles[profile.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *profile
	m.profiles[profile.ID] = &copied
	return nil
}

type mockGrantRepository struct {
	grants []models.GrantOpportunity
}

func (m *mockGrantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.GrantOpportunity, error) {
	for i := range m.grants {
		if m.grants[i].ID == id {
			copied := m.grants[i]
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockGrantRepository) GetAll(ctx context.Context, filters models.GrantFilters) ([]models.GrantOpportunity, error) {
	return append([]models.GrantOpportunity(nil), m.grants...), nil
}

func (m *mockGrantRepository) Create(ctx context.Context, grant *models.GrantOpportunity) error {
	m.grants = append(m.grants, *grant)
	return nil
}

type mockApplicationRepository struct {
	applications map[uuid.UUID][]models.GrantApplication
}

func newMockApplicationRepository() *mockApplicationRepository {
	return &mockApplicationRepository{applications: make(map[uuid.UUID][]models.GrantApplication)}
}

func (m *mockApplicationRepository) GetByProfile(ctx context.Context, profileID uuid.UUID) ([]models.GrantApplication, error) {
	return m.applications[profileID], nil
}

func (m *mockApplicationRepository) Create(ctx context.Context, application *models.GrantApplication) error {
	m.applications[application.ProfileID] = append(m.applications[application.ProfileID], *application)
	return nil
}

type mockRecommendationRepository struct {
	stored map[uuid.UUID][]repository.StoredRecommendation
}

func newMockRecommendationRepository() *mockRecommendationRepository {
	return &mockRecommendationRepository{stored: make(map[uuid.UUID][]repository.StoredRecommendation)}
}

func (m *mockRecommendationRepository) ReplaceForProfile(ctx context.Context, profileID uuid.UUID, recommendations []engine.Recommendation) error {
	stored := make([]repository.StoredRecommendation, 0, len(recommendations))
	now := time.Now()
	for _, rec := range recommendations {
		row, err := repository.NewStoredRecommendation(profileID, rec, now)
		if err != nil {
			return err
		}
		stored = append(stored, *row)
	}
	m.stored[profileID] = stored
	return nil
}

func (m *mockRecommendationRepository) GetByProfile(ctx context.Context, profileID uuid.UUID) ([]repository.StoredRecommendation, error) {
	return m.stored[profileID], nil
}

type mockUserRepository struct {
	users map[uuid.UUID]*models.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[uuid.UUID]*models.User)}
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

// mockTransactionManager runs the callback against the same repositories
// without a real transaction.
type mockTransactionManager struct {
	repos *repository.Repositories
}

func (m *mockTransactionManager) WithTransaction(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	return fn(m.repos)
}
