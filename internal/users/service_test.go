package users

import (
	"context"
	"testing"
	"time"

	"github.com/avelius/taskboard/internal/domain"
	"github.com/avelius/taskboard/internal/identity/password"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockRepository struct {
	users map[string]*domain.User
}

func newMockRepository() *mockRepository {
	return &mockRepository{users: make(map[string]*domain.User)}
}

func (m *mockRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockRepository) List(_ context.Context, filter ListFilter) ([]domain.User, int, error) {
	matched := make([]domain.User, 0)
	for _, u := range m.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			continue
		}
		matched = append(matched, *u)
	}

	total := len(matched)
	if filter.Offset >= total {
		return []domain.User{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > total {
		end = total
	}
	return matched[filter.Offset:end], total, nil
}

func (m *mockRepository) Update(_ context.Context, user *domain.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return ErrUserNotFound
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockRepository) addUser(t *testing.T, role domain.Role, active bool, pass string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        uuid.New().String() + "@example.com",
		PasswordHash: string(hash),
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		IsActive:     active,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	m.users[user.ID] = user
	return user
}

func newTestService(repo *mockRepository) *Service {
	return NewService(repo, password.NewHasher(bcrypt.MinCost))
}

func TestUpdateProfile(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	user := repo.addUser(t, domain.RoleUser, true, "secret-pass")

	updated, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		FirstName: "Alice",
		LastName:  "Smith",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.FirstName)
	assert.Equal(t, "Smith", updated.LastName)

	stored, err := svc.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", stored.FullName())
}

func TestUpdateProfile_NotFound(t *testing.T) {
	svc := newTestService(newMockRepository())

	_, err := svc.UpdateProfile(context.Background(), "missing", UpdateProfileInput{FirstName: "A", LastName: "B"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDelete(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	admin := repo.addUser(t, domain.RoleAdmin, true, "admin-pass")
	user := repo.addUser(t, domain.RoleUser, true, "user-pass")

	require.NoError(t, svc.Delete(context.Background(), admin.ID, user.ID))

	_, err := svc.GetByID(context.Background(), user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDelete_Self(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	admin := repo.addUser(t, domain.RoleAdmin, true, "admin-pass")

	err := svc.Delete(context.Background(), admin.ID, admin.ID)
	assert.ErrorIs(t, err, ErrSelfAction)

	_, err = svc.GetByID(context.Background(), admin.ID)
	assert.NoError(t, err)
}

func TestChangeRole(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	admin := repo.addUser(t, domain.RoleAdmin, true, "admin-pass")
	user := repo.addUser(t, domain.RoleUser, true, "user-pass")

	updated, err := svc.ChangeRole(context.Background(), admin.ID, user.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, updated.Role)
}

func TestChangeRole_Self(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	admin := repo.addUser(t, domain.RoleAdmin, true, "admin-pass")

	_, err := svc.ChangeRole(context.Background(), admin.ID, admin.ID, domain.RoleUser)
	assert.ErrorIs(t, err, ErrSelfAction)
}

func TestChangeRole_InvalidRole(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	admin := repo.addUser(t, domain.RoleAdmin, true, "admin-pass")
	user := repo.addUser(t, domain.RoleUser, true, "user-pass")

	_, err := svc.ChangeRole(context.Background(), admin.ID, user.ID, domain.Role("superuser"))
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestSetActive(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	admin := repo.addUser(t, domain.RoleAdmin, true, "admin-pass")
	user := repo.addUser(t, domain.RoleUser, true, "user-pass")

	updated, err := svc.SetActive(context.Background(), admin.ID, user.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	updated, err = svc.SetActive(context.Background(), admin.ID, user.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsActive)
}

func TestSetActive_Self(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	admin := repo.addUser(t, domain.RoleAdmin, true, "admin-pass")

	_, err := svc.SetActive(context.Background(), admin.ID, admin.ID, false)
	assert.ErrorIs(t, err, ErrSelfAction)
}

func TestChangePassword(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	user := repo.addUser(t, domain.RoleUser, true, "old-password")

	err := svc.ChangePassword(context.Background(), user.ID, "old-password", "new-password")
	require.NoError(t, err)

	stored, err := svc.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-password")))
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	user := repo.addUser(t, domain.RoleUser, true, "old-password")

	err := svc.ChangePassword(context.Background(), user.ID, "wrong-password", "new-password")
	assert.ErrorIs(t, err, ErrInvalidCurrentPassword)

	stored, err := svc.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("old-password")))
}

func TestChangePassword_EmptyNew(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	user := repo.addUser(t, domain.RoleUser, true, "old-password")

	err := svc.ChangePassword(context.Background(), user.ID, "old-password", "")
	assert.ErrorIs(t, err, password.ErrEmptyPassword)
}

func TestList_Filtering(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	repo.addUser(t, domain.RoleAdmin, true, "p1")
	repo.addUser(t, domain.RoleUser, true, "p2")
	repo.addUser(t, domain.RoleUser, false, "p3")

	adminRole := domain.RoleAdmin
	list, total, err := svc.List(context.Background(), ListFilter{Role: &adminRole, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, domain.RoleAdmin, list[0].Role)

	inactive := false
	list, total, err = svc.List(context.Background(), ListFilter{IsActive: &inactive, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsActive)
}
