package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/internal/models"
	appErrors "github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/pkg/errors"
)

type mockUserRepo struct {
	users   map[string]*models.User
	created []*models.User
	deleted []string
	listErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[string]*models.User{}}
}

func (m *mockUserRepo) List(ctx context.Context) ([]models.User, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if u, ok := m.users[username]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	m.users[user.Username] = user
	m.created = append(m.created, user)
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) (bool, error) {
	for username, u := range m.users {
		if u.ID == id {
			delete(m.users, username)
			m.deleted = append(m.deleted, id)
			return true, nil
		}
	}
	return false, nil
}

func TestUserServiceCreateHashesPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, nil, nil)

	user, err := svc.Create(context.Background(), CreateUserRequest{
		Username: "est1",
		Password: "clave123",
		Role:     models.RoleEstudiante,
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	assert.Equal(t, models.RoleEstudiante, user.Role)
	assert.NotEqual(t, "clave123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("clave123")))
}

func TestUserServiceCreateRefusesAdminRole(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Username: "otroadmin",
		Password: "clave123",
		Role:     models.RoleAdmin,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Empty(t, repo.created)
}

func TestUserServiceCreateRejectsShortPassword(t *testing.T) {
	svc := NewUserService(newMockUserRepo(), nil, nil)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Username: "est1",
		Password: "corta",
		Role:     models.RoleEstudiante,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErrors.FromError(err).Status)
}

func TestUserServiceCreateRejectsUnknownRole(t *testing.T) {
	svc := NewUserService(newMockUserRepo(), nil, nil)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Username: "est1",
		Password: "clave123",
		Role:     models.UserRole("Director"),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErrors.FromError(err).Status)
}

func TestUserServiceCreateDuplicateUsername(t *testing.T) {
	repo := newMockUserRepo()
	repo.users["est1"] = &models.User{ID: "u1", Username: "est1", Role: models.RoleEstudiante}
	svc := NewUserService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Username: "est1",
		Password: "clave123",
		Role:     models.RoleEstudiante,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, appErrors.ErrDuplicateUser.Code, appErr.Code)
}

func TestUserServiceDelete(t *testing.T) {
	repo := newMockUserRepo()
	repo.users["est1"] = &models.User{ID: "u1", Username: "est1", Role: models.RoleEstudiante}
	svc := NewUserService(repo, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "u1"))
	assert.Equal(t, []string{"u1"}, repo.deleted)
}

func TestUserServiceDeleteMissingUser(t *testing.T) {
	svc := NewUserService(newMockUserRepo(), nil, nil)

	err := svc.Delete(context.Background(), "no-such-id")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestUserServiceList(t *testing.T) {
	repo := newMockUserRepo()
	repo.users["est1"] = &models.User{ID: "u1", Username: "est1", Role: models.RoleEstudiante}
	repo.users["profe"] = &models.User{ID: "u2", Username: "profe", Role: models.RoleProfesor}
	svc := NewUserService(repo, nil, nil)

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
