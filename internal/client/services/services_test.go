package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataport/uplink/internal/client/api"
	"github.com/dataport/uplink/internal/client/cache"
	"github.com/dataport/uplink/internal/client/models"
	"github.com/dataport/uplink/internal/client/query"
	"github.com/dataport/uplink/internal/common"
)

type fakeAPI struct {
	api.Client

	// presets
	loginRes  *models.LoginResult
	loginErr  error
	files     []models.StoredFile
	filesErr  error
	userPage  *models.UserPage
	created   *models.User
	createErr error

	// recorded
	token      string
	loginCalls int
	filesCalls int
	usersCalls int
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	f.loginCalls++
	return f.loginRes, f.loginErr
}

func (f *fakeAPI) SetPassword(ctx context.Context, email, newPassword string) (*models.LoginResult, error) {
	return f.loginRes, f.loginErr
}

func (f *fakeAPI) ListFiles(ctx context.Context) ([]models.StoredFile, error) {
	f.filesCalls++
	return f.files, f.filesErr
}

func (f *fakeAPI) ListUsers(ctx context.Context, p models.ListParams) (*models.UserPage, error) {
	f.usersCalls++
	return f.userPage, nil
}

func (f *fakeAPI) CreateUser(ctx context.Context, req models.UserRequest) (*models.User, error) {
	return f.created, f.createErr
}

func (f *fakeAPI) SetToken(token string) { f.token = token }
func (f *fakeAPI) Token() string         { return f.token }

func newQueryStack() (*cache.Store, *query.Executor, *query.Bus) {
	store := cache.NewStore()
	ex := query.NewExecutor(store, nil, time.Hour)
	bus := query.NewBus(store, nil)
	return store, ex, bus
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user@example.com",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestAuth_Login_InstallsTokenAndResetsCache(t *testing.T) {
	store, _, bus := newQueryStack()
	store.Put(cache.Key{Op: "files"}, []models.StoredFile{{ID: "stale"}}, time.Now())

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	fc := &fakeAPI{loginRes: &models.LoginResult{
		AccessToken: signedToken(t, exp),
		TokenType:   "bearer",
		User:        models.SessionUser{Email: "user@example.com", Role: "user"},
	}}

	svc := NewAuthService(fc, bus, nil)
	s, err := svc.Login(context.Background(), "user@example.com", "pw")
	require.NoError(t, err)

	assert.Equal(t, "user@example.com", s.User.Email)
	assert.True(t, s.ExpiresAt.Equal(exp))
	assert.NotEmpty(t, fc.token)
	// Anything cached before login must be gone.
	assert.Equal(t, 0, store.Len())

	got, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, s, got)
}

func TestAuth_Login_Error(t *testing.T) {
	_, _, bus := newQueryStack()
	fc := &fakeAPI{loginErr: common.ErrUnauthorized}

	svc := NewAuthService(fc, bus, nil)
	_, err := svc.Login(context.Background(), "user@example.com", "wrong")
	require.ErrorIs(t, err, common.ErrUnauthorized)

	_, ok := svc.Current()
	assert.False(t, ok)
	assert.Empty(t, fc.token)
}

func TestAuth_Logout_TearsDownSessionAndCache(t *testing.T) {
	store, _, bus := newQueryStack()
	fc := &fakeAPI{loginRes: &models.LoginResult{
		AccessToken: signedToken(t, time.Now().Add(time.Hour)),
		User:        models.SessionUser{Email: "user@example.com"},
	}}

	svc := NewAuthService(fc, bus, nil)
	_, err := svc.Login(context.Background(), "user@example.com", "pw")
	require.NoError(t, err)
	store.Put(cache.Key{Op: "files"}, []models.StoredFile{{ID: "f1"}}, time.Now())

	svc.Logout(context.Background())

	assert.Empty(t, fc.token)
	assert.Equal(t, 0, store.Len())
	_, ok := svc.Current()
	assert.False(t, ok)
}

func TestTokenExpiry_Garbage(t *testing.T) {
	assert.True(t, tokenExpiry("not-a-jwt").IsZero())
}

func TestFiles_List_ServedFromCache(t *testing.T) {
	_, ex, _ := newQueryStack()
	fc := &fakeAPI{files: []models.StoredFile{{ID: "f1", Filename: "data.csv"}}}
	svc := NewFileService(fc, ex, time.Minute, time.Hour)

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	second, err := svc.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, fc.filesCalls)
}

func TestFiles_Refresh_ForcesRefetch(t *testing.T) {
	_, ex, _ := newQueryStack()
	fc := &fakeAPI{files: []models.StoredFile{{ID: "f1"}}}
	svc := NewFileService(fc, ex, time.Minute, time.Hour)

	_, err := svc.List(context.Background())
	require.NoError(t, err)
	_, err = svc.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, fc.filesCalls)
}

func TestAdmin_CreateUser_InvalidatesListings(t *testing.T) {
	store, ex, bus := newQueryStack()
	fc := &fakeAPI{
		userPage: &models.UserPage{Users: []models.User{{ID: "u1"}}, Total: 1},
		created:  &models.User{ID: "u2", TemporaryPassword: "tmp"},
	}
	svc := NewAdminService(fc, ex, bus, time.Minute, time.Hour)
	ctx := context.Background()
	p := models.ListParams{Page: 1, Limit: 10}

	_, err := svc.Users(ctx, p)
	require.NoError(t, err)
	// Stand-ins for the dashboard views keyed under admin/.
	store.Put(cache.Key{Op: "admin/stats"}, &models.AdminStats{TotalUsers: 1}, time.Now())

	u, err := svc.CreateUser(ctx, models.UserRequest{Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "tmp", u.TemporaryPassword)

	// The cached page and the dashboard aggregate are both gone.
	_, err = svc.Users(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 2, fc.usersCalls)
	_, ok := store.Get(cache.Key{Op: "admin/stats"})
	assert.False(t, ok)
}

func TestAdmin_CreateUser_ConflictKeepsCache(t *testing.T) {
	_, ex, bus := newQueryStack()
	fc := &fakeAPI{
		userPage:  &models.UserPage{Users: []models.User{{ID: "u1"}}},
		createErr: common.ErrConflict,
	}
	svc := NewAdminService(fc, ex, bus, time.Minute, time.Hour)
	ctx := context.Background()
	p := models.ListParams{Page: 1, Limit: 10}

	_, err := svc.Users(ctx, p)
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, models.UserRequest{Email: "dup@example.com"})
	require.ErrorIs(t, err, common.ErrConflict)

	_, err = svc.Users(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 1, fc.usersCalls)
}

func TestAdmin_DistinctPagesCachedSeparately(t *testing.T) {
	_, ex, bus := newQueryStack()
	fc := &fakeAPI{userPage: &models.UserPage{}}
	svc := NewAdminService(fc, ex, bus, time.Minute, time.Hour)
	ctx := context.Background()

	_, err := svc.Users(ctx, models.ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	_, err = svc.Users(ctx, models.ListParams{Page: 2, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, 2, fc.usersCalls)
}
