// Package api implements the REST client for the DataPort portal backend.
// It owns bearer-token handling, error-taxonomy mapping and bounded retries
// for idempotent reads; everything above it (cache, services, views) only
// sees the Client interface.
package api

import (
	"context"

	"github.com/dataport/uplink/internal/client/models"
)

// Client is the portal backend surface the application depends on. The
// concrete implementation is HTTPClient; tests substitute fakes.
type Client interface {
	// Auth.
	Login(ctx context.Context, email, password string) (*models.LoginResult, error)
	SetPassword(ctx context.Context, email, newPassword string) (*models.LoginResult, error)

	// Files and storage, for the authenticated user.
	ListFiles(ctx context.Context) ([]models.StoredFile, error)
	StorageInfo(ctx context.Context) (*models.StorageInfo, error)
	ContainerOptions(ctx context.Context) ([]models.ContainerOption, error)

	// Admin dashboard.
	AdminStats(ctx context.Context) (*models.AdminStats, error)
	RecentActivity(ctx context.Context, limit int) ([]models.ActivityEntry, error)

	// Admin: user management.
	ListUsers(ctx context.Context, p models.ListParams) (*models.UserPage, error)
	CreateUser(ctx context.Context, req models.UserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, id string, req models.UserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	ToggleUser(ctx context.Context, id string) (*models.User, error)

	// Admin: storage accounts and containers.
	ListStorageAccounts(ctx context.Context) ([]models.StorageAccount, error)
	CreateStorageAccount(ctx context.Context, req models.StorageAccountRequest) (*models.StorageAccount, error)
	UpdateStorageAccount(ctx context.Context, id string, req models.StorageAccountRequest) (*models.StorageAccount, error)
	DeleteStorageAccount(ctx context.Context, id string) error
	ContainersWithAccounts(ctx context.Context) ([]models.ContainerOption, error)
	CreateContainer(ctx context.Context, req models.ContainerRequest) (*models.Container, error)
	DeleteContainer(ctx context.Context, id string) error

	// Token management. SetToken("") drops the session.
	SetToken(token string)
	Token() string
}
