package services

import (
	"context"
	"time"

	"github.com/dataport/uplink/internal/client/api"
	"github.com/dataport/uplink/internal/client/models"
	"github.com/dataport/uplink/internal/client/query"
)

// Invalidation sets for admin mutations. Each mutation evicts the listings
// it changes plus the dashboard aggregates derived from them. A failed
// mutation (validation, conflict) invalidates nothing: the cached state is
// still correct.
var (
	invalidateOnUserChange      = []string{"admin/users", "admin/stats", "admin/activity"}
	invalidateOnAccountChange   = []string{"admin/storage-accounts", "admin/containers", "containers", "user/storage-info"}
	invalidateOnContainerChange = []string{"admin/containers", "admin/storage-accounts", "containers", "user/storage-info"}
)

// AdminService covers the administrator surface: user management and
// storage account/container management. The dashboard aggregates live in
// the views package; mutations here publish the patterns those views are
// keyed under.
type AdminService interface {
	Users(ctx context.Context, p models.ListParams) (*models.UserPage, error)
	CreateUser(ctx context.Context, req models.UserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, id string, req models.UserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	ToggleUser(ctx context.Context, id string) (*models.User, error)

	StorageAccounts(ctx context.Context) ([]models.StorageAccount, error)
	CreateStorageAccount(ctx context.Context, req models.StorageAccountRequest) (*models.StorageAccount, error)
	UpdateStorageAccount(ctx context.Context, id string, req models.StorageAccountRequest) (*models.StorageAccount, error)
	DeleteStorageAccount(ctx context.Context, id string) error

	Containers(ctx context.Context) ([]models.ContainerOption, error)
	CreateContainer(ctx context.Context, req models.ContainerRequest) (*models.Container, error)
	DeleteContainer(ctx context.Context, id string) error
}

type adminService struct {
	client      api.Client
	ex          *query.Executor
	bus         *query.Bus
	windowShort time.Duration
	windowLong  time.Duration
}

func NewAdminService(client api.Client, ex *query.Executor, bus *query.Bus, windowShort, windowLong time.Duration) AdminService {
	return &adminService{client: client, ex: ex, bus: bus, windowShort: windowShort, windowLong: windowLong}
}

func (a *adminService) Users(ctx context.Context, p models.ListParams) (*models.UserPage, error) {
	return query.Execute(ctx, a.ex, keyUsers(p), a.windowShort,
		func(ctx context.Context) (*models.UserPage, error) {
			return a.client.ListUsers(ctx, p)
		})
}

func (a *adminService) CreateUser(ctx context.Context, req models.UserRequest) (*models.User, error) {
	u, err := a.client.CreateUser(ctx, req)
	if err != nil {
		return nil, err
	}
	a.bus.Notify(ctx, invalidateOnUserChange...)
	return u, nil
}

func (a *adminService) UpdateUser(ctx context.Context, id string, req models.UserRequest) (*models.User, error) {
	u, err := a.client.UpdateUser(ctx, id, req)
	if err != nil {
		return nil, err
	}
	a.bus.Notify(ctx, invalidateOnUserChange...)
	return u, nil
}

func (a *adminService) DeleteUser(ctx context.Context, id string) error {
	if err := a.client.DeleteUser(ctx, id); err != nil {
		return err
	}
	a.bus.Notify(ctx, invalidateOnUserChange...)
	return nil
}

func (a *adminService) ToggleUser(ctx context.Context, id string) (*models.User, error) {
	u, err := a.client.ToggleUser(ctx, id)
	if err != nil {
		return nil, err
	}
	a.bus.Notify(ctx, invalidateOnUserChange...)
	return u, nil
}

func (a *adminService) StorageAccounts(ctx context.Context) ([]models.StorageAccount, error) {
	return query.Execute(ctx, a.ex, keyAccounts(), a.windowLong, a.client.ListStorageAccounts)
}

func (a *adminService) CreateStorageAccount(ctx context.Context, req models.StorageAccountRequest) (*models.StorageAccount, error) {
	sa, err := a.client.CreateStorageAccount(ctx, req)
	if err != nil {
		return nil, err
	}
	a.bus.Notify(ctx, invalidateOnAccountChange...)
	return sa, nil
}

func (a *adminService) UpdateStorageAccount(ctx context.Context, id string, req models.StorageAccountRequest) (*models.StorageAccount, error) {
	sa, err := a.client.UpdateStorageAccount(ctx, id, req)
	if err != nil {
		return nil, err
	}
	a.bus.Notify(ctx, invalidateOnAccountChange...)
	return sa, nil
}

func (a *adminService) DeleteStorageAccount(ctx context.Context, id string) error {
	if err := a.client.DeleteStorageAccount(ctx, id); err != nil {
		return err
	}
	a.bus.Notify(ctx, invalidateOnAccountChange...)
	return nil
}

func (a *adminService) Containers(ctx context.Context) ([]models.ContainerOption, error) {
	return query.Execute(ctx, a.ex, keyContainers(), a.windowLong, a.client.ContainersWithAccounts)
}

func (a *adminService) CreateContainer(ctx context.Context, req models.ContainerRequest) (*models.Container, error) {
	c, err := a.client.CreateContainer(ctx, req)
	if err != nil {
		return nil, err
	}
	a.bus.Notify(ctx, invalidateOnContainerChange...)
	return c, nil
}

func (a *adminService) DeleteContainer(ctx context.Context, id string) error {
	if err := a.client.DeleteContainer(ctx, id); err != nil {
		return err
	}
	a.bus.Notify(ctx, invalidateOnContainerChange...)
	return nil
}
