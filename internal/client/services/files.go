package services

import (
	"context"
	"time"

	"github.com/dataport/uplink/internal/client/api"
	"github.com/dataport/uplink/internal/client/models"
	"github.com/dataport/uplink/internal/client/query"
)

// FileService serves the authenticated user's read models: the file
// listing and the available container options. All reads go through the
// cache; List uses the short staleness window because uploads change it
// often, ContainerOptions the long one because only an administrator can
// change containers.
type FileService interface {
	List(ctx context.Context) ([]models.StoredFile, error)
	Refresh(ctx context.Context) ([]models.StoredFile, error)
	ContainerOptions(ctx context.Context) ([]models.ContainerOption, error)
}

type fileService struct {
	client      api.Client
	ex          *query.Executor
	windowShort time.Duration
	windowLong  time.Duration
}

func NewFileService(client api.Client, ex *query.Executor, windowShort, windowLong time.Duration) FileService {
	return &fileService{client: client, ex: ex, windowShort: windowShort, windowLong: windowLong}
}

func (f *fileService) List(ctx context.Context) ([]models.StoredFile, error) {
	return query.Execute(ctx, f.ex, keyFiles(), f.windowShort, f.client.ListFiles)
}

// Refresh bypasses freshness and always refetches the listing.
func (f *fileService) Refresh(ctx context.Context) ([]models.StoredFile, error) {
	return query.Refetch(ctx, f.ex, keyFiles(), f.windowShort, f.client.ListFiles)
}

func (f *fileService) ContainerOptions(ctx context.Context) ([]models.ContainerOption, error) {
	return query.Execute(ctx, f.ex, keyContainerOptions(), f.windowLong, f.client.ContainerOptions)
}
