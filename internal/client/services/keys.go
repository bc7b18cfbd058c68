package services

import (
	"strconv"

	"github.com/dataport/uplink/internal/client/cache"
	"github.com/dataport/uplink/internal/client/models"
)

// Cache keys used across the services. Op tags form a hierarchy: a pattern
// invalidates the exact op plus everything nested under it, so "admin/users"
// drops every cached page of the user listing without touching
// "admin/storage-accounts".
func keyFiles() cache.Key            { return cache.Key{Op: "files"} }
func keyContainerOptions() cache.Key { return cache.Key{Op: "containers"} }
func keyAccounts() cache.Key         { return cache.Key{Op: "admin/storage-accounts"} }
func keyContainers() cache.Key       { return cache.Key{Op: "admin/containers"} }

func keyUsers(p models.ListParams) cache.Key {
	return cache.Key{
		Op:   "admin/users",
		Args: []string{p.Search, strconv.Itoa(p.Page), strconv.Itoa(p.Limit)},
	}
}
