// Package models defines the wire and domain types exchanged with the
// DataPort portal backend.
package models

import "time"

// User is a portal account as returned by the admin endpoints.
type User struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Role           string     `json:"role"`
	IsActive       bool       `json:"isActive"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`
	StorageAccount string     `json:"storageAccount"`
	Container      string     `json:"container"`

	// TemporaryPassword is only present in the create-user response; the
	// admin hands it to the user for first login.
	TemporaryPassword string `json:"temporaryPassword,omitempty"`
}

// SessionUser is the identity block returned by the auth endpoints.
type SessionUser struct {
	Email              string `json:"email"`
	Name               string `json:"name"`
	Role               string `json:"role"`
	NeedsPasswordSetup bool   `json:"needs_password_setup"`
}

// LoginResult carries the outcome of login/set-password calls.
type LoginResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        SessionUser `json:"user"`
}

// StoredFile is the server-side record of a completed upload. It is a
// separate entity from the client-side upload item: the backend creates it
// and the client merely reflects it back into listings.
type StoredFile struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
	Status      string    `json:"status,omitempty"`
	URL         string    `json:"url"`
}

// StorageInfo describes the storage destination assigned to the current user.
type StorageInfo struct {
	AccountName   string `json:"account_name"`
	ContainerName string `json:"container_name"`
	Location      string `json:"location"`
}

// ContainerOption is a container joined with its storage account, used for
// destination drop-downs.
type ContainerOption struct {
	ContainerID        string `json:"container_id"`
	ContainerName      string `json:"container_name"`
	StorageAccountID   string `json:"storage_account_id"`
	StorageAccountName string `json:"storage_account_name"`
	Location           string `json:"location"`
	DisplayName        string `json:"display_name"`
}

// Container is a single container inside a storage account, enriched with
// usage statistics by the backend.
type Container struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Size         string     `json:"size"`
	Files        int        `json:"files"`
	LastModified *time.Time `json:"lastModified,omitempty"`
}

// StorageAccount is a cloud storage destination managed by administrators.
type StorageAccount struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	ConnectionString string      `json:"connectionString"`
	Location         string      `json:"location"`
	IsActive         bool        `json:"isActive"`
	CreatedAt        *time.Time  `json:"createdAt,omitempty"`
	Containers       []Container `json:"containers,omitempty"`
}

// AdminStats is the admin dashboard aggregate.
type AdminStats struct {
	TotalUsers        int    `json:"total_users"`
	ActiveUsers       int    `json:"active_users"`
	InactiveUsers     int    `json:"inactive_users"`
	TotalUploads      int    `json:"total_uploads"`
	SuccessfulUploads int    `json:"successful_uploads"`
	FailedUploads     int    `json:"failed_uploads"`
	StorageUsed       string `json:"storage_used"`
}

// ActivityEntry is one row of the recent-activity feed.
type ActivityEntry struct {
	ID      int       `json:"id"`
	User    string    `json:"user"`
	Action  string    `json:"action"`
	Time    time.Time `json:"time"`
	Status  string    `json:"status"`
	Details string    `json:"details"`
}

// UserPage is a paginated user listing.
type UserPage struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Pages int    `json:"pages"`
}

// ListParams are the pagination and search parameters accepted by admin
// list endpoints. They are part of the cache key: distinct pages are cached
// separately.
type ListParams struct {
	Search string
	Page   int
	Limit  int
}

// UserRequest is the payload for creating or updating a user.
type UserRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	ContainerID string `json:"container_id"`
	IsActive    bool   `json:"is_active"`
}

// StorageAccountRequest is the payload for creating or updating a storage
// account.
type StorageAccountRequest struct {
	Name             string `json:"name"`
	ConnectionString string `json:"connection_string"`
	Location         string `json:"location"`
	IsActive         bool   `json:"is_active"`
}

// ContainerRequest is the payload for creating a container.
type ContainerRequest struct {
	Name      string `json:"name"`
	AccountID string `json:"account_id"`
}

// JournalRecord is a locally persisted note of a completed upload, kept so
// the history survives across CLI sessions.
type JournalRecord struct {
	ID         string
	FileID     string
	Filename   string
	SizeBytes  int64
	UploadedAt time.Time
}
