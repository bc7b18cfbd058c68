package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dataport/uplink/internal/client/api"
	"github.com/dataport/uplink/internal/client/cache"
	"github.com/dataport/uplink/internal/client/config"
	"github.com/dataport/uplink/internal/client/query"
	"github.com/dataport/uplink/internal/client/repositories/journal"
	"github.com/dataport/uplink/internal/client/services"
	"github.com/dataport/uplink/internal/client/upload"
	"github.com/dataport/uplink/internal/client/views"
	"github.com/dataport/uplink/internal/filex"
	"github.com/dataport/uplink/internal/logging"
)

// App holds the wired client application. Commands are methods on App;
// the REPL dispatches to them through the execIface seam.
type App struct {
	cfg     *config.Config
	log     logging.Logger
	client  api.Client
	auth    services.AuthService
	files   services.FileService
	admin   services.AdminService
	uploads *upload.Manager
	journal journal.Repository

	stats       *views.StatsView
	activity    *views.ActivityView
	storageInfo *views.StorageInfoView

	db     *sql.DB
	reader *bufio.Reader
	out    io.Writer
}

// NewApp wires the full client stack from configuration: REST client,
// cache store with executor and invalidation bus, sqlite upload journal,
// upload manager and the application services.
func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	apiClient := api.NewHTTPClient(cfg.ServerBaseURL, cfg.RequestTimeout)

	store := cache.NewStore()
	ex := query.NewExecutor(store, log, cfg.SweepMaxAge)
	bus := query.NewBus(store, log)

	if _, err := filex.EnsureDir(filepath.Dir(cfg.JournalPath)); err != nil {
		return nil, fmt.Errorf("preparing journal directory: %w", err)
	}
	db, err := journal.Open(ctx, cfg.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	journalRepo := journal.NewSQLiteRepository(db)

	transport := upload.NewHTTPTransport(cfg.ServerBaseURL, cfg.RequestTimeout, cfg.ChunkSizeBytes, apiClient.Token)
	restrictions := upload.Restrictions{
		MaxFileSize:      cfg.MaxFileSizeBytes,
		MaxNumberOfFiles: cfg.MaxNumberOfFiles,
		AllowedTypes:     cfg.AllowedTypes,
	}
	uploads := upload.NewManager(restrictions, transport, cfg.ConcurrentTransfers, bus, journalRepo, log)

	return &App{
		cfg:     cfg,
		log:     log,
		client:  apiClient,
		auth:    services.NewAuthService(apiClient, bus, log),
		files:   services.NewFileService(apiClient, ex, cfg.StaleWindowShort, cfg.StaleWindowLong),
		admin:   services.NewAdminService(apiClient, ex, bus, cfg.StaleWindowShort, cfg.StaleWindowLong),
		uploads: uploads,
		journal: journalRepo,

		stats:       views.NewStatsView(apiClient, ex, cfg.StaleWindowShort),
		activity:    views.NewActivityView(apiClient, ex, cfg.StaleWindowShort, activityLimit),
		storageInfo: views.NewStorageInfoView(apiClient, ex, cfg.StaleWindowLong),

		db:     db,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

// Run starts the upload event printer and the REPL, then tears the
// application down when the user exits.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Uplink CLI (type 'help' for commands)")

	done := make(chan struct{})
	go func() {
		defer close(done)
		a.watchEvents()
	}()

	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))

	a.uploads.Close()
	<-done
	if a.db != nil {
		_ = a.db.Close()
	}
}

// status renders the prompt suffix: the logged-in user and role, if any.
func (a *App) status() string {
	s, ok := a.auth.Current()
	if !ok {
		return ""
	}
	return fmt.Sprintf("(%s %s)", s.User.Email, s.User.Role)
}
