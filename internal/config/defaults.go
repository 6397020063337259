package config

const (
	defaultDataDir            = "~/.local/share/tvindex"
	defaultLogDir             = "~/.local/share/tvindex/logs"
	defaultBackend            = BackendBolt
	defaultDBFile             = "catalog.db"
	defaultQueueLog           = "download_queue.txt"
	defaultLockTimeoutSeconds = 1
	defaultRawPagesDir        = "raw"
	defaultSubscriptionsFile  = "show_subscriptions.json"
	defaultStripShowSuffix    = " Torrent"
	defaultDateLayout         = "2, January, 2006"
	defaultBind               = "127.0.0.1:8080"
	defaultMaxBodyMiB         = 10
)

// Storage backends accepted by catalog.backend.
const (
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

// Parser names accepted by server.siteparsers.
const (
	ParserEZTV    = "eztv"
	ParserArchive = "archive"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Catalog: Catalog{
			Backend:            defaultBackend,
			DBFile:             defaultDBFile,
			QueueLog:           defaultQueueLog,
			LockTimeoutSeconds: defaultLockTimeoutSeconds,
		},
		Ingest: Ingest{
			RawPagesDir:       defaultRawPagesDir,
			SubscriptionsFile: defaultSubscriptionsFile,
			StripShowSuffix:   defaultStripShowSuffix,
			DateLayout:        defaultDateLayout,
		},
		Server: Server{
			Bind:       defaultBind,
			MaxBodyMiB: defaultMaxBodyMiB,
			SiteParsers: []SiteParser{
				{Pattern: `eztv\.`, Parser: ParserEZTV},
			},
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
