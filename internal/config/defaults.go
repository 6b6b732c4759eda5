package config

const (
	defaultWorkDir          = "~/.local/share/mediaconv/work"
	defaultLogDir           = "~/.local/share/mediaconv/logs"
	defaultHistoryDB        = "~/.local/share/mediaconv/history.db"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 60
	defaultSegmentTime      = 10
	defaultThumbnailSize    = "320x180"
	defaultHistoryLimit     = 1000
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:   defaultWorkDir,
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
		},
		Conversion: Conversion{
			SegmentTime:   defaultSegmentTime,
			ThumbnailSize: defaultThumbnailSize,
		},
		History: History{
			Enabled: true,
			Limit:   defaultHistoryLimit,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
