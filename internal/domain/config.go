package domain

import "time"

// Config represents the teamsort configuration loaded from teamsort.yaml.
type Config struct {
	Server  ServerConfig
	History HistoryConfig
	Paths   PathsConfig
}

type ServerConfig struct {
	BaseURL      string
	UploadPath   string
	DownloadPath string

	// OutputField is a JSONPath expression locating the output file name
	// in the upload response.
	OutputField string

	Timeout time.Duration
}

type HistoryConfig struct {
	Enabled bool
}

type PathsConfig struct {
	HistoryDir   string
	LogsDir      string
	DownloadsDir string
}

// DefaultConfig provides sane defaults if teamsort.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			BaseURL:      "http://localhost:5000",
			UploadPath:   "/api/upload",
			DownloadPath: "/api/download",
			OutputField:  "$.output_file",
			Timeout:      60 * time.Second,
		},
		History: HistoryConfig{Enabled: true},
		Paths: PathsConfig{
			HistoryDir:   ".teamsort/history",
			LogsDir:      ".teamsort/logs",
			DownloadsDir: "downloads",
		},
	}
}
