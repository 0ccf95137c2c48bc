package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("teamsort %s (commit=%s, date=%s)", Version, Commit, Date)
}

// UserAgent is sent with every request to the sort backend.
func UserAgent() string {
	return "teamsort/" + Version
}
