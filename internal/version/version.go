package version

import "fmt"

const (
	// Version is the current version of Speedread
	Version = "2.0.0"
)

// GetVersion returns the current version string
func GetVersion() string {
	return fmt.Sprintf("Speedread %s", Version)
}
