package config

// Color constants for logging
const (
	ColorRed     = "\033[31m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorBlue    = "\033[34m"
	ColorMagenta = "\033[35m"
	ColorCyan    = "\033[36m"
	ColorReset   = "\033[0m"
)

// componentColors assigns each known component a fixed prefix color.
var componentColors = map[string]string{
	"APP":      ColorGreen,
	"AUTH":     ColorBlue,
	"LEVEL":    ColorCyan,
	"PROGRESS": ColorMagenta,
	"HTTP":     ColorYellow,
}
