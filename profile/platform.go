package profile

import "strings"

// Platform ...
type Platform string

const (
	IOS      Platform = "iOS"
	OSX      Platform = "OSX"
	TVOS     Platform = "tvOS"
	WatchOS  Platform = "watchOS"
	VisionOS Platform = "visionOS"
	XROS     Platform = "xrOS"
)

// ParsePlatform maps a Platform entry to its canonical spelling.
// Values it does not know are returned unchanged.
func ParsePlatform(platform string) Platform {
	switch strings.ToLower(platform) {
	case "ios":
		return IOS
	case "osx", "macos":
		return OSX
	case "tvos":
		return TVOS
	case "watchos":
		return WatchOS
	case "visionos":
		return VisionOS
	case "xros":
		return XROS
	default:
		return Platform(platform)
	}
}
