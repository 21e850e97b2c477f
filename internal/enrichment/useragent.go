package enrichment

import (
	"github.com/mssola/user_agent"
)

type UAInfo struct {
	Browser        string
	BrowserVersion string
	OS             string
	DeviceType     string
}

func ParseUserAgent(uaString string) *UAInfo {
	ua := user_agent.New(uaString)

	browser, version := ua.Browser()
	deviceType := "desktop"

	if ua.Mobile() {
		deviceType = "mobile"
	} else if ua.Bot() {
		deviceType = "bot"
	}

	return &UAInfo{
		Browser:        browser,
		BrowserVersion: version,
		OS:             ua.OS(),
		DeviceType:     deviceType,
	}
}
