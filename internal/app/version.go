package app

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"
)

// AppVersion is the snapview release string.
const AppVersion = "0.1.0"

// VersionInfo reports the runtime environment, for debugging only.
type VersionInfo struct {
	App    string `json:"app"`
	Go     string `json:"go"`
	Chrome string `json:"chrome"`
}

var (
	versionOnce   sync.Once
	cachedVersion VersionInfo
)

// Version returns the environment report. The Chrome lookup shells out once;
// the result is memoized for the process lifetime.
func Version() VersionInfo {
	versionOnce.Do(func() {
		cachedVersion = VersionInfo{
			App:    AppVersion,
			Go:     runtime.Version(),
			Chrome: chromeVersion(),
		}
	})
	return cachedVersion
}

// chromeVersion probes the usual binary names and returns the version number
// reported by the first one that answers, or a "not found" marker.
func chromeVersion() string {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		out, err := exec.CommandContext(ctx, name, "--version").Output()
		if err != nil {
			continue
		}
		// Output looks like "Chromium 126.0.6478.126"; keep the number.
		fields := strings.Fields(string(out))
		if len(fields) >= 2 {
			return fields[len(fields)-1]
		}
		return strings.TrimSpace(string(out))
	}
	return "not found"
}
