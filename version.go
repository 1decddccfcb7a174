/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package appdata

import (
	"fmt"
	"runtime"
)

// Build metadata, overridden at link time:
//
//	go build -ldflags "-X github.com/suparena/appdata.GitCommit=$(git rev-parse --short HEAD)"
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RecordEncoding names the on-disk layout of stored records: msgpack with
// field names taken from json tags. It changes only when stored bytes written
// by an older build would no longer decode.
const RecordEncoding = "msgpack+json-names/1"

// VersionInfo describes the running build.
type VersionInfo struct {
	Version        string `json:"version"`
	GitCommit      string `json:"gitCommit"`
	BuildDate      string `json:"buildDate"`
	GoVersion      string `json:"goVersion"`
	RecordEncoding string `json:"recordEncoding"`
}

// GetVersionInfo returns the build information of this binary.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:        Version,
		GitCommit:      GitCommit,
		BuildDate:      BuildDate,
		GoVersion:      runtime.Version(),
		RecordEncoding: RecordEncoding,
	}
}

// String renders the build on one line, e.g. "appdata 0.1.0 (abc1234, go1.24.0)".
func (v VersionInfo) String() string {
	return fmt.Sprintf("appdata %s (%s, %s)", v.Version, v.GitCommit, v.GoVersion)
}
