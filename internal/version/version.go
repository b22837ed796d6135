// Package version содержит сведения о сборке сервиса.
//
// Значения проставляются при сборке через -ldflags:
//
//	go build -ldflags "-X github.com/wh75er/store-microservices/internal/version.version=v1.0.0"
package version

import "fmt"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Build — сведения о собранном бинарнике.
type Build struct {
	Version string
	Commit  string
	Date    string
}

// Info возвращает сведения о сборке.
func Info() Build {
	return Build{Version: version, Commit: commit, Date: date}
}

// String форматирует сведения о сборке для стартового лога.
func String() string {
	return fmt.Sprintf("version=%s commit=%s date=%s", version, commit, date)
}
