// Package ciflog configures the structured logger used by the parser
// package and cmd/syncheck; the scanner and writer do not log.
package ciflog

import (
	"os"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("cif")

var stderrFormat = logging.MustStringFormatter(
	`%{color}cif ▶ %{level:.4s} %{message}%{color:reset}`,
)

// Log is the package-level logger used by cif's internal subpackages.
func Log() *logging.Logger {
	return log
}

// Setup installs a stderr backend at defaultLevel, overridable by the
// CIF_LOG_LEVEL environment variable.
func Setup(defaultLevel logging.Level) *logging.Logger {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	logging.SetFormatter(stderrFormat)
	leveled := logging.AddModuleLevel(backend)

	switch os.Getenv("CIF_LOG_LEVEL") {
	case "CRITICAL":
		leveled.SetLevel(logging.CRITICAL, "")
	case "ERROR":
		leveled.SetLevel(logging.ERROR, "")
	case "WARNING":
		leveled.SetLevel(logging.WARNING, "")
	case "NOTICE":
		leveled.SetLevel(logging.NOTICE, "")
	case "INFO":
		leveled.SetLevel(logging.INFO, "")
	case "DEBUG":
		leveled.SetLevel(logging.DEBUG, "")
	default:
		leveled.SetLevel(defaultLevel, "")
	}

	logging.SetBackend(leveled)
	return log
}
