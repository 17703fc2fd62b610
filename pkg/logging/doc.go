// Package logging configures log/slog for condameta binaries.
//
// Both condameta and condametad log JSON to stderr. Every record carries the
// binary name as "module" and its build version as "version". At debug level
// records also carry their source location.
//
// The level comes from the --log-level flag on the CLI and from LOG_LEVEL
// for the daemon. Names are case-insensitive (debug, info, warn or warning,
// error) and anything else means info:
//
//	logging.SetDefaultStructuredLogger("condametad", version)
//	slog.Info("document parsed", "datasource", "conda_meta_yaml", "path", path)
//
// which produces records like:
//
//	{"time":"2026-01-15T10:30:00Z","level":"INFO","msg":"server listening","module":"condametad","version":"v1.0.0","address":":8080"}
//
// NewLogLogger adapts the default handler for APIs that still take a
// *log.Logger, such as http.Server.ErrorLog.
package logging
