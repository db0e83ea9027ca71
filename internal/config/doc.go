// Package config loads movieweek configuration.
//
// # Configuration Sources
//
// Values are resolved in this order, later sources winning:
//
//	1. Default() values
//	2. A YAML file (--config, or movieweek.yaml / configs/movieweek.yaml)
//	3. Environment variables prefixed with MOVIEWEEK_
//
// # Environment Variables
//
// Section and field names are joined with underscores:
//
//	MOVIEWEEK_SERVER_PORT=8080
//	MOVIEWEEK_LOGGING_LEVEL=debug
//	MOVIEWEEK_SOURCE_REMOTE_URL=http://www.kobis.or.kr/...
//	MOVIEWEEK_SOURCE_MAX_UPLOAD_BYTES=20971520
//	MOVIEWEEK_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Validation
//
// Every section carries go-playground/validator tags; Load returns an error
// naming each field that failed.
package config
