package config

import (
	"time"

	"movieweek/pkg/contracts"
)

// Application constants
const (
	AppName    = "MovieWeek"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable, e.g. MOVIEWEEK_SERVER_PORT.
	EnvPrefix = "MOVIEWEEK"

	// Server
	DefaultPort           = 8080
	DefaultRequestTimeout = 60 * time.Second

	// Rate Limiting
	DefaultRateLimit = 20 // requests per second
	DefaultBurstSize = 40

	// Box-office source
	DefaultRemoteURL      = "http://www.kobis.or.kr/kobis/business/stat/boxs/findDailyBoxOfficeList.do"
	DefaultFetchTimeout   = 30 * time.Second
	DefaultMaxUploadBytes = 20 << 20 // 20MB

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// API paths
const (
	APIBasePath      = "/api"
	AnalysisEndpoint = "/api/analysis"
	RemoteEndpoint   = "/api/analysis/remote"
	HealthEndpoint   = "/api/health"
	MetricsEndpoint  = "/metrics"
	UploadFormField  = "file"
)

// Messages shown to users
const (
	MsgUploadPrompt = "영화진흥위원회 KOBIS 웹사이트(http://www.kobis.or.kr)의 '통계 > 일별 박스오피스' 메뉴에서 내려받은 CSV 또는 Excel 파일을 지정해주세요."
	MsgGenreHint    = "장르별 분석을 위해 '장르' 컬럼이 포함된 파일을 업로드해주세요."
)
