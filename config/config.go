package config

// Config is the record handed to the host bootstrap. It is assembled once at
// startup and must not be mutated afterwards.
type Config struct {
	Mode    string        `json:"mode" yaml:"mode"`
	Project ProjectConfig `json:"projectConfig" yaml:"projectConfig"`
	Admin   AdminConfig   `json:"admin" yaml:"admin"`
	Modules []Module      `json:"modules" yaml:"modules"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
	Worker  WorkerConfig  `json:"worker" yaml:"worker"`
}

type ProjectConfig struct {
	DatabaseURL string     `json:"databaseUrl" yaml:"databaseUrl"`
	RedisURL    string     `json:"redisUrl" yaml:"redisUrl"`
	WorkerMode  WorkerMode `json:"workerMode" yaml:"workerMode"`
	HTTP        HTTPConfig `json:"http" yaml:"http"`
}

// HTTPConfig holds the comma-separated CORS lists for each audience and the
// signing secrets.
type HTTPConfig struct {
	StoreCORS    string `json:"storeCors" yaml:"storeCors"`
	AdminCORS    string `json:"adminCors" yaml:"adminCors"`
	AuthCORS     string `json:"authCors" yaml:"authCors"`
	JWTSecret    string `json:"jwtSecret" yaml:"jwtSecret"`
	CookieSecret string `json:"cookieSecret" yaml:"cookieSecret"`
}

type AdminConfig struct {
	Disable    bool   `json:"disable" yaml:"disable"`
	BackendURL string `json:"backendUrl" yaml:"backendUrl"`
}

// WorkerMode selects the execution role of a process instance.
type WorkerMode string

const (
	WorkerModeShared WorkerMode = "shared"
	WorkerModeWorker WorkerMode = "worker"
	WorkerModeServer WorkerMode = "server"
)

// Resolve returns the effective mode; an unset mode runs as shared.
func (m WorkerMode) Resolve() WorkerMode {
	if m == "" {
		return WorkerModeShared
	}
	return m
}

func (m WorkerMode) Valid() bool {
	switch m.Resolve() {
	case WorkerModeShared, WorkerModeWorker, WorkerModeServer:
		return true
	}
	return false
}

// RunsWorker reports whether background jobs belong to this process.
func (m WorkerMode) RunsWorker() bool {
	r := m.Resolve()
	return r == WorkerModeShared || r == WorkerModeWorker
}

// ServesHTTP reports whether the full HTTP surface belongs to this process.
func (m WorkerMode) ServesHTTP() bool {
	r := m.Resolve()
	return r == WorkerModeShared || r == WorkerModeServer
}

// Host settings use string fields only - packages handle conversion during initialization
type ServerConfig struct {
	Port         string `json:"port" yaml:"port"`
	ReadTimeout  string `json:"readTimeout" yaml:"readTimeout"`
	WriteTimeout string `json:"writeTimeout" yaml:"writeTimeout"`
}

type LoggingConfig struct {
	Level       string `json:"level" yaml:"level"`
	Format      string `json:"format" yaml:"format"`
	Dir         string `json:"dir" yaml:"dir"`
	ServiceName string `json:"serviceName" yaml:"serviceName"`
}

type WorkerConfig struct {
	ProbeInterval string `json:"probeInterval" yaml:"probeInterval"`
}
