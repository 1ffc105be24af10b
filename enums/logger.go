package enums

// Level names accepted by the log_level setting. They map onto zap levels;
// echo's own logger collapses the panic levels into error.
const (
	LogLevelDebug  = "debug"
	LogLevelInfo   = "info"
	LogLevelWarn   = "warn"
	LogLevelError  = "error"
	LogLevelDPanic = "dpanic"
	LogLevelPanic  = "panic"
	LogLevelFatal  = "fatal"
	LogLevelOff    = "off"
)
