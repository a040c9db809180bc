package observe

import (
	"encoding/json"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
)

const (
	_sentryMaxErrorDepth        = 9
	_sentryServerRequestTimeout = 5 * time.Second
)

// SentryHook is an io.Writer that tails the JSON log stream and forwards
// error-level entries to Sentry. It is attached as an extra writer on the
// zap logger when a DSN is configured.
type SentryHook struct {
	appEnv  string
	appName string
}

func NewSentryHook(appEnv, appName, dsn string, isDebug bool) *SentryHook {
	if dsn == "" {
		log.Println("sentry init skipped: no DSN")
		return &SentryHook{appEnv: appEnv, appName: appName}
	}

	transport := sentry.NewHTTPTransport()
	transport.Timeout = _sentryServerRequestTimeout

	if err := sentry.Init(sentry.ClientOptions{
		AttachStacktrace: true,
		Debug:            isDebug,
		Dsn:              dsn,
		Environment:      appEnv,
		MaxErrorDepth:    _sentryMaxErrorDepth,
		ServerName:       appName,
		Transport:        transport,
	}); err != nil {
		log.Println("sentry init error:", err.Error())
	}

	return &SentryHook{
		appEnv:  appEnv,
		appName: appName,
	}
}

type logEntry struct {
	Level      string `json:"level"`
	AppName    string `json:"app_name"`
	CallerFile string `json:"caller_file"`
	CallerLine int    `json:"caller_line"`
	CallerFunc string `json:"caller_func"`
	Stack      string `json:"stack"`
	Message    string `json:"msg"`
	Error      string `json:"error"`
	Timestamp  string `json:"timestamp"`
}

func (h *SentryHook) Write(p []byte) (int, error) {
	var entry logEntry
	if err := json.Unmarshal(p, &entry); err != nil {
		log.Println(errors.Wrap(err, "sentry hook: unmarshal log entry").Error())
		return len(p), nil
	}

	level, err := zapcore.ParseLevel(entry.Level)
	if err != nil || entry.Message == "" {
		return len(p), nil
	}

	switch level {
	case zapcore.ErrorLevel, zapcore.FatalLevel, zapcore.PanicLevel:
		event := sentry.NewEvent()
		event.Environment = h.appEnv
		event.Level = h.mapLevel(level)
		event.Message = entry.Message
		event.Extra["AppName"] = h.appName
		event.Extra["Error"] = entry.Error
		event.Extra["CallerFile"] = entry.CallerFile
		event.Extra["CallerLine"] = entry.CallerLine
		event.Extra["CallerFunc"] = entry.CallerFunc
		event.Extra["Stack"] = entry.Stack
		event.Extra["Timestamp"] = entry.Timestamp
		event.Exception = append(event.Exception, sentry.Exception{
			Type:       entry.Message,
			Value:      entry.Error,
			Stacktrace: sentry.NewStacktrace(),
		})
		sentry.CaptureEvent(event)
	}

	return len(p), nil
}

func (*SentryHook) mapLevel(zl zapcore.Level) sentry.Level {
	switch zl {
	case zapcore.DebugLevel, zapcore.InvalidLevel:
		return sentry.LevelDebug
	case zapcore.InfoLevel:
		return sentry.LevelInfo
	case zapcore.WarnLevel:
		return sentry.LevelWarning
	case zapcore.ErrorLevel:
		return sentry.LevelError
	case zapcore.FatalLevel, zapcore.PanicLevel:
		return sentry.LevelFatal
	}
	return sentry.LevelDebug
}
