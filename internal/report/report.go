package report

import (
	"io"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
)

// MarkerField overrides the level marker of a single entry.
const MarkerField = "marker"

const (
	MarkerProgress = "🔍 "
	MarkerSuccess  = "✅ "
	MarkerStep     = "→ "
)

var levelMarkers = map[logrus.Level]string{
	logrus.PanicLevel: "❌ ",
	logrus.FatalLevel: "❌ ",
	logrus.ErrorLevel: "❌ ",
	logrus.WarnLevel:  "⚠️  ",
	logrus.DebugLevel: "  ",
	logrus.TraceLevel: "  ",
}

// ConsoleFormatter renders entries as a marker followed by the message, the
// way the status lines of the command line tools look.
type ConsoleFormatter struct{}

func (f *ConsoleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	marker := levelMarkers[entry.Level]
	if m, ok := entry.Data[MarkerField].(string); ok {
		marker = m
	}
	return []byte(marker + entry.Message + "\n"), nil
}

func New(out io.Writer, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&ConsoleFormatter{})
	logger.SetLevel(logrus.InfoLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func Progress(log logrus.FieldLogger, format string, args ...interface{}) {
	log.WithField(MarkerField, MarkerProgress).Infof(format, args...)
}

func Step(log logrus.FieldLogger, format string, args ...interface{}) {
	log.WithField(MarkerField, MarkerStep).Infof(format, args...)
}

func Success(log logrus.FieldLogger, format string, args ...interface{}) {
	log.WithField(MarkerField, MarkerSuccess).Infof(format, args...)
}

// NewBar returns a progress bar drawing to out, or a silent one when out is nil.
func NewBar(out io.Writer, total int, description string) *progressbar.ProgressBar {
	if out == nil {
		return progressbar.DefaultSilent(int64(total), description)
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
