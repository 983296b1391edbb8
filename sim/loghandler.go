package sim

import (
	"github.com/sirupsen/logrus"
)

// A LoggingHandler logs every event it sees without producing new events.
// Registered as a default handler it narrates the whole run; give it event
// types to narrate a subset. It implements both callback interfaces, so the
// log shows the dispatch boundaries around each event.
type LoggingHandler struct {
	log   logrus.FieldLogger
	types []string
}

// NewLoggingHandler creates a logging handler writing to log. A nil log
// falls back to the logrus standard logger.
func NewLoggingHandler(log logrus.FieldLogger) *LoggingHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &LoggingHandler{log: log}
}

// WithEventTypes restricts the handler to the given event types.
func (h *LoggingHandler) WithEventTypes(types ...string) *LoggingHandler {
	h.types = types
	return h
}

// EventTypes returns the declared types, nil meaning all.
func (h *LoggingHandler) EventTypes() []string {
	return h.types
}

// PreHandle logs that the event is about to be processed.
func (h *LoggingHandler) PreHandle(e *Event, tl *Timeline, st StatsRecorder) {
	h.eventLog(e).Debug("handling event")
}

// ProcessEvent logs the event payload and produces nothing.
func (h *LoggingHandler) ProcessEvent(e *Event, tl *Timeline, st StatsRecorder) []*Event {
	h.eventLog(e).WithField("payload", e.PayloadMap()).Debug("event detail")
	return nil
}

// PostHandle logs how many events the dispatch produced so far for e.
func (h *LoggingHandler) PostHandle(
	e *Event, produced []*Event, tl *Timeline, st StatsRecorder,
) {
	h.eventLog(e).WithField("produced", len(produced)).Debug("event handled")
}

func (h *LoggingHandler) eventLog(e *Event) *logrus.Entry {
	return h.log.WithFields(logrus.Fields{
		"event": e.Type(),
		"time":  e.Time(),
	})
}
