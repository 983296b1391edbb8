package stats

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/atexit"
)

// Kind tags the sort of measurement an Update carries.
type Kind string

const (
	KindCounter    Kind = "counter"
	KindValue      Kind = "value"
	KindTimeSeries Kind = "time_series"
	KindCustom     Kind = "custom"
	KindReset      Kind = "reset"
)

// Update describes one mutation of a Stats collection.
type Update struct {
	Key  string
	Kind Kind

	Count  int64     // set for KindCounter
	Value  float64   // set for KindValue
	Point  TimePoint // set for KindTimeSeries
	Custom any       // set for KindCustom
}

// Observer receives live notifications as measurements are recorded.
type Observer interface {
	StatUpdated(u Update)
}

// filter restricts an observer to particular keys and kinds. A nil set means
// no restriction. Resets always pass the kind filter, and the "all" key
// always passes the key filter.
type filter struct {
	keys  map[string]bool
	kinds map[Kind]bool
}

func (f *filter) wants(u Update) bool {
	if f.keys != nil && !f.keys[u.Key] && u.Key != "all" {
		return false
	}

	if f.kinds != nil && !f.kinds[u.Kind] && u.Kind != KindReset {
		return false
	}

	return true
}

func (f *filter) watchKeys(keys []string) {
	if f.keys == nil {
		f.keys = make(map[string]bool)
	}

	for _, k := range keys {
		f.keys[k] = true
	}
}

func (f *filter) watchKinds(kinds []Kind) {
	if f.kinds == nil {
		f.kinds = make(map[Kind]bool)
	}

	for _, k := range kinds {
		f.kinds[k] = true
	}
}

// LogObserver narrates stat updates through a logger.
type LogObserver struct {
	filter

	log logrus.FieldLogger
}

// NewLogObserver returns an observer writing to log, or to the standard
// logger when log is nil.
func NewLogObserver(log logrus.FieldLogger) *LogObserver {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &LogObserver{log: log}
}

// WatchKeys restricts the observer to the given keys.
func (o *LogObserver) WatchKeys(keys ...string) *LogObserver {
	o.watchKeys(keys)
	return o
}

// WatchKinds restricts the observer to the given kinds.
func (o *LogObserver) WatchKinds(kinds ...Kind) *LogObserver {
	o.watchKinds(kinds)
	return o
}

// StatUpdated implements Observer.
func (o *LogObserver) StatUpdated(u Update) {
	if !o.wants(u) {
		return
	}

	entry := o.log.WithFields(logrus.Fields{
		"key":  u.Key,
		"kind": u.Kind,
	})

	switch u.Kind {
	case KindCounter:
		entry.WithField("count", u.Count).Info("stat updated")
	case KindValue:
		entry.WithField("value", u.Value).Info("stat updated")
	case KindTimeSeries:
		entry.WithField("time", u.Point.Time).
			WithField("value", u.Point.Value).
			Info("stat updated")
	case KindCustom:
		entry.WithField("value", u.Custom).Info("stat updated")
	case KindReset:
		entry.Info("stats reset")
	}
}

// FileObserver streams matching updates into a CSV file.
type FileObserver struct {
	filter

	path string
	file *os.File

	rows       []Update
	bufferSize int
}

// NewFileObserver returns an observer that will write to the file at path
// once Init is called.
func NewFileObserver(path string) *FileObserver {
	return &FileObserver{
		path:       path,
		bufferSize: 1000,
	}
}

// WatchKeys restricts the observer to the given keys.
func (o *FileObserver) WatchKeys(keys ...string) *FileObserver {
	o.watchKeys(keys)
	return o
}

// WatchKinds restricts the observer to the given kinds.
func (o *FileObserver) WatchKinds(kinds ...Kind) *FileObserver {
	o.watchKinds(kinds)
	return o
}

// Init creates the output file. If the file already exists, it will be
// overwritten.
func (o *FileObserver) Init() {
	file, err := os.Create(o.path)
	if err != nil {
		panic(err)
	}
	o.file = file

	fmt.Fprintf(file, "Key, Kind, Time, Value\n")

	atexit.Register(func() {
		o.Flush()

		err := o.file.Close()
		if err != nil {
			panic(err)
		}
	})
}

// StatUpdated implements Observer.
func (o *FileObserver) StatUpdated(u Update) {
	if !o.wants(u) {
		return
	}

	o.rows = append(o.rows, u)
	if len(o.rows) >= o.bufferSize {
		o.Flush()
	}
}

// Flush writes the buffered rows to the file.
func (o *FileObserver) Flush() {
	for _, u := range o.rows {
		o.writeRow(u)
	}

	o.rows = nil
}

func (o *FileObserver) writeRow(u Update) {
	switch u.Kind {
	case KindCounter:
		fmt.Fprintf(o.file, "%s, %s, , %d\n", u.Key, u.Kind, u.Count)
	case KindValue:
		fmt.Fprintf(o.file, "%s, %s, , %g\n", u.Key, u.Kind, u.Value)
	case KindTimeSeries:
		fmt.Fprintf(o.file, "%s, %s, %g, %g\n",
			u.Key, u.Kind, u.Point.Time, u.Point.Value)
	case KindCustom:
		fmt.Fprintf(o.file, "%s, %s, , %v\n", u.Key, u.Kind, u.Custom)
	case KindReset:
		fmt.Fprintf(o.file, "%s, %s, , \n", u.Key, u.Kind)
	}
}
