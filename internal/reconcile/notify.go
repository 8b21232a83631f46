package reconcile

import (
	"github.com/charmbracelet/log"
	"github.com/gen2brain/beeep"
)

// Level classifies a [Notification].
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notification is a transient toast.
type Notification struct {
	Level       Level
	Title       string
	Description string
}

// Notifier shows notifications to the user.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to [Notifier].
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Notifiers fans a notification out to each member.
type Notifiers []Notifier

func (ns Notifiers) Notify(n Notification) {
	for _, notifier := range ns {
		if notifier != nil {
			notifier.Notify(n)
		}
	}
}

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	Logger *log.Logger
}

func (l LogNotifier) Notify(n Notification) {
	kv := []any{"kind", n.Level.String()}
	if n.Description != "" {
		kv = append(kv, "detail", n.Description)
	}
	if n.Level == LevelError {
		l.Logger.Warn(n.Title, kv...)
		return
	}
	l.Logger.Info(n.Title, kv...)
}

// DesktopNotifier raises OS notifications through beeep.
type DesktopNotifier struct {
	Logger *log.Logger
	send   func(title, message string, icon any) error
}

// NewDesktopNotifier creates a [DesktopNotifier].
func NewDesktopNotifier(logger *log.Logger) *DesktopNotifier {
	return &DesktopNotifier{Logger: logger, send: beeep.Notify}
}

func (d *DesktopNotifier) Notify(n Notification) {
	message := n.Description
	if message == "" {
		message = n.Title
	}
	if err := d.send("niagara: "+n.Title, message, ""); err != nil && d.Logger != nil {
		d.Logger.Debug("desktop notification failed", "error", err)
	}
}
