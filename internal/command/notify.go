package command

import (
	log "github.com/sirupsen/logrus"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Notice struct {
	Level   Level
	Message string
}

// Notifier shows user-visible outcomes. Calls are fire-and-forget.
type Notifier interface {
	Notify(Notice)
}

type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// LogNotifier reports notices through logrus (used by the CLI).
type LogNotifier struct {
	Log log.FieldLogger
}

func (n LogNotifier) Notify(notice Notice) {
	entry := n.Log.WithField("notice", string(notice.Level))
	switch notice.Level {
	case LevelError:
		entry.Error(notice.Message)
	default:
		entry.Info(notice.Message)
	}
}
