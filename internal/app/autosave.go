package app

import "gtodo-cli/internal/store"

// Autosave subscribes saver to svc. Data changes enqueue the whole document; every
// change (data or selection) enqueues the UI state.
func Autosave(svc *Service, saver *store.Autosaver) (unsubscribe func()) {
	return svc.Subscribe(func(c Change) {
		if c.Kind.DataChanged() {
			saver.Enqueue(c.DB)
		}
		saver.EnqueueUI(c.Selection.UIState(c.View == ViewBoard))
	})
}
