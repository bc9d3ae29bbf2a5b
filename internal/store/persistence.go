package store

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

// Persistence reads and writes the whole todo document under one key.
type Persistence struct {
	Backend Backend
	Key     string
	Log     log.FieldLogger
}

func NewPersistence(b Backend, key string, logger log.FieldLogger) *Persistence {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Persistence{Backend: b, Key: key, Log: logger}
}

func (p *Persistence) fields() log.Fields {
	return log.Fields{"key": p.Key, "backend": p.Backend.Name()}
}

// Load never fails: read errors are logged and degrade to the default store the same
// way a missing or malformed blob does.
func (p *Persistence) Load(ctx context.Context) (*DB, Report) {
	raw, err := p.ReadRaw(ctx)
	if err != nil {
		p.Log.WithFields(p.fields()).WithError(err).Warn("load failed; using default store")
		raw = nil
	}
	db, rep := Decode(raw)
	if rep.UsedDefault || len(rep.Issues) > 0 {
		p.Log.WithFields(p.fields()).WithFields(log.Fields{
			"usedDefault":    rep.UsedDefault,
			"droppedFolders": rep.DroppedFolders,
			"droppedTodos":   rep.DroppedTodos,
			"issues":         len(rep.Issues),
		}).Debug("normalized stored document")
	}
	return db, rep
}

// ReadRaw returns the stored bytes, or nil when the key was never written.
func (p *Persistence) ReadRaw(ctx context.Context) ([]byte, error) {
	raw, err := p.Backend.Read(ctx, p.Key)
	if errors.Is(err, ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "read", Key: p.Key, Backend: p.Backend.Name(), Err: err}
	}
	return raw, nil
}

func (p *Persistence) Save(ctx context.Context, db *DB) error {
	b, err := Encode(db)
	if err != nil {
		return &PersistenceError{Op: "encode", Key: p.Key, Backend: p.Backend.Name(), Err: err}
	}
	if err := p.Backend.Write(ctx, p.Key, b); err != nil {
		return &PersistenceError{Op: "write", Key: p.Key, Backend: p.Backend.Name(), Err: err}
	}
	return nil
}
