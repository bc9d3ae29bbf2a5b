package store

import (
	"context"
	"encoding/json"
)

const uiStateVersion = 1

// UIState stores the last selection so the TUI can restore it on relaunch.
//
// It is best effort: a missing or unreadable value loads as the zero state, and the
// selection coordinator repairs whatever no longer resolves.
type UIState struct {
	Version    int    `json:"version"`
	FolderID   string `json:"folderId,omitempty"`
	CategoryID string `json:"categoryId,omitempty"`
	TodoID     *int64 `json:"todoId,omitempty"`

	// Board is true when the status board (pending/done columns) was showing.
	Board bool `json:"board,omitempty"`
}

// UIKey is the key the selection state is stored under.
func (p *Persistence) UIKey() string {
	return p.Key + ".ui"
}

func LoadUIState(ctx context.Context, b Backend, key string) UIState {
	raw, err := b.Read(ctx, key)
	if err != nil || len(raw) == 0 {
		return UIState{Version: uiStateVersion}
	}
	var st UIState
	if err := json.Unmarshal(raw, &st); err != nil {
		// Best-effort; if corrupted, treat as missing.
		return UIState{Version: uiStateVersion}
	}
	if st.Version == 0 {
		st.Version = uiStateVersion
	}
	return st
}

func SaveUIState(ctx context.Context, b Backend, key string, st UIState) error {
	if st.Version == 0 {
		st.Version = uiStateVersion
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return b.Write(ctx, key, raw)
}
