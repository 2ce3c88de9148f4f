package cmd

import (
	"fmt"
	"os"

	"github.com/KaramelBytes/statify-cli/internal/engine"
	"github.com/KaramelBytes/statify-cli/internal/loader"
	"github.com/KaramelBytes/statify-cli/internal/workspace"
	"go.uber.org/zap"
)

// session is an opened workspace with its replayed engine.
type session struct {
	ws    *workspace.Workspace
	eng   *engine.Engine
	state *engine.DerivedState
	info  loader.Info
}

// resolveWorkspaceDir returns --workspace or the nearest statify.json above
// the working directory.
func resolveWorkspaceDir() (string, error) {
	if wsDir != "" {
		return wsDir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working dir: %w", err)
	}
	root, err := workspace.FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("no workspace found (run 'statify init <file>' or pass --workspace): %w", err)
	}
	return root, nil
}

// openSession loads the workspace, reloads its source and replays the log.
func openSession(extra ...engine.Option) (*session, error) {
	dir, err := resolveWorkspaceDir()
	if err != nil {
		return nil, err
	}
	ws, err := workspace.Load(dir)
	if err != nil {
		return nil, err
	}
	e, err := newEngine(extra...)
	if err != nil {
		return nil, err
	}
	st, info, err := ws.Open(e)
	if err != nil {
		return nil, err
	}
	logger.Debug("workspace opened",
		zap.String("dir", dir),
		zap.Int("operations", len(ws.Operations)),
		zap.Int("rows", st.Stats.RowCount))
	return &session{ws: ws, eng: e, state: st, info: info}, nil
}

// apply runs op against the session and records it when it changed anything.
func (s *session) apply(op engine.Operation) (bool, error) {
	prev := s.state
	st, err := s.eng.Mutate(op)
	if err != nil {
		return false, err
	}
	if st == prev {
		return false, nil
	}
	s.state = st
	s.ws.Record(op)
	if op.Kind == engine.OpDrop {
		prefs := &s.ws.Preferences
		prefs.Filter = prefs.Filter.Without(op.Column)
		if prefs.ActiveColumn == op.Column {
			prefs.ActiveColumn = ""
		}
	}
	if err := s.ws.Save(); err != nil {
		return false, err
	}
	return true, nil
}

func summaryLine(st *engine.DerivedState) string {
	return fmt.Sprintf("%d rows, %d columns, health %.1f%%, %d insight(s)",
		st.Stats.RowCount, st.Stats.ColumnCount, st.Stats.Health, len(st.Insights))
}
