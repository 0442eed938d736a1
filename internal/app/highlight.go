package app

import (
	"fmt"

	"github.com/bethropolis/tidemark/internal/buffer"
	"github.com/bethropolis/tidemark/internal/config"
	"github.com/bethropolis/tidemark/internal/core"
	"github.com/bethropolis/tidemark/internal/event"
	"github.com/bethropolis/tidemark/internal/gutter"
	"github.com/bethropolis/tidemark/internal/highlighter"
	"github.com/bethropolis/tidemark/internal/highlighter/lang"
	"github.com/bethropolis/tidemark/internal/logger"
)

// DetectLanguage picks the language for filePath. A non-empty override names
// a registered language and wins over the file extension. Files with an
// unknown extension are plain text.
func DetectLanguage(filePath, override string) (*lang.Language, error) {
	highlighter.RegisterLanguages()
	if override != "" {
		l := lang.GetByName(override)
		if l == nil {
			return nil, fmt.Errorf("unknown language %q", override)
		}
		return l, nil
	}
	if l := lang.GetForFile(filePath); l != nil {
		return l, nil
	}
	return highlighter.PlainText, nil
}

// BuildSession creates a session over store that highlights with l's rules,
// using the gutter, tab and scroll settings of cfg. When cfg selects the
// tree-sitter engine and l has a grammar, the session switches to it; a
// grammar that fails to load leaves the regex rules in charge.
func BuildSession(store buffer.LineStore, l *lang.Language, cfg *config.Config, events *event.Manager) (*core.Session, error) {
	engine, err := highlighter.EngineFor(l)
	if err != nil {
		return nil, fmt.Errorf("building rules for %s: %w", l.Name, err)
	}

	session := core.NewSession(store, engine, gutter.New(cfg.Gutter), events)
	session.TabWidth = cfg.Editor.TabWidth
	session.ScrollOff = cfg.Editor.ScrollOff

	if cfg.Highlighter.Engine == config.EngineTreeSitter && l != nil && l.HasGrammar() {
		ts, err := highlighter.NewTreeSitterEngine(l)
		if err != nil {
			logger.Warnf("BuildSession: tree-sitter unavailable for %s, using regex rules: %v", l.Name, err)
			return session, nil
		}
		session.SetTreeSitter(ts)
		logger.Infof("BuildSession: highlighting %s with tree-sitter", l.Name)
	}
	return session, nil
}
