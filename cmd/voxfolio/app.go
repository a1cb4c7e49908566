package main

import (
	"fmt"

	"voxfolio/internal/compiler"
	"voxfolio/internal/config"
	"voxfolio/internal/content"
	"voxfolio/internal/dispatch"
	"voxfolio/internal/loop"
	"voxfolio/internal/logging"
	"voxfolio/internal/narration"
	"voxfolio/internal/session"
	"voxfolio/internal/voice"
)

// app is the wired application: every command (chat, run, serve) builds one
// and tears it down via Close.
type app struct {
	cfg        *config.Config
	registry   *content.Registry
	sessions   *session.Manager
	dispatcher *dispatch.Dispatcher
	watcher    *content.Watcher
	voiceMgr   *voice.Manager
	signaling  *voice.SignalingClient

	closers []func()
}

// buildApp wires the application from config.
func buildApp(cfg *config.Config) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := logging.Configure(cfg.Storage.StateDir, cfg.Logging.Debug, cfg.Logging.Level); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}
	a.closers = append(a.closers, logging.CloseAll)

	registry, err := content.NewRegistry()
	if err != nil {
		return nil, err
	}
	if cfg.Content.PackPath != "" {
		if err := registry.LoadFile(cfg.Content.PackPath); err != nil {
			return nil, err
		}
		if cfg.Content.Watch {
			watcher, err := content.NewWatcher(registry, cfg.Content.PackPath)
			if err != nil {
				return nil, err
			}
			if err := watcher.Start(); err != nil {
				return nil, err
			}
			a.watcher = watcher
			a.closers = append(a.closers, watcher.Stop)
		}
	}
	a.registry = registry

	store, err := buildStore(cfg, a)
	if err != nil {
		return nil, err
	}
	a.sessions = session.NewManager(store)
	a.sessions.Load()

	a.dispatcher = dispatch.New(registry, a.sessions, loop.NewScheduler(cfg.GetLoopDwell()))
	a.closers = append(a.closers, a.dispatcher.Shutdown)

	if cfg.CompilerEnabled() {
		a.dispatcher.SetCompiler(compiler.NewClient(cfg.Services.Compiler.URL, cfg.Services.Compiler.APIKey))
	}
	if cfg.NarrationEnabled() {
		a.dispatcher.SetNarrator(narration.NewClient(cfg.Services.Narration.URL, cfg.Services.Narration.APIKey))
	}

	if cfg.Voice.Enabled {
		a.signaling = voice.NewSignalingClient(cfg.Voice.CredentialURL, cfg.Voice.SDPURL, cfg.Voice.APIKey)
		a.voiceMgr = voice.NewManager(voice.WebRTCFactory(a.signaling), a.dispatcher.HandleTranscript)
		a.dispatcher.SetVoice(a.voiceMgr)
		a.closers = append(a.closers, a.voiceMgr.Disconnect)
	}

	logging.Boot("voxfolio %s up: storage=%s compiler=%t narration=%t voice=%t",
		Version, cfg.Storage.Backend, cfg.CompilerEnabled(), cfg.NarrationEnabled(), cfg.Voice.Enabled)
	return a, nil
}

// buildStore selects the session blob store backend.
func buildStore(cfg *config.Config, a *app) (session.BlobStore, error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		store, err := session.NewSQLiteStore(cfg.DatabasePath())
		if err != nil {
			return nil, fmt.Errorf("failed to open session database: %w", err)
		}
		a.closers = append(a.closers, func() { _ = store.Close() })
		return store, nil
	case "file":
		return session.NewFileStore(cfg.Storage.StateDir), nil
	case "memory":
		return session.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// voiceSignaling returns the signaling client. Only valid when voice is
// enabled.
func (a *app) voiceSignaling() *voice.SignalingClient {
	return a.signaling
}

// Close tears the application down in reverse wiring order.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
