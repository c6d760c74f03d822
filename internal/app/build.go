package app

import (
	"github.com/ent0n29/hfchat/internal/chat"
	"github.com/ent0n29/hfchat/internal/completion"
	"github.com/ent0n29/hfchat/internal/config"
	"github.com/ent0n29/hfchat/internal/httpapi"
	"github.com/ent0n29/hfchat/internal/observability"
	"github.com/ent0n29/hfchat/internal/session"
)

type BuildResult struct {
	Config     config.Config
	API        *httpapi.Server
	Sessions   *session.Manager
	Chat       *chat.Service
	Completion *completion.Client
	Metrics    *observability.Metrics

	// Cleanup should be called on shutdown to release pooled connections.
	Cleanup func()
}

// Build wires the chat service graph from cfg. metrics may be nil, in which
// case a fresh set is registered under cfg.MetricsNamespace.
func Build(cfg config.Config, metrics *observability.Metrics) *BuildResult {
	if metrics == nil {
		metrics = observability.NewMetrics(cfg.MetricsNamespace)
	}

	client := completion.New(completion.Config{
		URL:       cfg.InferenceURL,
		Model:     cfg.InferenceModel,
		MaxTokens: cfg.MaxTokens,
		Timeout:   cfg.InferenceTimeout,
	})
	chatService := chat.NewService(client, metrics)

	sessions := session.NewManager(cfg.SessionInactivityTimeout)
	sessions.SetExpireHook(func(_ *session.Session) {
		metrics.SessionEvents.WithLabelValues("expired").Inc()
		metrics.ActiveSessions.Set(float64(sessions.ActiveCount()))
	})

	api := httpapi.New(cfg, sessions, chatService, metrics)

	return &BuildResult{
		Config:     cfg,
		API:        api,
		Sessions:   sessions,
		Chat:       chatService,
		Completion: client,
		Metrics:    metrics,
		Cleanup:    client.CloseIdleConnections,
	}
}
