package limits

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Manager owns the global and chat limiters.
type Manager struct {
	global  *Limiter
	chat    *Limiter
	metrics *Metrics
}

// NewManager builds both limiters from cfg. Metrics are registered with reg
// when it is non-nil.
func NewManager(cfg Config, reg prometheus.Registerer) *Manager {
	metrics := NewMetrics(reg)

	return &Manager{
		global:  NewLimiter(LimiterGlobal, cfg.Global, metrics),
		chat:    NewLimiter(LimiterChat, cfg.Chat, metrics),
		metrics: metrics,
	}
}

// Global returns the limiter applied to every API route.
func (m *Manager) Global() *Limiter {
	return m.global
}

// Chat returns the limiter applied to the chat endpoints.
func (m *Manager) Chat() *Limiter {
	return m.chat
}

// Sweep drops elapsed windows from both limiters.
func (m *Manager) Sweep() int {
	removed := m.global.Sweep() + m.chat.Sweep()
	if removed > 0 {
		slog.Debug("swept idle rate limit windows", "removed", removed)
	}
	return removed
}
