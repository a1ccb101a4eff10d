package worker

import (
	"log/slog"
	"runtime"

	"github.com/picpocket/clip-classify/internal/imaging"
	"github.com/picpocket/clip-classify/internal/protocol"
)

// Version is the worker release reported by the check command.
const Version = "0.2.0"

// runCheck reports capability diagnostics without touching the model or
// the backend.
func (s *Session) runCheck() int {
	dev := s.selector.Select()
	checks := protocol.Checks{
		Device:            string(dev),
		GoVersion:         runtime.Version(),
		WorkerVersion:     Version,
		ImageFormats:      imaging.Formats(),
		BackendConfigured: s.cfg.Backend.BaseURL != "",
		BackendURL:        s.cfg.Backend.BaseURL,
	}
	if err := s.enc.Check(checks); err != nil {
		s.log.Error("writing check response", slog.Any("error", err))
		return 1
	}
	return 0
}
