package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/shelter-data-etl/internal/domain"
)

// Saver durably stores a finished shelter set.
type Saver interface {
	Save(ctx context.Context, shelters []domain.Shelter) error
}

// LogSaver only logs how many shelters would be saved. It is the default when
// no sink is configured.
type LogSaver struct {
	logger *slog.Logger
}

// NewLogSaver creates a LogSaver.
func NewLogSaver(logger *slog.Logger) *LogSaver {
	return &LogSaver{logger: logger}
}

func (s *LogSaver) Save(_ context.Context, shelters []domain.Shelter) error {
	s.logger.Info("saving shelter records", "count", len(shelters))
	return nil
}
