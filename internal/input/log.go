package input

import "github.com/rs/zerolog"

// LogEmulator only logs actions. It is the dry-run backend.
type LogEmulator struct {
	logger zerolog.Logger
}

func NewLogEmulator(logger zerolog.Logger) *LogEmulator {
	return &LogEmulator{logger: logger}
}

func (e *LogEmulator) Scroll(amount int) error {
	e.logger.Info().Int("amount", amount).Msg("scroll")
	return nil
}

func (e *LogEmulator) MoveCursorRelative(dx, dy int) error {
	e.logger.Info().Int("dx", dx).Int("dy", dy).Msg("move cursor")
	return nil
}

func (e *LogEmulator) Click() error {
	e.logger.Info().Msg("click")
	return nil
}
