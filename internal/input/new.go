package input

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/gazectl/internal/plugin"
)

// Options selects and configures an emulator backend.
type Options struct {
	Backend       string
	PluginDir     string
	PluginName    string
	PluginTimeout time.Duration
}

// New builds the emulator for opts.Backend.
func New(opts Options, logger zerolog.Logger) (Emulator, error) {
	switch opts.Backend {
	case BackendRobotgo, "":
		return NewRobotEmulator(), nil
	case BackendLog:
		return NewLogEmulator(logger.With().Str("component", "input").Logger()), nil
	case BackendPlugin:
		mgr := plugin.NewManager(opts.PluginDir)
		if err := mgr.Discover(); err != nil {
			return nil, fmt.Errorf("discover plugins: %w", err)
		}
		for _, err := range mgr.Skipped() {
			logger.Warn().Err(err).Msg("plugin skipped")
		}
		p, err := mgr.Get(opts.PluginName)
		if err != nil {
			return nil, err
		}
		return NewPluginEmulator(plugin.NewExecutor(opts.PluginTimeout), p)
	default:
		return nil, fmt.Errorf("unknown input backend %q", opts.Backend)
	}
}
