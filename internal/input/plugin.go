package input

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ayusman/gazectl/internal/plugin"
)

// PluginEmulator forwards actions to a helper executable.
type PluginEmulator struct {
	executor *plugin.Executor
	plugin   *plugin.Plugin
}

// NewPluginEmulator returns an emulator backed by p. The plugin must declare
// the scroll, move and click actions.
func NewPluginEmulator(executor *plugin.Executor, p *plugin.Plugin) (*PluginEmulator, error) {
	for _, action := range []string{"scroll", "move", "click"} {
		if !p.Supports(action) {
			return nil, fmt.Errorf("plugin %s lacks action %q", p.Manifest.Name, action)
		}
	}
	return &PluginEmulator{executor: executor, plugin: p}, nil
}

func (e *PluginEmulator) Scroll(amount int) error {
	return e.run("scroll", map[string]int{"amount": amount})
}

func (e *PluginEmulator) MoveCursorRelative(dx, dy int) error {
	return e.run("move", map[string]int{"dx": dx, "dy": dy})
}

func (e *PluginEmulator) Click() error {
	return e.run("click", nil)
}

func (e *PluginEmulator) run(action string, params any) error {
	req := &plugin.Request{Action: action}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return err
		}
		req.Params = raw
	}

	resp, err := e.executor.Execute(context.Background(), e.plugin, req)
	if err != nil {
		return err
	}
	if !resp.Success {
		if resp.Error == "" {
			return errors.New("plugin reported failure")
		}
		return errors.New(resp.Error)
	}
	return nil
}
