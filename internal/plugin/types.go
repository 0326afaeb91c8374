// Package plugin discovers helper executables that perform input actions and
// runs them with a JSON request on stdin and a JSON response on stdout.
package plugin

import (
	"encoding/json"
	"slices"
)

// ManifestFile is the name of the manifest inside each plugin directory.
const ManifestFile = "plugin.json"

// Manifest describes a plugin's metadata and capabilities.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Actions     []string `json:"actions"`
	// Platforms restricts the plugin to the given GOOS values. Empty means any.
	Platforms []string `json:"platforms,omitempty"`
}

// Request represents a request sent to a plugin for execution.
type Request struct {
	Action string          `json:"action"`
	Config json.RawMessage `json:"config,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response represents the response from a plugin execution.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Supports reports whether the plugin declares the action.
func (p *Plugin) Supports(action string) bool {
	return slices.Contains(p.Manifest.Actions, action)
}

// RunsOn reports whether the plugin can run on the given GOOS.
func (p *Plugin) RunsOn(goos string) bool {
	return len(p.Manifest.Platforms) == 0 || slices.Contains(p.Manifest.Platforms, goos)
}
