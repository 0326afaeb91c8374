package plugin

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, root, dir string, manifest any) string {
	t.Helper()

	pluginDir := filepath.Join(root, dir)
	if err := os.MkdirAll(pluginDir, 0755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}

	var data []byte
	switch m := manifest.(type) {
	case string:
		data = []byte(m)
	default:
		var err error
		if data, err = json.Marshal(m); err != nil {
			t.Fatalf("failed to marshal manifest: %v", err)
		}
	}

	if err := os.WriteFile(filepath.Join(pluginDir, ManifestFile), data, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return pluginDir
}

func TestManager_Discover(t *testing.T) {
	tmpDir := t.TempDir()
	pluginDir := writeManifest(t, tmpDir, "xdotool", Manifest{
		Name:        "xdotool",
		Version:     "1.0.0",
		Description: "Input actions through xdotool",
		Executable:  "xdotool-plugin",
		Actions:     []string{"scroll", "move", "click"},
	})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 1 {
		t.Fatalf("expected 1 plugin, got %d", len(plugins))
	}

	plugin := plugins[0]
	if plugin.Manifest.Name != "xdotool" {
		t.Errorf("expected plugin name 'xdotool', got %q", plugin.Manifest.Name)
	}
	if len(plugin.Manifest.Actions) != 3 {
		t.Errorf("expected 3 actions, got %d", len(plugin.Manifest.Actions))
	}
	if plugin.Path != pluginDir {
		t.Errorf("expected path %q, got %q", pluginDir, plugin.Path)
	}
	if plugin.Executable != filepath.Join(pluginDir, "xdotool-plugin") {
		t.Errorf("unexpected executable %q", plugin.Executable)
	}
	if !plugin.Supports("click") || plugin.Supports("type") {
		t.Error("Supports() does not match declared actions")
	}
}

func TestManager_Discover_MultiplePlugins(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		writeManifest(t, tmpDir, name, Manifest{Name: name, Executable: name})
	}

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 3 {
		t.Fatalf("expected 3 plugins, got %d", len(plugins))
	}
	if plugins[0].Manifest.Name != "alpha" || plugins[2].Manifest.Name != "zeta" {
		t.Errorf("plugins not sorted by name: %s, %s, %s",
			plugins[0].Manifest.Name, plugins[1].Manifest.Name, plugins[2].Manifest.Name)
	}
}

func TestManager_Discover_Skips(t *testing.T) {
	tmpDir := t.TempDir()
	writeManifest(t, tmpDir, "broken", "{not json")
	writeManifest(t, tmpDir, "nameless", Manifest{Executable: "x"})
	writeManifest(t, tmpDir, "elsewhere", Manifest{Name: "elsewhere", Executable: "x", Platforms: []string{"plan9"}})
	writeManifest(t, tmpDir, "good", Manifest{Name: "good", Executable: "good"})
	if err := os.MkdirAll(filepath.Join(tmpDir, "no-manifest"), 0755); err != nil {
		t.Fatal(err)
	}

	manager := NewManager(tmpDir)
	manager.goos = "linux"
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	if len(manager.List()) != 1 {
		t.Errorf("expected only the valid plugin, got %d", len(manager.List()))
	}
	if got := len(manager.Skipped()); got != 3 {
		t.Errorf("expected 3 skipped plugins, got %d: %v", got, manager.Skipped())
	}
}

func TestManager_Discover_EmptyDir(t *testing.T) {
	manager := NewManager(t.TempDir())
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}
	if len(manager.List()) != 0 {
		t.Errorf("expected 0 plugins, got %d", len(manager.List()))
	}
}

func TestManager_Discover_NonExistentDir(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "missing"))
	if err := manager.Discover(); err != nil {
		t.Errorf("Discover() should not fail for a missing dir, got %v", err)
	}
}

func TestManager_Get(t *testing.T) {
	tmpDir := t.TempDir()
	writeManifest(t, tmpDir, "xdotool", Manifest{Name: "xdotool", Executable: "xdotool-plugin"})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugin, err := manager.Get("xdotool")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if plugin.Manifest.Name != "xdotool" {
		t.Errorf("unexpected plugin %q", plugin.Manifest.Name)
	}

	if _, err := manager.Get("missing"); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("expected ErrPluginNotFound, got %v", err)
	}
}

func TestManager_PluginDir(t *testing.T) {
	manager := NewManager("/some/path")
	if manager.PluginDir() != "/some/path" {
		t.Errorf("unexpected plugin dir %q", manager.PluginDir())
	}
}

func TestPlugin_RunsOn(t *testing.T) {
	anywhere := &Plugin{}
	linuxOnly := &Plugin{Manifest: Manifest{Platforms: []string{"linux"}}}

	if !anywhere.RunsOn("darwin") {
		t.Error("plugin without platforms should run anywhere")
	}
	if !linuxOnly.RunsOn("linux") || linuxOnly.RunsOn("darwin") {
		t.Error("platform restriction not honoured")
	}
}
