package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/pantry/internal/paths"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

// testEnv runs pantry commands against temporary config and data dirs.
type testEnv struct {
	t         *testing.T
	configDir string
	dataDir   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	return &testEnv{
		t:         t,
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
	}
}

func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir, "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	require.NoError(e.t, err, "pantry %v", args)
	return out
}

func TestInitCreatesDirectories(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun("init")

	assert.Contains(t, out, "Pantry initialized successfully")
	assert.FileExists(t, paths.ConfigFile(env.configDir))
	assert.FileExists(t, filepath.Join(env.dataDir, types.DefaultDatabaseFile))
}

func TestMigrateReportsChanges(t *testing.T) {
	env := newTestEnv(t)

	var first types.MigrationResult
	require.NoError(t, json.Unmarshal([]byte(env.mustRun("--json", "migrate")), &first))
	assert.Equal(t, []string{"config"}, first.TablesCreated)
	assert.NotEmpty(t, first.RunID)

	out := env.mustRun("migrate")
	assert.Contains(t, out, "schema up to date")
}

func TestConfigCommands(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun("config", "get", "app.theme")
	assert.JSONEq(t, `{"mode":"auto","primaryColor":"#007bff","fontSize":14,"enableAnimation":true}`, out)

	env.mustRun("config", "set", "app.theme", `{"mode":"dark"}`)
	out = env.mustRun("config", "get", "app.theme")
	assert.JSONEq(t, `{"mode":"dark"}`, out)

	out = env.mustRun("config", "list")
	assert.Contains(t, out, "app.settings")
	assert.Contains(t, out, `{"mode":"dark"}`)

	env.mustRun("config", "delete", "app.theme")
	_, err := env.run("config", "get", "app.theme")
	require.Error(t, err)
	assert.Equal(t, exitUserError, exitCode(err))

	_, err = env.run("config", "set", "app.theme", `{}`)
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = env.run("config", "set", "app.settings", `not json`)
	assert.ErrorIs(t, err, types.ErrInvalidData)
}

func TestSchemaCommand(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun("schema")

	var tables []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &tables))
	require.Len(t, tables, 1)
	assert.Equal(t, "config", tables[0]["name"])
	assert.Contains(t, out, "expr:")
	assert.Contains(t, out, "strftime")
	assert.Contains(t, out, "trigger_config_update_timestamp")

	out = env.mustRun("--json", "schema")
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "config", decoded[0]["name"])
}

func TestConfigFileSettingsApply(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(env.configDir, 0o755))
	require.NoError(t, os.WriteFile(paths.ConfigFile(env.configDir), []byte("database: custom.db\n"), 0o644))

	env.mustRun("init")
	assert.FileExists(t, filepath.Join(env.dataDir, "custom.db"))
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun("version")
	assert.Contains(t, out, "pantry v")
	assert.NoDirExists(t, env.configDir)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitUserError, exitCode(types.ErrNotFound))
	assert.Equal(t, exitSysError, exitCode(os.ErrPermission))
}
