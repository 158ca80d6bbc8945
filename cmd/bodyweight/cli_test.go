package bodyweight

import (
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prikhi/bodyweight-client/internal/api"
	"github.com/prikhi/bodyweight-client/internal/db"
)

type cliEnv struct {
	t        *testing.T
	cfgPath  string
	clientDB string
	serverDB string
	apiURL   string
}

func newCLIEnv(t *testing.T, token string) *cliEnv {
	t.Helper()
	t.Setenv("BODYWEIGHT_API_URL", "")
	t.Setenv("BODYWEIGHT_DB", "")
	dir := t.TempDir()
	serverDB := filepath.Join(dir, "server.db")
	sqldb, err := db.Open(serverDB)
	require.NoError(t, err)
	require.NoError(t, db.ApplyMigrations(sqldb))
	t.Cleanup(func() { _ = sqldb.Close() })

	srv := httptest.NewServer(api.New(sqldb, api.WithToken(token)).Handler())
	t.Cleanup(srv.Close)
	return &cliEnv{
		t:        t,
		cfgPath:  filepath.Join(dir, "config.yaml"),
		clientDB: filepath.Join(dir, "client.db"),
		serverDB: serverDB,
		apiURL:   srv.URL,
	}
}

func (e *cliEnv) run(args ...string) (string, error) {
	e.t.Helper()
	base := []string{"--config", e.cfgPath, "--db", e.clientDB, "--api", e.apiURL}
	return runCLI(e.t, append(base, args...)...)
}

func (e *cliEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	require.NoError(e.t, err, "bodyweight %s\n%s", strings.Join(args, " "), out)
	return out
}

func TestCLIRoutineLifecycle(t *testing.T) {
	env := newCLIEnv(t, "secret")

	_, err := env.run("exercise", "list")
	require.Error(t, err, "requests without a stored token must be rejected")

	out := env.mustRun("auth", "login", "--token", "secret", "--user-id", "4")
	assert.Contains(t, out, "Logged in as user 4")
	assert.Contains(t, env.mustRun("auth", "status"), "Logged in as user 4")

	out = env.mustRun("exercise", "add", "--name", "Push Up", "--youtube", "abc,def")
	assert.Contains(t, out, "Exercise 1: Push Up (Reps)")
	assert.Contains(t, out, "Videos: abc, def")
	out = env.mustRun("exercise", "add", "--name", "Plank", "--hold")
	assert.Contains(t, out, "Exercise 2: Plank (Hold)")

	out = env.mustRun("exercise", "update", "1", "--description", "Chest to floor")
	assert.Contains(t, out, "Chest to floor")
	out = env.mustRun("exercise", "update", "1", "--description", "Chest to floor")
	assert.Contains(t, out, "No changes to exercise 1")

	out = env.mustRun("routine", "new", "--name", "Starter", "--section", "Strength")
	assert.Contains(t, out, "Routine 1: Starter (private)")
	assert.Contains(t, out, "Section 1: Strength")

	out = env.mustRun("section", "add-exercise", "--routine", "1", "--section", "1", "--exercise", "1", "--sets", "3", "--reps", "10")
	assert.Contains(t, out, "1. Push Up  3x10")

	out = env.mustRun("section", "add", "--routine", "1", "--name", "Core")
	assert.Contains(t, out, "Section 2: Core")
	out = env.mustRun("section", "add-exercise", "--routine", "1", "--section", "2", "--exercise", "2", "--sets", "2", "--reps", "30", "--rest-after")
	assert.Contains(t, out, "1. Plank  2x30, rest after")

	out = env.mustRun("routine", "list")
	assert.Contains(t, out, "1\tStarter\tfalse\t2")

	out = env.mustRun("section", "delete", "--routine", "1", "--section", "1")
	assert.Contains(t, out, "Deleted section 1")
	assert.NotContains(t, out, "Strength")

	out = env.mustRun("exercise", "list")
	assert.NotContains(t, out, "Push Up", "deleting a section removes its exercises")
	assert.Contains(t, out, "Plank")

	out = env.mustRun("routine", "delete", "1")
	assert.Contains(t, out, "Deleted routine 1")

	out, err = runCLI(t, "--config", env.cfgPath, "--db", env.serverDB, "doctor")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Orphan sections: 0")
	assert.Contains(t, out, "Orphan section exercises: 0")
	assert.Contains(t, out, "Section exercises without exercises: 0")

	assert.Contains(t, env.mustRun("auth", "logout"), "Logged out")
	assert.Contains(t, env.mustRun("auth", "status"), "Not logged in")
}

func TestCLIRoutineNeedsNameBeforeSections(t *testing.T) {
	env := newCLIEnv(t, "")

	_, err := env.run("routine", "new", "--section", "Warmup")
	require.Error(t, err)
	assert.Equal(t, "You must first enter a name for the Routine.", err.Error())

	out, err := env.run("routine", "list")
	require.NoError(t, err, out)
	assert.Equal(t, "ID\tNAME\tPUBLIC\tSECTIONS\n", out, "nothing is persisted after a failed validation")
}

func TestCLIReportsServerValidation(t *testing.T) {
	env := newCLIEnv(t, "")

	_, err := env.run("exercise", "add", "--name", "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not save the Exercise")

	_, err = env.run("exercise", "show", "99")
	require.Error(t, err)
}

func TestBackupCommands(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	dbPath := filepath.Join(dir, "bodyweight.db")
	_, err := runCLI(t, "--config", cfgPath, "--db", dbPath, "init")
	require.NoError(t, err)

	out, err := runCLI(t, "--config", cfgPath, "--db", dbPath, "backup", "create")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Created backup: "+filepath.Join(dir, "backups"))

	assert.Contains(t, out, "Contains 0 routines and 0 exercises")

	out, err = runCLI(t, "--config", cfgPath, "--db", dbPath, "backup", "list")
	require.NoError(t, err, out)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[1], "\tyes"), lines[1])
	snapshot := strings.SplitN(lines[1], "\t", 2)[0]

	_, err = runCLI(t, "--config", cfgPath, "--db", dbPath, "backup", "restore", "--file", snapshot)
	require.Error(t, err)
	out, err = runCLI(t, "--config", cfgPath, "--db", dbPath, "backup", "restore", "--file", snapshot, "--force")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Restored "+dbPath)
}
