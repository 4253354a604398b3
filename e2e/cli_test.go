package e2e_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/charvault/internal/api"
	"github.com/mcoot/charvault/internal/api/response"
	"github.com/mcoot/charvault/internal/factory"
	"github.com/mcoot/charvault/internal/testutil"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	projectRoot := findProjectRoot(t)

	binaryPath := filepath.Join(t.TempDir(), "charvault-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/charvault")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token"),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Env = append(os.Environ(), "CHARVAULT_TOKEN=")
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// startTestServer runs the real HTTP server on a free port
func startTestServer(t *testing.T) string {
	t.Helper()

	app := factory.NewTestApp()
	logger := testutil.NopLogger()

	router := api.NewRouter(api.RouterConfig{
		Logger:           logger,
		AuthService:      app.AuthService,
		CharacterService: app.CharacterService,
		ItemService:      app.ItemService,
	})
	server := api.NewServer(router, api.DefaultServerConfig(), logger)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() {
		if err := server.Serve(ln); err != nil {
			t.Logf("server error: %v", err)
		}
	}()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	})

	serverURL := "http://" + ln.Addr().String()
	waitForServer(t, serverURL+"/api/v1/health")
	return serverURL
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

func TestCLI_HealthCheck(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp response.Health
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_FullFlow(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	output, err := cli.run("account", "join", "--id", "alice", "--password", "pw-alice", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("account", "login", "--id", "alice", "--password", "pw-alice")
	require.NoError(t, err, "output: %s", output)
	var token response.Token
	require.NoError(t, json.Unmarshal([]byte(output), &token))
	require.NotEmpty(t, token.Token)

	output, err = cli.run("character", "create", "hero")
	require.NoError(t, err, "output: %s", output)

	var own response.Character
	require.NoError(t, json.Unmarshal([]byte(output), &own))
	require.NotNil(t, own.Money)
	assert.Equal(t, int64(10000), *own.Money)

	// Another account sees the character without money
	output, err = cli.run("account", "join", "--id", "bob", "--password", "pw-bob", "--name", "Bob")
	require.NoError(t, err, "output: %s", output)
	bobCLI := &cliRunner{binaryPath: cli.binaryPath, serverURL: cli.serverURL, tokenFile: filepath.Join(t.TempDir(), "token")}
	output, err = bobCLI.run("account", "login", "--id", "bob", "--password", "pw-bob")
	require.NoError(t, err, "output: %s", output)

	output, err = bobCLI.run("character", "show", "hero")
	require.NoError(t, err, "output: %s", output)
	assert.NotContains(t, output, "money")

	output, err = bobCLI.run("character", "delete", "hero")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "forbidden")

	output, err = cli.runWithToken(token.Token, "character", "delete", "hero")
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, `"deleted": true`)
}

func TestCLI_ErrorHandling(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	output, err := cli.run("account", "me")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "unauthorized")

	output, err = cli.runWithToken("not-a-token", "character", "list")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "unauthorized")

	output, err = cli.run("item", "show", "404")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")
}
