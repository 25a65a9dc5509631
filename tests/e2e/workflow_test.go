package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const (
	TEST_SERVER_TIMEOUT = 30 * time.Second
	TEST_SESSION_SECRET = "e2e-session-secret-0123456789abcdef"
)

func TestEndToEndWorkflow(t *testing.T) {
	// 1. Setup Environment
	// Allow overriding bin dir via env var, default to ../../bin (relative to tests/e2e)
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get cwd: %v", err)
	}

	binDir := os.Getenv("SHIFTLEDGER_BIN_DIR")
	if binDir == "" {
		binDir = filepath.Join(cwd, "..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)
	t.Logf("Using bin dir: %s", binDir)

	cliPath := filepath.Join(binDir, "shiftledger")
	if _, err := os.Stat(cliPath); os.IsNotExist(err) {
		t.Fatalf("CLI binary not found at %s. Please build it first.", cliPath)
	}

	// Create temp home for isolation
	tempDir := t.TempDir()
	t.Logf("Running test in temp dir: %s", tempDir)

	var cleanEnv []string
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, "HOME=") && !strings.HasPrefix(e, "SHIFTLEDGER_") {
			cleanEnv = append(cleanEnv, e)
		}
	}
	cleanEnv = append(cleanEnv,
		fmt.Sprintf("HOME=%s", tempDir),
		fmt.Sprintf("SHIFTLEDGER_SESSION_SECRET=%s", TEST_SESSION_SECRET),
	)

	// 2. Initialize and record a week of work
	t.Log("Initializing CLI...")
	runCmd(t, cliPath, cleanEnv, "init")
	dbPath := filepath.Join(tempDir, ".config", "shiftledger", "shiftledger.db")
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("Database not created at %s: %v", dbPath, err)
	}

	runCmd(t, cliPath, cleanEnv, "settings", "--daily-limit=8", "--min-rate=180=54,240=72")
	runCmd(t, cliPath, cleanEnv, "income", "add", "81.50", "-d", "2025-01-06", "-l", "240")
	runCmd(t, cliPath, cleanEnv, "income", "add", "60", "-d", "2025-01-07", "-s", "09:00", "-e", "12:00")
	runCmd(t, cliPath, cleanEnv, "income", "add", "22", "-d", "2025-01-07", "-p", "doordash")
	runCmd(t, cliPath, cleanEnv, "day", "set", "2025-01-07", "--mileage=88", "--gas=31.20")
	runCmd(t, cliPath, cleanEnv, "expense", "add", "Phone", "-a", "45", "-d", "15")
	runCmd(t, cliPath, cleanEnv, "plan", "add", "Tires", "-c", "400", "-n", "4", "-a", "100", "-s", "2025-01-01")
	runCmd(t, cliPath, cleanEnv, "goal", "add", "Emergency fund", "-t", "500")

	// A second 4.5h Flex block on the 6th breaks the 8h cap.
	capCmd := exec.Command(cliPath, "income", "add", "95", "-d", "2025-01-06", "-l", "270")
	capCmd.Env = cleanEnv
	if out, err := capCmd.CombinedOutput(); err == nil {
		t.Fatalf("Expected the daily cap to reject the entry\nOutput: %s", out)
	}

	out := runCmd(t, cliPath, cleanEnv, "summary", "2025-01")
	if !strings.Contains(out, "$163.50") {
		t.Errorf("Summary does not show the month's income:\n%s", out)
	}
	runCmd(t, cliPath, cleanEnv, "simulate")
	runCmd(t, cliPath, cleanEnv, "doctor")

	// 3. Export and re-import
	exportPath := filepath.Join(tempDir, "export.json")
	runCmd(t, cliPath, cleanEnv, "export", "-o", exportPath)
	runCmd(t, cliPath, cleanEnv, "import", exportPath)

	// 4. Serve the same database over HTTP
	addr := freeAddr(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serveCmd := exec.CommandContext(ctx, cliPath, "serve", "--addr", addr, "--snapshots=", "--no-reminders")
	serveCmd.Env = cleanEnv
	var serveOut bytes.Buffer
	serveCmd.Stdout = &serveOut
	serveCmd.Stderr = &serveOut
	if err := serveCmd.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	defer func() {
		cancel()
		_ = serveCmd.Wait()
		if t.Failed() {
			t.Logf("Server output: %s", serveOut.String())
		}
	}()

	base := "http://" + addr
	waitForHealth(t, base+"/health", TEST_SERVER_TIMEOUT)
	t.Log("Server is ready")

	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar, Timeout: 5 * time.Second}

	resp, err := client.Get(base + "/api/income")
	if err != nil {
		t.Fatalf("GET /api/income failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Unauthenticated request: status = %d, want 401", resp.StatusCode)
	}

	resp, err = client.Post(base+"/setup", "application/json", strings.NewReader(`{"password":"driving-all-day"}`))
	if err != nil {
		t.Fatalf("POST /setup failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Setup: status = %d", resp.StatusCode)
	}

	resp, err = client.Get(base + "/api/income?from=2025-01-07&to=2025-01-07")
	if err != nil {
		t.Fatalf("GET /api/income failed: %v", err)
	}
	defer resp.Body.Close()
	var entries []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("Failed to decode income: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Income on 2025-01-07 = %d entries, want 2", len(entries))
	}
}

func runCmd(t *testing.T, path string, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command(path, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Command %s %v failed: %v\nOutput: %s", path, args, err, out)
	}
	return string(out)
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to find a free port: %v", err)
	}
	defer l.Close()
	return l.Addr().String()
}

func waitForHealth(t *testing.T, url string, timeout time.Duration) {
	t.Helper()
	start := time.Now()
	for {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		if time.Since(start) > timeout {
			t.Fatalf("Timed out waiting for %s", url)
		}
		time.Sleep(100 * time.Millisecond)
	}
}
