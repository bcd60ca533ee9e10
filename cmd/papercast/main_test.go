package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"papercast/internal/audio"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
}

func setupCLITestEnv(t *testing.T, baseURL string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
data_dir = %q
staging_dir = %q
log_dir = %q

[api]
api_key = "test"
`,
		filepath.Join(base, "data"),
		filepath.Join(base, "staging"),
		filepath.Join(base, "logs"),
	)
	if baseURL != "" {
		content += fmt.Sprintf("base_url = %q\n", baseURL)
	}
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{baseDir: base, configPath: configPath}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeDocument(t *testing.T, env *cliTestEnv, name, contents string) string {
	t.Helper()
	path := filepath.Join(env.baseDir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	return path
}

func TestCLIExtractAndDocuments(t *testing.T) {
	env := setupCLITestEnv(t, "")
	path := writeDocument(t, env, "market_overview.txt", "A short note about revenue and market trends.")

	out, _, err := runCLI(t, env.configPath, "extract", path, "--save")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(out, "Market Overview") {
		t.Fatalf("extract output missing title: %q", out)
	}
	if !strings.Contains(out, "Saved document") {
		t.Fatalf("extract output missing save confirmation: %q", out)
	}

	out, _, err = runCLI(t, env.configPath, "documents", "list")
	if err != nil {
		t.Fatalf("documents list: %v", err)
	}
	if !strings.Contains(out, "Market Overview") {
		t.Fatalf("documents list missing saved document: %q", out)
	}

	id := ""
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(strings.Trim(line, "│ "))
		if len(fields) > 0 && strings.Count(fields[0], "-") == 4 {
			id = fields[0]
			break
		}
	}
	if id == "" {
		t.Fatalf("could not locate document id in output: %q", out)
	}

	out, _, err = runCLI(t, env.configPath, "documents", "remove", id)
	if err != nil {
		t.Fatalf("documents remove: %v", err)
	}
	if !strings.Contains(out, "Removed document") {
		t.Fatalf("unexpected remove output: %q", out)
	}
}

func TestCLIExtractRejectsUnsupportedType(t *testing.T) {
	env := setupCLITestEnv(t, "")

	_, _, err := runCLI(t, env.configPath, "extract", filepath.Join(env.baseDir, "missing.docx"))
	if err == nil {
		t.Fatal("expected unsupported format error")
	}
	if !strings.Contains(err.Error(), "docx") {
		t.Fatalf("error should name the extension: %v", err)
	}
}

func TestCLIAnalyze(t *testing.T) {
	env := setupCLITestEnv(t, "")
	path := writeDocument(t, env, "pitch.txt", "Our startup raised funding from investors")

	out, _, err := runCLI(t, env.configPath, "analyze", path)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out, "business") {
		t.Fatalf("expected business theme in output: %q", out)
	}
}

func TestCLITemplates(t *testing.T) {
	env := setupCLITestEnv(t, "")

	out, _, err := runCLI(t, env.configPath, "templates", "list")
	if err != nil {
		t.Fatalf("templates list: %v", err)
	}
	for _, id := range []string{"research-to-podcast", "document-analysis", "content-expansion"} {
		if !strings.Contains(out, id) {
			t.Fatalf("templates list missing %s: %q", id, out)
		}
	}

	out, _, err = runCLI(t, env.configPath, "templates", "show", "research-to-podcast")
	if err != nil {
		t.Fatalf("templates show: %v", err)
	}
	if !strings.Contains(out, "Generate Podcast Audio") {
		t.Fatalf("templates show missing step: %q", out)
	}

	out, _, err = runCLI(t, env.configPath, "templates", "reset")
	if err != nil {
		t.Fatalf("templates reset: %v", err)
	}
	if !strings.Contains(out, "Restored 3") {
		t.Fatalf("unexpected reset output: %q", out)
	}
}

func TestCLIStatusEmpty(t *testing.T) {
	env := setupCLITestEnv(t, "")

	out, _, err := runCLI(t, env.configPath, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "No active workflow") {
		t.Fatalf("unexpected status output: %q", out)
	}
}

func TestCLIConfigInit(t *testing.T) {
	env := setupCLITestEnv(t, "")
	target := filepath.Join(env.baseDir, "fresh", "config.toml")

	out, _, err := runCLI(t, env.configPath, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Fatalf("unexpected init output: %q", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}

	if _, _, err := runCLI(t, env.configPath, "config", "init", "--path", target); err == nil {
		t.Fatal("expected second init without --overwrite to fail")
	}
}

func TestCLIProcessWithSelectedDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chat/completions":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"analysis output"}}]}`)
		case "/images/generations":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"created":1,"data":[{"url":"https://img.example/summary.png"}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	env := setupCLITestEnv(t, server.URL)
	path := writeDocument(t, env, "briefing.txt", "Quarterly revenue grew while market share held steady.")

	out, _, err := runCLI(t, env.configPath, "extract", path, "--save")
	if err != nil {
		t.Fatalf("extract --save: %v", err)
	}
	id := ""
	for _, field := range strings.Fields(out) {
		if strings.Count(field, "-") == 4 && len(field) == 36 {
			id = field
			break
		}
	}
	if id == "" {
		t.Fatalf("no document id in extract output: %q", out)
	}

	if _, _, err := runCLI(t, env.configPath, "documents", "select", id); err != nil {
		t.Fatalf("documents select: %v", err)
	}

	out, _, err = runCLI(t, env.configPath, "process", "--template", "document-analysis")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !strings.Contains(out, "completed") || !strings.Contains(out, "complete") {
		t.Fatalf("expected completed workflow, got: %q", out)
	}
	if !strings.Contains(out, "https://img.example/summary.png") {
		t.Fatalf("expected image url in step table: %q", out)
	}

	out, _, err = runCLI(t, env.configPath, "status")
	if err != nil {
		t.Fatalf("status after process: %v", err)
	}
	if !strings.Contains(out, "document-analysis") {
		t.Fatalf("status missing template id: %q", out)
	}
}

func TestCLIPodcast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			http.NotFound(w, r)
			return
		}
		wav := audio.EncodeWAV(&audio.PCM{
			SampleRate: 8000,
			Channels:   1,
			Samples:    audio.Silence(0.5, 8000, 1),
		})
		w.Header().Set("Content-Type", "audio/wav")
		w.Write(wav)
	}))
	defer server.Close()

	env := setupCLITestEnv(t, server.URL)
	scriptPath := writeDocument(t, env, "episode.txt",
		"[TITLE] Tiny Episode\nHost: Welcome back.\nGuest: Happy to be here.")
	target := filepath.Join(env.baseDir, "episode.wav")

	out, _, err := runCLI(t, env.configPath, "podcast", scriptPath, "-o", target)
	if err != nil {
		t.Fatalf("podcast: %v", err)
	}
	if !strings.Contains(out, "Tiny Episode") {
		t.Fatalf("podcast output missing title: %q", out)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read stitched wav: %v", err)
	}
	pcm, err := audio.DecodeWAV(data)
	if err != nil {
		t.Fatalf("stitched output not decodable: %v", err)
	}
	// Two half-second lines plus the default pause between them.
	if d := pcm.DurationSeconds(); d < 1.4 || d > 1.6 {
		t.Fatalf("unexpected stitched duration %.2fs", d)
	}
}
