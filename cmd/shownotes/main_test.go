package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shownotes/internal/store"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\nlog_dir = %q\n",
		filepath.Join(base, "data"),
		filepath.Join(base, "logs"),
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
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

func TestItemsAddListDelete(t *testing.T) {
	configPath := writeTestConfig(t)

	out, _, err := runCLI(t, configPath, "items", "add", "https://news.example/1", "-t", "Story", "-s", "news")
	if err != nil {
		t.Fatalf("items add: %v", err)
	}
	if !strings.Contains(out, "Added item") {
		t.Fatalf("unexpected output: %q", out)
	}

	out, _, err = runCLI(t, configPath, "items", "list", "--json")
	if err != nil {
		t.Fatalf("items list: %v", err)
	}
	var items store.OrderedItems
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("decode list output %q: %v", out, err)
	}
	if len(items.News) != 1 || items.News[0].Title != "Story" {
		t.Fatalf("unexpected items: %+v", items)
	}

	id := items.News[0].ID
	if _, _, err := runCLI(t, configPath, "items", "delete", fmt.Sprint(id)); err != nil {
		t.Fatalf("items delete: %v", err)
	}

	if _, _, err := runCLI(t, configPath, "items", "delete", fmt.Sprint(id)); err == nil {
		t.Fatal("deleting a missing item should fail")
	}
}

func TestItemsAddRejectsBadSection(t *testing.T) {
	configPath := writeTestConfig(t)

	_, _, err := runCLI(t, configPath, "items", "add", "https://x", "-s", "editorial")
	if err == nil {
		t.Fatal("expected section validation error")
	}
}

func TestEpisodeSetAndShow(t *testing.T) {
	configPath := writeTestConfig(t)

	if _, _, err := runCLI(t, configPath, "episode", "set", "--week", "12", "--year", "2026", "--youtube", "https://youtube.com/watch?v=abc"); err != nil {
		t.Fatalf("episode set: %v", err)
	}

	out, _, err := runCLI(t, configPath, "episode", "show", "--json")
	if err != nil {
		t.Fatalf("episode show: %v", err)
	}
	var episode store.Episode
	if err := json.Unmarshal([]byte(out), &episode); err != nil {
		t.Fatalf("decode episode %q: %v", out, err)
	}
	if episode.WeekNumber != 12 || episode.Year != 2026 {
		t.Fatalf("unexpected episode: %+v", episode)
	}

	if _, _, err := runCLI(t, configPath, "episode", "set", "--week", "60", "--year", "2026"); err == nil {
		t.Fatal("expected week validation error")
	}
}

func TestEpisodeResetRequiresConfirmation(t *testing.T) {
	configPath := writeTestConfig(t)

	if _, _, err := runCLI(t, configPath, "episode", "reset"); err == nil {
		t.Fatal("reset without --yes should fail")
	}
	out, _, err := runCLI(t, configPath, "episode", "reset", "--yes")
	if err != nil {
		t.Fatalf("episode reset: %v", err)
	}
	if !strings.Contains(out, "Episode reset") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestGenerateWritesMarkdownAndWarnings(t *testing.T) {
	configPath := writeTestConfig(t)

	if _, _, err := runCLI(t, configPath, "items", "add", "https://v.example/1", "-t", "CVE", "-s", "vulnerability"); err != nil {
		t.Fatalf("items add: %v", err)
	}

	out, errOut, err := runCLI(t, configPath, "generate")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(out, "- [CVE](https://v.example/1)") {
		t.Fatalf("markdown missing item:\n%s", out)
	}
	if !strings.Contains(errOut, "YouTube URL") {
		t.Fatalf("expected warning on stderr, got %q", errOut)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "config.toml")

	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config not written: %v", err)
	}

	// Running init again without --overwrite refuses to clobber.
	cmd = newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}
}
