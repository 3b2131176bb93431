package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sukalov/yoke/internal/project"
)

func runTag(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := tagCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTagCmd_Print(t *testing.T) {
	out, err := runTag(t, "1:02.345")
	if err != nil {
		t.Fatal(err)
	}
	if out != "[01:02.345]\n" {
		t.Errorf("output = %q", out)
	}
}

func TestTagCmd_Project(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.yoke")
	data := project.Default()
	data.Lyrics = "hello world"
	if err := project.Save(path, data); err != nil {
		t.Fatal(err)
	}

	out, err := runTag(t, "0:01.000", path, "--cursor", "0")
	if err != nil {
		t.Fatal(err)
	}
	if out != "11\n" {
		t.Errorf("next cursor = %q, want 11", out)
	}

	if _, err := runTag(t, "0:02.000", path, "--cursor", "17"); err != nil {
		t.Fatal(err)
	}

	saved, err := project.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Lyrics != "[00:01.000]hello [00:02.000]world" {
		t.Errorf("saved lyrics = %q", saved.Lyrics)
	}
}

func TestTagCmd_PlainTextNeedsOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.txt")
	if err := os.WriteFile(path, []byte("la la"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := runTag(t, "0:03.000", path)
	if err == nil || !strings.Contains(err.Error(), "-o") {
		t.Fatalf("error = %v, want a hint about -o", err)
	}

	out := filepath.Join(dir, "song.yoke")
	if _, err := runTag(t, "0:03.000", path, "-o", out); err != nil {
		t.Fatal(err)
	}
	saved, err := project.Load(out)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Lyrics != "[00:03.000]la la" {
		t.Errorf("saved lyrics = %q", saved.Lyrics)
	}
	if raw, _ := os.ReadFile(path); string(raw) != "la la" {
		t.Errorf("source file changed to %q", raw)
	}
}

func TestFrameOptions(t *testing.T) {
	data := project.Default()
	data.SongDelayTime = 2

	opts := frameOptions("song.yoke", data, 12, time.Minute, time.Second)
	if opts.Delay != 2*time.Second || opts.Titlecard != data.TitlecardShow() {
		t.Errorf("project options = %+v", opts)
	}

	opts = frameOptions("song.txt", data, 12, time.Minute, time.Second)
	if opts.Delay != 0 || opts.Titlecard != 0 || opts.FPS != 12 || opts.Length != time.Minute {
		t.Errorf("plain text options = %+v", opts)
	}
}
