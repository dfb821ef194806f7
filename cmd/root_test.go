package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zeu5/goal-qlearner/cmd/common"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	flags = common.DefaultFlags()
	buf := new(bytes.Buffer)
	root := RootCommand()
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("%v: unexpected error: %v\n%s", args, err, buf.String())
	}
	return buf.String()
}

func TestDemoTrainAndJournal(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "journal.db")

	out := run(t, "demo", "train",
		"--save-path", dir,
		"--journal", db,
		"--charts",
		"--seed", "3",
		"--episodes", "20",
		"--goal", "2,3",
		"--goal", "0,1",
		"--from", "2,2",
	)
	for _, want := range []string{
		"Q matrix",
		"Goal [2, 3]: run ",
		"Goal [0, 1]: run ",
		"Goal [2, 3] from [2, 2]: ",
		"Unique states visited: ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	for _, file := range []string{"config.json", "charts.html", "coverage.json"} {
		if _, err := os.Stat(filepath.Join(dir, file)); err != nil {
			t.Errorf("expected %s: %v", file, err)
		}
	}

	listed := run(t, "journal", "--journal", db, "--goal", "0,1")
	if strings.Count(listed, "goal=[0, 1]") != 1 || strings.Contains(listed, "goal=[2, 3]") {
		t.Errorf("unexpected journal listing:\n%s", listed)
	}
}

func TestDemoTrain_InvalidRate(t *testing.T) {
	flags = common.DefaultFlags()
	buf := new(bytes.Buffer)
	root := RootCommand()
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"demo", "train", "--save-path", t.TempDir(), "--journal", "", "--alpha", "1.5"})
	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "alpha") {
		t.Fatalf("expected an alpha validation error, got %v", err)
	}
}

func TestDemoState(t *testing.T) {
	out := run(t, "demo", "state", "--env", "grid:4", "--journal", "")
	for _, want := range []string{"State: [0, 0]", "Relevant: (0, 0)", "Goal [2, 3] achieved: false"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestDemoTrain_WritesNothingByDefault(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	out := run(t, "demo", "train", "--journal", "", "--seed", "1", "--episodes", "3")
	if !strings.Contains(out, "Goal [2, 3]: run ") {
		t.Errorf("expected the default goal to be trained:\n%s", out)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected an untouched working directory, found %v", entries)
	}
}

func TestDemoTrain_AllGoals(t *testing.T) {
	out := run(t, "demo", "train", "--env", "grid:2", "--journal", "", "--seed", "2", "--episodes", "2", "--all-goals")
	for _, goal := range []string{"[0, 0]", "[0, 1]", "[1, 0]", "[1, 1]"} {
		if !strings.Contains(out, "Goal "+goal+": run ") {
			t.Errorf("expected goal %s to be trained:\n%s", goal, out)
		}
	}
}
