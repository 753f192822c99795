package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/amonks/sidequest/quest"
	"github.com/amonks/sidequest/reminder"
	"github.com/rogpeppe/go-internal/testscript"
)

var (
	buildOnce sync.Once
	sqPath    string
	buildErr  error
)

// BuildSQ builds the sq binary once and returns its path.
func BuildSQ(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "sq-bin-")
		if err != nil {
			buildErr = err
			return
		}

		sqPath = filepath.Join(binDir, "sq")
		cmd := exec.Command("go", "build", "-o", sqPath, "./cmd/sq")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build sq: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return sqPath
}

// SetupScriptEnv configures common environment variables for testscript.
// Scripts run in UTC at a clock pinned by SIDEQUEST_NOW.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("SQ", BuildSQ(t))

	homeDir := filepath.Join(env.WorkDir, "home")
	if err := EnsureHomeDirs(homeDir); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)
	env.Setenv("TZ", "UTC")
	env.Setenv("NO_COLOR", "1")
	env.Setenv("SIDEQUEST_NOW", "2026-03-02T09:00:00Z")
	return nil
}

// Commands returns the custom testscript commands.
func Commands() map[string]func(ts *testscript.TestScript, neg bool, args []string) {
	return map[string]func(ts *testscript.TestScript, neg bool, args []string){
		"envset":     CmdEnvSet,
		"questid":    CmdQuestID,
		"reminderid": CmdReminderID,
	}
}

// CmdEnvSet stores the trimmed contents of a file in an env var.
func CmdEnvSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envset does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envset VAR FILE")
	}

	value := strings.TrimSpace(ts.ReadFile(args[1]))
	ts.Setenv(args[0], value)
}

// CmdQuestID finds a quest by title in a JSON list and stores its ID in an env var.
func CmdQuestID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("questid does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: questid FILE TITLE VAR")
	}

	var items []quest.Quest
	if err := json.Unmarshal([]byte(ts.ReadFile(args[0])), &items); err != nil {
		ts.Fatalf("parse quest list: %v", err)
	}

	for _, item := range items {
		if item.Title == args[1] {
			ts.Setenv(args[2], item.ID)
			return
		}
	}

	ts.Fatalf("quest with title %q not found", args[1])
}

// CmdReminderID finds a reminder by title in a JSON list and stores its ID in an env var.
func CmdReminderID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("reminderid does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: reminderid FILE TITLE VAR")
	}

	var items []reminder.Reminder
	if err := json.Unmarshal([]byte(ts.ReadFile(args[0])), &items); err != nil {
		ts.Fatalf("parse reminder list: %v", err)
	}

	for _, item := range items {
		if item.Title == args[1] {
			ts.Setenv(args[2], item.ID)
			return
		}
	}

	ts.Fatalf("reminder with title %q not found", args[1])
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find module root (go.mod)")
		}
		dir = parent
	}
}
