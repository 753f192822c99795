package main

import (
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/amonks/sidequest/internal/testsupport"
)

func runScripts(t *testing.T, dir string) {
	t.Helper()
	testscript.Run(t, testscript.Params{
		Dir: dir,
		Setup: func(env *testscript.Env) error {
			return testsupport.SetupScriptEnv(t, env)
		},
		Cmds: testsupport.Commands(),
	})
}

func TestQuestScripts(t *testing.T) {
	runScripts(t, "testdata/quest")
}

func TestReminderScripts(t *testing.T) {
	runScripts(t, "testdata/reminder")
}

func TestLogScripts(t *testing.T) {
	runScripts(t, "testdata/log")
}

func TestBackupScripts(t *testing.T) {
	runScripts(t, "testdata/backup")
}

func TestSettingsScripts(t *testing.T) {
	runScripts(t, "testdata/settings")
}

func TestVersionScripts(t *testing.T) {
	runScripts(t, "testdata/version")
}
