package terminal

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dialysis_autofill/application/sessiontest"
	"dialysis_autofill/domain/entities"
	"dialysis_autofill/domain/interfaces"
	"dialysis_autofill/infrastructure/config"
	"dialysis_autofill/infrastructure/storage"
)

func init() {
	color.NoColor = true
}

type staticFactory struct {
	sess *sessiontest.Session
}

func (f staticFactory) Open(context.Context, interfaces.SessionOptions) (interfaces.Session, error) {
	return f.sess, nil
}

func newTestInterface(input string) (*TerminalInterface, *bytes.Buffer, *bytes.Buffer) {
	var out, logs bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&logs)
	return NewTerminalInterface(logger, strings.NewReader(input), &out), &out, &logs
}

func TestPromptCredentials(t *testing.T) {
	tests := []struct {
		name     string
		username string
		input    string
		want     entities.Credentials
		wantErr  bool
	}{
		{name: "both prompted", input: "nurse1\nhunter2\n", want: entities.Credentials{Username: "nurse1", Password: "hunter2"}},
		{name: "username given", username: "nurse2", input: "pw\r\n", want: entities.Credentials{Username: "nurse2", Password: "pw"}},
		{name: "no trailing newline", username: "nurse3", input: "pw", want: entities.Credentials{Username: "nurse3", Password: "pw"}},
		{name: "empty username", input: "\nsecret\n", wantErr: true},
		{name: "empty password", username: "nurse4", input: "\n", wantErr: true},
		{name: "no input", username: "nurse5", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ti, _, _ := newTestInterface(tt.input)
			creds, err := ti.PromptCredentials(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, creds)
		})
	}
}

func TestPromptCredentials_PasswordRedactedFromLogs(t *testing.T) {
	ti, _, logs := newTestInterface("nurse1\nhunter2\n")
	_, err := ti.PromptCredentials("")
	require.NoError(t, err)

	ti.logger.Infof("typed %s into password box", "hunter2")
	assert.NotContains(t, logs.String(), "hunter2")
	assert.Contains(t, logs.String(), "typed **** into password box")
}

func TestProgressPrinter(t *testing.T) {
	var out bytes.Buffer
	p := NewProgressPrinter(&out)

	p.Print(entities.ProgressEvent{Kind: entities.ProgressStageStart, Message: "Step 1/8: Login..."})
	p.Print(entities.ProgressEvent{Kind: entities.ProgressWarning, Message: "welcome page not detected"})
	p.Print(entities.ProgressEvent{Kind: entities.ProgressStageEnd, Status: entities.StageSoftFail, Message: "Step 2 SOFT_FAIL: welcome page not detected"})
	p.Print(entities.ProgressEvent{Kind: entities.ProgressFailure, Message: "patient not found"})
	p.Print(entities.ProgressEvent{Kind: entities.ProgressInfo, Message: "Browser closed"})

	assert.Equal(t, strings.Join([]string{
		"Step 1/8: Login...",
		"  ! welcome page not detected",
		"  Step 2 SOFT_FAIL: welcome page not detected",
		"  x patient not found",
		"Browser closed",
		"",
	}, "\n"), out.String())
}

func TestRunAutofill_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.OriginURL = "http://portal/EMR/main.jsp"
	cfg.TimeoutSeconds = 1
	cfg.SettleSeconds = 0
	cfg.DiagnosticsDir = dir
	cfg.JournalPath = filepath.Join(dir, "runs.db")

	sess := sessiontest.New("<title>KLSCH</title> WELCOME TO ORIGIN", func(s entities.LocatorStrategy) (*sessiontest.Element, bool) {
		if s.Kind == entities.LocateByPosition && strings.Contains(s.Path, "select") {
			return &sessiontest.Element{Options: []string{"HAEMODIALYSIS UNIT"}}, true
		}
		return &sessiontest.Element{}, true
	})

	ti, out, _ := newTestInterface("nurse1\nhunter2\n")
	ok, err := ti.RunAutofill(context.Background(), RunRequest{
		Config:    cfg,
		Record:    entities.RecordData{Basic: map[string]string{"PRE_BP": "120/80"}},
		PatientID: "123456",
	}, staticFactory{sess: sess})
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, []string{"http://portal/EMR/main.jsp"}, sess.Navigations[:1])
	assert.Equal(t, 1, sess.CloseCount)
	assert.Contains(t, out.String(), "Step 8/8: Save...")
	assert.Contains(t, out.String(), "Automation completed!")

	var typed []string
	for _, a := range sess.ActionsOf(sessiontest.ActionFill) {
		typed = append(typed, a.Value)
	}
	assert.Contains(t, typed, "nurse1")
	assert.Contains(t, typed, "hunter2")
	assert.Contains(t, typed, "120/80")

	journal, err := storage.OpenJournal(cfg.JournalPath)
	require.NoError(t, err)
	defer journal.Close()
	runs, err := journal.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "123456", runs[0].PatientID)
	assert.Equal(t, "nurse1", runs[0].Operator)
	assert.True(t, runs[0].Success)
}

func TestPrintHistory(t *testing.T) {
	var out bytes.Buffer
	started := time.Date(2026, 10, 16, 9, 0, 0, 0, time.Local)

	printHistory(&out, []entities.RunSummary{{
		ID:         "0123456789abcdef",
		Operator:   "nurse1",
		PatientID:  "123456",
		StartedAt:  started,
		FinishedAt: started.Add(75 * time.Second),
		Success:    true,
		Stages: []entities.StageResult{
			{Index: 1, Name: "Login", Status: entities.StageSuccess, Message: "logged in"},
			{Index: 8, Name: "Save", Status: entities.StageSoftFail, Message: "save control not found", Artifact: "logs/01234567_save_error.png"},
		},
	}})

	assert.Equal(t,
		"2026-10-16 09:00  01234567  mrn=123456  user=nurse1  OK  (1m15s)\n"+
			"    8. Save SOFT_FAIL: save control not found\n"+
			"       screenshot: logs/01234567_save_error.png\n",
		out.String())

	out.Reset()
	printHistory(&out, nil)
	assert.Equal(t, "No runs recorded\n", out.String())
}

func TestPrintValidation(t *testing.T) {
	var out bytes.Buffer
	printValidation(&out, entities.RecordData{
		Basic: map[string]string{
			"PRE_BP":      "120/80",
			"REMARKS":     "",
			"COMFORTABLE": "maybe",
			"HEPARIN":     "1000",
		},
		Hourly: []entities.HourlyObservation{{"TIME": "07:10", "QB": "300"}},
	})

	text := out.String()
	assert.Contains(t, text, "2 basic fields, 1 hourly rows (2 cells) will be filled")
	assert.Contains(t, text, "empty, skipped: REMARKS")
	assert.Contains(t, text, "unknown key, ignored: HEPARIN")
	assert.Contains(t, text, `COMFORTABLE="maybe" is usually Yes or No`)
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := RootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"run", "history", "validate", "install"}, names)

	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"run", "--record", "x.json"})
	assert.Error(t, root.Execute(), "--mrn is required")
}
