package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"dialysis_autofill/application/stages"
	"dialysis_autofill/application/workflow"
	"dialysis_autofill/domain/entities"
	"dialysis_autofill/domain/interfaces"
	"dialysis_autofill/infrastructure/browser"
	"dialysis_autofill/infrastructure/config"
	"dialysis_autofill/infrastructure/security"
	"dialysis_autofill/infrastructure/storage"
)

// TerminalInterface drives one autofill run from an interactive terminal
type TerminalInterface struct {
	logger    *logrus.Logger
	redaction *security.RedactionHook
	reader    *bufio.Reader
	out       io.Writer
	progress  *ProgressPrinter

	// readPassword reads a secret without echo; nil falls back to a plain line
	readPassword func() (string, error)
}

// NewTerminalInterface - creates an interface reading from in and printing to out
func NewTerminalInterface(logger *logrus.Logger, in io.Reader, out io.Writer) *TerminalInterface {
	t := &TerminalInterface{
		logger:    logger,
		redaction: security.Install(logger),
		reader:    bufio.NewReader(in),
		out:       out,
		progress:  NewProgressPrinter(out),
	}

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		t.readPassword = func() (string, error) {
			b, err := term.ReadPassword(fd)
			fmt.Fprintln(t.out)
			return string(b), err
		}
	}

	return t
}

// PromptCredentials - asks for whatever of the username and password is missing
func (t *TerminalInterface) PromptCredentials(username string) (entities.Credentials, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		fmt.Fprint(t.out, "Username: ")
		line, err := t.readLine()
		if err != nil {
			return entities.Credentials{}, fmt.Errorf("failed to read username: %w", err)
		}
		username = line
	}
	if username == "" {
		return entities.Credentials{}, fmt.Errorf("username is required")
	}

	fmt.Fprint(t.out, "Password: ")
	var (
		password string
		err      error
	)
	if t.readPassword != nil {
		password, err = t.readPassword()
	} else {
		password, err = t.readLine()
	}
	if err != nil {
		return entities.Credentials{}, fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return entities.Credentials{}, fmt.Errorf("password is required")
	}

	t.redaction.Add(password)
	return entities.Credentials{Username: username, Password: password}, nil
}

func (t *TerminalInterface) readLine() (string, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ProgressSink - prints run progress to the terminal
func (t *TerminalInterface) ProgressSink() interfaces.ProgressSink {
	return t.progress.Print
}

// RunRequest holds what one autofill run needs besides credentials
type RunRequest struct {
	Config    *config.Config
	Record    entities.RecordData
	PatientID string
	Username  string
}

// RunAutofill - prompts for credentials and runs the full workflow once
func (t *TerminalInterface) RunAutofill(ctx context.Context, req RunRequest, factory interfaces.SessionFactory) (bool, error) {
	creds, err := t.PromptCredentials(req.Username)
	if err != nil {
		return false, err
	}

	settings := stages.DefaultSettings()
	if req.Config.Department != "" {
		settings.Department = req.Config.Department
	}

	options := []workflow.Option{}
	journal, err := storage.OpenJournal(req.Config.JournalPath)
	if err != nil {
		t.logger.Warnf("Run journal unavailable: %v", err)
	} else {
		defer journal.Close()
		options = append(options, workflow.WithJournal(journal))
	}

	if factory == nil {
		factory = browser.NewLauncher(t.logger)
	}

	orchestrator := workflow.NewOrchestrator(factory, workflow.Options{
		CandidateURLs:  req.Config.CandidateURLs(),
		Headless:       req.Config.Headless,
		Timeout:        req.Config.Timeout(),
		SettleDelay:    req.Config.SettleDelay(),
		DiagnosticsDir: req.Config.DiagnosticsDir,
		RequireSave:    req.Config.RequireSave,
		Settings:       settings,
	}, t.logger, options...)

	fmt.Fprintf(t.out, "\nStarting autofill for patient %s\n\n", req.PatientID)
	return orchestrator.Run(ctx, creds, req.PatientID, req.Record, t.ProgressSink()), nil
}
