package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"dialysis_autofill/application/fieldmap"
	"dialysis_autofill/application/locator"
	"dialysis_autofill/application/stages"
	"dialysis_autofill/domain/entities"
	"dialysis_autofill/domain/interfaces"
)

// criticalStages is how many leading stages decide the run result
const criticalStages = 4

// Options configures a workflow run
type Options struct {
	CandidateURLs  []string
	Headless       bool
	Timeout        time.Duration // bounded wait per element lookup
	SettleDelay    time.Duration // pause before the browser closes
	DiagnosticsDir string
	RequireSave    bool // an unconfirmed save fails the run
	Settings       stages.Settings
}

// Option customises an Orchestrator
type Option func(*Orchestrator)

// WithStages replaces the default pipeline
func WithStages(s []stages.Stage) Option {
	return func(o *Orchestrator) { o.stages = s }
}

// WithJournal records every run summary
func WithJournal(j interfaces.RunJournal) Option {
	return func(o *Orchestrator) { o.journal = j }
}

// WithClock sets the time source used for timestamps and the period table
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithSleeper sets how the settle delay is waited out
func WithSleeper(sleep func(ctx context.Context, d time.Duration)) Option {
	return func(o *Orchestrator) { o.sleep = sleep }
}

// Orchestrator runs the data-entry pipeline against one browser session per run
type Orchestrator struct {
	sessions *SessionManager
	stages   []stages.Stage
	journal  interfaces.RunJournal
	opts     Options
	logger   *logrus.Logger
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration)
	newID    func() string
}

// NewOrchestrator - creates an orchestrator opening sessions through factory
func NewOrchestrator(factory interfaces.SessionFactory, opts Options, logger *logrus.Logger, options ...Option) *Orchestrator {
	o := &Orchestrator{
		sessions: NewSessionManager(factory, interfaces.SessionOptions{
			Headless: opts.Headless,
			Timeout:  opts.Timeout,
		}, opts.DiagnosticsDir, logger),
		stages: stages.Pipeline(),
		opts:   opts,
		logger: logger,
		now:    time.Now,
		sleep:  sleepContext,
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// Run - executes every stage in order and reports whether the record was reached.
// It never panics; failures are reported through sink and the result.
func (o *Orchestrator) Run(ctx context.Context, creds entities.Credentials, patientID string, record entities.RecordData, sink interfaces.ProgressSink) bool {
	runID := o.newID()
	log := o.logger.WithFields(logrus.Fields{"run_id": runID, "mrn": patientID})
	emit := o.emitter(runID, sink)

	summary := &entities.RunSummary{
		ID:        runID,
		Operator:  creds.Username,
		PatientID: patientID,
		StartedAt: o.now(),
	}
	defer o.record(ctx, summary)

	emit(entities.ProgressInfo, 0, "", "", "Initializing browser...")
	sess, err := o.sessions.Open(ctx)
	if err != nil {
		log.Errorf("Failed to start browser: %v", err)
		emit(entities.ProgressFailure, 0, "", "", fmt.Sprintf("Browser could not start: %v", err))
		return false
	}
	defer o.teardown(ctx, sess, emit, log)

	resolver := locator.NewResolver(o.opts.Timeout, o.logger)
	rc := &stages.RunContext{
		RunID:         runID,
		Credentials:   creds,
		PatientID:     patientID,
		Record:        record,
		CandidateURLs: o.opts.CandidateURLs,
		Settings:      o.opts.Settings,
		Resolver:      resolver,
		Mapper:        fieldmap.NewMapper(resolver, o.logger),
		Logger:        log,
		Now:           o.now,
	}

	total := len(o.stages)
	completed := 0
	var last entities.StageOutcome
	for i, stage := range o.stages {
		idx := i + 1
		name := stage.Name()
		emit(entities.ProgressStageStart, idx, name, "", fmt.Sprintf("Step %d/%d: %s...", idx, total, name))

		last = o.execute(ctx, stage, sess, rc, idx)
		summary.Stages = append(summary.Stages, entities.StageResult{
			Index:   idx,
			Name:    name,
			Status:   last.Status,
			Message:  last.Message,
			Artifact: last.Artifact,
		})

		switch last.Status {
		case entities.StageSoftFail:
			emit(entities.ProgressWarning, idx, name, last.Status, fmt.Sprintf("%s: %s, continuing%s", name, last.Message, screenshotNote(last)))
		case entities.StageHardFail:
			emit(entities.ProgressFailure, idx, name, last.Status, fmt.Sprintf("%s failed: %s%s", name, last.Message, screenshotNote(last)))
		}
		emit(entities.ProgressStageEnd, idx, name, last.Status, fmt.Sprintf("Step %d %s: %s", idx, last.Status, last.Message))

		if last.Status == entities.StageHardFail {
			break
		}
		completed = idx
	}

	success := completed >= min(criticalStages, total)
	if success && o.opts.RequireSave && (completed < total || last.Failed()) {
		log.Warn("Save was not confirmed, failing run")
		success = false
	}
	summary.Success = success

	if success {
		emit(entities.ProgressInfo, 0, "", "", "Automation completed!")
	} else {
		emit(entities.ProgressFailure, 0, "", "", "Automation failed")
	}
	return success
}

// execute - runs one stage inside a boundary that turns panics into hard failures
func (o *Orchestrator) execute(ctx context.Context, stage stages.Stage, sess interfaces.Session, rc *stages.RunContext, idx int) entities.StageOutcome {
	log := rc.Logger.WithFields(logrus.Fields{"stage": stage.Name(), "step": idx})

	outcome := runGuarded(ctx, stage, sess, rc)
	if !outcome.Failed() {
		log.Info(outcome.Message)
		return outcome
	}
	if outcome.Status == entities.StageSoftFail {
		log.Warnf("%s: %v", outcome.Message, outcome.Err)
	} else {
		log.Errorf("%s: %v", outcome.Message, outcome.Err)
	}

	outcome.Artifact = o.sessions.CaptureDiagnostic(ctx, sess, rc.RunID, stages.Slug(stage.Name())+"_error")
	return outcome
}

func screenshotNote(outcome entities.StageOutcome) string {
	if outcome.Artifact == "" {
		return ""
	}
	return fmt.Sprintf(" (screenshot: %s)", outcome.Artifact)
}

func runGuarded(ctx context.Context, stage stages.Stage, sess interfaces.Session, rc *stages.RunContext) (outcome entities.StageOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = entities.HardFail(fmt.Sprintf("unexpected error: %v", r), fmt.Errorf("stage %q panicked: %v", stage.Name(), r))
		}
	}()
	return stage.Execute(ctx, sess, rc)
}

func (o *Orchestrator) teardown(ctx context.Context, sess *ManagedSession, emit emitFunc, log *logrus.Entry) {
	if o.opts.SettleDelay > 0 {
		emit(entities.ProgressInfo, 0, "", "", fmt.Sprintf("Closing browser in %s...", o.opts.SettleDelay))
		o.sleep(ctx, o.opts.SettleDelay)
	}
	if err := o.sessions.Close(sess); err != nil {
		log.Warnf("Failed to close browser: %v", err)
	}
	emit(entities.ProgressInfo, 0, "", "", "Browser closed")
}

func (o *Orchestrator) record(ctx context.Context, summary *entities.RunSummary) {
	summary.FinishedAt = o.now()
	if o.journal == nil {
		return
	}
	// an interrupted run is still journaled
	if err := o.journal.Record(context.WithoutCancel(ctx), *summary); err != nil {
		o.logger.WithField("run_id", summary.ID).Warnf("Could not journal run: %v", err)
	}
}

type emitFunc func(kind entities.ProgressKind, idx int, stage string, status entities.StageStatus, message string)

func (o *Orchestrator) emitter(runID string, sink interfaces.ProgressSink) emitFunc {
	return func(kind entities.ProgressKind, idx int, stage string, status entities.StageStatus, message string) {
		if sink == nil {
			return
		}
		sink(entities.ProgressEvent{
			RunID:      runID,
			Kind:       kind,
			StageIndex: idx,
			StageName:  stage,
			Status:     status,
			Message:    message,
			Timestamp:  o.now(),
		})
	}
}

// MessageSink adapts a plain string callback to a ProgressSink
func MessageSink(fn func(message string)) interfaces.ProgressSink {
	return func(event entities.ProgressEvent) {
		fn(event.Message)
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
