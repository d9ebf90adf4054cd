package terminal

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"dialysis_autofill/domain/entities"
)

// ProgressPrinter renders progress events as colored terminal lines
type ProgressPrinter struct {
	out     io.Writer
	step    *color.Color
	ok      *color.Color
	warning *color.Color
	failure *color.Color
	info    *color.Color
}

func NewProgressPrinter(out io.Writer) *ProgressPrinter {
	return &ProgressPrinter{
		out:     out,
		step:    color.New(color.FgCyan, color.Bold),
		ok:      color.New(color.FgGreen),
		warning: color.New(color.FgYellow),
		failure: color.New(color.FgRed, color.Bold),
		info:    color.New(color.Faint),
	}
}

// Print - writes one event
func (p *ProgressPrinter) Print(event entities.ProgressEvent) {
	switch event.Kind {
	case entities.ProgressStageStart:
		p.step.Fprintln(p.out, event.Message)
	case entities.ProgressStageEnd:
		p.statusColor(event.Status).Fprintf(p.out, "  %s\n", event.Message)
	case entities.ProgressWarning:
		p.warning.Fprintf(p.out, "  ! %s\n", event.Message)
	case entities.ProgressFailure:
		p.failure.Fprintf(p.out, "  x %s\n", event.Message)
	default:
		p.info.Fprintln(p.out, event.Message)
	}
}

func (p *ProgressPrinter) statusColor(status entities.StageStatus) *color.Color {
	switch status {
	case entities.StageSuccess:
		return p.ok
	case entities.StageSoftFail:
		return p.warning
	default:
		return p.failure
	}
}

// Status - colored label for a run or stage status
func (p *ProgressPrinter) Status(status entities.StageStatus) string {
	return p.statusColor(status).Sprint(string(status))
}

// Result - colored OK / FAILED label
func (p *ProgressPrinter) Result(success bool) string {
	if success {
		return p.ok.Sprint("OK")
	}
	return p.failure.Sprint("FAILED")
}

func (p *ProgressPrinter) Warnf(format string, args ...any) {
	p.warning.Fprintf(p.out, format, args...)
}

func (p *ProgressPrinter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}
