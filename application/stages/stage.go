package stages

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"dialysis_autofill/application/fieldmap"
	"dialysis_autofill/application/locator"
	"dialysis_autofill/domain/entities"
	"dialysis_autofill/domain/interfaces"
)

// Stage is one step of the fixed data-entry pipeline
type Stage interface {
	Name() string
	Execute(ctx context.Context, sess interfaces.Session, rc *RunContext) entities.StageOutcome
}

// Settings carries the portal texts the stages look for
type Settings struct {
	LandingSignatures   []string // any of these on the page means the portal answered
	WelcomeSignature    string   // marks the post-login department page
	Department          string
	ConfirmCaptions     []string
	MenuGroup           string
	RecordLinkWords     []string // all must appear in the record link text
	EditCaption         string
	SaveCaptions        []string
	AllowPeriodFallback bool // open the first period row when the current one is missing
}

// DefaultSettings - texts of the KLSCH Origin portal
func DefaultSettings() Settings {
	return Settings{
		LandingSignatures:   []string{"KLSCH", "login"},
		WelcomeSignature:    "WELCOME",
		Department:          "HAEMODIALYSIS UNIT",
		ConfirmCaptions:     []string{"LOGIN", "OK"},
		MenuGroup:           "INVESTIGATION",
		RecordLinkWords:     []string{"HAEMODIALYSIS", "TREATMENT"},
		EditCaption:         "Edit",
		SaveCaptions:        []string{"UPDATE", "SAVE"},
		AllowPeriodFallback: true,
	}
}

// RunContext is the per-run state shared by the stages
type RunContext struct {
	RunID         string
	Credentials   entities.Credentials
	PatientID     string
	Record        entities.RecordData
	CandidateURLs []string
	Settings      Settings

	Resolver *locator.Resolver
	Mapper   *fieldmap.Mapper
	Logger   *logrus.Entry
	Now      func() time.Time

	// FillReport is set by the field fill stage
	FillReport *fieldmap.Report
}

// Pipeline - the eight stages in execution order
func Pipeline() []Stage {
	return []Stage{
		Login{},
		DepartmentSelect{},
		PatientLookup{},
		RecordNavigation{},
		PeriodTable{},
		EditMode{},
		FieldFill{},
		Save{},
	}
}

// Slug - file-name friendly form of a stage name
func Slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
