package mailer

import (
	"bytes"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
)

// TrialReminderData fills the trial reminder templates
type TrialReminderData struct {
	Name      string
	TierName  string
	DaysLeft  int
	PriceText string
}

// UpgradeNudgeData fills the upgrade nudge template
type UpgradeNudgeData struct {
	Name        string
	FeatureName string
	TierName    string
}

// AssessmentSummaryData fills the assessment summary template
type AssessmentSummaryData struct {
	Name             string
	Grade            string
	Overall          float64
	JobAutomation    float64
	Spending         float64
	TaxEfficiency    float64
	IncomePercentile float64
}

var trialReminderTmpl = template.Must(template.New("trial_reminder").Parse(
	`Hi {{.Name}},

{{if le .DaysLeft 1 -}}
Your {{.TierName}} trial ends today. Keep your full financial picture by
upgrading now for {{.PriceText}}.
{{- else -}}
You have {{.DaysLeft}} days left in your {{.TierName}} trial. Explore your
risk scores while you still have full access.
{{- end}}

— The ClearPath team
`))

var upgradeNudgeTmpl = template.Must(template.New("upgrade_nudge").Parse(
	`Hi {{.Name}},

{{.FeatureName}} is available on the {{.TierName}} plan. Unlock it to get
the complete view of your finances.

— The ClearPath team
`))

// the summary template needs a multiply helper for percentage rendering
var assessmentSummaryTmpl = template.Must(template.New("assessment_summary").Funcs(template.FuncMap{
	"mul": func(a, b float64) float64 { return a * b },
}).Parse(assessmentSummaryText))

const assessmentSummaryText = `Hi {{.Name}},

Your latest financial wellness check-in is ready. Overall grade: {{.Grade}}.

  Job automation risk:   {{printf "%.0f%%" (mul .JobAutomation 100)}}
  Spending risk:         {{printf "%.0f%%" (mul .Spending 100)}}
  Tax efficiency:        {{printf "%.0f%%" (mul .TaxEfficiency 100)}}
  Income percentile:     {{printf "%.0f%%" (mul .IncomePercentile 100)}}

— The ClearPath team
`

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to render email template", goerr.V("template", tmpl.Name()))
	}
	return buf.String(), nil
}

// RenderTrialReminder renders the trial reminder email body
func RenderTrialReminder(data TrialReminderData) (string, error) {
	return render(trialReminderTmpl, data)
}

// RenderUpgradeNudge renders the upgrade nudge email body
func RenderUpgradeNudge(data UpgradeNudgeData) (string, error) {
	return render(upgradeNudgeTmpl, data)
}

// RenderAssessmentSummary renders the assessment summary email body
func RenderAssessmentSummary(data AssessmentSummaryData) (string, error) {
	return render(assessmentSummaryTmpl, data)
}
