package report

import (
	"bytes"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/litmuschaos/chaos-suite/pkg/catalog"
	"github.com/litmuschaos/chaos-suite/pkg/cerrors"
	"github.com/litmuschaos/chaos-suite/pkg/utils/stringutils"
	"github.com/palantir/stacktrace"
)

// GeneratedLayout is the timestamp format printed in the report header
const GeneratedLayout = "2006-01-02 15:04:05"

// Data is everything rendered into one report
type Data struct {
	GeneratedAt      time.Time
	RunID            string
	Verdict          string
	Experiments      []catalog.Descriptor
	PodStatus        string
	ExperimentStatus string

	// MonitoringAvailable adds the Prometheus queries for the application pods
	MonitoringAvailable bool
	AppNamespace        string
	AppName             string
}

const reportTemplate = `# Chaos Engineering Experiment Report

Generated: {{ generated .GeneratedAt }}

Run ID: {{ .RunID }}
Verdict: {{ .Verdict }}

## Experiments Applied

{{ range .Experiments }}- **{{ .Kind }}**: {{ .Name }} (Duration: {{ .Duration }})
{{ end }}
## Pod Status

` + "```" + `
{{ fenced .PodStatus }}` + "```" + `

## Experiment Status

` + "```" + `
{{ fenced .ExperimentStatus }}` + "```" + `
{{ if .MonitoringAvailable }}
## Metrics

### CPU Usage

Query: ` + "`" + `sum(rate(container_cpu_usage_seconds_total{{ selector . }}[1m])) by (pod)` + "`" + `

### Memory Usage

Query: ` + "`" + `sum(container_memory_working_set_bytes{{ selector . }}) by (pod)` + "`" + `

### Pod Restarts

Query: ` + "`" + `kube_pod_container_status_restarts_total{{ selector . }}` + "`" + `
{{ end }}`

var tpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"fenced":    codeBlock,
	"generated": generated,
	"selector":  podSelector,
}).Parse(reportTemplate))

// Render renders the Markdown report
func Render(data Data) ([]byte, error) {
	var out bytes.Buffer
	if err := tpl.Execute(&out, data); err != nil {
		return nil, cerrors.Error{ErrorCode: cerrors.ErrorTypeReport, Reason: err.Error()}
	}
	return out.Bytes(), nil
}

// Write renders the report into <dir>/chaos_report_<timestamp>.md and returns its path
func Write(dir string, data Data) (string, error) {
	content, err := Render(data)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", stacktrace.Propagate(cerrors.Error{ErrorCode: cerrors.ErrorTypeReport, Target: dir, Reason: err.Error()}, "could not create the output directory")
	}
	path := stringutils.TimestampedPath(dir, "chaos_report", "md", data.GeneratedAt)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", stacktrace.Propagate(cerrors.Error{ErrorCode: cerrors.ErrorTypeReport, Target: path, Reason: err.Error()}, "could not write the report")
	}
	return path, nil
}

// codeBlock terminates captured output with a newline so the fence stays on its own line
func codeBlock(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

func generated(at time.Time) string {
	return at.Format(GeneratedLayout)
}

func podSelector(data Data) string {
	return `{namespace="` + data.AppNamespace + `", pod=~"` + data.AppName + `.*"}`
}
