package output

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/logging"
	"github.com/arthur-debert/dots/pkg/output/styles"
	"github.com/arthur-debert/dots/pkg/reconcile"
	"github.com/arthur-debert/dots/pkg/types"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Format selects how reports are written
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a format name into a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml":
		return FormatYAML, nil
	default:
		return FormatText, errors.Newf(errors.ErrInvalidInput, "unknown output format %q (want text, json or yaml)", s)
	}
}

// ColorEnabled reports whether styled text should be written to f.
// NO_COLOR and non-terminal outputs disable colors.
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// outcomeStyles maps report outcomes to style names
var outcomeStyles = map[reconcile.Outcome]string{
	reconcile.OutcomeLinked:    "Success",
	reconcile.OutcomeUnlinked:  "Success",
	reconcile.OutcomeUnchanged: "Muted",
	reconcile.OutcomePlanned:   "DryRun",
	reconcile.OutcomeDropped:   "Info",
	reconcile.OutcomeSkipped:   "Warning",
	reconcile.OutcomeFailed:    "Error",
	reconcile.OutcomeAborted:   "Error",
}

// stateStyles is used for status listings, where the state is the news
var stateStyles = map[types.LinkState]string{
	types.StateAbsent:    "Muted",
	types.StateCorrect:   "Success",
	types.StateIntended:  "Success",
	types.StateDangling:  "Warning",
	types.StateForeign:   "Warning",
	types.StatePlainFile: "Error",
}

// summaryOrder fixes the order of the counts line
var summaryOrder = []reconcile.Outcome{
	reconcile.OutcomeLinked,
	reconcile.OutcomeUnlinked,
	reconcile.OutcomePlanned,
	reconcile.OutcomeUnchanged,
	reconcile.OutcomeDropped,
	reconcile.OutcomeSkipped,
	reconcile.OutcomeFailed,
	reconcile.OutcomeAborted,
	reconcile.OutcomeReported,
}

const columnWidth = 10

// Renderer writes reports in the configured format
type Renderer struct {
	templates *template.Template
	writer    io.Writer
	format    Format
	noColor   bool
}

// NewRenderer creates a renderer writing to w. With noColor set, the text
// format is written without styles.
func NewRenderer(w io.Writer, format Format, noColor bool) (*Renderer, error) {
	log := logging.GetLogger(logging.Output)
	log.Debug().
		Str("format", string(format)).
		Bool("noColor", noColor).
		Msg("Creating renderer")

	r := &Renderer{writer: w, format: format, noColor: noColor}
	tmpl, err := template.New("output").Funcs(r.funcs()).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	r.templates = tmpl
	return r, nil
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"style":     r.style,
		"header":    header,
		"column":    column,
		"itemStyle": itemStyle,
		"summary":   summary,
	}
}

func (r *Renderer) style(name, text string) string {
	if r.noColor {
		return text
	}
	return styles.GetStyle(name).Render(text)
}

func header(report *reconcile.Report) string {
	parts := []string{report.Command}
	if report.Target != "" {
		parts = append(parts, report.Target)
	}
	if report.DryRun {
		parts = append(parts, "(dry run)")
	}
	return strings.Join(parts, " ")
}

// column is the first field of an item line: the state for status
// listings, the outcome otherwise
func column(item reconcile.Item) string {
	label := string(item.Outcome)
	if item.Outcome == reconcile.OutcomeReported {
		label = item.State.String()
	}
	return fmt.Sprintf("%-*s", columnWidth, label)
}

func itemStyle(item reconcile.Item) string {
	if item.Outcome == reconcile.OutcomeReported {
		return stateStyles[item.State]
	}
	return outcomeStyles[item.Outcome]
}

func summary(report *reconcile.Report) string {
	counts := report.Counts()
	var parts []string
	for _, outcome := range summaryOrder {
		if n := counts[outcome]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, outcome))
		}
	}
	if len(parts) == 0 {
		return "0 targets"
	}
	return strings.Join(parts, ", ")
}

// Render writes the reports. Nil reports are ignored.
func (r *Renderer) Render(reports ...*reconcile.Report) error {
	var kept []*reconcile.Report
	for _, report := range reports {
		if report != nil {
			kept = append(kept, report)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	switch r.format {
	case FormatJSON, FormatYAML:
		if len(kept) == 1 {
			return r.encode(kept[0])
		}
		return r.encode(kept)
	default:
		return r.renderText(kept)
	}
}

func (r *Renderer) renderText(reports []*reconcile.Report) error {
	var buf bytes.Buffer
	for i, report := range reports {
		if i > 0 {
			buf.WriteString("\n")
		}
		if err := r.templates.ExecuteTemplate(&buf, "report", report); err != nil {
			return fmt.Errorf("failed to execute template: %w", err)
		}
	}
	_, err := r.writer.Write(buf.Bytes())
	return err
}

func (r *Renderer) encode(v interface{}) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(r.writer)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("cannot encode format %s", r.format)
}

type errorBody struct {
	Code    errors.ErrorCode       `json:"code" yaml:"code"`
	Message string                 `json:"message" yaml:"message"`
	Details map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
}

// RenderError writes err in the configured format
func (r *Renderer) RenderError(err error) error {
	if err == nil {
		return nil
	}
	switch r.format {
	case FormatJSON, FormatYAML:
		body := errorBody{
			Code:    errors.GetErrorCode(err),
			Message: err.Error(),
			Details: errors.GetErrorDetails(err),
		}
		if len(body.Details) == 0 {
			body.Details = nil
		}
		return r.encode(map[string]errorBody{"error": body})
	default:
		_, werr := fmt.Fprintf(r.writer, "%s %s\n", r.style("Error", "Error:"), err.Error())
		return werr
	}
}
