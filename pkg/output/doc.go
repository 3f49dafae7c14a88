// Package output renders reconciliation reports and errors.
//
// Three formats are supported:
//
//   - text: a line per target, produced from templates/report.tmpl. Style
//     names are applied through the style template function and resolve
//     against the registry in pkg/output/styles. With colors disabled the
//     text is written unstyled.
//   - json: the report structures encoded as JSON.
//   - yaml: the report structures encoded as YAML.
//
// A single report is encoded as an object; several reports (relink) as a
// list.
package output
