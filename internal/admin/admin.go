// Package admin is the log page of an admin surface. Handle turns the
// page's query parameters into a View, and Render draws the View.
//
// Query parameters:
//
//	log_file=<name>            show one file
//	action=delete&log=<name>   delete one file, then redirect
//
// Both names are reduced to bare file names before they reach the viewer.
package admin

import (
	"net/url"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/Iron-Ham/daylog/internal/errors"
	"github.com/Iron-Ham/daylog/internal/logging"
	"github.com/Iron-Ham/daylog/internal/viewer"
)

// Query parameter names.
const (
	ParamLogFile = "log_file"
	ParamAction  = "action"
	ParamLog     = "log"

	ActionDelete = "delete"
)

// View is everything the page shows.
type View struct {
	Dir      string
	Files    []viewer.FileInfo
	Selected string
	Content  string
	Records  []viewer.Record
	Notice   string
	// IsError marks Notice as a failure.
	IsError bool
	// Redirect is set after a delete. The host should send the browser
	// there instead of rendering.
	Redirect string
}

// Page serves the log page for one directory.
type Page struct {
	viewer *viewer.Viewer
	dir    string
	log    *logging.Logger
}

// NewPage creates a Page. A nil logger discards diagnostics.
func NewPage(v *viewer.Viewer, dir string, log *logging.Logger) *Page {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Page{viewer: v, dir: dir, log: log.WithComponent("admin")}
}

// Handle processes one request.
func (p *Page) Handle(query url.Values) View {
	view := View{Dir: p.dir}

	if query.Get(ParamAction) == ActionDelete && query.Get(ParamLog) != "" {
		name := Sanitize(query.Get(ParamLog))
		deleted, err := p.viewer.DeleteLogFile(p.dir, name)
		switch {
		case err != nil:
			view.Notice, view.IsError = message(err), true
		case deleted:
			view.Notice = "Deleted " + name
		default:
			view.Notice = name + " was already deleted"
		}
		p.log.Info("delete requested", "file", name, "deleted", deleted)
		view.Redirect = redirectTarget(query, name)
		return view
	}

	files, err := p.viewer.ListLogFileInfo(p.dir)
	if err != nil {
		view.Notice, view.IsError = message(err), true
		return view
	}
	view.Files = files

	raw := query.Get(ParamLogFile)
	if raw == "" {
		return view
	}
	view.Selected = Sanitize(raw)
	content, err := p.viewer.ReadLogFile(p.dir, view.Selected)
	if err != nil {
		view.Notice, view.IsError = message(err), true
		return view
	}
	view.Content = content
	view.Records = viewer.ParseRecords(content)
	return view
}

// message returns text safe to show an operator.
func message(err error) string {
	if errors.IsUserFacing(err) {
		return err.Error()
	}
	return "The log directory could not be read"
}

// redirectTarget drops the delete parameters so a reload does not repeat
// the action, and the selection if it pointed at the deleted file.
func redirectTarget(query url.Values, deleted string) string {
	rest := url.Values{}
	for k, v := range query {
		if k == ParamAction || k == ParamLog {
			continue
		}
		if k == ParamLogFile && Sanitize(query.Get(k)) == deleted {
			continue
		}
		rest[k] = v
	}
	if len(rest) == 0 {
		return "?"
	}
	return "?" + rest.Encode()
}

// Sanitize reduces a request value to a bare file name. It strips control
// characters and surrounding space and keeps only the last path element.
// It returns "" when nothing usable is left.
func Sanitize(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, raw)
	cleaned = strings.TrimSpace(strings.ReplaceAll(cleaned, `\`, "/"))
	if cleaned == "" {
		return ""
	}

	base := filepath.Base(filepath.FromSlash(cleaned))
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	if base == "." || base == ".." || base == "/" || base == string(filepath.Separator) {
		return ""
	}
	return base
}
