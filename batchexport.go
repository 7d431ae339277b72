package batchexport

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hellenic-development/batch-export/pkg/batch"
	"github.com/hellenic-development/batch-export/pkg/config"
	"github.com/hellenic-development/batch-export/pkg/document"
	"github.com/hellenic-development/batch-export/pkg/exporter"
	"github.com/hellenic-development/batch-export/pkg/host"
	"github.com/hellenic-development/batch-export/pkg/render"
	"github.com/hellenic-development/batch-export/pkg/report"
)

// Version is the release version of batch-export.
const Version = "0.1.0"

// Options configures a batch run.
type Options struct {
	SourceDir  string       // folder to batch; empty = ask Picker
	Picker     batch.Picker // nil = no folder can be chosen interactively
	Files      []string     // restrict the run to these documents inside SourceDir
	Extension  string       // default config.DefaultExtension
	PNGWidths  []int        // empty = exporter.DefaultPNGWidths
	ShowTiming bool
	TempDir    string         // parent of SVG staging directories
	Host       host.Host      // nil = render.Host
	Logger     *logrus.Logger // nil = no logging
}

// Result contains the outcome of a run.
type Result struct {
	SourceDir string
	Documents []string // opened documents, in discovery order
	Assets    []exporter.Asset
	Errors    []string      // every recorded failure, in order
	Elapsed   time.Duration // wall-clock duration of the run
	Notice    string        // end-of-run message; empty when there is nothing to report
}

// OptionsFromConfig maps a loaded configuration onto Options.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		SourceDir:  cfg.SourceDir,
		Extension:  cfg.Extension,
		PNGWidths:  cfg.PNGWidths,
		ShowTiming: cfg.ShowTiming,
	}
}

// Run executes one batch: choose the folder, open the matching documents,
// export each one and close them all. Fatal preconditions (no folder, no
// documents) and a failed close are returned as errors; the Result is always
// non-nil and carries every recorded failure.
func Run(opts Options) (*Result, error) {
	start := time.Now()

	// Apply defaults.
	if opts.Extension == "" {
		opts.Extension = config.DefaultExtension
	}
	if len(opts.PNGWidths) == 0 {
		opts.PNGWidths = exporter.DefaultPNGWidths
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
		opts.Logger.SetOutput(io.Discard)
	}
	if opts.Host == nil {
		opts.Host = render.New(opts.Logger)
	}
	if opts.Picker == nil {
		opts.Picker = batch.PickerFunc(func(string) (string, bool, error) { return "", false, nil })
	}

	log := opts.Logger
	res := &Result{}
	errs := &report.List{}

	finish := func(err error) (*Result, error) {
		res.Elapsed = time.Since(start)
		res.Errors = errs.Entries()
		res.Notice, _ = report.Notice(errs, res.Elapsed, opts.ShowTiming)
		return res, err
	}

	driver := batch.New(opts.Host, opts.Extension, log)

	dir := opts.SourceDir
	if dir == "" {
		chosen, selectErrs, err := driver.SelectSourceFolder(opts.Picker)
		errs.Merge(selectErrs)
		if err != nil {
			return finish(err)
		}
		dir = chosen
	}
	res.SourceDir = dir

	var (
		docs       []*document.Document
		openErrs   *report.List
		collectErr error
	)
	if len(opts.Files) > 0 {
		docs, openErrs, collectErr = driver.OpenDocuments(opts.Files)
	} else {
		docs, openErrs, collectErr = driver.CollectDocuments(dir)
	}
	errs.Merge(openErrs)
	if collectErr != nil {
		return finish(collectErr)
	}
	for _, d := range docs {
		res.Documents = append(res.Documents, d.Name)
	}

	exp := exporter.New(opts.Host, exporter.Config{
		PNGWidths: opts.PNGWidths,
		TempDir:   opts.TempDir,
	}, log)

	runErrs, err := driver.Run(docs, func(doc *document.Document) (*report.List, error) {
		r, err := exp.ExportDocument(doc, dir)
		if r == nil {
			return nil, err
		}
		res.Assets = append(res.Assets, r.Assets...)
		return r.Errors, err
	})
	errs.Merge(runErrs)

	log.Infof("Exported %d file(s) from %d document(s)", len(res.Assets), len(docs))
	return finish(err)
}
