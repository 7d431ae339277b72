// Package batch discovers documents in a source folder, opens them through the
// document host and runs an export function on each, one at a time. A failing
// document is recorded and skipped; it never stops the rest of the batch.
package batch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hellenic-development/batch-export/pkg/document"
	"github.com/hellenic-development/batch-export/pkg/host"
	"github.com/hellenic-development/batch-export/pkg/report"
)

// SourcePrompt is shown by the Picker when asking for the batch folder.
const SourcePrompt = "Choose a *Source* Folder."

// Picker asks the user for a directory. ok is false when nothing was selected.
type Picker interface {
	SelectFolder(prompt string) (dir string, ok bool, err error)
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(prompt string) (string, bool, error)

func (f PickerFunc) SelectFolder(prompt string) (string, bool, error) {
	return f(prompt)
}

// ExportFunc exports one open document. The returned list holds failures that
// did not abort the export; it may be non-nil alongside an error.
type ExportFunc func(doc *document.Document) (*report.List, error)

// Driver sequences a batch over a document host.
type Driver struct {
	host      host.Host
	extension string
	log       logrus.FieldLogger
}

// New creates a Driver that processes files ending in extension.
// A nil logger discards output.
func New(h host.Host, extension string, log logrus.FieldLogger) *Driver {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Driver{host: h, extension: extension, log: log}
}

// SelectSourceFolder asks p for the batch folder.
func (d *Driver) SelectSourceFolder(p Picker) (string, *report.List, error) {
	errs := &report.List{}

	dir, ok, err := p.SelectFolder(SourcePrompt)
	if err != nil {
		errs.Record("Couldn't determine the batch folder.")
		return "", errs, fmt.Errorf("%w: %v", ErrNoFolderChosen, err)
	}
	if !ok || strings.TrimSpace(dir) == "" {
		errs.Record("Couldn't determine the batch folder.")
		return "", errs, ErrNoFolderChosen
	}

	return dir, errs, nil
}

// CollectDocuments opens, in directory order, every regular file in dir whose
// name ends with the driver's extension. The match is case-sensitive. Opening
// nothing is fatal.
func (d *Driver) CollectDocuments(dir string) ([]*document.Document, *report.List, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		errs := &report.List{}
		errs.Record("Failed to find the folder: " + dir)
		return nil, errs, fmt.Errorf("%w: %s: %v", ErrFolderNotFound, dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.HasSuffix(entry.Name(), d.extension) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}

	docs, errs, err := d.OpenDocuments(paths)
	if err != nil {
		return nil, errs, fmt.Errorf("%w in %s", err, dir)
	}

	d.log.Infof("Found %d %s document(s) in %s", len(docs), d.extension, dir)
	return docs, errs, nil
}

// OpenDocuments opens paths in order. A file the host cannot open is recorded
// and skipped; if none opens, ErrNoMatchingFiles is returned.
func (d *Driver) OpenDocuments(paths []string) ([]*document.Document, *report.List, error) {
	errs := &report.List{}

	var docs []*document.Document
	for _, path := range paths {
		name := filepath.Base(path)
		doc, err := d.host.Open(path)
		if err != nil {
			errs.Record("Failed to open the file: " + name)
			errs.Record("System error message was: " + err.Error())
			d.log.WithField("file", name).Warnf("Could not open: %v", err)
			continue
		}
		d.log.WithField("document", doc.Name).Debug("Opened")
		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		errs.Record("No " + d.extension + " files were found in the folder.")
		return nil, errs, fmt.Errorf("%w: no %s files", ErrNoMatchingFiles, d.extension)
	}

	return docs, errs, nil
}

// Run exports docs last-opened first, then closes every one of them without
// saving, again in reverse order. A failed export is recorded and the batch moves
// on. A failed close is returned at once and leaves later documents open.
func (d *Driver) Run(docs []*document.Document, export ExportFunc) (*report.List, error) {
	errs := &report.List{}

	for i := len(docs) - 1; i >= 0; i-- {
		doc := docs[i]
		log := d.log.WithField("document", doc.Name)

		stageErrs, err := d.exportOne(doc, export)
		errs.Merge(stageErrs)
		if err != nil {
			errs.Record("Failed to execute the batch function on the file: " + doc.Name)
			errs.Record("System error message was: " + err.Error())
			log.Warnf("Export failed: %v", err)
			continue
		}
		log.Info("Exported")
	}

	for i := len(docs) - 1; i >= 0; i-- {
		if err := d.host.Close(docs[i], host.DiscardChanges); err != nil {
			return errs, fmt.Errorf("close %s: %w", docs[i].Name, err)
		}
	}

	return errs, nil
}

// exportOne activates doc and runs export on it, turning a panic into an error.
func (d *Driver) exportOne(doc *document.Document, export ExportFunc) (errs *report.List, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	if err := d.host.Activate(doc); err != nil {
		return nil, fmt.Errorf("activate: %w", err)
	}
	return export(doc)
}
