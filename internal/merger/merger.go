// SPDX-License-Identifier: MPL-2.0

package merger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/viant/afs"
	"golang.org/x/exp/slices"

	"github.com/mvnmerge/mvnmerge/internal/issue"
	"github.com/mvnmerge/mvnmerge/internal/treecopy"
	"github.com/mvnmerge/mvnmerge/pkg/pom"
	"github.com/mvnmerge/mvnmerge/pkg/xmldoc"
)

// DefaultMergedModuleName is the directory and artifactId of the merged module.
const DefaultMergedModuleName = "merged_modules"

// Reasons reported when a merge is skipped.
const (
	SkipNoModules = "there are no modules for merging"
	SkipOneModule = "there is only 1 module for merging"
)

const minMergeableModules = 2

type (
	// Options configures a Merger. The zero value merges into
	// DefaultMergedModuleName on the OS filesystem with the built-in template.
	Options struct {
		// Logger receives progress messages. Nil discards them.
		Logger *log.Logger
		// Filesystem opens the project root. Nil uses the OS filesystem.
		Filesystem func(root string) billy.Filesystem
		// Storage writes the module list and the report. Nil uses afs.New().
		Storage afs.Service
		// MergedModuleName overrides DefaultMergedModuleName.
		MergedModuleName string
		// Template is the merged descriptor template. Nil uses DefaultTemplate().
		Template []byte
		// Pretty re-indents written descriptors.
		Pretty bool
		// Separator joins the output module list. Empty uses ModuleSeparator.
		Separator string
		// ReportPath, when set, receives a YAML Report.
		ReportPath string
		// Filters decide which modules are mergeable.
		Filters []Filter
	}

	// Merger runs merges. It holds no per-run state, so one Merger may serve
	// several sequential or concurrent runs on distinct project roots.
	Merger struct {
		opts    Options
		log     *log.Logger
		storage afs.Service
	}

	// Result describes a finished merge.
	Result struct {
		// Merged is false when fewer than two modules were mergeable.
		Merged bool
		// MergedModule is the name of the created module.
		MergedModule string
		// SkippedReason explains why Merged is false.
		SkippedReason string
		// Partition is the split of requested modules.
		Partition Partition
		// Modules is the sorted list written to the output file.
		Modules []string
		// Dependencies is the aggregated dependency set of the merged module.
		Dependencies []pom.Dependency
		// Files counts copied and identical files.
		Files treecopy.Stats
	}

	// run carries the state of a single Merge call.
	run struct {
		*Merger
		fs   billy.Filesystem
		mode Mode
		name string
	}
)

// New creates a Merger.
func New(opts Options) *Merger {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	storage := opts.Storage
	if storage == nil {
		storage = afs.New()
	}
	if opts.MergedModuleName == "" {
		opts.MergedModuleName = DefaultMergedModuleName
	}
	if opts.Template == nil {
		opts.Template = DefaultTemplate()
	}
	if opts.Filesystem == nil {
		opts.Filesystem = func(root string) billy.Filesystem { return osfs.New(root) }
	}
	return &Merger{opts: opts, log: logger, storage: storage}
}

// Merge merges the mergeable modules of in and writes the resulting module
// list to in.OutputFile. With fewer than two mergeable modules nothing in
// the project is touched and the requested names are written unchanged.
//
// Merge stops at the first failure and leaves partial results on disk.
func (m *Merger) Merge(ctx context.Context, in Input) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	r := &run{
		Merger: m,
		fs:     m.opts.Filesystem(in.ProjectRoot.String()),
		mode:   in.Mode,
		name:   m.opts.MergedModuleName,
	}

	res := &Result{Partition: PartitionModules(r.fs, in.Modules, m.opts.Filters...)}
	m.log.Info("Starting merging", "mode", in.Mode, "modules", res.Partition.Mergeable)

	switch len(res.Partition.Mergeable) {
	case 0:
		res.SkippedReason = SkipNoModules
	case 1:
		res.SkippedReason = SkipOneModule
	}

	if len(res.Partition.Mergeable) < minMergeableModules {
		m.log.Info("Finishing merging, modules won't be merged", "reason", res.SkippedReason)
		res.Modules = slices.Clone(in.Modules)
		slices.Sort(res.Modules)
	} else {
		if err := r.mergeModules(res); err != nil {
			return nil, err
		}
		res.Merged = true
		res.MergedModule = r.name
		res.Modules = r.modulesAfterMerging(res.Partition.NonMergeable)
	}

	line, err := NewModuleListWriter(m.storage, m.opts.Separator).Write(ctx, in.OutputFile.String(), res.Modules)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("write modules list").
			WithResource(in.OutputFile.String()).
			WithSuggestion("Check that the output location is writable").
			WithIssue(issue.OutputWriteFailedId).
			Wrap(err).
			BuildError()
	}
	m.log.Info("Modules list was written", "modules", line, "file", in.OutputFile)

	if m.opts.ReportPath != "" {
		if err := WriteReport(ctx, m.storage, m.opts.ReportPath, NewReport(in.Mode, res)); err != nil {
			return nil, issue.WrapWithContext(err, "write merge report", m.opts.ReportPath)
		}
		m.log.Debug("Merge report was written", "file", m.opts.ReportPath)
	}
	return res, nil
}

func (r *run) mergeModules(res *Result) error {
	if err := r.createDestination(); err != nil {
		return err
	}

	copier := treecopy.New(r.fs)
	for _, module := range res.Partition.Mergeable {
		if err := r.copyModule(copier, module); err != nil {
			return err
		}
	}
	res.Files = copier.Stats()

	descriptors := make([]*pom.Descriptor, 0, len(res.Partition.Mergeable))
	for _, module := range res.Partition.Mergeable {
		d, err := r.loadDescriptor(filepath.Join(module, pom.FileName))
		if err != nil {
			return err
		}
		descriptors = append(descriptors, d)
	}
	deps, err := Aggregate(descriptors...)
	if err != nil {
		return err
	}
	res.Dependencies = deps
	r.log.Debug("Dependencies were aggregated", "count", len(deps))

	root, err := r.loadDescriptor(pom.FileName)
	if err != nil {
		return err
	}
	if err := r.writeMergedDescriptor(root, deps); err != nil {
		return err
	}
	return r.registerInRoot(root)
}

func (r *run) createDestination() error {
	if _, err := r.fs.Stat(r.name); err == nil {
		return issue.NewErrorContext().
			WithOperation("create directory for merged modules").
			WithResource(r.name).
			WithSuggestion("Run the merge in a clean workspace").
			WithIssue(issue.MergedModuleExistsId).
			Wrap(ErrDestinationExists).
			BuildError()
	} else if !errors.Is(err, os.ErrNotExist) {
		return issue.WrapWithContext(err, "create directory for merged modules", r.name)
	}
	if err := r.fs.MkdirAll(r.name, 0o755); err != nil {
		return issue.WrapWithContext(err, "create directory for merged modules", r.name)
	}
	return nil
}

// copyModule copies the mode directories present in module. At least one
// of them has to exist.
func (r *run) copyModule(copier *treecopy.Copier, module string) error {
	r.log.Info("Merging module", "module", module)

	var existing []string
	for _, dir := range r.mode.Directories() {
		info, err := r.fs.Stat(filepath.Join(module, dir))
		if err == nil && info.IsDir() {
			existing = append(existing, dir)
		}
	}
	if len(existing) == 0 {
		return &MissingDirectoriesError{Module: module, Mode: r.mode, Directories: r.mode.Directories()}
	}
	r.log.Info("Directories content will be merged", "module", module, "directories", existing)

	for _, dir := range existing {
		if err := copier.CopyTree(filepath.Join(module, dir), filepath.Join(r.name, dir)); err != nil {
			var conflict *treecopy.ContentConflictError
			if errors.As(err, &conflict) {
				return fmt.Errorf("unable to merge files due to conflict in files content: %w", err)
			}
			return issue.WrapWithContext(err, "copy files of module", module)
		}
	}
	return nil
}

func (r *run) loadDescriptor(name string) (*pom.Descriptor, error) {
	d, err := pom.Load(r.fs, name)
	if err != nil {
		id := issue.DescriptorParseErrorId
		if errors.Is(err, os.ErrNotExist) {
			id = issue.DescriptorNotFoundId
		}
		return nil, issue.NewErrorContext().
			WithOperation("load descriptor").
			WithResource(name).
			WithIssue(id).
			Wrap(err).
			BuildError()
	}
	return d, nil
}

func (r *run) writeMergedDescriptor(root *pom.Descriptor, deps []pom.Dependency) error {
	merged, err := pom.Parse(bytes.NewReader(r.opts.Template))
	if err != nil {
		return issue.WrapWithContext(err, "parse merged module template", r.name)
	}
	if err := merged.SetArtifactID(r.name); err != nil {
		return err
	}
	if err := merged.SetDependencies(deps); err != nil {
		return err
	}
	parent := pom.Parent{
		GroupID:    root.EffectiveGroupID(),
		ArtifactID: root.ArtifactID(),
		Version:    root.Version(),
	}
	if err := merged.SetParent(parent); err != nil {
		return issue.WrapWithContext(err, "set parent of merged module", pom.FileName)
	}

	name := filepath.Join(r.name, pom.FileName)
	if err := merged.Write(r.fs, name, r.writeOptions()); err != nil {
		return issue.WrapWithContext(err, "write merged module descriptor", name)
	}
	r.log.Info("Merged modules pom was created", "file", name, "parent", parent)
	return nil
}

func (r *run) registerInRoot(root *pom.Descriptor) error {
	root.AddChildModuleIfNotExists(r.name)
	if err := root.Write(r.fs, pom.FileName, r.writeOptions()); err != nil {
		return issue.WrapWithContext(err, "write root descriptor", pom.FileName)
	}
	r.log.Info("Merged module was added to root pom as a child module", "module", r.name)
	return nil
}

func (r *run) modulesAfterMerging(nonMergeable []string) []string {
	modules := make([]string, 0, len(nonMergeable)+1)
	modules = append(modules, r.name)
	for _, module := range nonMergeable {
		modules = append(modules, filepath.Clean(module))
	}
	slices.Sort(modules)
	return slices.Compact(modules)
}

func (r *run) writeOptions() xmldoc.WriteOptions {
	return xmldoc.WriteOptions{Pretty: r.opts.Pretty, Indent: xmldoc.DefaultIndent}
}
