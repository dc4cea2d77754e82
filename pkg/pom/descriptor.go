// SPDX-License-Identifier: MPL-2.0

package pom

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/beevik/etree"
	"github.com/go-git/go-billy/v5"
	"golang.org/x/exp/slices"

	"github.com/mvnmerge/mvnmerge/pkg/xmldoc"
)

const (
	// FileName is the conventional descriptor file name inside a module.
	FileName = "pom.xml"

	// AddedAutomaticallyComment marks dependency entries written by the merger.
	AddedAutomaticallyComment = "Added automatically via maven modules merger"
)

// ErrNotDescriptor is returned when a document's root element is not <project>.
var ErrNotDescriptor = errors.New("document is not a maven descriptor")

var (
	projectPath       = xmldoc.MustCompilePath("/project")
	artifactIDPath    = xmldoc.MustCompilePath("/project/artifactId")
	groupIDPath       = xmldoc.MustCompilePath("/project/groupId")
	versionPath       = xmldoc.MustCompilePath("/project/version")
	parentPath        = xmldoc.MustCompilePath("/project/parent")
	parentGroupIDPath = xmldoc.MustCompilePath("/project/parent/groupId")
	dependenciesPath  = xmldoc.MustCompilePath("/project/dependencies")
	dependencyPath    = xmldoc.MustCompilePath("/project/dependencies/dependency")
	modulesPath       = xmldoc.MustCompilePath("/project/modules")
	modulePath        = xmldoc.MustCompilePath("/project/modules/module")
)

type (
	// Tree is the document access a Descriptor is built on: path queries
	// returning mutable elements, and serialization.
	Tree interface {
		Root() *etree.Element
		FindPath(p xmldoc.Path) *etree.Element
		FindAllPath(p xmldoc.Path) []*etree.Element
		WriteTo(w io.Writer, opts xmldoc.WriteOptions) error
	}

	// Descriptor is a mutable view of one pom.xml.
	// It is not safe for concurrent mutation.
	Descriptor struct {
		tree Tree
	}
)

// New wraps a parsed tree whose root must be <project>. Surrounding
// whitespace is trimmed from dependency coordinates so keyed lookups
// compare exact text.
func New(tree Tree) (*Descriptor, error) {
	root := tree.Root()
	if root == nil || root.Tag != "project" {
		return nil, ErrNotDescriptor
	}
	for _, e := range tree.FindAllPath(dependencyPath) {
		trimChildText(e, "groupId")
		trimChildText(e, "artifactId")
	}
	return &Descriptor{tree: tree}, nil
}

// Parse reads a descriptor from r.
func Parse(r io.Reader) (*Descriptor, error) {
	tree, err := xmldoc.Parse(r)
	if err != nil {
		return nil, err
	}
	return New(tree)
}

// Load reads the descriptor at name from fsys.
func Load(fsys billy.Filesystem, name string) (*Descriptor, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("unable to read descriptor %s: %w", name, err)
	}
	defer f.Close()

	d, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("unable to parse descriptor %s: %w", name, err)
	}
	return d, nil
}

// ArtifactID returns the project's own artifactId, or "" when absent.
func (d *Descriptor) ArtifactID() string {
	return d.text(artifactIDPath)
}

// GroupID returns the project's own groupId, or "" when absent.
func (d *Descriptor) GroupID() string {
	return d.text(groupIDPath)
}

// Version returns the project's own version, or "" when absent.
func (d *Descriptor) Version() string {
	return d.text(versionPath)
}

// SetArtifactID overwrites the project's artifactId, creating the element if needed.
func (d *Descriptor) SetArtifactID(artifactID string) error {
	if artifactID == "" {
		return &MissingFieldError{Element: "project", Field: "artifactId"}
	}
	setChildText(d.project(), "artifactId", artifactID)
	return nil
}

// ParentGroupID returns the parent's groupId, or "" when absent.
func (d *Descriptor) ParentGroupID() string {
	return d.text(parentGroupIDPath)
}

// EffectiveGroupID returns the own groupId, falling back to the parent's.
// Only one level of inheritance is consulted.
func (d *Descriptor) EffectiveGroupID() string {
	if g := d.GroupID(); g != "" {
		return g
	}
	return d.ParentGroupID()
}

// Key returns the (effective groupId, artifactId) identity of this project.
func (d *Descriptor) Key() Key {
	return Key{GroupID: d.EffectiveGroupID(), ArtifactID: d.ArtifactID()}
}

// ProjectChildren returns the element children of <project> in document order.
func (d *Descriptor) ProjectChildren() []*etree.Element {
	return d.project().ChildElements()
}

// Dependencies returns the declared direct dependencies in document order.
// Repeated declarations of the same key are reported once.
// An unknown scope is an error; the descriptor is never silently defaulted.
func (d *Descriptor) Dependencies() ([]Dependency, error) {
	elems := d.tree.FindAllPath(dependencyPath)
	deps := make([]Dependency, 0, len(elems))
	seen := make(map[Key]bool, len(elems))
	for _, e := range elems {
		dep, err := dependencyFromElement(e)
		if err != nil {
			return nil, err
		}
		if seen[dep.Key()] {
			continue
		}
		seen[dep.Key()] = true
		deps = append(deps, dep)
	}
	return deps, nil
}

// HasDependency reports whether a dependency with the same key is declared.
func (d *Descriptor) HasDependency(dep Dependency) bool {
	return len(d.dependencyElements(dep.Key())) > 0
}

// AddDependencyIfNotExists appends dep unless a dependency with the same key
// is already declared. A <scope> element is written only for non-compile scopes.
func (d *Descriptor) AddDependencyIfNotExists(dep Dependency) error {
	if err := dep.Validate(); err != nil {
		return err
	}
	if d.HasDependency(dep) {
		return nil
	}
	container := d.tree.FindPath(dependenciesPath)
	if container == nil {
		container = d.project().CreateElement("dependencies")
	}
	e := container.CreateElement("dependency")
	e.CreateComment(AddedAutomaticallyComment)
	e.CreateElement("groupId").SetText(dep.GroupID)
	e.CreateElement("artifactId").SetText(dep.ArtifactID)
	if dep.HasVersion() {
		e.CreateElement("version").SetText(dep.Version)
	}
	if dep.Scope != ScopeCompile {
		e.CreateElement("scope").SetText(dep.Scope.String())
	}
	return nil
}

// AddDependenciesIfNotExist calls AddDependencyIfNotExists for every dependency.
func (d *Descriptor) AddDependenciesIfNotExist(deps []Dependency) error {
	for _, dep := range deps {
		if err := d.AddDependencyIfNotExists(dep); err != nil {
			return err
		}
	}
	return nil
}

// RemoveDependencyIfExists removes every declaration of dep's key. When no
// dependency is left the <dependencies> container is removed as well.
func (d *Descriptor) RemoveDependencyIfExists(dep Dependency) {
	for _, e := range d.dependencyElements(dep.Key()) {
		e.Parent().RemoveChild(e)
	}
	if len(d.tree.FindAllPath(dependencyPath)) == 0 {
		d.RemoveAllDependencies()
	}
}

// RemoveAllDependencies removes the <dependencies> container.
func (d *Descriptor) RemoveAllDependencies() {
	for _, e := range d.tree.FindAllPath(dependenciesPath) {
		e.Parent().RemoveChild(e)
	}
}

// SetDependencies replaces the dependency list with deps.
func (d *Descriptor) SetDependencies(deps []Dependency) error {
	d.RemoveAllDependencies()
	return d.AddDependenciesIfNotExist(deps)
}

// ChildModules returns the declared child module names, sorted.
func (d *Descriptor) ChildModules() []string {
	var names []string
	for _, e := range d.tree.FindAllPath(modulePath) {
		name := strings.TrimSpace(e.Text())
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// AddChildModuleIfNotExists appends name to <modules>, creating the
// container on first use.
func (d *Descriptor) AddChildModuleIfNotExists(name string) {
	if slices.Contains(d.ChildModules(), name) {
		return
	}
	container := d.tree.FindPath(modulesPath)
	if container == nil {
		container = d.project().CreateElement("modules")
	}
	container.CreateElement("module").SetText(name)
}

// Parent returns the parent reference. The boolean is false when the
// descriptor has no <parent>.
func (d *Descriptor) Parent() (Parent, bool) {
	e := d.tree.FindPath(parentPath)
	if e == nil {
		return Parent{}, false
	}
	return Parent{
		GroupID:    childText(e, "groupId"),
		ArtifactID: childText(e, "artifactId"),
		Version:    childText(e, "version"),
	}, true
}

// SetParent overwrites the parent reference, creating <parent> right after
// <modelVersion> when the descriptor has none.
func (d *Descriptor) SetParent(p Parent) error {
	if err := p.Validate(); err != nil {
		return err
	}
	e := d.tree.FindPath(parentPath)
	if e == nil {
		e = etree.NewElement("parent")
		project := d.project()
		index := 0
		if mv := project.SelectElement("modelVersion"); mv != nil {
			index = mv.Index() + 1
		}
		project.InsertChildAt(index, e)
	}
	setChildText(e, "groupId", p.GroupID)
	setChildText(e, "artifactId", p.ArtifactID)
	setChildText(e, "version", p.Version)
	return nil
}

// WriteTo serializes the current in-memory state to w.
func (d *Descriptor) WriteTo(w io.Writer, opts xmldoc.WriteOptions) error {
	return d.tree.WriteTo(w, opts)
}

// Write serializes the current in-memory state to name in fsys, replacing any
// existing file. The target does not have to be the file the descriptor was
// loaded from.
func (d *Descriptor) Write(fsys billy.Filesystem, name string, opts xmldoc.WriteOptions) (err error) {
	if dir := path.Dir(name); dir != "." {
		if mkErr := fsys.MkdirAll(dir, 0o755); mkErr != nil {
			return fmt.Errorf("unable to create directory for %s: %w", name, mkErr)
		}
	}
	f, err := fsys.Create(name)
	if err != nil {
		return fmt.Errorf("unable to write descriptor %s: %w", name, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("unable to write descriptor %s: %w", name, closeErr)
		}
	}()
	if err := d.tree.WriteTo(f, opts); err != nil {
		return fmt.Errorf("unable to write descriptor %s: %w", name, err)
	}
	return nil
}

func (d *Descriptor) project() *etree.Element {
	return d.tree.FindPath(projectPath)
}

func (d *Descriptor) text(p xmldoc.Path) string {
	e := d.tree.FindPath(p)
	if e == nil {
		return ""
	}
	return strings.TrimSpace(e.Text())
}

// dependencyElements returns every <dependency> declaring key. Coordinates
// that cannot be quoted in a path expression fall back to a linear scan.
func (d *Descriptor) dependencyElements(key Key) []*etree.Element {
	if p, ok := keyedDependencyPath(key); ok {
		return d.tree.FindAllPath(p)
	}
	var matches []*etree.Element
	for _, e := range d.tree.FindAllPath(dependencyPath) {
		if childText(e, "groupId") == key.GroupID && childText(e, "artifactId") == key.ArtifactID {
			matches = append(matches, e)
		}
	}
	return matches
}

func keyedDependencyPath(key Key) (xmldoc.Path, bool) {
	if !quotable(key.GroupID) || !quotable(key.ArtifactID) {
		return xmldoc.Path{}, false
	}
	p, err := xmldoc.CompilePath(fmt.Sprintf(
		"/project/dependencies/dependency[groupId='%s'][artifactId='%s']", key.GroupID, key.ArtifactID))
	if err != nil {
		return xmldoc.Path{}, false
	}
	return p, true
}

func quotable(s string) bool {
	return s != "" && !strings.ContainsAny(s, "'[]")
}

func dependencyFromElement(e *etree.Element) (Dependency, error) {
	dep := Dependency{
		GroupID:    childText(e, "groupId"),
		ArtifactID: childText(e, "artifactId"),
		Version:    childText(e, "version"),
	}
	if err := dep.Validate(); err != nil {
		return Dependency{}, err
	}
	if scopeElem := e.SelectElement("scope"); scopeElem != nil {
		scope, err := ScopeByName(strings.TrimSpace(scopeElem.Text()))
		if err != nil {
			var scopeErr *IllegalScopeError
			if errors.As(err, &scopeErr) {
				scopeErr.Dependency = dep.Key().String()
			}
			return Dependency{}, err
		}
		dep.Scope = scope
	}
	return dep, nil
}

func childText(e *etree.Element, tag string) string {
	c := e.SelectElement(tag)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text())
}

func trimChildText(e *etree.Element, tag string) {
	c := e.SelectElement(tag)
	if c == nil {
		return
	}
	if text := c.Text(); strings.TrimSpace(text) != text {
		c.SetText(strings.TrimSpace(text))
	}
}

func setChildText(e *etree.Element, tag, value string) {
	c := e.SelectElement(tag)
	if c == nil {
		c = e.CreateElement(tag)
	}
	c.SetText(value)
}
