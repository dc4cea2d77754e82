// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/mvnmerge/mvnmerge/pkg/pom"
)

// Project builds Maven project trees for tests.
type Project struct {
	t  testing.TB
	FS billy.Filesystem
}

// NewProject wraps fsys. Paths given to Project methods are relative to its root.
func NewProject(t testing.TB, fsys billy.Filesystem) *Project {
	t.Helper()
	return &Project{t: t, FS: fsys}
}

// File writes content to name, creating parent directories.
func (p *Project) File(name, content string) *Project {
	p.t.Helper()
	if err := util.WriteFile(p.FS, name, []byte(content), 0o644); err != nil {
		p.t.Fatalf("failed to write %s: %v", name, err)
	}
	return p
}

// Dir creates an empty directory.
func (p *Project) Dir(name string) *Project {
	p.t.Helper()
	if err := p.FS.MkdirAll(name, 0o755); err != nil {
		p.t.Fatalf("failed to create directory %s: %v", name, err)
	}
	return p
}

// RootPom writes the aggregator descriptor listing modules.
func (p *Project) RootPom(groupID, artifactID, version string, modules ...string) *Project {
	p.t.Helper()
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString("<project>\n    <modelVersion>4.0.0</modelVersion>\n")
	fmt.Fprintf(&b, "    <groupId>%s</groupId>\n    <artifactId>%s</artifactId>\n    <version>%s</version>\n", groupID, artifactID, version)
	b.WriteString("    <packaging>pom</packaging>\n")
	if len(modules) > 0 {
		b.WriteString("    <modules>\n")
		for _, m := range modules {
			fmt.Fprintf(&b, "        <module>%s</module>\n", m)
		}
		b.WriteString("    </modules>\n")
	}
	b.WriteString("</project>\n")
	return p.File(pom.FileName, b.String())
}

// ModulePom writes module/pom.xml inheriting groupId from parentGroupID.
func (p *Project) ModulePom(module, parentGroupID, artifactID string, deps ...pom.Dependency) *Project {
	p.t.Helper()
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString("<project>\n    <modelVersion>4.0.0</modelVersion>\n")
	fmt.Fprintf(&b, "    <parent>\n        <groupId>%s</groupId>\n        <artifactId>root</artifactId>\n        <version>1.0</version>\n    </parent>\n", parentGroupID)
	fmt.Fprintf(&b, "    <artifactId>%s</artifactId>\n", artifactID)
	if len(deps) > 0 {
		b.WriteString("    <dependencies>\n")
		for _, d := range deps {
			b.WriteString("        <dependency>\n")
			fmt.Fprintf(&b, "            <groupId>%s</groupId>\n            <artifactId>%s</artifactId>\n", d.GroupID, d.ArtifactID)
			if d.HasVersion() {
				fmt.Fprintf(&b, "            <version>%s</version>\n", d.Version)
			}
			if d.Scope != pom.ScopeCompile {
				fmt.Fprintf(&b, "            <scope>%s</scope>\n", d.Scope)
			}
			b.WriteString("        </dependency>\n")
		}
		b.WriteString("    </dependencies>\n")
	}
	b.WriteString("</project>\n")
	return p.File(filepath.Join(module, pom.FileName), b.String())
}

// Read returns the content of name.
func (p *Project) Read(name string) string {
	p.t.Helper()
	data, err := util.ReadFile(p.FS, name)
	if err != nil {
		p.t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(data)
}

// Exists reports whether name exists.
func (p *Project) Exists(name string) bool {
	_, err := p.FS.Stat(name)
	return err == nil
}

// Descriptor loads name as a descriptor.
func (p *Project) Descriptor(name string) *pom.Descriptor {
	p.t.Helper()
	d, err := pom.Load(p.FS, name)
	if err != nil {
		p.t.Fatalf("failed to load descriptor %s: %v", name, err)
	}
	return d
}

const xmlHeader = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"
