// SPDX-License-Identifier: MPL-2.0

package merger

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mvnmerge/mvnmerge/internal/issue"
	"github.com/mvnmerge/mvnmerge/internal/testutil"
	"github.com/mvnmerge/mvnmerge/internal/treecopy"
	"github.com/mvnmerge/mvnmerge/pkg/pom"
	"github.com/mvnmerge/mvnmerge/pkg/types"
)

type fixture struct {
	root    string
	output  string
	project *testutil.Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{
		root:    root,
		output:  filepath.Join(t.TempDir(), "nested", "dir", "modules.txt"),
		project: testutil.NewProject(t, osfs.New(root)),
	}
	f.project.RootPom(groupID, "root", "1.0-SNAPSHOT", "m1", "m2", "m3")
	return f
}

func (f *fixture) input(mode Mode, modules ...string) Input {
	return Input{
		Modules:     modules,
		ProjectRoot: types.FilesystemPath(f.root),
		OutputFile:  types.FilesystemPath(f.output),
		Mode:        mode,
	}
}

func TestMergeSources(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.project.
		ModulePom("m1", groupID, "m1", dep("utilA", "v1", pom.ScopeTest), dep("utilB", "v1", pom.ScopeCompile)).
		ModulePom("m2", groupID, "m2", dep("utilA", "v1", pom.ScopeCompile)).
		File("m1/src/main/java/com/example/A.java", "class A {}").
		File("m2/src/main/java/com/example/B.java", "class B {}").
		File("m1/src/test/resources/allure.properties", "allure.results.directory=target/allure-results").
		File("m2/src/test/resources/allure.properties", "allure.results.directory=target/allure-results")

	var logs bytes.Buffer
	m := New(Options{Logger: log.New(&logs), Pretty: true})

	res, err := m.Merge(context.Background(), f.input(ModeSources, "m1", "m2"))
	require.NoError(t, err)

	assert.True(t, res.Merged)
	assert.Equal(t, DefaultMergedModuleName, res.MergedModule)
	assert.Equal(t, []string{"merged_modules"}, res.Modules)
	assert.Equal(t, treecopy.Stats{Copied: 3, Identical: 1, Directories: res.Files.Directories}, res.Files)

	assert.Equal(t, "class A {}", f.project.Read("merged_modules/src/main/java/com/example/A.java"))
	assert.Equal(t, "class B {}", f.project.Read("merged_modules/src/main/java/com/example/B.java"))
	assert.True(t, f.project.Exists("merged_modules/src/test/resources/allure.properties"))

	merged := f.project.Descriptor("merged_modules/pom.xml")
	assert.Equal(t, "merged_modules", merged.ArtifactID())
	deps, err := merged.Dependencies()
	require.NoError(t, err)
	assert.Equal(t, []pom.Dependency{
		dep("utilA", "v1", pom.ScopeCompile),
		dep("utilB", "v1", pom.ScopeCompile),
	}, deps)
	parent, ok := merged.Parent()
	require.True(t, ok)
	assert.Equal(t, pom.Parent{GroupID: groupID, ArtifactID: "root", Version: "1.0-SNAPSHOT"}, parent)
	assert.NotContains(t, f.project.Read("merged_modules/pom.xml"), "<scope>")
	assert.Contains(t, f.project.Read("merged_modules/pom.xml"), pom.AddedAutomaticallyComment)

	root := f.project.Descriptor("pom.xml")
	assert.Equal(t, []string{"m1", "m2", "m3", "merged_modules"}, root.ChildModules())

	assert.Equal(t, "merged_modules", testutil.MustReadFile(t, f.output))
	assert.Contains(t, logs.String(), "Starting merging")
	assert.Contains(t, logs.String(), "Merged modules pom was created")
}

func TestMergeVersionConflict(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.project.
		ModulePom("m1", groupID, "m1", dep("utilC", "1.0", pom.ScopeCompile)).
		ModulePom("m2", groupID, "m2", dep("utilC", "2.0", pom.ScopeCompile)).
		File("m1/src/A.java", "a").
		File("m2/src/B.java", "b")

	_, err := New(Options{}).Merge(context.Background(), f.input(ModeSources, "m1", "m2"))
	require.ErrorIs(t, err, ErrVersionConflict)
	assert.Contains(t, err.Error(), "com.example:utilC:1.0")
	assert.Contains(t, err.Error(), "com.example:utilC:2.0")

	assert.NotContains(t, f.project.Read("pom.xml"), "merged_modules")
	assert.False(t, f.project.Exists("merged_modules/pom.xml"))
}

func TestMergeTargetMissingDirectories(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.project.
		ModulePom("m1", groupID, "m1").
		ModulePom("m2", groupID, "m2").
		File("m1/target/classes/A.class", "cafebabe").
		File("m2/src/main/java/B.java", "class B {}")

	_, err := New(Options{}).Merge(context.Background(), f.input(ModeTarget, "m1", "m2"))
	require.ErrorIs(t, err, ErrMissingDirectories)

	var missing *MissingDirectoriesError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "m2", missing.Module)
	assert.Equal(t, ModeTarget.Directories(), missing.Directories)
	assert.Contains(t, err.Error(), filepath.Join("target", "classes"))
	assert.Contains(t, err.Error(), filepath.Join("target", "test-classes"))
}

func TestMergeTargetCopiesExistingDirectories(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.project.
		ModulePom("m1", groupID, "m1").
		ModulePom("m2", groupID, "m2").
		File("m1/target/classes/A.class", "a").
		File("m2/target/test-classes/BTest.class", "b").
		File("m2/target/surefire-reports/report.txt", "ignored")

	res, err := New(Options{}).Merge(context.Background(), f.input(ModeTarget, "m1", "m2"))
	require.NoError(t, err)
	assert.True(t, res.Merged)
	assert.Empty(t, res.Dependencies)

	assert.Equal(t, "a", f.project.Read("merged_modules/target/classes/A.class"))
	assert.Equal(t, "b", f.project.Read("merged_modules/target/test-classes/BTest.class"))
	assert.False(t, f.project.Exists("merged_modules/target/surefire-reports"))
	assert.NotContains(t, f.project.Read("merged_modules/pom.xml"), "<dependencies")
}

func TestMergeSkipsSingleEligibleModule(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.project.
		ModulePom("m1", groupID, "m1").
		ModulePom("m2", groupID, "m2").
		ModulePom("m3", groupID, "m3").
		File("m2/src/test/resources/allure.properties", "x").
		File("m2/src/A.java", "a").
		File("m1/src/B.java", "b")
	rootBefore := f.project.Read("pom.xml")

	m := New(Options{Filters: []Filter{AllureFilter()}})
	res, err := m.Merge(context.Background(), f.input(ModeSources, "m3", "m1", "m2"))
	require.NoError(t, err)

	assert.False(t, res.Merged)
	assert.Equal(t, SkipOneModule, res.SkippedReason)
	assert.Equal(t, []string{"m2"}, res.Partition.Mergeable)
	assert.False(t, f.project.Exists("merged_modules"))
	assert.Equal(t, rootBefore, f.project.Read("pom.xml"))
	assert.Equal(t, "m1,m2,m3", testutil.MustReadFile(t, f.output))
}

func TestMergeSkipsWithoutEligibleModules(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	res, err := New(Options{Filters: []Filter{AllureFilter()}}).
		Merge(context.Background(), f.input(ModeSources, "m1", "m2"))
	require.NoError(t, err)
	assert.Equal(t, SkipNoModules, res.SkippedReason)
	assert.Equal(t, "m1,m2", testutil.MustReadFile(t, f.output))
}

func TestMergeListsNonMergeableModules(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.project.
		ModulePom("m1", groupID, "m1").
		ModulePom("m2", groupID, "m2").
		ModulePom("nested/m3", groupID, "m3").
		File("m1/marker", "").
		File("m2/marker", "").
		File("m1/src/A.java", "a").
		File("m2/src/B.java", "b")

	m := New(Options{Filters: []Filter{NewExistingFileFilter("marker")}})
	res, err := m.Merge(context.Background(), f.input(ModeSources, "m1", "m2", "nested/./m3"))
	require.NoError(t, err)

	assert.Equal(t, []string{"merged_modules", "nested/m3"}, res.Modules)
	assert.Equal(t, "merged_modules,nested/m3", testutil.MustReadFile(t, f.output))
}

func TestMergeContentConflict(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.project.
		ModulePom("m1", groupID, "m1").
		ModulePom("m2", groupID, "m2").
		File("m1/src/main/resources/app.properties", "a=1").
		File("m2/src/main/resources/app.properties", "a=2")

	_, err := New(Options{}).Merge(context.Background(), f.input(ModeSources, "m1", "m2"))
	require.ErrorIs(t, err, treecopy.ErrContentConflict)

	var conflict *treecopy.ContentConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, filepath.Join("m1", "src", "main", "resources", "app.properties"), conflict.Existing)
	assert.Equal(t, filepath.Join("m2", "src", "main", "resources", "app.properties"), conflict.Source)
}

func TestMergeDestinationExists(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.project.
		ModulePom("m1", groupID, "m1").
		ModulePom("m2", groupID, "m2").
		File("m1/src/A.java", "a").
		File("m2/src/B.java", "b").
		Dir("merged_modules")

	_, err := New(Options{}).Merge(context.Background(), f.input(ModeSources, "m1", "m2"))
	require.ErrorIs(t, err, ErrDestinationExists)
	require.NotNil(t, issue.IssueOf(err))
	assert.Equal(t, issue.MergedModuleExistsId, issue.IssueOf(err).Id())
}

func TestMergeMissingModuleDescriptor(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.project.
		ModulePom("m1", groupID, "m1").
		File("m1/src/A.java", "a").
		File("m2/src/B.java", "b")

	_, err := New(Options{}).Merge(context.Background(), f.input(ModeSources, "m1", "m2"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), filepath.Join("m2", "pom.xml"))
	require.NotNil(t, issue.IssueOf(err))
	assert.Equal(t, issue.DescriptorNotFoundId, issue.IssueOf(err).Id())
}

func TestMergeCustomNameSeparatorAndReport(t *testing.T) {
	t.Parallel()

	fsys := memfs.New()
	project := testutil.NewProject(t, fsys).
		RootPom(groupID, "root", "2.0").
		ModulePom("m1", groupID, "m1", dep("lib", "1", pom.ScopeRuntime)).
		ModulePom("m2", groupID, "m2", dep("m1", "2.0", pom.ScopeCompile)).
		ModulePom("m3", groupID, "m3").
		File("m1/src/A.java", "a").
		File("m2/src/B.java", "b").
		File("m3/skip", "")

	out := t.TempDir()
	reportPath := filepath.Join(out, "reports", "merge.yaml")
	m := New(Options{
		Filesystem:       func(string) billy.Filesystem { return fsys },
		MergedModuleName: "combined",
		Separator:        ";",
		ReportPath:       reportPath,
		Filters: []Filter{FilterFunc(func(fs billy.Filesystem, module string) bool {
			_, err := fs.Stat(filepath.Join(module, "skip"))
			return err != nil
		})},
	})

	in := Input{
		Modules:     []string{"m1", "m2", "m3"},
		ProjectRoot: "/virtual",
		OutputFile:  types.FilesystemPath(filepath.Join(out, "modules.txt")),
		Mode:        ModeSources,
	}
	res, err := m.Merge(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "combined;m3", testutil.MustReadFile(t, filepath.Join(out, "modules.txt")))
	assert.Equal(t, "combined", project.Descriptor("combined/pom.xml").ArtifactID())
	assert.Equal(t, []string{"combined"}, project.Descriptor("pom.xml").ChildModules())

	var report Report
	require.NoError(t, yaml.Unmarshal([]byte(testutil.MustReadFile(t, reportPath)), &report))
	assert.Equal(t, "sources", report.Mode)
	assert.Equal(t, "combined", report.MergedModule)
	assert.Equal(t, []string{"m1", "m2"}, report.Merged)
	assert.Equal(t, []string{"m3"}, report.NotMerged)
	assert.Equal(t, []string{"combined", "m3"}, report.Output)
	assert.Equal(t, 2, report.Files.Copied)
	assert.Equal(t, res.Dependencies, report.Dependencies)
	assert.Equal(t, []pom.Dependency{dep("lib", "1", pom.ScopeCompile)}, report.Dependencies)
}

func TestMergeRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	_, err := New(Options{}).Merge(context.Background(), Input{})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestMergeConcurrentProjects(t *testing.T) {
	t.Parallel()

	m := New(Options{Pretty: true})
	const runs = 4
	errs := make(chan error, runs)
	fixtures := make([]*fixture, runs)
	for i := range fixtures {
		f := newFixture(t)
		f.project.
			ModulePom("m1", groupID, "m1", dep("a", "1", pom.ScopeCompile)).
			ModulePom("m2", groupID, "m2", dep("b", "1", pom.ScopeTest)).
			File("m1/src/A.java", "a").
			File("m2/src/B.java", "b")
		fixtures[i] = f
	}
	for _, f := range fixtures {
		go func() {
			_, err := m.Merge(context.Background(), f.input(ModeSources, "m1", "m2"))
			errs <- err
		}()
	}
	for range runs {
		require.NoError(t, <-errs)
	}
	for _, f := range fixtures {
		content := f.project.Read("merged_modules/pom.xml")
		assert.Equal(t, 2, strings.Count(content, "<dependency>"))
	}
}
