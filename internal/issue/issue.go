// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	InvalidInputId Id = iota + 1
	ProjectRootNotFoundId
	UnknownMergeModeId
	ContentConflictId
	VersionConflictId
	MissingDirectoriesId
	IllegalScopeId
	DescriptorNotFoundId
	DescriptorParseErrorId
	MergedModuleExistsId
	OutputWriteFailedId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation about this issue type
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Title returns the first top-level heading of the message without its
// trailing exclamation mark, or "" when the message has none.
func (i *Issue) Title() string {
	for line := range strings.SplitSeq(string(i.mdMsg), "\n") {
		if heading, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return strings.TrimSuffix(strings.TrimSpace(heading), "!")
		}
	}
	return ""
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

const (
	pomReferenceLink      HttpLink = "https://maven.apache.org/pom.html"
	dependencyScopeLink   HttpLink = "https://maven.apache.org/guides/introduction/introduction-to-dependency-mechanism.html#dependency-scope"
	multiModuleGuideLink  HttpLink = "https://maven.apache.org/guides/mini/guide-multiple-modules.html"
	dependencyManagedLink HttpLink = "https://maven.apache.org/guides/introduction/introduction-to-dependency-mechanism.html#dependency-management"
)

var (
	render = glamour.Render

	invalidInputIssue = &Issue{
		id: InvalidInputId,
		mdMsg: `
# Invalid arguments!

The merger takes exactly four arguments, in this order:

1. **modulesList** - comma separated module names, e.g. ` + "`module_1,module_2`" + `
2. **pathToProjectRoot** - the directory holding the root ` + "`pom.xml`" + `
3. **pathToOutputFile** - where the list of modules to run is written
4. **mergeMode** - ` + "`sources`" + ` or ` + "`target`" + `

## Example:
~~~
$ mvnmerge merge module_1,module_2 . target/modules.txt sources
~~~`,
	}

	projectRootNotFoundIssue = &Issue{
		id: ProjectRootNotFoundId,
		mdMsg: `
# Project root not found!

The path given as **pathToProjectRoot** does not exist or is not a directory.

## Things you can try:
- Pass the directory that contains the root ` + "`pom.xml`" + `
- Use an absolute path when the merger runs from another working directory`,
	}

	unknownMergeModeIssue = &Issue{
		id: UnknownMergeModeId,
		mdMsg: `
# Unknown merge mode!

Supported merge modes:

| Mode | Merged directories |
|------|--------------------|
| sources | ` + "`src`" + ` |
| target | ` + "`target/classes`" + `, ` + "`target/test-classes`" + ` |

## Things you can try:
~~~
$ mvnmerge modes
~~~`,
	}

	contentConflictIssue = &Issue{
		id: ContentConflictId,
		mdMsg: `
# Files content conflict!

Two modules contain a file at the same relative path with different content.
Identical files are merged silently, but differing files can't be merged
without changing what one of the modules sees at runtime.

## Things you can try:
- Make the files identical in both modules
- Move module specific resources to module specific paths
- Exclude one of the modules from merging`,
	}

	versionConflictIssue = &Issue{
		id: VersionConflictId,
		mdMsg: `
# Dependencies have different versions!

The merged modules declare the same dependency (same groupId and artifactId)
with different versions. The merger never picks a version on its own.
A dependency declared without a version in one module and with a version in
another is also a conflict.

## Things you can try:
- Align the versions across modules
- Manage the version once in the root ` + "`<dependencyManagement>`" + ` section and drop it from the modules`,
		docLinks: []HttpLink{dependencyManagedLink},
	}

	missingDirectoriesIssue = &Issue{
		id: MissingDirectoriesId,
		mdMsg: `
# Nothing to merge in a module!

Every merged module must contain at least one directory of the merge mode:

- **sources**: ` + "`src`" + `
- **target**: ` + "`target/classes`" + ` or ` + "`target/test-classes`" + `

## Things you can try:
- For the target mode, build the modules before merging:
~~~
$ mvn test-compile
~~~
- Exclude the module from merging with a marker file filter`,
	}

	illegalScopeIssue = &Issue{
		id: IllegalScopeId,
		mdMsg: `
# Illegal dependency scope!

A module descriptor declares a dependency with a scope that is none of
` + "`compile`, `provided`, `runtime`, `test`, `system`" + `.`,
		docLinks: []HttpLink{dependencyScopeLink},
	}

	descriptorNotFoundIssue = &Issue{
		id: DescriptorNotFoundId,
		mdMsg: `
# Module descriptor not found!

Every merged module and the project root must contain a ` + "`pom.xml`" + `.

## Things you can try:
- Check the module names passed in **modulesList**
- Check that **pathToProjectRoot** points to the aggregator project`,
		docLinks: []HttpLink{multiModuleGuideLink},
	}

	descriptorParseErrorIssue = &Issue{
		id: DescriptorParseErrorId,
		mdMsg: `
# Failed to parse a descriptor!

A ` + "`pom.xml`" + ` is not well-formed XML or its root element is not ` + "`<project>`" + `.`,
		docLinks: []HttpLink{pomReferenceLink},
	}

	mergedModuleExistsIssue = &Issue{
		id: MergedModuleExistsId,
		mdMsg: `
# Merged module directory already exists!

The merger creates a brand new module directory and refuses to reuse one
left over from a previous run.

## Things you can try:
- Run the merge in a clean checkout
- Configure another name:
~~~
$ MVNMERGE_MERGED_MODULE_NAME=merged_modules_2 mvnmerge merge ...
~~~`,
	}

	outputWriteFailedIssue = &Issue{
		id: OutputWriteFailedId,
		mdMsg: `
# Failed to write the modules list!

The list of modules to run could not be written to **pathToOutputFile**.

## Things you can try:
- Check permissions of the output directory
- Use a path inside the CI workspace`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be loaded or does not match the schema.

## Things you can try:
- Print the effective configuration:
~~~
$ mvnmerge config show
~~~
- Write a fresh default file:
~~~
$ mvnmerge config init
~~~`,
	}

	issues = map[Id]*Issue{
		invalidInputIssue.Id():         invalidInputIssue,
		projectRootNotFoundIssue.Id():  projectRootNotFoundIssue,
		unknownMergeModeIssue.Id():     unknownMergeModeIssue,
		contentConflictIssue.Id():      contentConflictIssue,
		versionConflictIssue.Id():      versionConflictIssue,
		missingDirectoriesIssue.Id():   missingDirectoriesIssue,
		illegalScopeIssue.Id():         illegalScopeIssue,
		descriptorNotFoundIssue.Id():   descriptorNotFoundIssue,
		descriptorParseErrorIssue.Id(): descriptorParseErrorIssue,
		mergedModuleExistsIssue.Id():   mergedModuleExistsIssue,
		outputWriteFailedIssue.Id():    outputWriteFailedIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
