// SPDX-License-Identifier: MPL-2.0

package xmldoc

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<project>
  <artifactId>app</artifactId>
  <modules>
    <module>a</module>
    <module>b</module>
  </modules>
</project>
`

func TestParseAndFind(t *testing.T) {
	t.Parallel()

	d, err := Parse(strings.NewReader(sampleXML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if d.Root().Tag != "project" {
		t.Errorf("Root().Tag = %q, want %q", d.Root().Tag, "project")
	}

	text, ok := d.TextPath(MustCompilePath("/project/artifactId"))
	if !ok || text != "app" {
		t.Errorf("TextPath(artifactId) = %q, %v; want %q, true", text, ok, "app")
	}

	if _, ok := d.TextPath(MustCompilePath("/project/groupId")); ok {
		t.Error("TextPath(groupId) reported a match for a missing element")
	}

	modules, err := d.FindAll("/project/modules/module")
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if len(modules) != 2 {
		t.Errorf("FindAll(module) returned %d elements, want 2", len(modules))
	}

	byText, err := d.Find("/project/modules/module[text()='b']")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if byText == nil || byText.Text() != "b" {
		t.Errorf("Find(module[text()='b']) = %v", byText)
	}
}

func TestParseRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := Parse(strings.NewReader(""))
	if err == nil {
		t.Fatal("Parse(\"\") returned nil error")
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	if _, err := Parse(strings.NewReader("<project><artifactId>x</project>")); err == nil {
		t.Fatal("Parse() accepted mismatched tags")
	}
}

func TestInvalidPath(t *testing.T) {
	t.Parallel()

	d, err := Parse(strings.NewReader(sampleXML))
	if err != nil {
		t.Fatal(err)
	}
	_, err = d.Find("/project/modules/module[")
	if !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("Find() with broken path error = %v, want ErrInvalidPath", err)
	}
}

func TestRemoveAllPath(t *testing.T) {
	t.Parallel()

	d, err := Parse(strings.NewReader(sampleXML))
	if err != nil {
		t.Fatal(err)
	}
	if n := d.RemoveAllPath(MustCompilePath("/project/modules")); n != 1 {
		t.Errorf("RemoveAllPath() = %d, want 1", n)
	}
	out, err := d.Bytes(WriteOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "<modules>") {
		t.Errorf("serialized document still contains <modules>:\n%s", out)
	}
}

func TestWritePrettyDoesNotMutateTree(t *testing.T) {
	t.Parallel()

	d, err := Parse(strings.NewReader(`<project><artifactId>app</artifactId></project>`))
	if err != nil {
		t.Fatal(err)
	}

	pretty, err := d.Bytes(WriteOptions{Pretty: true, Indent: 2})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(pretty), "\n  <artifactId>app</artifactId>\n") {
		t.Errorf("pretty output not indented:\n%s", pretty)
	}

	raw, err := d.Bytes(WriteOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `<project><artifactId>app</artifactId></project>` {
		t.Errorf("raw output changed after pretty write:\n%s", raw)
	}
}

func TestCompilePathReusesCompilation(t *testing.T) {
	t.Parallel()

	const raw = "/project/dependencies/dependency[groupId='org.cache'][artifactId='reuse']"
	first, err := CompilePath(raw)
	if err != nil {
		t.Fatalf("CompilePath() error = %v", err)
	}
	if !compiledPaths.Contains(raw) {
		t.Fatalf("compiled path %q was not cached", raw)
	}
	second, err := CompilePath(raw)
	if err != nil {
		t.Fatalf("CompilePath() second call error = %v", err)
	}
	if first.String() != second.String() {
		t.Errorf("cached path = %q, want %q", second.String(), first.String())
	}

	if _, err := CompilePath("/project[broken"); err == nil {
		t.Fatal("CompilePath() accepted a broken expression")
	}
	if compiledPaths.Contains("/project[broken") {
		t.Error("broken expression was cached")
	}
}

func TestConcurrentIndependentDocuments(t *testing.T) {
	t.Parallel()

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			input := fmt.Sprintf(`<project><artifactId>m%d</artifactId></project>`, i)
			d, err := Parse(strings.NewReader(input))
			if err != nil {
				errs <- err
				return
			}
			d.Root().CreateElement("version").SetText("1.0")
			got, _ := d.TextPath(MustCompilePath("/project/artifactId"))
			if got != fmt.Sprintf("m%d", i) {
				errs <- fmt.Errorf("worker %d read %q", i, got)
				return
			}
			if _, err := d.Bytes(WriteOptions{Pretty: true}); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
