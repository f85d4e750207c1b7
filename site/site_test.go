package site

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cpcf/weave/diag"
	"github.com/cpcf/weave/document"
	"github.com/cpcf/weave/weavetest"
	"github.com/cpcf/weave/write"
)

func testProject(opts ...Option) (*Project, *weavetest.LogBuffer) {
	logger, logs := weavetest.NewLogBuffer()
	return New(append([]Option{WithLogger(logger)}, opts...)...), logs
}

func paths(docs []*document.Document) []string {
	var out []string
	for _, d := range docs {
		out = append(out, d.Path)
	}
	return out
}

func TestAddInputUnderDestination(t *testing.T) {
	fsys := weavetest.MapFS(map[string]string{
		"layouts/page.liquid":     "page",
		"layouts/a/nested.liquid": "nested",
		"other/ignored.txt":       "x",
	})

	p, logs := testProject()
	if err := p.AddInput(fsys, "layouts", "templates"); err != nil {
		t.Fatalf("AddInput: %v", err)
	}

	want := []string{"templates/a/nested.liquid", "templates/page.liquid"}
	if diff := cmp.Diff(want, paths(p.Inputs.All())); diff != "" {
		t.Errorf("inputs mismatch (-want +got):\n%s", diff)
	}
	if !logs.Contains("files=2") {
		t.Errorf("logs missing file count:\n%s", logs)
	}
}

func TestAddInputFromRoot(t *testing.T) {
	fsys := weavetest.MapFS(map[string]string{"layout.tmpl": "x"})

	p, _ := testProject()
	if err := p.AddInput(fsys, ".", "templates"); err != nil {
		t.Fatal(err)
	}
	if _, ok := p.Inputs.Get("templates/layout.tmpl"); !ok {
		t.Errorf("inputs = %v", paths(p.Inputs.All()))
	}
}

func TestAddInputReplacesExisting(t *testing.T) {
	p, _ := testProject()
	p.Inputs.Add(weavetest.Doc("templates/layout.liquid", "old", nil))

	fsys := weavetest.MapFS(map[string]string{"src/layout.liquid": "new"})
	if err := p.AddInput(fsys, "src", "templates"); err != nil {
		t.Fatal(err)
	}

	doc, _ := p.Inputs.Get("templates/layout.liquid")
	if p.Inputs.Len() != 1 || doc.Text() != "new" {
		t.Errorf("inputs = %v", weavetest.Texts(p.Inputs.All()))
	}
}

func TestAddInputMissingRoot(t *testing.T) {
	p, _ := testProject()
	if err := p.AddInput(weavetest.NewMemoryFS(), "nope", "templates"); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestBuildRunsStagesInOrder(t *testing.T) {
	p, logs := testProject(WithBuildID("b-1"))

	var order []string
	p.Use(
		StageFunc(func(*Project) { order = append(order, "first") }),
		StageFunc(func(*Project) { order = append(order, "second") }),
	)
	if err := p.Build(); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"first", "second"}, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if p.BuildID() != "b-1" {
		t.Errorf("BuildID() = %q", p.BuildID())
	}
	for _, want := range []string{"build finished", "build=b-1"} {
		if !logs.Contains(want) {
			t.Errorf("logs missing %q:\n%s", want, logs)
		}
	}
}

func TestNewGeneratesBuildID(t *testing.T) {
	a, _ := testProject()
	b, _ := testProject()
	if a.BuildID() == "" || a.BuildID() == b.BuildID() {
		t.Errorf("build ids %q and %q should be unique", a.BuildID(), b.BuildID())
	}
}

func report(kind diag.Kind) Stage {
	return StageFunc(func(p *Project) {
		p.Sink().Report(diag.Diagnostic{Kind: kind, Path: "x"})
	})
}

func TestBuildFailureModes(t *testing.T) {
	best, _ := testProject()
	best.Use(report(diag.KindTemplateNotFound))
	if err := best.Build(); err != nil {
		t.Errorf("BestEffort Build() = %v", err)
	}
	if len(best.Diagnostics()) != 1 {
		t.Errorf("diagnostics = %v", best.Diagnostics())
	}

	strict, _ := testProject(WithFailureMode(FailAtEnd))
	strict.Use(report(diag.KindTemplateParse), report(diag.KindTemplateNotFound))
	err := strict.Build()
	var multi *diag.MultiError
	if !errors.As(err, &multi) || len(multi.Diagnostics) != 2 {
		t.Fatalf("FailAtEnd Build() = %v", err)
	}

	clean, _ := testProject(WithFailureMode(FailAtEnd))
	if err := clean.Build(); err != nil {
		t.Errorf("clean FailAtEnd Build() = %v", err)
	}
}

func TestDiagnosticsReachCustomSink(t *testing.T) {
	rec := diag.NewRecorder(nil)
	p, logs := testProject(WithSink(rec))
	p.Use(report(diag.KindPostprocess))
	if err := p.Build(); err != nil {
		t.Fatal(err)
	}

	if rec.Count(diag.KindPostprocess) != 1 {
		t.Errorf("custom sink diagnostics = %v", rec.Diagnostics())
	}
	if logs.Contains("template stage diagnostic") {
		t.Error("diagnostics should not reach the logger when a sink is given")
	}
}

func TestDiagnosticsLoggedByDefault(t *testing.T) {
	p, logs := testProject()
	p.Use(report(diag.KindTemplateNotFound))
	_ = p.Build()

	for _, want := range []string{"level=ERROR", "kind=TemplateNotFound", "path=x"} {
		if !logs.Contains(want) {
			t.Errorf("logs missing %q:\n%s", want, logs)
		}
	}
}

func TestFrontMatterStage(t *testing.T) {
	p, _ := testProject()
	p.Inputs.Add(document.New("a.md", []byte("---\ntitle: Hi\ntemplate: post\n---\nbody\n")))
	p.Inputs.Add(document.New("b.md", []byte("no front matter\n")))
	p.Inputs.Add(document.New("c.md", []byte("---\ntitle: open\n")))

	p.Use(FrontMatter())
	if err := p.Build(); err != nil {
		t.Fatal(err)
	}

	a, _ := p.Inputs.Get("a.md")
	if title, _ := a.Metadata.String("title"); title != "Hi" {
		t.Errorf("title = %q", title)
	}
	if a.Text() != "body\n" {
		t.Errorf("body = %q", a.Text())
	}

	b, _ := p.Inputs.Get("b.md")
	if b.Text() != "no front matter\n" || len(b.Metadata) != 0 {
		t.Errorf("b changed: %q %v", b.Text(), b.Metadata)
	}

	diags := p.Diagnostics()
	if len(diags) != 1 || diags[0].Kind != diag.KindFrontMatter || diags[0].Path != "c.md" {
		t.Errorf("diagnostics = %v", diags)
	}
	if !errors.Is(diags[0], document.ErrUnterminatedFrontMatter) {
		t.Errorf("diagnostic should wrap ErrUnterminatedFrontMatter: %v", diags[0])
	}
}

func TestMarkdownStage(t *testing.T) {
	p, _ := testProject()
	p.Inputs.Add(weavetest.Doc("posts/hello.md", "# Hello\n", map[string]any{"template": "post"}))
	p.Inputs.Add(weavetest.Doc("templates/readme.md", "# skip\n", nil))
	p.Inputs.Add(weavetest.Doc("style.css", "body{}", nil))

	p.Use(Markdown(WithExclude("templates")))
	if err := p.Build(); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"posts/hello.html"}, paths(p.Outputs.All())); diff != "" {
		t.Fatalf("outputs mismatch (-want +got):\n%s", diff)
	}
	out, _ := p.Outputs.Get("posts/hello.html")
	if out.Text() != "<h1>Hello</h1>\n" {
		t.Errorf("html = %q", out.Text())
	}
	if name, _ := out.Metadata.String("template"); name != "post" {
		t.Errorf("metadata not copied: %v", out.Metadata)
	}

	in, _ := p.Inputs.Get("posts/hello.md")
	in.Metadata.Set("template", document.StringValue("changed"))
	if name, _ := out.Metadata.String("template"); name != "post" {
		t.Error("output metadata should not alias input metadata")
	}
}

func TestWriteOutputs(t *testing.T) {
	p, _ := testProject()
	p.Outputs.Add(weavetest.Doc("index.html", "<p>home</p>", nil))
	p.Outputs.Add(weavetest.Doc("posts/a.html", "<p>a</p>", nil))

	w := write.NewDryRunWriter()
	if err := p.Write("public", w, write.DefaultOptions()); err != nil {
		t.Fatal(err)
	}

	want := []write.Change{
		{Path: filepath.Join("public", "index.html"), Content: []byte("<p>home</p>")},
		{Path: filepath.Join("public", "posts", "a.html"), Content: []byte("<p>a</p>")},
	}
	if diff := cmp.Diff(want, w.Changes()); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteOutputsToDisk(t *testing.T) {
	root := t.TempDir()
	p, _ := testProject()
	p.Outputs.Add(weavetest.Doc("a/b.html", "x", nil))

	fw := write.NewFileWriter()
	if err := p.Write(root, fw, write.DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	needs, err := fw.NeedsWrite(filepath.Join(root, "a", "b.html"), []byte("x"))
	if err != nil || needs {
		t.Errorf("NeedsWrite = %v, %v; file should already hold content", needs, err)
	}
}

func TestFrontMatterSkipsDataFiles(t *testing.T) {
	p, _ := testProject(WithFailureMode(FailAtEnd))
	p.Inputs.Add(document.New("data/nav.yaml", []byte("---\n- home\n- about\n")))
	p.Inputs.Add(document.New("drafts/wip.md", []byte("---\ntitle: open\n")))
	p.Inputs.Add(document.New("page.html", []byte("---\ntitle: Page\n---\n<p>x</p>")))

	p.Use(FrontMatter(WithFrontMatterExclude("drafts")))
	if err := p.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	nav, _ := p.Inputs.Get("data/nav.yaml")
	if nav.Text() != "---\n- home\n- about\n" {
		t.Errorf("data file changed: %q", nav.Text())
	}
	page, _ := p.Inputs.Get("page.html")
	if title, _ := page.Metadata.String("title"); title != "Page" || page.Text() != "<p>x</p>" {
		t.Errorf("page = %q %v", page.Text(), page.Metadata)
	}
}

func TestFrontMatterCustomExtensions(t *testing.T) {
	p, _ := testProject()
	p.Inputs.Add(document.New("a.md", []byte("---\ntitle: A\n---\n")))
	p.Inputs.Add(document.New("b.txt", []byte("---\ntitle: B\n---\n")))

	p.Use(FrontMatter(WithFrontMatterExtensions(".txt")))
	if err := p.Build(); err != nil {
		t.Fatal(err)
	}

	a, _ := p.Inputs.Get("a.md")
	b, _ := p.Inputs.Get("b.txt")
	if _, ok := a.Metadata.String("title"); ok {
		t.Error("a.md should be skipped")
	}
	if title, _ := b.Metadata.String("title"); title != "B" {
		t.Errorf("b.txt title = %q", title)
	}
}
