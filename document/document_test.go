package document

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDocumentPathAccessors(t *testing.T) {
	doc := New("./templates\\layout.liquid", []byte("x"))

	if doc.Path != "templates/layout.liquid" {
		t.Fatalf("Path = %q", doc.Path)
	}
	if doc.Dir() != "templates" {
		t.Errorf("Dir() = %q", doc.Dir())
	}
	if doc.Base() != "layout.liquid" {
		t.Errorf("Base() = %q", doc.Base())
	}
	if doc.Ext() != ".liquid" {
		t.Errorf("Ext() = %q", doc.Ext())
	}
	if doc.Name() != "layout" {
		t.Errorf("Name() = %q", doc.Name())
	}
}

func TestDocumentNameKeepsInnerDots(t *testing.T) {
	doc := New("templates/post.en.liquid", nil)
	if doc.Name() != "post.en" {
		t.Errorf("Name() = %q, want post.en", doc.Name())
	}
}

func TestCollectionReplaceKeepsPosition(t *testing.T) {
	c := NewCollection(
		New("a.html", []byte("a")),
		New("b.html", []byte("b")),
		New("c.html", []byte("c")),
	)
	c.Add(New("./b.html", []byte("B")))

	var got []string
	for _, d := range c.All() {
		got = append(got, d.Path+"="+d.Text())
	}
	want := []string{"a.html=a", "b.html=B", "c.html=c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("collection order mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectionRemoveReindexes(t *testing.T) {
	c := NewCollection(New("a", nil), New("b", nil), New("c", nil))
	if !c.Remove("a") {
		t.Fatal("Remove(a) = false")
	}
	if c.Remove("a") {
		t.Error("second Remove(a) = true")
	}
	d, ok := c.Get("c")
	if !ok || d.Path != "c" {
		t.Fatalf("Get(c) after remove = %v, %v", d, ok)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCollectionInDirIsExact(t *testing.T) {
	c := NewCollection(
		New("templates/layout.liquid", nil),
		New("templates/partials/nav.liquid", nil),
		New("pages/index.html", nil),
	)
	got := c.InDir("templates")
	if len(got) != 1 || got[0].Path != "templates/layout.liquid" {
		t.Errorf("InDir(templates) = %v", got)
	}
}

func TestMetadataStringOnlyMatchesStringCase(t *testing.T) {
	m := Metadata{
		"template": StringValue("post"),
		"count":    NumberValue(3),
		"draft":    BoolValue(true),
	}

	if s, ok := m.String("template"); !ok || s != "post" {
		t.Errorf("String(template) = %q, %v", s, ok)
	}
	if _, ok := m.String("count"); ok {
		t.Error("String(count) should not match a number")
	}
	if _, ok := m.String("missing"); ok {
		t.Error("String(missing) should be absent")
	}
}

func TestMetadataNative(t *testing.T) {
	m := Metadata{
		"title":  StringValue("Hello"),
		"count":  NumberValue(3),
		"ratio":  NumberValue(0.5),
		"draft":  BoolValue(false),
		"author": MapValue(Metadata{"name": StringValue("Ada")}),
		"tags":   ListValue(StringValue("go"), StringValue("web")),
	}

	want := map[string]any{
		"title":  "Hello",
		"count":  3,
		"ratio":  0.5,
		"draft":  false,
		"author": map[string]any{"name": "Ada"},
		"tags":   []any{"go", "web"},
	}
	if diff := cmp.Diff(want, m.Native()); diff != "" {
		t.Errorf("Native() mismatch (-want +got):\n%s", diff)
	}
}

func TestValueOfRejectsUnsupported(t *testing.T) {
	if _, err := ValueOf(struct{}{}); err == nil {
		t.Error("expected error for struct value")
	}
}

func TestFromMapDropsNil(t *testing.T) {
	m, err := FromMap(map[string]any{"a": nil, "b": "x"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := m["a"]; ok {
		t.Error("nil value should be dropped")
	}
	if s, _ := m.String("b"); s != "x" {
		t.Errorf("b = %q", s)
	}
}

func TestMetadataCloneIsDeep(t *testing.T) {
	inner := Metadata{"k": StringValue("v")}
	m := Metadata{"nested": MapValue(inner)}
	clone := m.Clone()
	inner["k"] = StringValue("changed")

	nested, _ := clone["nested"].AsMap()
	if s, _ := nested.String("k"); s != "v" {
		t.Errorf("clone shares nested map: got %q", s)
	}
}

func TestSplitFrontMatter(t *testing.T) {
	src := []byte("---\ntitle: Hello\ntemplate: post\nweight: 2\ntags: [a, b]\n---\n<p>body</p>\n")

	meta, body, err := SplitFrontMatter(src)
	if err != nil {
		t.Fatalf("SplitFrontMatter: %v", err)
	}
	if string(body) != "<p>body</p>\n" {
		t.Errorf("body = %q", body)
	}
	if s, _ := meta.String("template"); s != "post" {
		t.Errorf("template = %q", s)
	}
	if n, ok := meta["weight"].AsNumber(); !ok || n != 2 {
		t.Errorf("weight = %v, %v", n, ok)
	}
	if l, ok := meta["tags"].AsList(); !ok || len(l) != 2 {
		t.Errorf("tags = %v, %v", l, ok)
	}
}

func TestSplitFrontMatterWithoutFence(t *testing.T) {
	src := []byte("<p>plain</p>")
	meta, body, err := SplitFrontMatter(src)
	if err != nil {
		t.Fatal(err)
	}
	if meta != nil {
		t.Errorf("meta = %v, want nil", meta)
	}
	if string(body) != string(src) {
		t.Errorf("body = %q", body)
	}
}

func TestSplitFrontMatterErrors(t *testing.T) {
	t.Run("unterminated", func(t *testing.T) {
		_, _, err := SplitFrontMatter([]byte("---\ntitle: x\n"))
		if !errors.Is(err, ErrUnterminatedFrontMatter) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, body, err := SplitFrontMatter([]byte("---\ntitle: [unclosed\n---\nbody"))
		if err == nil {
			t.Fatal("expected parse error")
		}
		if string(body) != "---\ntitle: [unclosed\n---\nbody" {
			t.Errorf("content should be returned unchanged, got %q", body)
		}
	})
}
