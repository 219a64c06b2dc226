package qti_test

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/jjfiv/quizdown/pkg/qti"
	"github.com/jjfiv/quizdown/pkg/quiz"
	"github.com/jjfiv/quizdown/pkg/testsupport"
)

func sequence(prefix string) quiz.IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func sampleQuiz(name, firstPrompt string, gen quiz.IDGenerator) quiz.Quiz {
	q := quiz.Quiz{
		Name: name,
		Questions: []quiz.Question{
			{
				Prompt: firstPrompt,
				Options: []quiz.Option{
					{Correct: true, Content: "red"},
					{Content: "blue"},
				},
			},
			{
				Prompt:  "<p>Pick the primes</p>",
				Ordered: true,
				Options: []quiz.Option{
					{Correct: true, Content: "2"},
					{Correct: true, Content: "3"},
					{Content: "4"},
				},
			},
		},
	}
	quiz.AssignWith(&q, gen)
	return q
}

func newAssembler(t *testing.T, opts ...qti.Option) *qti.Assembler {
	t.Helper()
	opts = append([]qti.Option{qti.WithIDGenerator(sequence("asg"))}, opts...)
	a, err := qti.New(opts...)
	if err != nil {
		t.Fatalf("new assembler: %v", err)
	}
	return a
}

func TestAssemble_TwoQuizzes(t *testing.T) {
	gen := sequence("id")
	quizzes := []quiz.Quiz{
		sampleQuiz("a", "<p>Pick red</p>", gen),
		sampleQuiz("b", "<p>Pick red</p>", gen),
	}

	data, err := newAssembler(t).AssembleBytes(testsupport.Context(), quizzes)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	entries := testsupport.MustReadZip(t, data)
	want := []string{
		"a/",
		"a/a.xml",
		"a/assessment_meta.xml",
		"b/",
		"b/assessment_meta.xml",
		"b/b.xml",
		"imsmanifest.xml",
	}
	if diff := cmp.Diff(want, testsupport.SortedKeys(entries)); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}

	manifest := entries[qti.ManifestPath]
	for _, fragment := range []string{
		`identifier="asg-1"`,
		`<resource identifier="a" type="imsqti_xmlv1p2">`,
		`<file href="a/a.xml"/>`,
		`<dependency identifierref="meta_a"/>`,
		`<resource identifier="meta_b"`,
		`<file href="b/assessment_meta.xml"/>`,
		`<imsmd:string>Quizdown Import</imsmd:string>`,
	} {
		if !strings.Contains(manifest, fragment) {
			t.Errorf("manifest missing %q:\n%s", fragment, manifest)
		}
	}
}

func TestAssemble_ReadBackVerifies(t *testing.T) {
	gen := sequence("id")
	quizzes := []quiz.Quiz{
		sampleQuiz("a", "<p>Pick red</p>", gen),
		sampleQuiz("b", "<p>Pick red</p>", gen),
	}
	data, err := newAssembler(t, qti.WithTitle("Week 1")).AssembleBytes(testsupport.Context(), quizzes)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	pkg, err := qti.ReadPackage(data)
	if err != nil {
		t.Fatalf("read package: %v", err)
	}
	if pkg.Title != "Week 1" {
		t.Fatalf("expected title Week 1, got %q", pkg.Title)
	}
	summaries, err := pkg.Verify()
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	want := []qti.Summary{
		{UID: "a", Title: "a", Questions: 2, Options: 5},
		{UID: "b", Title: "b", Questions: 2, Options: 5},
	}
	if diff := cmp.Diff(want, summaries); diff != "" {
		t.Fatalf("summaries mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemble_AssessmentDocument(t *testing.T) {
	q := sampleQuiz("a", "<p>Pick red</p><script>alert(1)</script>", sequence("id"))
	data, err := newAssembler(t).AssembleBytes(testsupport.Context(), []quiz.Quiz{q})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	doc := testsupport.MustReadZip(t, data)[qti.AssessmentPath("a")]

	for _, fragment := range []string{
		`<assessment ident="a" title="a">`,
		`<item ident="id-1" title="Question 1">`,
		`<fieldentry>multiple_choice_question</fieldentry>`,
		`<fieldentry>id-2,id-3</fieldentry>`,
		`<response_lid ident="response1" rcardinality="Single">`,
		`<response_label ident="id-2">`,
		`<varequal respident="response1">id-2</varequal>`,
		`<mattext texttype="text/html">&lt;p&gt;Pick red&lt;/p&gt;</mattext>`,
		`<item ident="id-4" title="Question 2">`,
		`<fieldentry>multiple_answers_question</fieldentry>`,
		`<response_lid ident="response1" rcardinality="Multiple">`,
		`<and>`,
	} {
		if !strings.Contains(doc, fragment) {
			t.Errorf("assessment missing %q:\n%s", fragment, doc)
		}
	}
	if strings.Contains(doc, "alert") {
		t.Errorf("assessment kept script content:\n%s", doc)
	}
	notWrong := "<not>\n                  <varequal respident=\"response1\">id-7</varequal>"
	if !strings.Contains(doc, notWrong) {
		t.Errorf("expected wrong option id-7 to be negated:\n%s", doc)
	}
}

func TestAssemble_MetaDocument(t *testing.T) {
	q := sampleQuiz("week_1", "<p>Pick red</p>", sequence("id"))
	data, err := newAssembler(t).AssembleBytes(testsupport.Context(), []quiz.Quiz{q})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	meta := testsupport.MustReadZip(t, data)[qti.MetaPath("week_1")]

	for _, fragment := range []string{
		`<quiz identifier="week_1"`,
		`<title>week 1</title>`,
		`<points_possible>2.0</points_possible>`,
		`<assignment identifier="asg-2">`,
		`<shuffle_answers>false</shuffle_answers>`,
		`<quiz_identifierref>week_1</quiz_identifierref>`,
	} {
		if !strings.Contains(meta, fragment) {
			t.Errorf("meta missing %q:\n%s", fragment, meta)
		}
	}
}

func TestAssemble_CollisionOverwrite(t *testing.T) {
	gen := sequence("id")
	quizzes := []quiz.Quiz{
		sampleQuiz("a", "<p>first</p>", gen),
		sampleQuiz("a", "<p>second</p>", gen),
	}
	data, err := newAssembler(t).AssembleBytes(testsupport.Context(), quizzes)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	entries := testsupport.MustReadZip(t, data)
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %v", testsupport.SortedKeys(entries))
	}
	doc := entries[qti.AssessmentPath("a")]
	if !strings.Contains(doc, "second") || strings.Contains(doc, "first") {
		t.Fatalf("expected the later quiz to win:\n%s", doc)
	}
	if n := strings.Count(entries[qti.ManifestPath], `type="imsqti_xmlv1p2"`); n != 1 {
		t.Fatalf("expected one assessment resource, got %d", n)
	}
}

func TestAssemble_CollisionReject(t *testing.T) {
	gen := sequence("id")
	quizzes := []quiz.Quiz{
		sampleQuiz("a", "<p>first</p>", gen),
		sampleQuiz("a", "<p>second</p>", gen),
	}
	_, err := newAssembler(t, qti.WithCollisionPolicy(qti.Reject)).AssembleBytes(testsupport.Context(), quizzes)
	if !errors.Is(err, qti.ErrDuplicateQuiz) {
		t.Fatalf("expected ErrDuplicateQuiz, got %v", err)
	}
}

func TestAssemble_CollisionSuffix(t *testing.T) {
	gen := sequence("id")
	quizzes := []quiz.Quiz{
		sampleQuiz("a", "<p>first</p>", gen),
		sampleQuiz("a", "<p>second</p>", gen),
		sampleQuiz("a", "<p>third</p>", gen),
	}
	data, err := newAssembler(t, qti.WithCollisionPolicy(qti.Suffix)).AssembleBytes(testsupport.Context(), quizzes)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	entries := testsupport.MustReadZip(t, data)
	if len(entries) != 10 {
		t.Fatalf("expected 10 entries, got %v", testsupport.SortedKeys(entries))
	}
	if doc := entries[qti.AssessmentPath("a_3")]; !strings.Contains(doc, "third") {
		t.Fatalf("expected a_3 to hold the third quiz:\n%s", doc)
	}

	pkg, err := qti.ReadPackage(data)
	if err != nil {
		t.Fatalf("read package: %v", err)
	}
	summaries, err := pkg.Verify()
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	var uids []string
	for _, s := range summaries {
		uids = append(uids, s.UID)
	}
	if diff := cmp.Diff([]string{"a", "a_2", "a_3"}, uids); diff != "" {
		t.Fatalf("uids mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemble_MetadataIdentifierClash(t *testing.T) {
	cases := []struct {
		name   string
		order  []string
		policy qti.CollisionPolicy
		want   []string
	}{
		{"overwrite quiz after meta", []string{"a", "meta_a"}, qti.Overwrite, []string{"a", "meta_a_2"}},
		{"overwrite meta after quiz", []string{"meta_a", "a"}, qti.Overwrite, []string{"meta_a", "a_2"}},
		{"suffix quiz after meta", []string{"a", "meta_a"}, qti.Suffix, []string{"a", "meta_a_2"}},
		{"suffix meta after quiz", []string{"meta_a", "a"}, qti.Suffix, []string{"meta_a", "a_2"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := sequence("id")
			var quizzes []quiz.Quiz
			for _, name := range tc.order {
				quizzes = append(quizzes, sampleQuiz(name, "<p>"+name+"</p>", gen))
			}
			data, err := newAssembler(t, qti.WithCollisionPolicy(tc.policy)).AssembleBytes(testsupport.Context(), quizzes)
			if err != nil {
				t.Fatalf("assemble: %v", err)
			}

			pkg, err := qti.ReadPackage(data)
			if err != nil {
				t.Fatalf("read package: %v", err)
			}
			summaries, err := pkg.Verify()
			if err != nil {
				t.Fatalf("verify: %v", err)
			}
			var uids []string
			for _, s := range summaries {
				uids = append(uids, s.UID)
			}
			if diff := cmp.Diff(tc.want, uids); diff != "" {
				t.Fatalf("uids mismatch (-want +got):\n%s", diff)
			}

			manifest := testsupport.MustReadZip(t, data)[qti.ManifestPath]
			if n := strings.Count(manifest, `identifier="meta_a"`); n != 1 {
				t.Fatalf("expected one resource named meta_a, got %d:\n%s", n, manifest)
			}
		})
	}

	gen := sequence("id")
	quizzes := []quiz.Quiz{sampleQuiz("a", "<p>a</p>", gen), sampleQuiz("meta_a", "<p>m</p>", gen)}
	_, err := newAssembler(t, qti.WithCollisionPolicy(qti.Reject)).AssembleBytes(testsupport.Context(), quizzes)
	if !errors.Is(err, qti.ErrDuplicateQuiz) {
		t.Fatalf("expected ErrDuplicateQuiz, got %v", err)
	}
}

func TestAssemble_RejectsBadInput(t *testing.T) {
	a := newAssembler(t)

	unassigned := quiz.Quiz{Name: "a", Questions: []quiz.Question{{Prompt: "x", Options: []quiz.Option{{Content: "y"}}}}}
	if _, err := a.AssembleBytes(testsupport.Context(), []quiz.Quiz{unassigned}); !errors.Is(err, qti.ErrUnidentified) {
		t.Fatalf("expected ErrUnidentified, got %v", err)
	}

	nested := sampleQuiz("x/y", "<p>p</p>", sequence("id"))
	if _, err := a.AssembleBytes(testsupport.Context(), []quiz.Quiz{nested}); !errors.Is(err, qti.ErrInvalidIdentifier) {
		t.Fatalf("expected ErrInvalidIdentifier, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.AssembleBytes(ctx, []quiz.Quiz{sampleQuiz("a", "<p>p</p>", sequence("id"))}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "output.qti.zip")

	q := sampleQuiz("a", "<p>Pick red</p>", sequence("id"))
	if err := newAssembler(t).WriteFile(testsupport.Context(), path, []quiz.Quiz{q}); err != nil {
		t.Fatalf("write file: %v", err)
	}

	pkg, err := qti.ReadPackageFile(path)
	if err != nil {
		t.Fatalf("read package file: %v", err)
	}
	if _, err := pkg.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}
	assertDirEntries(t, dir, []string{"output.qti.zip"})
}

func TestWriteFile_BrokenTemplateLeavesNothing(t *testing.T) {
	files := fstest.MapFS{}
	for _, name := range []string{"imsmanifest.xml.tmpl", "assessment_meta.xml.tmpl"} {
		body, err := fs.ReadFile(qti.TemplatesFS(), name)
		if err != nil {
			t.Fatalf("read embedded %s: %v", name, err)
		}
		files[name] = &fstest.MapFile{Data: body}
	}
	files["assessment.xml.tmpl"] = &fstest.MapFile{Data: []byte("{% for question in %}")}

	dir := t.TempDir()
	path := filepath.Join(dir, "output.qti.zip")
	q := sampleQuiz("a", "<p>Pick red</p>", sequence("id"))

	err := newAssembler(t, qti.WithTemplates(files)).WriteFile(testsupport.Context(), path, []quiz.Quiz{q})
	if err == nil {
		t.Fatal("expected template error")
	}
	if !strings.Contains(err.Error(), "render assessment") {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("expected no output file, stat err = %v", statErr)
	}
	assertDirEntries(t, dir, nil)
}

func TestNew_TemplateDirOverridesOneTemplate(t *testing.T) {
	dir := t.TempDir()
	meta := `<quiz identifier="{{ quiz.uid }}"><custom/></quiz>`
	if err := os.WriteFile(filepath.Join(dir, "assessment_meta.xml.tmpl"), []byte(meta), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	q := sampleQuiz("a", "<p>Pick red</p>", sequence("id"))
	data, err := newAssembler(t, qti.WithTemplateDir(dir)).AssembleBytes(testsupport.Context(), []quiz.Quiz{q})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	entries := testsupport.MustReadZip(t, data)
	if got := entries[qti.MetaPath("a")]; got != `<quiz identifier="a"><custom/></quiz>` {
		t.Fatalf("expected the override metadata, got:\n%s", got)
	}
	if !strings.Contains(entries[qti.ManifestPath], `<dependency identifierref="meta_a"/>`) {
		t.Fatalf("expected the built-in manifest:\n%s", entries[qti.ManifestPath])
	}
}

func TestNew_MissingTemplate(t *testing.T) {
	body, err := fs.ReadFile(qti.TemplatesFS(), "imsmanifest.xml.tmpl")
	if err != nil {
		t.Fatalf("read embedded manifest: %v", err)
	}
	files := fstest.MapFS{"imsmanifest.xml.tmpl": &fstest.MapFile{Data: body}}

	_, err = qti.New(qti.WithTemplates(files))
	if !errors.Is(err, qti.ErrMissingTemplate) {
		t.Fatalf("expected ErrMissingTemplate, got %v", err)
	}

	if _, err := qti.New(qti.WithTemplateDir(filepath.Join(t.TempDir(), "absent"))); err == nil {
		t.Fatal("expected an error for a missing template directory")
	}
}

func TestParseCollisionPolicy(t *testing.T) {
	cases := map[string]qti.CollisionPolicy{
		"":          qti.Overwrite,
		"overwrite": qti.Overwrite,
		"Reject":    qti.Reject,
		" suffix ":  qti.Suffix,
	}
	for input, want := range cases {
		got, err := qti.ParseCollisionPolicy(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s, got %s", input, want, got)
		}
	}
	if _, err := qti.ParseCollisionPolicy("merge"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}

func assertDirEntries(t *testing.T, dir string, want []string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	var got []string
	for _, entry := range entries {
		got = append(got, entry.Name())
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("directory mismatch (-want +got):\n%s", diff)
	}
}
