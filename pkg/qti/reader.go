package qti

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
)

// ResourceTypeAssessment marks manifest resources that hold a QTI assessment.
const ResourceTypeAssessment = "imsqti_xmlv1p2"

// ErrInvalidPackage wraps every structural problem found by Verify.
var ErrInvalidPackage = errors.New("qti: invalid package")

type manifestDoc struct {
	XMLName    xml.Name      `xml:"manifest"`
	Identifier string        `xml:"identifier,attr"`
	Title      string        `xml:"metadata>lom>general>title>string"`
	Resources  []resourceDoc `xml:"resources>resource"`
}

type resourceDoc struct {
	Identifier   string   `xml:"identifier,attr"`
	Type         string   `xml:"type,attr"`
	Href         string   `xml:"href,attr"`
	Title        string   `xml:"metadata>lom>general>title>string"`
	Files        []hrefAt `xml:"file"`
	Dependencies []refAt  `xml:"dependency"`
}

type hrefAt struct {
	Href string `xml:"href,attr"`
}

type refAt struct {
	IdentifierRef string `xml:"identifierref,attr"`
}

type assessmentDoc struct {
	Assessment struct {
		Ident string    `xml:"ident,attr"`
		Items []itemDoc `xml:"section>item"`
	} `xml:"assessment"`
}

type itemDoc struct {
	Ident  string    `xml:"ident,attr"`
	Labels []identAt `xml:"presentation>response_lid>render_choice>response_label"`
}

type identAt struct {
	Ident string `xml:"ident,attr"`
}

// Resource is one manifest resource.
type Resource struct {
	Identifier   string
	Type         string
	Href         string
	Title        string
	Files        []string
	Dependencies []string
}

// Package is a QTI archive read back into memory.
type Package struct {
	Identifier string
	Title      string
	Resources  []Resource
	// Entries lists archive entry names in archive order.
	Entries []string

	files map[string][]byte
}

// Summary describes one verified quiz.
type Summary struct {
	UID       string
	Title     string
	Questions int
	Options   int
}

// ReadPackage parses an archive produced by Assemble.
func ReadPackage(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("qti: open archive: %w", err)
	}

	pkg := &Package{files: make(map[string][]byte, len(zr.File))}
	for _, f := range zr.File {
		if _, dup := pkg.files[f.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate entry %q", ErrInvalidPackage, f.Name)
		}
		body, err := readZipFile(f)
		if err != nil {
			return nil, err
		}
		pkg.files[f.Name] = body
		pkg.Entries = append(pkg.Entries, f.Name)
	}

	raw, ok := pkg.files[ManifestPath]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidPackage, ManifestPath)
	}
	var manifest manifestDoc
	if err := xml.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("qti: parse manifest: %w", err)
	}

	pkg.Identifier = manifest.Identifier
	pkg.Title = manifest.Title
	for _, res := range manifest.Resources {
		out := Resource{
			Identifier: res.Identifier,
			Type:       res.Type,
			Href:       res.Href,
			Title:      res.Title,
		}
		for _, file := range res.Files {
			out.Files = append(out.Files, file.Href)
		}
		for _, dep := range res.Dependencies {
			out.Dependencies = append(out.Dependencies, dep.IdentifierRef)
		}
		pkg.Resources = append(pkg.Resources, out)
	}
	return pkg, nil
}

// ReadPackageFile reads and parses the archive at path.
func ReadPackageFile(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("qti: read package: %w", err)
	}
	return ReadPackage(data)
}

// File returns the contents of an archive entry.
func (p *Package) File(name string) ([]byte, bool) {
	body, ok := p.files[name]
	return body, ok
}

// Assessments returns the assessment resources in manifest order.
func (p *Package) Assessments() []Resource {
	var out []Resource
	for _, res := range p.Resources {
		if res.Type == ResourceTypeAssessment {
			out = append(out, res)
		}
	}
	return out
}

// Verify checks that manifest and entries agree: every referenced file and
// dependency exists, every assessment lives at AssessmentPath of its
// identifier with metadata at MetaPath, and question and option identifiers
// are unique across the package.
func (p *Package) Verify() ([]Summary, error) {
	byID := make(map[string]Resource, len(p.Resources))
	for _, res := range p.Resources {
		if _, dup := byID[res.Identifier]; dup {
			return nil, fmt.Errorf("%w: duplicate resource %q", ErrInvalidPackage, res.Identifier)
		}
		byID[res.Identifier] = res
	}

	for _, res := range p.Resources {
		for _, href := range res.Files {
			if _, ok := p.files[href]; !ok {
				return nil, fmt.Errorf("%w: resource %q references missing file %q", ErrInvalidPackage, res.Identifier, href)
			}
		}
		for _, dep := range res.Dependencies {
			if _, ok := byID[dep]; !ok {
				return nil, fmt.Errorf("%w: resource %q depends on unknown resource %q", ErrInvalidPackage, res.Identifier, dep)
			}
		}
	}

	seen := make(map[string]string)
	var summaries []Summary
	for _, res := range p.Assessments() {
		uid := res.Identifier
		body, ok := p.files[AssessmentPath(uid)]
		if !ok {
			return nil, fmt.Errorf("%w: assessment %q not at %s", ErrInvalidPackage, uid, AssessmentPath(uid))
		}
		if _, ok := p.files[MetaPath(uid)]; !ok {
			return nil, fmt.Errorf("%w: metadata for %q not at %s", ErrInvalidPackage, uid, MetaPath(uid))
		}

		var doc assessmentDoc
		if err := xml.Unmarshal(body, &doc); err != nil {
			return nil, fmt.Errorf("qti: parse assessment %q: %w", uid, err)
		}
		if doc.Assessment.Ident != uid {
			return nil, fmt.Errorf("%w: assessment %q declares ident %q", ErrInvalidPackage, uid, doc.Assessment.Ident)
		}

		summary := Summary{UID: uid, Title: res.Title, Questions: len(doc.Assessment.Items)}
		for _, item := range doc.Assessment.Items {
			if err := claim(seen, item.Ident, uid); err != nil {
				return nil, err
			}
			for _, label := range item.Labels {
				if err := claim(seen, label.Ident, uid); err != nil {
					return nil, err
				}
				summary.Options++
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func claim(seen map[string]string, ident, owner string) error {
	if prev, dup := seen[ident]; dup {
		return fmt.Errorf("%w: identifier %q used in %q and %q", ErrInvalidPackage, ident, prev, owner)
	}
	seen[ident] = owner
	return nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("qti: open %s: %w", f.Name, err)
	}
	defer rc.Close()
	body, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("qti: read %s: %w", f.Name, err)
	}
	return body, nil
}
