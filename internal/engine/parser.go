package engine

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/jjfiv/quizdown/pkg/quiz"
)

// Parser turns quiz markup into questions. A heading starts a question; the
// blocks after it form the prompt, and the question must end with exactly
// one task list whose items are the options. Checked items are correct.
type Parser struct {
	md goldmark.Markdown
}

// NewParser builds a parser that highlights code with opts.
func NewParser(opts SyntaxOptions) (*Parser, error) {
	h, err := newHighlighter(opts)
	if err != nil {
		return nil, err
	}
	md := goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough, extension.Table, extension.TaskList),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(h, 100)),
		),
	)
	return &Parser{md: md}, nil
}

// chunk is one heading and the blocks up to the next heading. Content before
// the first heading forms a chunk without a heading.
type chunk struct {
	heading *ast.Heading
	blocks  []ast.Node
}

// Parse returns the questions in src, in document order.
func (p *Parser) Parse(src []byte) ([]quiz.Question, error) {
	doc := p.md.Parser().Parse(text.NewReader(src))

	questions := make([]quiz.Question, 0)
	for _, c := range splitChunks(doc) {
		question, err := p.question(src, doc, c)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, nil
}

func splitChunks(doc ast.Node) []chunk {
	var chunks []chunk
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if heading, ok := n.(*ast.Heading); ok {
			chunks = append(chunks, chunk{heading: heading})
			continue
		}
		if len(chunks) == 0 {
			chunks = append(chunks, chunk{})
		}
		last := &chunks[len(chunks)-1]
		last.blocks = append(last.blocks, n)
	}
	return chunks
}

func (p *Parser) question(src []byte, doc ast.Node, c chunk) (quiz.Question, error) {
	list, err := findTaskList(c.blocks)
	if err != nil {
		return quiz.Question{}, err
	}
	if list.Parent() != doc || c.blocks[len(c.blocks)-1] != ast.Node(list) {
		return quiz.Question{}, newError(StageParsing, KindContentIgnored, "")
	}

	prompt, err := p.prompt(src, c)
	if err != nil {
		return quiz.Question{}, err
	}

	question := quiz.Question{
		Prompt:  prompt,
		Ordered: list.IsOrdered(),
		Options: make([]quiz.Option, 0, list.ChildCount()),
	}
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		opt, err := p.option(src, item)
		if err != nil {
			return quiz.Question{}, err
		}
		question.Options = append(question.Options, opt)
	}
	return question, nil
}

// findTaskList returns the single list holding checkboxes among blocks.
func findTaskList(blocks []ast.Node) (*ast.List, error) {
	var found *ast.List
	for _, block := range blocks {
		err := ast.Walk(block, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if !entering {
				return ast.WalkContinue, nil
			}
			box, ok := n.(*east.TaskCheckBox)
			if !ok {
				return ast.WalkContinue, nil
			}
			list, depth := enclosingList(box)
			switch {
			case list == nil:
				return ast.WalkStop, newError(StageParsing, KindInternal, "checkbox outside of a list")
			case depth > 1:
				return ast.WalkStop, newError(StageParsing, KindNestedTaskList, "")
			case found != nil && found != list:
				return ast.WalkStop, newError(StageParsing, KindTooManyTaskLists, "")
			}
			found = list
			return ast.WalkSkipChildren, nil
		})
		if err != nil {
			return nil, err
		}
	}
	if found == nil {
		return nil, newError(StageParsing, KindNoOptionsFound, "")
	}
	return found, nil
}

// enclosingList returns the nearest list around n and how many lists
// enclose it.
func enclosingList(n ast.Node) (*ast.List, int) {
	var nearest *ast.List
	depth := 0
	for parent := n.Parent(); parent != nil; parent = parent.Parent() {
		if list, ok := parent.(*ast.List); ok {
			if nearest == nil {
				nearest = list
			}
			depth++
		}
	}
	return nearest, depth
}

func (p *Parser) prompt(src []byte, c chunk) (string, error) {
	var buf bytes.Buffer
	if c.heading != nil {
		fmt.Fprintf(&buf, "<h%d>", c.heading.Level)
		for child := c.heading.FirstChild(); child != nil; child = child.NextSibling() {
			if err := p.render(&buf, src, child); err != nil {
				return "", err
			}
		}
		fmt.Fprintf(&buf, "</h%d>", c.heading.Level)
	} else {
		buf.WriteString("<b><i></i></b>")
	}
	for _, block := range c.blocks[:len(c.blocks)-1] {
		if err := p.render(&buf, src, block); err != nil {
			return "", err
		}
	}
	return strings.TrimSpace(buf.String()), nil
}

func (p *Parser) option(src []byte, item ast.Node) (quiz.Option, error) {
	first := item.FirstChild()
	if first == nil {
		return quiz.Option{}, newError(StageParsing, KindMissingCheckbox, "empty list item")
	}
	box, ok := first.FirstChild().(*east.TaskCheckBox)
	if !ok {
		return quiz.Option{}, newError(StageParsing, KindMissingCheckbox, "")
	}
	first.RemoveChild(first, box)

	var buf bytes.Buffer
	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		if err := p.render(&buf, src, child); err != nil {
			return quiz.Option{}, err
		}
	}
	return quiz.Option{
		Correct: box.IsChecked,
		Content: strings.TrimSpace(buf.String()),
	}, nil
}

func (p *Parser) render(buf *bytes.Buffer, src []byte, n ast.Node) error {
	if err := p.md.Renderer().Render(buf, src, n); err != nil {
		return newError(StageParsing, KindInternal, err.Error())
	}
	return nil
}
