package engine

import (
	"bytes"
	"io"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// highlighter renders fenced blocks, indented blocks and code spans with
// inline chroma styles.
type highlighter struct {
	style       *chroma.Style
	defaultLang string
	block       *chromahtml.Formatter
	inline      *chromahtml.Formatter
}

var _ renderer.NodeRenderer = (*highlighter)(nil)

func newHighlighter(opts SyntaxOptions) (*highlighter, error) {
	style, ok := styles.Registry[opts.Theme]
	if !ok {
		return nil, newError(StageParsing, KindMissingSyntaxTheme, opts.Theme)
	}
	return &highlighter{
		style:       style,
		defaultLang: opts.DefaultLang,
		block:       chromahtml.New(chromahtml.WithClasses(false), chromahtml.TabWidth(4)),
		inline:      chromahtml.New(chromahtml.WithClasses(false), chromahtml.InlineCode(true)),
	}, nil
}

func (h *highlighter) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, h.renderFencedCodeBlock)
	reg.Register(ast.KindCodeBlock, h.renderCodeBlock)
	reg.Register(ast.KindCodeSpan, h.renderCodeSpan)
}

func (h *highlighter) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	lang := h.defaultLang
	if info := n.Language(source); len(info) > 0 {
		lang = string(info)
	}
	return ast.WalkSkipChildren, h.format(w, h.block, lang, blockText(n, source))
}

func (h *highlighter) renderCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	return ast.WalkSkipChildren, h.format(w, h.block, h.defaultLang, blockText(node, source))
}

func (h *highlighter) renderCodeSpan(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	var buf bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			value := t.Segment.Value(source)
			if bytes.HasSuffix(value, []byte("\n")) {
				value = append(value[:len(value)-1:len(value)-1], ' ')
			}
			buf.Write(value)
		case *ast.String:
			buf.Write(t.Value)
		}
	}
	return ast.WalkSkipChildren, h.format(w, h.inline, h.defaultLang, buf.String())
}

func (h *highlighter) format(w io.Writer, f *chromahtml.Formatter, lang, code string) error {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return err
	}
	return f.Format(w, h.style, iterator)
}

func blockText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		buf.Write(segment.Value(source))
	}
	return buf.String()
}
