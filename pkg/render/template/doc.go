// Package template defines the template rendering seam shared by the HTML
// renderers and the QTI package assembler. The gotemplate subpackage backs it
// with pongo2.
package template
