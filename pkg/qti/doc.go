// Package qti assembles quizzes into an IMS QTI 1.2 content package: a zip
// archive with an imsmanifest.xml at its root and, per quiz, an assessment
// document and a Canvas-style metadata document.
//
// Quizzes must be identified (see quiz.Assign) before assembly. All
// documents are produced from pongo2 templates, embedded by default and
// replaceable with WithTemplates.
package qti
