package qti

import (
	"fmt"
	"strings"
)

// ManifestPath is the archive entry holding the package manifest.
const ManifestPath = "imsmanifest.xml"

const (
	manifestTemplate   = "imsmanifest.xml"
	assessmentTemplate = "assessment.xml"
	metaTemplate       = "assessment_meta.xml"
)

// DirPath is the directory entry that groups the documents of uid.
func DirPath(uid string) string {
	return uid + "/"
}

// AssessmentPath is the archive entry of the assessment document for uid.
func AssessmentPath(uid string) string {
	return uid + "/" + uid + ".xml"
}

// MetaPath is the archive entry of the metadata document for uid.
func MetaPath(uid string) string {
	return uid + "/assessment_meta.xml"
}

// CollisionPolicy decides what happens when two quizzes share an identifier.
type CollisionPolicy int

const (
	// Overwrite keeps one set of entries per identifier; the later quiz
	// replaces the earlier one.
	Overwrite CollisionPolicy = iota
	// Reject fails the assembly with ErrDuplicateQuiz.
	Reject
	// Suffix renames later quizzes to uid_2, uid_3 and so on.
	Suffix
)

func (p CollisionPolicy) String() string {
	switch p {
	case Overwrite:
		return "overwrite"
	case Reject:
		return "reject"
	case Suffix:
		return "suffix"
	default:
		return fmt.Sprintf("CollisionPolicy(%d)", int(p))
	}
}

// ParseCollisionPolicy maps a policy name (case-insensitive) to its value.
func ParseCollisionPolicy(name string) (CollisionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "overwrite":
		return Overwrite, nil
	case "reject":
		return Reject, nil
	case "suffix":
		return Suffix, nil
	default:
		return Overwrite, fmt.Errorf("qti: unknown collision policy %q", name)
	}
}
