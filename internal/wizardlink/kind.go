package wizardlink

import (
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// FilePrefix marks a subject as a file reference.
const FilePrefix = "file:"

// Kind is the shape of a link subject.
type Kind int

const (
	KindFile Kind = iota
	KindEmail
	KindPage
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindEmail:
		return "email"
	case KindPage:
		return "page"
	case KindExternal:
		return "external"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

var pageRe = regexp.MustCompile(`^([0-9]+)(?:#(.*))?$`)

// Classify returns the kind of subject. The checks run in a fixed order and
// the first match wins: file prefix, email address, page id, external URL.
func Classify(subject string) Kind {
	switch {
	case strings.HasPrefix(subject, FilePrefix):
		return KindFile
	case isEmail(subject):
		return KindEmail
	case pageID(subject) > 0:
		return KindPage
	default:
		return KindExternal
	}
}

func isEmail(subject string) bool {
	return strings.Contains(subject, "@") && validation.Validate(subject, is.EmailFormat) == nil
}

// pageID returns the page uid encoded in subject, or 0. A "#section"
// suffix is allowed.
func pageID(subject string) int {
	id, _ := splitPage(subject)
	return id
}

func splitPage(subject string) (int, string) {
	m := pageRe.FindStringSubmatch(subject)
	if m == nil {
		return 0, ""
	}
	id, err := strconv.Atoi(m[1])
	if err != nil || id <= 0 {
		return 0, ""
	}
	return id, m[2]
}
