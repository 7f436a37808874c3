package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/gookit/color"
	"github.com/specialistvlad/climeta/internal/model"
)

// ErrInvalidDocument is returned after the problems of a document have been
// reported to the user.
var ErrInvalidDocument = errors.New("invalid document")

// reportValidation lists every field error of doc with the offending
// argument and field highlighted. It reports false when err carries no
// validation errors.
func reportValidation(w io.Writer, source string, doc *model.Document, err error) bool {
	var verrs model.ValidationErrors
	if !errors.As(err, &verrs) {
		return false
	}
	fmt.Fprintf(w, "%s: %d error(s)\n", color.Bold.Sprint(source), len(verrs))
	for _, fe := range verrs {
		where := "program"
		if fe.Index != model.ProgramIndex {
			where = fmt.Sprintf("argument %d", fe.Index+1)
			if doc != nil && fe.Index < len(doc.Arguments) && doc.Arguments[fe.Index].Name != "" {
				where += " (" + doc.Arguments[fe.Index].Name + ")"
			}
		}
		fmt.Fprintf(w, "  %s %s: %s %s\n",
			where,
			color.Red.Sprint(fe.Field),
			fe.Message,
			color.Gray.Sprintf("[%s]", fe.Kind),
		)
	}
	return true
}
