package invoice

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidTemplate = errors.New("invalid invoice template")

var keyRe = regexp.MustCompile(`^[a-z][a-z0-9_]{0,39}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("fieldkey", func(fl validator.FieldLevel) bool {
		return keyRe.MatchString(fl.Field().String())
	})
	return v
}

// Problem is one rule a template breaks, addressed by its JSON-ish path.
type Problem struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field+": "+p.Rule)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidTemplate, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidTemplate
}

// Validate checks struct rules and that field keys are unique across the
// whole template, not only within a section.
func (t Template) Validate() error {
	var problems []Problem

	if err := validate.Struct(t); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			problems = append(problems, Problem{Field: trimRoot(fe.Namespace()), Rule: rule(fe)})
		}
	}

	seen := map[string]string{}
	for _, s := range t.Sections {
		for _, f := range s.Fields {
			if f.Key == "" {
				continue
			}
			if prev, ok := seen[f.Key]; ok && prev != s.Key {
				problems = append(problems, Problem{
					Field: "Sections." + s.Key + ".Fields." + f.Key,
					Rule:  "duplicate of " + prev + "." + f.Key,
				})
				continue
			}
			seen[f.Key] = s.Key
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func rule(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
