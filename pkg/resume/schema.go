package resume

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var shapeSchema string

//nolint:gochecknoglobals // compiled once
var compiledShape = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(shapeSchema))
})

// ErrShape is matched by every ShapeError.
var ErrShape = errors.New("document does not have the resume shape")

// ShapeError lists the schema violations of a document.
type ShapeError struct {
	Errors []FieldError
}

// FieldError is a single violation.
type FieldError struct {
	Field   string
	Message string
}

func (e *ShapeError) Error() (msg string) {
	var sb strings.Builder
	sb.WriteString("resume shape check failed:")
	for i, fe := range e.Errors {
		sb.WriteString(fmt.Sprintf(" %d. %s: %s;", i+1, fe.Field, fe.Message))
	}
	msg = strings.TrimSuffix(sb.String(), ";")
	return msg
}

// Is matches ErrShape.
func (e *ShapeError) Is(target error) (ok bool) {
	ok = target == ErrShape
	return ok
}

// CheckShape verifies the minimal structure every record needs: a JSON
// object with a "contact" object. Returns *ShapeError on violation.
func CheckShape(data []byte) (err error) {
	var schema *gojsonschema.Schema
	schema, err = compiledShape()
	if err != nil {
		err = errors.Wrap(err, "failed to compile resume schema")
		return err
	}

	var result *gojsonschema.Result
	result, err = schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		err = errors.Wrap(err, "failed to load document")
		return err
	}

	if result.Valid() {
		return err
	}

	shapeErr := &ShapeError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		shapeErr.Errors = append(shapeErr.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	err = shapeErr

	return err
}
