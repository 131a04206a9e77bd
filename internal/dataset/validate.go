package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"school-navigator/internal/models"
)

// ErrParse is returned when an imported document is not well-formed JSON
// of the persisted document shape
var ErrParse = errors.New("malformed document")

// ValidationError lists field level problems found in a dataset
type ValidationError struct {
	FieldErrors map[string]string `json:"fieldErrors"`
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if v == nil || len(v.FieldErrors) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for f := range v.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v.FieldErrors[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether any field level issue was recorded
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return clockPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks a whole dataset: field formats, unique floor and room ids
// and that every room sits on an existing floor. Lesson room ids are not checked.
func Validate(d models.Dataset) error {
	verr := &ValidationError{}

	if err := validate.Struct(d); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			verr.add(trimRoot(fe.Namespace()), describe(fe))
		}
	}

	floors := make(map[string]struct{}, len(d.Floors))
	for _, f := range d.Floors {
		floors[f.ID] = struct{}{}
	}
	for i, r := range d.Rooms {
		if r.FloorID == "" {
			continue
		}
		if _, ok := floors[r.FloorID]; !ok {
			verr.add(fmt.Sprintf("rooms[%d].floorId", i), fmt.Sprintf("unknown floor %q", r.FloorID))
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// Decode parses a whole persisted document and validates it. Unknown fields
// are rejected. The returned dataset never holds nil slices.
func Decode(data []byte) (models.Dataset, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var d models.Dataset
	if err := dec.Decode(&d); err != nil {
		return models.Dataset{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return models.Dataset{}, fmt.Errorf("%w: trailing data after document", ErrParse)
	}

	d = d.Clone()
	if err := Validate(d); err != nil {
		return models.Dataset{}, err
	}
	return d, nil
}

// Encode renders the dataset as pretty-printed JSON for export
func Encode(d models.Dataset) ([]byte, error) {
	return json.MarshalIndent(d.Clone(), "", "  ")
}

func trimRoot(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "unique":
		return "contains duplicate ids"
	case "gte", "lte":
		return "must be between 0 and 100"
	case "oneof":
		return "must be one of " + fe.Param()
	case "clock":
		return "must be a zero-padded HH:MM time"
	}
	return "failed " + fe.Tag()
}
