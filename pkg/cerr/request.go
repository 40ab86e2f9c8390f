package cerr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Messages maps "Field.tag" to the detail returned when that rule fails.
type Messages map[string]string

// Bind decodes the JSON request body into v and validates it.
func Bind(r *http.Request, v any, msgs Messages) error {
	if err := DecodeJSON(r, v); err != nil {
		return err
	}
	return Validate(v, msgs)
}

// DecodeJSON reads a JSON request body into v. Failures are InvalidArgument
// errors.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return NewError(InvalidArgument, "request body is required", err)
		}
		return NewError(InvalidArgument, "invalid JSON body", err)
	}
	return nil
}

func Validate(v any, msgs Messages) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewError(Internal, "server error", err)
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if msg, ok := msgs[fe.Field()+"."+fe.Tag()]; ok {
			details = append(details, msg)
			continue
		}
		details = append(details, fmt.Sprintf("%s failed on %q", fe.Field(), fe.Tag()))
	}
	return NewError(InvalidArgument, strings.Join(details, "; "), err)
}
