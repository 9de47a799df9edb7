package validators

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/pokeshop-api/pkg/errors"
)

const maxBodyBytes = 1 << 20

var validate = validator.New()

// DecodeJSONObject reads the request body as a JSON object. Numbers are kept as json.Number
// so integer and decimal rules see the literal text. An empty body decodes to an empty map
// and bodies over 1 MiB are rejected.
func DecodeJSONObject(r *http.Request) (map[string]any, error) {
	if r.Body == nil {
		return map[string]any{}, nil
	}

	raw, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request body too large").
				WithDetails(map[string]any{"limit_bytes": tooLarge.Limit})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var body map[string]any
	if err := decoder.Decode(&body); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request body must be a JSON object").
			WithDetails(map[string]any{"error": err.Error()})
	}
	if body == nil {
		return map[string]any{}, nil
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request body must contain a single JSON object")
	}
	return body, nil
}

// BindJSON decodes the body and applies rules, returning the coerced field values.
func BindJSON(r *http.Request, rules RuleSet) (map[string]any, error) {
	body, err := DecodeJSONObject(r)
	if err != nil {
		return nil, err
	}
	values, violations := Validate(body, rules)
	if len(violations) > 0 {
		return nil, ValidationError(violations)
	}
	return values, nil
}
