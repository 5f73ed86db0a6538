package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	domerrors "github.com/uiscraper/backend/internal/domain/errors"
)

// MaxBodyBytes bounds every JSON request body.
const MaxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeJSON reads the request body into dst and validates its struct tags. An empty body decodes to
// the zero value so validation reports the missing fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: invalid JSON body", domerrors.ErrValidation)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, strings.ToLower(fe.Field())+" "+fe.Tag())
			}
			return fmt.Errorf("%w: %s", domerrors.ErrValidation, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", domerrors.ErrValidation, err)
	}
	return nil
}
