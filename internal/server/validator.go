package server

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateStruct checks payload against its validate tags and
// returns one error per failing field.
func validateStruct(payload interface{}) []error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []error{err}
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			errs = append(errs, fmt.Errorf("%s failed on the %s=%s rule", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		errs = append(errs, fmt.Errorf("%s failed on the %s rule", fe.Field(), fe.Tag()))
	}
	return errs
}
