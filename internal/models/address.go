package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// CountryIndonesia switches Address to the Indonesian administrative schema.
const CountryIndonesia = "Indonesia"

// Address is a postal address with a country-conditional schema. Indonesian
// addresses use the province / kota-kabupaten / kecamatan / kelurahan-desa
// hierarchy and a five digit postal code; every other country uses a
// generic city / state layout.
type Address struct {
	Country    string `json:"country" validate:"required"`
	Street     string `json:"street" validate:"required,max=200"`
	PostalCode string `json:"postalCode" validate:"required_if=Country Indonesia,max=12"`

	// Generic layout.
	City  string `json:"city" validate:"required,max=100"`
	State string `json:"state,omitempty" validate:"max=100"`

	// Indonesian layout.
	Province string `json:"province,omitempty" validate:"required_if=Country Indonesia,max=100"`
	District string `json:"district,omitempty" validate:"required_if=Country Indonesia,max=100"`
	Village  string `json:"village,omitempty" validate:"required_if=Country Indonesia,max=100"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func addressValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		validate.RegisterStructValidation(indonesianPostalCode, Address{})
	})
	return validate
}

func indonesianPostalCode(sl validator.StructLevel) {
	a := sl.Current().Interface().(Address)
	if a.Country != CountryIndonesia || a.PostalCode == "" {
		return
	}
	if len(a.PostalCode) != 5 || strings.Trim(a.PostalCode, "0123456789") != "" {
		sl.ReportError(a.PostalCode, "postalCode", "PostalCode", "idpostal", "")
	}
}

// Normalize trims whitespace and drops fields that do not belong to the
// address's schema, so switching country does not leave stale values.
func (a *Address) Normalize() {
	for _, f := range []*string{&a.Country, &a.Street, &a.PostalCode, &a.City, &a.State, &a.Province, &a.District, &a.Village} {
		*f = strings.TrimSpace(*f)
	}
	if strings.EqualFold(a.Country, CountryIndonesia) {
		a.Country = CountryIndonesia
		a.State = ""
		return
	}
	a.Province, a.District, a.Village = "", "", ""
}

// Validate checks the address against the schema for its country.
func (a Address) Validate() error {
	err := addressValidator().Struct(a)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, describeFieldError(fe))
	}
	return fmt.Errorf("invalid address: %s", strings.Join(messages, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "idpostal":
		return fmt.Sprintf("%s must be 5 digits for Indonesian addresses", field)
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}
