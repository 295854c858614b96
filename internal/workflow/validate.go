package workflow

import (
	stderrors "errors"
	"regexp"

	"github.com/SIMPLYBOYS/smart_waste/internal/errors"
	"github.com/SIMPLYBOYS/smart_waste/internal/points"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var kenyanPhone = regexp.MustCompile(`^\+254\d{9}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	custom := map[string]validator.Func{
		"id": func(fl validator.FieldLevel) bool {
			_, err := uuid.Parse(fl.Field().String())
			return err == nil
		},
		"kephone": func(fl validator.FieldLevel) bool {
			return kenyanPhone.MatchString(fl.Field().String())
		},
		"wastetype": func(fl validator.FieldLevel) bool {
			_, ok := points.ParseWasteType(fl.Field().String())
			return ok
		},
		"weight": func(fl validator.FieldLevel) bool {
			return points.ValidWeight(fl.Field().Float())
		},
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	return v
}

const invalidID = "must be a valid UUID"

// fieldErrors maps a failing field, by struct namespace, to the error the
// client sees.
var fieldErrors = map[string]errors.ValidationError{
	"Registration.Name":     {Message: "Name must be between 2 and 255 characters"},
	"Registration.Email":    {Message: "Please provide a valid email"},
	"Registration.Phone":    {Message: "Please provide a valid Kenyan phone number"},
	"Registration.Password": {Message: "Password must be at least 6 characters"},

	"profileUpdate.Name":  {Message: "Name must be between 2 and 255 characters"},
	"profileUpdate.Phone": {Message: "Please provide a valid Kenyan phone number"},

	"pickupCompletion.PickupID": {Field: "pickup id", Message: invalidID},
	"pickupCompletion.Weight":   {Message: "Weight must be between 0 and 1000 kg"},
	"pickupCompletion.BinCode":  {Message: "Bin code is required"},

	"PickupInput.Type":            {Message: "Invalid waste type"},
	"PickupInput.LocationLat":     {Message: "Latitude must be between -90 and 90"},
	"PickupInput.LocationLng":     {Message: "Longitude must be between -180 and 180"},
	"PickupInput.LocationAddress": {Message: "Address must not exceed 500 characters"},
	"PickupInput.Notes":           {Message: "Notes must not exceed 1000 characters"},

	"paymentRequest.CollectorID": {Field: "collector id", Message: invalidID},
	"paymentRequest.Amount":      {Message: "Amount must be greater than 0"},
	"paymentRequest.PhoneNumber": {Message: "Please provide a valid Kenyan phone number"},
}

// check validates v and reports the first failing field as a
// ValidationError.
func check(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	if known, ok := fieldErrors[fe.StructNamespace()]; ok {
		return &known
	}
	return &errors.ValidationError{Field: fe.Field(), Message: "failed " + fe.Tag() + " check"}
}

func validateID(field, id string) error {
	if err := validate.Var(id, "id"); err != nil {
		return &errors.ValidationError{Field: field, Message: invalidID}
	}
	return nil
}
