package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/hamzat06/esk-sub000/internal/models"
	"github.com/hamzat06/esk-sub000/internal/permissions"
)

// ValidationErrors wraps the validator's ValidationErrors
type ValidationErrors []playgroundvalidator.FieldError

// CustomValidator wraps go-playground/validator
type CustomValidator struct {
	validator *playgroundvalidator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() echo.Validator {
	v := playgroundvalidator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("order_status", validateOrderStatus); err != nil {
		return nil
	}
	if err := v.RegisterValidation("catering_status", validateCateringStatus); err != nil {
		return nil
	}
	if err := v.RegisterValidation("permission_tag", validatePermissionTag); err != nil {
		return nil
	}
	if err := v.RegisterValidation("user_role", validateUserRole); err != nil {
		return nil
	}

	return &CustomValidator{validator: v}
}

func validateOrderStatus(fl playgroundvalidator.FieldLevel) bool {
	return models.IsValidOrderStatus(models.OrderStatus(fl.Field().String()))
}

func validateCateringStatus(fl playgroundvalidator.FieldLevel) bool {
	return models.IsValidCateringStatus(models.CateringStatus(fl.Field().String()))
}

func validatePermissionTag(fl playgroundvalidator.FieldLevel) bool {
	return permissions.IsValid(permissions.Permission(fl.Field().String()))
}

func validateUserRole(fl playgroundvalidator.FieldLevel) bool {
	return models.IsValidUserRole(models.UserRole(fl.Field().String()))
}

// Validate implements echo.Validator interface
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		var validationErrors playgroundvalidator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return ValidationErrors(validationErrors)
		}
		return err
	}
	return nil
}

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	var fields []string
	for _, err := range ve {
		fields = append(fields, err.Field())
	}
	return fmt.Sprintf("validation failed on fields: %s", strings.Join(fields, ", "))
}

// Format renders each field error into a human-readable map entry.
func (ve ValidationErrors) Format() map[string]string {
	errMap := make(map[string]string)
	for _, err := range ve {
		field := err.Field()
		tag := err.Tag()
		param := err.Param()

		switch tag {
		case "required":
			errMap[field] = fmt.Sprintf("%s is required", field)
		case "email":
			errMap[field] = fmt.Sprintf("%s must be a valid email", field)
		case "min":
			errMap[field] = fmt.Sprintf("%s must be at least %s", field, param)
		case "max":
			errMap[field] = fmt.Sprintf("%s must be at most %s", field, param)
		case "gt":
			errMap[field] = fmt.Sprintf("%s must be greater than %s", field, param)
		case "gte":
			errMap[field] = fmt.Sprintf("%s must be at least %s", field, param)
		case "uuid":
			errMap[field] = fmt.Sprintf("%s must be a valid UUID", field)
		case "oneof":
			errMap[field] = fmt.Sprintf("%s must be one of [%s]", field, param)
		case "order_status":
			errMap[field] = fmt.Sprintf("%s must be a recognized order status", field)
		case "catering_status":
			errMap[field] = fmt.Sprintf("%s must be a recognized catering status", field)
		case "permission_tag":
			errMap[field] = fmt.Sprintf("%s must be a recognized permission", field)
		case "user_role":
			errMap[field] = fmt.Sprintf("%s must be either 'customer' or 'admin'", field)
		default:
			errMap[field] = fmt.Sprintf("%s failed validation: %s", field, tag)
		}
	}
	return errMap
}
