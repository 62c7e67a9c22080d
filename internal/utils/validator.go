package utils

import (
	"errors"
	"fmt"
	"regexp"
	"slices"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tirtheshjaintj/StoryMania-Backend/internal/models"
)

var validate = newValidator()

var alphaSpaceRe = regexp.MustCompile(`^[a-zA-Z\s]+$`)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("alphaspace", func(fl validator.FieldLevel) bool {
		return alphaSpaceRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("genre", func(fl validator.FieldLevel) bool {
		return slices.Contains(models.Genres, fl.Field().String())
	})
	_ = v.RegisterValidation("mongoid", func(fl validator.FieldLevel) bool {
		return primitive.IsValidObjectID(fl.Field().String())
	})
	return v
}

// ValidateStruct runs the validate tags of req and returns a single
// human-readable message for the first failing field, in the style the
// API has always responded with.
func ValidateStruct(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		switch fe.Tag() {
		case "required":
			return fmt.Errorf("%s is required", fe.Field())
		case "email":
			return fmt.Errorf("%s must be a valid email address", fe.Field())
		case "min":
			return fmt.Errorf("%s must be at least %s characters long", fe.Field(), fe.Param())
		case "max":
			return fmt.Errorf("%s cannot exceed %s characters", fe.Field(), fe.Param())
		case "len":
			return fmt.Errorf("%s must be exactly %s characters long", fe.Field(), fe.Param())
		case "alphaspace":
			return fmt.Errorf("%s must contain only letters and spaces", fe.Field())
		case "genre":
			return fmt.Errorf("%s must be one of %v", fe.Field(), models.Genres)
		case "mongoid":
			return fmt.Errorf("%s is not a valid id", fe.Field())
		case "url":
			return fmt.Errorf("%s must be a valid URL", fe.Field())
		case "numeric":
			return fmt.Errorf("%s must contain only digits", fe.Field())
		default:
			return fmt.Errorf("validation failed on field '%s' for tag '%s'", fe.Field(), fe.Tag())
		}
	}
	return err
}
