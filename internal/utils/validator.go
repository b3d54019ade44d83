package utils

import (
	"reflect"
	"strings"

	apperrors "github.com/LGEM-2025/scoring-service/internal/errors"
	"github.com/LGEM-2025/scoring-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with the domain's custom
// rules registered.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()
	RegisterCustomValidators(validate)
	return &Validator{validate: validate}
}

// Validate checks the struct and converts field errors to the shared
// ValidationErrors type.
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		if converted := apperrors.ToValidationErrors(err); len(converted) > 0 {
			return converted
		}
		return err
	}
	return nil
}

// Custom validation functions

func ValidateQuestionType(fl validator.FieldLevel) bool {
	validTypes := []models.QuestionType{
		models.LetterMatching,
		models.MultipleChoice,
		models.MultipleResponse,
		models.LifestyleGrid,
		models.WordCloud,
		models.OpenResponseA,
		models.OpenResponseB,
		models.OpenResponseC,
		models.MultiPart,
		models.Dictation,
		models.ActivityTiming,
		models.OpinionRating,
	}

	value := fl.Field().String()
	for _, validType := range validTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}

func ValidateAssessmentTier(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == string(models.TierFoundation) || value == string(models.TierHigher)
}

func ValidateAttemptStatus(fl validator.FieldLevel) bool {
	validStatuses := []models.AttemptStatus{
		models.AttemptIncomplete,
		models.AttemptCompleted,
		models.AttemptAbandoned,
	}

	value := fl.Field().String()
	for _, validStatus := range validStatuses {
		if string(validStatus) == value {
			return true
		}
	}
	return false
}

func ValidateSkillDomain(fl validator.FieldLevel) bool {
	validDomains := []models.SkillDomain{
		models.SkillListening,
		models.SkillReading,
		models.SkillWriting,
		models.SkillSpeaking,
	}

	value := fl.Field().String()
	for _, validDomain := range validDomains {
		if string(validDomain) == value {
			return true
		}
	}
	return false
}

// RegisterCustomValidators registers all custom validators
func RegisterCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", ValidateQuestionType)
	validate.RegisterValidation("assessment_tier", ValidateAssessmentTier)
	validate.RegisterValidation("attempt_status", ValidateAttemptStatus)
	validate.RegisterValidation("skill_domain", ValidateSkillDomain)

	// Register custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
