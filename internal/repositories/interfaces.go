package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/LGEM-2025/scoring-service/internal/models"
	"gorm.io/gorm"
)

// Repository aggregates the per-entity repositories. Methods take an
// optional tx *gorm.DB so services control transaction boundaries; nil
// means use the repository's own connection.
type Repository interface {
	Assessment() AssessmentRepository
	Attempt() AttemptRepository
	Skill() SkillRepository
	Progress() ProgressRepository

	// Transaction runs fn inside one database transaction, passing the
	// tx handle for use with the per-entity methods.
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ===== SHARED FILTER STRUCTS =====

type AssessmentFilters struct {
	Language  *string             `json:"language"`
	Tier      *models.Tier        `json:"tier"`
	Modality  *models.SkillDomain `json:"modality"`
	Active    *bool               `json:"active"`
	Limit     int                 `json:"limit"`
	Offset    int                 `json:"offset"`
	SortBy    string              `json:"sort_by"`    // "created_at", "identifier"
	SortOrder string              `json:"sort_order"` // "asc", "desc"
}

type AttemptFilters struct {
	Status       models.AttemptStatus `json:"status"`
	StudentID    *string              `json:"student_id"`
	AssessmentID *uint                `json:"assessment_id"`
	AssignmentID *string              `json:"assignment_id"`
	DateFrom     *time.Time           `json:"date_from"`
	DateTo       *time.Time           `json:"date_to"`
	Limit        int                  `json:"limit"`
	Offset       int                  `json:"offset"`
	SortBy       string               `json:"sort_by"`
	SortOrder    string               `json:"sort_order"`
}

// ===== ERROR HELPERS =====

// IsNotFoundError reports whether err is a record-not-found from the
// datastore.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateKeyError reports whether err is a uniqueness-constraint
// violation. The attempt-numbering retry loop depends on this.
func IsDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "duplicate key")
}
