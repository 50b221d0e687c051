package interfaces

import (
	"context"

	"github.com/clearpath-fin/clearpath/pkg/domain/model"
)

type AssessmentRepository interface {
	// Create creates a new assessment with auto-generated ID
	Create(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error)

	// Get retrieves an assessment by ID
	Get(ctx context.Context, id int64) (*model.Assessment, error)

	// ListByAccount retrieves all assessments for an account, newest first
	ListByAccount(ctx context.Context, accountID int64) ([]*model.Assessment, error)

	// Latest retrieves the most recent assessment for an account
	Latest(ctx context.Context, accountID int64) (*model.Assessment, error)
}
