package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/clearpath-fin/clearpath/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type assessmentRepository struct {
	mu          sync.RWMutex
	assessments map[int64]*model.Assessment
	nextID      int64
}

func newAssessmentRepository() *assessmentRepository {
	return &assessmentRepository{
		assessments: make(map[int64]*model.Assessment),
		nextID:      1,
	}
}

func copyAssessment(a *model.Assessment) *model.Assessment {
	c := *a
	return &c
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyAssessment(assessment)
	created.ID = r.nextID
	created.CreatedAt = time.Now().UTC()
	r.nextID++

	r.assessments[created.ID] = created
	return copyAssessment(created), nil
}

func (r *assessmentRepository) Get(ctx context.Context, id int64) (*model.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assessment, exists := r.assessments[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
	}

	return copyAssessment(assessment), nil
}

func (r *assessmentRepository) ListByAccount(ctx context.Context, accountID int64) ([]*model.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assessments := make([]*model.Assessment, 0)
	for _, assessment := range r.assessments {
		if assessment.AccountID == accountID {
			assessments = append(assessments, copyAssessment(assessment))
		}
	}

	sort.Slice(assessments, func(i, j int) bool {
		return assessments[i].CreatedAt.After(assessments[j].CreatedAt)
	})

	return assessments, nil
}

func (r *assessmentRepository) Latest(ctx context.Context, accountID int64) (*model.Assessment, error) {
	assessments, err := r.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(assessments) == 0 {
		return nil, goerr.Wrap(ErrNotFound, "no assessments for account", goerr.V("account_id", accountID))
	}
	return assessments[0], nil
}
