package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/clearpath-fin/clearpath/pkg/domain/interfaces"
	"github.com/clearpath-fin/clearpath/pkg/domain/model"
	"github.com/clearpath-fin/clearpath/pkg/domain/types"
	"github.com/clearpath-fin/clearpath/pkg/repository/firestore"
	"github.com/clearpath-fin/clearpath/pkg/repository/memory"
	"github.com/m-mizutani/gt"
)

func runAssessmentRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create creates assessment with auto-increment ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		assessment := &model.Assessment{
			AccountID:        101,
			JobAutomation:    0.72,
			Spending:         0.41,
			TaxEfficiency:    0.30,
			IncomePercentile: 0.55,
			Overall:          0.52,
			Grade:            types.RiskGradeModerate,
			RecommendedTier:  types.TierID("plus"),
		}

		created, err := repo.Assessment().Create(ctx, assessment)
		gt.NoError(t, err).Required()

		gt.Value(t, created.ID).NotEqual(int64(0))
		gt.Value(t, created.AccountID).Equal(int64(101))
		gt.Value(t, created.Grade).Equal(types.RiskGradeModerate)
		gt.Value(t, created.Overall).Equal(0.52)
		gt.Bool(t, created.CreatedAt.IsZero()).False()
	})

	t.Run("Get retrieves existing assessment", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Assessment().Create(ctx, &model.Assessment{
			AccountID: 102,
			Overall:   0.80,
			Grade:     types.RiskGradeCritical,
		})
		gt.NoError(t, err).Required()

		retrieved, err := repo.Assessment().Get(ctx, created.ID)
		gt.NoError(t, err).Required()

		gt.Value(t, retrieved.ID).Equal(created.ID)
		gt.Value(t, retrieved.Grade).Equal(types.RiskGradeCritical)
	})

	t.Run("Get returns error for non-existent assessment", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Assessment().Get(ctx, time.Now().UnixNano())
		gt.Value(t, err).NotNil()
	})

	t.Run("ListByAccount returns assessments newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		var last *model.Assessment
		for _, overall := range []float64{0.20, 0.45, 0.70} {
			created, err := repo.Assessment().Create(ctx, &model.Assessment{
				AccountID: 103,
				Overall:   overall,
				Grade:     types.GradeScore(overall),
			})
			gt.NoError(t, err).Required()
			last = created
			time.Sleep(5 * time.Millisecond)
		}

		// Other account, must not leak into the listing
		_, err := repo.Assessment().Create(ctx, &model.Assessment{
			AccountID: 104,
			Overall:   0.99,
		})
		gt.NoError(t, err).Required()

		listed, err := repo.Assessment().ListByAccount(ctx, 103)
		gt.NoError(t, err).Required()

		gt.Array(t, listed).Length(3)
		gt.Value(t, listed[0].ID).Equal(last.ID)
		gt.Value(t, listed[0].Overall).Equal(0.70)
		gt.Value(t, listed[2].Overall).Equal(0.20)
	})

	t.Run("Latest returns most recent assessment", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Assessment().Create(ctx, &model.Assessment{
			AccountID: 105,
			Overall:   0.10,
		})
		gt.NoError(t, err).Required()
		time.Sleep(5 * time.Millisecond)

		newest, err := repo.Assessment().Create(ctx, &model.Assessment{
			AccountID: 105,
			Overall:   0.90,
		})
		gt.NoError(t, err).Required()

		latest, err := repo.Assessment().Latest(ctx, 105)
		gt.NoError(t, err).Required()
		gt.Value(t, latest.ID).Equal(newest.ID)
		gt.Value(t, latest.Overall).Equal(0.90)
	})

	t.Run("Latest returns error when account has no assessments", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Assessment().Latest(ctx, 999999)
		gt.Value(t, err).NotNil()
	})
}

func TestAssessmentRepository_Memory(t *testing.T) {
	runAssessmentRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestAssessmentRepository_Firestore(t *testing.T) {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}

	runAssessmentRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := firestore.New(context.Background(), projectID, "")
		gt.NoError(t, err).Required()
		return repo
	})
}
