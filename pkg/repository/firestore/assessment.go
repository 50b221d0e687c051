package firestore

import (
	"context"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/clearpath-fin/clearpath/pkg/domain/model"
	"github.com/clearpath-fin/clearpath/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type assessmentDocument struct {
	ID               int64     `firestore:"id"`
	AccountID        int64     `firestore:"account_id"`
	JobAutomation    float64   `firestore:"job_automation"`
	Spending         float64   `firestore:"spending"`
	TaxEfficiency    float64   `firestore:"tax_efficiency"`
	IncomePercentile float64   `firestore:"income_percentile"`
	Overall          float64   `firestore:"overall"`
	Grade            string    `firestore:"grade"`
	RecommendedTier  string    `firestore:"recommended_tier"`
	CreatedAt        time.Time `firestore:"created_at"`
}

func (d *assessmentDocument) toModel() *model.Assessment {
	return &model.Assessment{
		ID:               d.ID,
		AccountID:        d.AccountID,
		JobAutomation:    d.JobAutomation,
		Spending:         d.Spending,
		TaxEfficiency:    d.TaxEfficiency,
		IncomePercentile: d.IncomePercentile,
		Overall:          d.Overall,
		Grade:            types.RiskGrade(d.Grade),
		RecommendedTier:  types.TierID(d.RecommendedTier),
		CreatedAt:        d.CreatedAt,
	}
}

type assessmentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAssessmentRepository(client *firestore.Client) *assessmentRepository {
	return &assessmentRepository{client: client}
}

func (r *assessmentRepository) collection() string {
	return prefixed(r.collectionPrefix, "assessments")
}

func (r *assessmentRepository) counterCollection() string {
	return prefixed(r.collectionPrefix, "counters")
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error) {
	id, err := nextID(ctx, r.client, r.counterCollection(), "assessment_counter")
	if err != nil {
		return nil, err
	}

	doc := &assessmentDocument{
		ID:               id,
		AccountID:        assessment.AccountID,
		JobAutomation:    assessment.JobAutomation,
		Spending:         assessment.Spending,
		TaxEfficiency:    assessment.TaxEfficiency,
		IncomePercentile: assessment.IncomePercentile,
		Overall:          assessment.Overall,
		Grade:            assessment.Grade.String(),
		RecommendedTier:  assessment.RecommendedTier.String(),
		CreatedAt:        time.Now().UTC(),
	}

	docRef := r.client.Collection(r.collection()).Doc(strconv.FormatInt(id, 10))
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create assessment", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *assessmentRepository) Get(ctx context.Context, id int64) (*model.Assessment, error) {
	docRef := r.client.Collection(r.collection()).Doc(strconv.FormatInt(id, 10))
	snapshot, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V("id", id))
	}

	var doc assessmentDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode assessment", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *assessmentRepository) ListByAccount(ctx context.Context, accountID int64) ([]*model.Assessment, error) {
	iter := r.client.Collection(r.collection()).
		Where("account_id", "==", accountID).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var assessments []*model.Assessment
	for {
		snapshot, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate assessments", goerr.V("account_id", accountID))
		}

		var doc assessmentDocument
		if err := snapshot.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode assessment")
		}
		assessments = append(assessments, doc.toModel())
	}

	return assessments, nil
}

func (r *assessmentRepository) Latest(ctx context.Context, accountID int64) (*model.Assessment, error) {
	iter := r.client.Collection(r.collection()).
		Where("account_id", "==", accountID).
		OrderBy("created_at", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snapshot, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(ErrNotFound, "no assessments for account", goerr.V("account_id", accountID))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query latest assessment", goerr.V("account_id", accountID))
	}

	var doc assessmentDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode assessment")
	}

	return doc.toModel(), nil
}
