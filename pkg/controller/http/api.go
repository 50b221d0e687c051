package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/clearpath-fin/clearpath/pkg/domain/model"
	"github.com/clearpath-fin/clearpath/pkg/domain/types"
	"github.com/clearpath-fin/clearpath/pkg/metrics"
	"github.com/clearpath-fin/clearpath/pkg/repository/firestore"
	"github.com/clearpath-fin/clearpath/pkg/repository/memory"
	"github.com/clearpath-fin/clearpath/pkg/service/scoring"
	"github.com/clearpath-fin/clearpath/pkg/usecase"
	"github.com/clearpath-fin/clearpath/pkg/utils/async"
	"github.com/clearpath-fin/clearpath/pkg/utils/errutil"
)

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data) //nolint:errcheck // header already committed
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return goerr.Wrap(err, "failed to decode request body")
	}
	return nil
}

func accountIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "accountID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid account ID", goerr.V("raw", raw))
	}
	return id, nil
}

// notFoundStatus maps repository not-found errors to 404, everything else
// to 500
func notFoundStatus(err error) int {
	if errors.Is(err, memory.ErrNotFound) || errors.Is(err, firestore.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

type accountResponse struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Occupation string `json:"occupation,omitempty"`
	Region     string `json:"region,omitempty"`
	CreatedAt  string `json:"created_at"`
}

func toAccountResponse(a *model.Account) accountResponse {
	return accountResponse{
		ID:         a.ID,
		Email:      a.Email,
		Name:       a.Name,
		Occupation: a.Occupation,
		Region:     a.Region,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
	}
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email      string `json:"email"`
		Name       string `json:"name"`
		Occupation string `json:"occupation"`
		Region     string `json:"region"`
	}
	if err := decodeJSON(r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	account, err := s.uc.Account.Register(r.Context(), req.Email, req.Name, req.Occupation, req.Region)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, toAccountResponse(account))
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.uc.Account.List(r.Context())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}
	resp := make([]accountResponse, len(accounts))
	for i, a := range accounts {
		resp[i] = toAccountResponse(a)
	}
	writeJSON(r.Context(), w, http.StatusOK, map[string]any{"accounts": resp})
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := accountIDParam(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}
	account, err := s.uc.Account.Get(r.Context(), id)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, notFoundStatus(err))
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toAccountResponse(account))
}

func (s *Server) handleGetTier(w http.ResponseWriter, r *http.Request) {
	id, err := accountIDParam(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	tierID, err := s.uc.Subscription.EffectiveTier(r.Context(), id)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, notFoundStatus(err))
		return
	}
	gated, err := s.uc.Subscription.GatedFeatures(r.Context(), id)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, map[string]any{
		"tier":           tierID.String(),
		"gated_features": gated,
	})
}

func (s *Server) handleCheckFeature(w http.ResponseWriter, r *http.Request) {
	id, err := accountIDParam(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}
	feature := types.FeatureID(chi.URLParam(r, "featureID"))

	allowed, err := s.uc.Subscription.CanAccess(r.Context(), id, feature)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, notFoundStatus(err))
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, map[string]any{
		"feature": feature.String(),
		"allowed": allowed,
	})
}

func (s *Server) handleStartTrial(w http.ResponseWriter, r *http.Request) {
	id, err := accountIDParam(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	var req struct {
		Tier string `json:"tier"`
	}
	if err := decodeJSON(r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	sub, err := s.uc.Subscription.StartTrial(r.Context(), id, types.TierID(req.Tier))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, usecase.ErrTrialNotAllowed) {
			status = http.StatusConflict
		}
		errutil.HandleHTTP(r.Context(), w, err, status)
		return
	}

	resp := map[string]any{
		"tier":   sub.TierID.String(),
		"status": sub.Status.String(),
	}
	if sub.TrialEndsAt != nil {
		resp["trial_ends_at"] = sub.TrialEndsAt.Format(time.RFC3339)
	}
	writeJSON(r.Context(), w, http.StatusCreated, resp)
}

func (s *Server) handleNextPrompt(w http.ResponseWriter, r *http.Request) {
	id, err := accountIDParam(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	prompt, err := s.uc.Onboarding.NextPrompt(r.Context(), id)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, notFoundStatus(err))
		return
	}
	if prompt == nil {
		writeJSON(r.Context(), w, http.StatusOK, map[string]any{"prompt": nil})
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, map[string]any{
		"prompt": map[string]any{
			"id":      prompt.ID.String(),
			"title":   prompt.Title,
			"body":    prompt.Body,
			"feature": prompt.Feature.String(),
		},
	})

	// follow up by email without holding the response
	async.Dispatch(r.Context(), func(ctx context.Context) error {
		return s.uc.Onboarding.SendUpgradeNudge(ctx, id, prompt)
	})
}

type assessmentResponse struct {
	ID               int64   `json:"id"`
	JobAutomation    float64 `json:"job_automation"`
	Spending         float64 `json:"spending"`
	TaxEfficiency    float64 `json:"tax_efficiency"`
	IncomePercentile float64 `json:"income_percentile"`
	Overall          float64 `json:"overall"`
	Grade            string  `json:"grade"`
	RecommendedTier  string  `json:"recommended_tier"`
	CreatedAt        string  `json:"created_at"`
}

func toAssessmentResponse(a *model.Assessment) assessmentResponse {
	return assessmentResponse{
		ID:               a.ID,
		JobAutomation:    a.JobAutomation,
		Spending:         a.Spending,
		TaxEfficiency:    a.TaxEfficiency,
		IncomePercentile: a.IncomePercentile,
		Overall:          a.Overall,
		Grade:            a.Grade.String(),
		RecommendedTier:  a.RecommendedTier.String(),
		CreatedAt:        a.CreatedAt.Format(time.RFC3339),
	}
}

func (s *Server) handleRunAssessment(w http.ResponseWriter, r *http.Request) {
	id, err := accountIDParam(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	var req struct {
		Occupation      string `json:"occupation"`
		YearsExperience int    `json:"years_experience"`
		Education       string `json:"education"`

		MonthlyIncome   float64            `json:"monthly_income"`
		CategorySpend   map[string]float64 `json:"category_spend"`
		JointAccounts   bool               `json:"joint_accounts"`
		DisclosesBudget bool               `json:"discloses_budget"`

		FilingStatus           string  `json:"filing_status"`
		GrossIncome            float64 `json:"gross_income"`
		RetirementContribution float64 `json:"retirement_contribution"`
		DeductionsClaimed      float64 `json:"deductions_claimed"`

		Region string `json:"region"`
	}
	if err := decodeJSON(r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	filing := types.FilingStatus(req.FilingStatus)
	if !filing.IsValid() {
		errutil.HandleHTTP(r.Context(), w,
			goerr.New("invalid filing status", goerr.V("filing_status", req.FilingStatus)),
			http.StatusBadRequest)
		return
	}

	input := usecase.AssessmentInput{
		JobRisk: scoring.JobRiskInput{
			Occupation:      req.Occupation,
			YearsExperience: req.YearsExperience,
			Education:       req.Education,
		},
		Spending: scoring.SpendingInput{
			MonthlyIncome:   req.MonthlyIncome,
			CategorySpend:   req.CategorySpend,
			JointAccounts:   req.JointAccounts,
			DisclosesBudget: req.DisclosesBudget,
		},
		Tax: scoring.TaxInput{
			Filing:                 filing,
			GrossIncome:            req.GrossIncome,
			RetirementContribution: req.RetirementContribution,
			DeductionsClaimed:      req.DeductionsClaimed,
		},
		Income: scoring.IncomeInput{
			AnnualIncome: req.GrossIncome,
			Occupation:   req.Occupation,
			Region:       req.Region,
		},
	}

	start := time.Now()
	assessment, err := s.uc.Assessment.Run(r.Context(), id, input)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, notFoundStatus(err))
		return
	}
	metrics.RecordAssessment(time.Since(start).Seconds())

	writeJSON(r.Context(), w, http.StatusCreated, toAssessmentResponse(assessment))
}

func (s *Server) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	id, err := accountIDParam(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}
	assessments, err := s.uc.Assessment.History(r.Context(), id)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, notFoundStatus(err))
		return
	}
	resp := make([]assessmentResponse, len(assessments))
	for i, a := range assessments {
		resp[i] = toAssessmentResponse(a)
	}
	writeJSON(r.Context(), w, http.StatusOK, map[string]any{"assessments": resp})
}

func (s *Server) handleLatestAssessment(w http.ResponseWriter, r *http.Request) {
	id, err := accountIDParam(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}
	assessment, err := s.uc.Assessment.Latest(r.Context(), id)
	if err != nil {
		status := notFoundStatus(err)
		if errors.Is(err, usecase.ErrNoAssessment) {
			status = http.StatusNotFound
		}
		errutil.HandleHTTP(r.Context(), w, err, status)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toAssessmentResponse(assessment))
}

func (s *Server) handleListTiers(w http.ResponseWriter, r *http.Request) {
	type tierResponse struct {
		ID                string   `json:"id"`
		Name              string   `json:"name"`
		MonthlyPriceCents int      `json:"monthly_price_cents"`
		TrialDays         int      `json:"trial_days"`
		Features          []string `json:"features"`
	}

	resp := make([]tierResponse, len(s.tierConfig.Tiers))
	for i, tier := range s.tierConfig.Tiers {
		features := make([]string, len(tier.Features))
		for j, f := range tier.Features {
			features[j] = f.String()
		}
		resp[i] = tierResponse{
			ID:                tier.ID.String(),
			Name:              tier.Name,
			MonthlyPriceCents: tier.MonthlyPriceCents,
			TrialDays:         tier.TrialDays,
			Features:          features,
		}
	}
	writeJSON(r.Context(), w, http.StatusOK, map[string]any{"tiers": resp})
}

func (s *Server) handleListDeliveries(w http.ResponseWriter, r *http.Request) {
	deliveries, err := s.uc.Webhook.ListDeliveries(r.Context())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}
	resp := make([]deliveryResponse, len(deliveries))
	for i, d := range deliveries {
		resp[i] = toDeliveryResponse(d)
	}
	writeJSON(r.Context(), w, http.StatusOK, map[string]any{"deliveries": resp})
}

func (s *Server) handleGetDelivery(w http.ResponseWriter, r *http.Request) {
	delivery, err := s.uc.Webhook.GetDelivery(r.Context(), chi.URLParam(r, "deliveryID"))
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, notFoundStatus(err))
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toDeliveryResponse(delivery))
}
