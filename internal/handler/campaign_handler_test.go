package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hetansh2220/hoperise/internal/cache"
	"github.com/hetansh2220/hoperise/internal/ledger"
	"github.com/hetansh2220/hoperise/internal/model"
)

var testCampaign = solana.MustPublicKeyFromBase58("4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T")

// stubLedger 只读账本替身
type stubLedger struct {
	campaigns map[solana.PublicKey]model.Campaign
}

func (s *stubLedger) FetchCampaign(_ context.Context, address solana.PublicKey) (*model.Campaign, error) {
	c, ok := s.campaigns[address]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return &c, nil
}

func (s *stubLedger) FetchAllCampaigns(_ context.Context) ([]model.Campaign, error) {
	out := make([]model.Campaign, 0, len(s.campaigns))
	for _, c := range s.campaigns {
		out = append(out, c)
	}
	return out, nil
}

func (s *stubLedger) FetchMilestones(_ context.Context, _ solana.PublicKey) ([]model.Milestone, error) {
	return nil, nil
}

func (s *stubLedger) FetchContributions(_ context.Context, _ solana.PublicKey) ([]model.Contribution, error) {
	return nil, nil
}

func (s *stubLedger) FetchContribution(_ context.Context, _, _ solana.PublicKey) (*model.Contribution, error) {
	return nil, ledger.ErrNotFound
}

// passthroughResolver 测试里不替换引用
type passthroughResolver struct{}

func (passthroughResolver) Resolve(ref string) string { return ref }

func newTestRouter(t *testing.T, stub *stubLedger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	windows := cache.Windows{
		CampaignFresh: time.Minute, CampaignRetain: 2 * time.Minute,
		MilestoneFresh: time.Minute, MilestoneRetain: 2 * time.Minute,
		ContributionFresh: time.Minute, ContributionRetain: 2 * time.Minute,
	}
	store, err := cache.NewStore(stub, windows, 1)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	h := NewCampaignHandler(store, passthroughResolver{})
	r := gin.New()
	r.GET("/campaigns", h.GetCampaigns)
	r.GET("/campaigns/:address", h.GetCampaign)
	r.GET("/stats", h.GetStats)
	return r
}

func doRequest(r *gin.Engine, method, path string) (*httptest.ResponseRecorder, Response) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)

	var resp Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestGetCampaignView(t *testing.T) {
	stub := &stubLedger{campaigns: map[solana.PublicKey]model.Campaign{
		testCampaign: {
			Address:      testCampaign,
			Title:        "Clean Water for All",
			Category:     model.CategoryHealthcare,
			FundingGoal:  60_000_000000,
			AmountRaised: 45_000_000000,
			IsActive:     true,
		},
	}}
	r := newTestRouter(t, stub)

	w, resp := doRequest(r, http.MethodGet, "/campaigns/"+testCampaign.String())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	view := data["campaign"].(map[string]interface{})
	assert.Equal(t, "Clean Water for All", view["title"])
	assert.Equal(t, "Healthcare", view["category"])
	// 金额以展示值字符串输出，进度为派生字段
	assert.Equal(t, "60000", view["fundingGoal"])
	assert.Equal(t, "45000", view["amountRaised"])
	assert.InDelta(t, 75.0, view["progressPercent"].(float64), 1e-9)
}

func TestGetCampaignNotFound(t *testing.T) {
	r := newTestRouter(t, &stubLedger{campaigns: map[solana.PublicKey]model.Campaign{}})

	w, resp := doRequest(r, http.MethodGet, "/campaigns/"+testCampaign.String())
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, resp.Success)
}

func TestGetCampaignBadAddress(t *testing.T) {
	r := newTestRouter(t, &stubLedger{campaigns: map[solana.PublicKey]model.Campaign{}})

	w, resp := doRequest(r, http.MethodGet, "/campaigns/not-base58!!")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)
}

func TestGetCampaignsList(t *testing.T) {
	stub := &stubLedger{campaigns: map[solana.PublicKey]model.Campaign{
		testCampaign: {Address: testCampaign, Title: "Only One", FundingGoal: 1_000000},
	}}
	r := newTestRouter(t, stub)

	w, resp := doRequest(r, http.MethodGet, "/campaigns")
	assert.Equal(t, http.StatusOK, w.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["total"])
}

func TestMutationErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
	}{
		{ledger.ErrNoSigner, http.StatusServiceUnavailable},
		{ledger.ErrNotFound, http.StatusNotFound},
		{&ledger.SubmissionError{Code: 6006}, http.StatusUnprocessableEntity},
		{&ledger.SubmissionError{}, http.StatusBadGateway},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		mutationErrorResponse(c, tc.err)
		assert.Equal(t, tc.status, w.Code)
	}
}
