package kyc

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodcourt/internal/backend"
	"foodcourt/internal/constants"
)

func kycCoreServer(t *testing.T, role string, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/core/v1/vendors/me/profile" {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(&backend.VendorProfile{VendorID: "admin-1", Name: "Ops", Role: role})
			return
		}
		if handler == nil {
			http.NotFound(w, r)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	t.Setenv(constants.CoreHostEnv, u.Hostname())
	t.Setenv(constants.CorePortEnv, u.Port())
}

func TestListRequiresSystemRole(t *testing.T) {
	kycCoreServer(t, constants.RoleVendor, nil)

	_, err := List("", "vendor-token")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListDefaultsToPending(t *testing.T) {
	var gotState string
	kycCoreServer(t, constants.RoleSystem, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/core/v1/kyc/submissions", r.URL.Path)
		gotState = r.URL.Query().Get("state")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]backend.KycSubmission{
			{ID: "KYC1", VendorID: "vendor-7", VendorName: "Chaat Corner", State: "pending"},
		})
	})

	submissions, err := List("", "system-token")
	require.NoError(t, err)
	assert.Equal(t, constants.KycStatePending, gotState)
	require.Len(t, submissions, 1)
	assert.Equal(t, "KYC1", submissions[0].ID)
}

func TestListRejectsUnknownState(t *testing.T) {
	kycCoreServer(t, constants.RoleSystem, nil)

	_, err := List("weird", "system-token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kyc state")
}

func TestDetailFetchesDocuments(t *testing.T) {
	kycCoreServer(t, constants.RoleSystem, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/core/v1/kyc/submissions/KYC2", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(&backend.KycSubmission{
			ID:       "KYC2",
			VendorID: "vendor-7",
			State:    "pending",
			Documents: []backend.KycDocument{
				{Type: "pan", URL: "https://files.example/pan.pdf"},
				{Type: "fssai", URL: "https://files.example/fssai.pdf"},
			},
		})
	})

	submission, err := Detail("KYC2", "system-token")
	require.NoError(t, err)
	assert.Len(t, submission.Documents, 2)
}

func TestReviewApproves(t *testing.T) {
	var review backend.KycReview
	kycCoreServer(t, constants.RoleSystem, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/core/v1/kyc/submissions/KYC3/review", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&review))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(&backend.KycSubmission{ID: "KYC3", State: review.Decision})
	})

	submission, err := Review("KYC3", constants.KycStateApproved, "", "system-token")
	require.NoError(t, err)
	assert.Equal(t, constants.KycStateApproved, submission.State)
	assert.Equal(t, constants.KycStateApproved, review.Decision)
}

func TestReviewRejectionNeedsRemark(t *testing.T) {
	var hits int64
	kycCoreServer(t, constants.RoleSystem, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(&backend.KycSubmission{ID: "KYC4", State: constants.KycStateRejected})
	})

	_, err := Review("KYC4", constants.KycStateRejected, "", "system-token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remark")
	assert.Equal(t, int64(0), atomic.LoadInt64(&hits), "no review call goes out")

	submission, err := Review("KYC4", constants.KycStateRejected, "GSTIN photo unreadable", "system-token")
	require.NoError(t, err)
	assert.Equal(t, constants.KycStateRejected, submission.State)
}

func TestReviewRejectsBadDecision(t *testing.T) {
	kycCoreServer(t, constants.RoleSystem, nil)

	_, err := Review("KYC5", "maybe", "", "system-token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decision must be")
}
