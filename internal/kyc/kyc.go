package kyc

import (
	"errors"
	"fmt"

	"github.com/thoas/go-funk"

	"foodcourt/internal/backend"
	"foodcourt/internal/constants"
)

// ErrForbidden is returned when a non-system token touches review operations.
var ErrForbidden = errors.New("kyc review requires the system role")

// EnsureReviewer resolves the caller's profile and checks the system role.
func EnsureReviewer(token string) (*backend.VendorProfile, error) {
	str, err := backend.Profile(constants.VendorSelf, token)
	if err != nil {
		return nil, fmt.Errorf("resolve caller profile: %w", err)
	}
	profile, err := backend.ParseProfile(str)
	if err != nil {
		return nil, err
	}
	if profile.Role != constants.RoleSystem {
		return nil, ErrForbidden
	}
	return profile, nil
}

// List returns submissions in the given state, defaulting to pending.
func List(state, token string) ([]backend.KycSubmission, error) {
	if _, err := EnsureReviewer(token); err != nil {
		return nil, err
	}
	if state == "" {
		state = constants.KycStatePending
	}
	if !funk.ContainsString(constants.ValidKycStates, state) {
		return nil, fmt.Errorf("unknown kyc state '%s'", state)
	}
	str, err := backend.KycList(state, token)
	if err != nil {
		return nil, err
	}
	return backend.ParseKycList(str)
}

// Detail returns one submission with its document metadata.
func Detail(submissionID, token string) (*backend.KycSubmission, error) {
	if _, err := EnsureReviewer(token); err != nil {
		return nil, err
	}
	if submissionID == "" {
		return nil, fmt.Errorf("submission id is empty")
	}
	str, err := backend.KycDetail(submissionID, token)
	if err != nil {
		return nil, err
	}
	return backend.ParseKycSubmission(str)
}

// Review approves or rejects a submission. Rejections carry a remark so the
// vendor knows what to fix.
func Review(submissionID, decision, remark, token string) (*backend.KycSubmission, error) {
	if _, err := EnsureReviewer(token); err != nil {
		return nil, err
	}
	if submissionID == "" {
		return nil, fmt.Errorf("submission id is empty")
	}
	if decision != constants.KycStateApproved && decision != constants.KycStateRejected {
		return nil, fmt.Errorf("decision must be %s or %s, got '%s'",
			constants.KycStateApproved, constants.KycStateRejected, decision)
	}
	if decision == constants.KycStateRejected && remark == "" {
		return nil, fmt.Errorf("a rejection needs a remark")
	}

	str, err := backend.SubmitKycReview(submissionID, token, &backend.KycReview{
		Decision: decision,
		Remark:   remark,
	})
	if err != nil {
		return nil, err
	}
	return backend.ParseKycSubmission(str)
}
