// Package remote contains the typed client services. Each one shapes gateway
// calls for one entity into named operations acting on behalf of a session.
package remote

import (
	"github.com/fitpass-app/fitpass/internal/domain/session"
	"github.com/fitpass-app/fitpass/internal/infrastructure/supabase"
)

// Table, bucket and procedure names of the backend contract.
const (
	TableAcademies       = "academies"
	TableCheckins        = "checkins"
	TableCompetitions    = "competitions"
	TableParticipants    = "competition_participants"
	TableProfiles        = "profiles"
	TableReviews         = "reviews"
	BucketAvatars        = "avatars"
	RPCValidateCheckin   = "validate_checkin"
	RPCUpdateRankings    = "update_competition_rankings"
	RPCReferralCode      = "get_or_create_referral_code"
	RPCCreateInvite      = "create_family_invite"
	RPCAcceptInvite      = "accept_family_invite"
	RPCAdvanceOnboarding = "advance_user_onboarding"
)

// as returns a client authenticated as sess.
func as(c *supabase.Client, sess *session.Session) (*supabase.Client, error) {
	if sess.UserID() == "" || sess.AccessToken == "" {
		return nil, session.ErrNoSession
	}
	return c.WithToken(sess.AccessToken), nil
}

// apiMessage returns the backend's message for structured errors and the
// full error text otherwise.
func apiMessage(err error) string {
	if apiErr, ok := supabase.AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
