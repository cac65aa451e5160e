package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInBand(t *testing.T) {
	p := Property{BasePrice: 200000, MaxPrice: 250000}

	assert.False(t, p.InBand(180000))
	assert.True(t, p.InBand(200000))
	assert.True(t, p.InBand(220000))
	assert.True(t, p.InBand(250000))
	assert.False(t, p.InBand(250001))
}

func TestValidDecision(t *testing.T) {
	assert.True(t, ValidDecision(VerificationApproved))
	assert.True(t, ValidDecision(VerificationRejected))
	assert.False(t, ValidDecision(VerificationPending))
	assert.False(t, ValidDecision("verified"))
}

func TestRoleGateGrants(t *testing.T) {
	grants := func(role Role) (bool, bool, bool, bool) {
		cap := RoleGate(Identity{Role: role})
		return cap.CanListProperties(), cap.CanModerate(), cap.CanOffer(), cap.CanReview()
	}

	list, mod, offer, review := grants(RoleUser)
	assert.False(t, list)
	assert.False(t, mod)
	assert.True(t, offer)
	assert.True(t, review)

	list, mod, offer, review = grants(RoleAgent)
	assert.True(t, list)
	assert.False(t, mod)
	assert.False(t, offer)
	assert.True(t, review)

	list, mod, offer, review = grants(RoleAdmin)
	assert.False(t, list)
	assert.True(t, mod)
	assert.False(t, offer)
	assert.True(t, review)

	list, mod, offer, review = grants(RoleFraud)
	assert.False(t, list)
	assert.False(t, mod)
	assert.False(t, offer)
	assert.False(t, review)
}
