package entitlements

import (
	"sync"
	"testing"
	"time"

	"github.com/VoiceAsService/VoxGate/app/models"
	"github.com/VoiceAsService/VoxGate/internal/pkg/usercontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeSubscription(userID uint, characterCredits int, endsIn time.Duration) *models.UserSubscription {
	end := time.Now().Add(endsIn)
	return &models.UserSubscription{
		UserID:           userID,
		SubscriptionID:   1,
		EndDate:          &end,
		IsActive:         true,
		CharacterCredits: characterCredits,
		VoiceCredits:     5,
	}
}

func TestReserveCharacters(t *testing.T) {
	repo := newFakeEntitlementRepo()
	ledger := NewLedger(repo)
	require.NoError(t, repo.Create(activeSubscription(1, 100, time.Hour)))

	ok, reason, err := ledger.ReserveCharacters(1, 60)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, reason)
	assert.Equal(t, 40, repo.credits(1))

	ok, reason, err = ledger.ReserveCharacters(1, 60)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, ReasonInsufficientCredits, reason)
	assert.Equal(t, 40, repo.credits(1), "failed reservation must not mutate the balance")
}

func TestReserveCharactersNoSubscription(t *testing.T) {
	ledger := NewLedger(newFakeEntitlementRepo())

	ok, reason, err := ledger.ReserveCharacters(42, 10)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, ReasonNoSubscription, reason)
}

func TestReserveCharactersExpiredBeforeInsufficient(t *testing.T) {
	repo := newFakeEntitlementRepo()
	ledger := NewLedger(repo)
	// Expired with plenty of credits left: the reason must be expiry, not balance.
	require.NoError(t, repo.Create(activeSubscription(1, 1000, -time.Hour)))

	ok, reason, err := ledger.ReserveCharacters(1, 10)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, ReasonExpired, reason)
	assert.Equal(t, 1000, repo.credits(1))
}

func TestReserveCharactersConcurrent(t *testing.T) {
	repo := newFakeEntitlementRepo()
	ledger := NewLedger(repo)
	require.NoError(t, repo.Create(activeSubscription(1, 50, time.Hour)))

	const workers = 32
	var wg sync.WaitGroup
	successes := make(chan bool, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _, err := ledger.ReserveCharacters(1, 50)
			assert.NoError(t, err)
			successes <- ok
		}()
	}
	wg.Wait()
	close(successes)

	granted := 0
	for ok := range successes {
		if ok {
			granted++
		}
	}
	assert.Equal(t, 1, granted, "exactly one reservation may win the last credits")
	assert.Equal(t, 0, repo.credits(1), "balance ends at zero, never negative")
}

func TestGrantAndRevoke(t *testing.T) {
	repo := newFakeEntitlementRepo()
	ledger := NewLedger(repo)
	plan := &models.SubscriptionPlan{ID: 7, DurationDays: 30, CharacterLimit: 500, VoiceLimit: 3}

	sub, err := ledger.Grant(1, plan, "pay_123")
	require.NoError(t, err)
	assert.Equal(t, 500, sub.CharacterCredits)
	assert.Equal(t, 3, sub.VoiceCredits)
	require.NotNil(t, sub.EndDate)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), *sub.EndDate, time.Minute)

	_, err = ledger.Grant(1, plan, "pay_456")
	assert.ErrorIs(t, err, ErrAlreadySubscribed)

	ok, err := ledger.Revoke(1)
	require.NoError(t, err)
	assert.True(t, ok)

	// Revoked rows stay on record but no longer entitle.
	got, err := ledger.GetActiveEntitlement(1)
	require.NoError(t, err)
	assert.Nil(t, got)

	ok, err = ledger.Revoke(1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGrantConcurrentSingleWinner(t *testing.T) {
	repo := newFakeEntitlementRepo()
	ledger := NewLedger(repo)
	plan := &models.SubscriptionPlan{ID: 7, DurationDays: 30, CharacterLimit: 500, VoiceLimit: 3}

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.Grant(7, plan, "pay_once")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	granted := 0
	for err := range errs {
		if err == nil {
			granted++
		} else {
			assert.ErrorIs(t, err, ErrAlreadySubscribed)
		}
	}
	assert.Equal(t, 1, granted, "exactly one concurrent grant may create the active row")

	count, err := repo.CountActive()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAdmitPrivilegedBypass(t *testing.T) {
	ledger := NewLedger(newFakeEntitlementRepo())
	admission := NewAdmission(ledger)

	for _, role := range []string{models.ROLE_ADMIN, models.ROLE_SUB_ADMIN} {
		user := usercontext.UserContext{UserID: 99, Role: role, IsLoggedIn: true}
		// No entitlement row exists at all for this user.
		res, err := admission.Admit(user, 1_000_000)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "role %s must always be admitted", role)
	}
}

func TestAdmitDeniedReasons(t *testing.T) {
	repo := newFakeEntitlementRepo()
	admission := NewAdmission(NewLedger(repo))
	require.NoError(t, repo.Create(activeSubscription(1, 100, time.Hour)))

	tests := []struct {
		name   string
		userID uint
		count  int
		want   DenialReason
	}{
		{name: "insufficient credits", userID: 1, count: 150, want: ReasonInsufficientCredits},
		{name: "no subscription", userID: 2, count: 10, want: ReasonNoSubscription},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := usercontext.UserContext{UserID: tt.userID, Role: models.ROLE_USER, IsLoggedIn: true}
			res, err := admission.Admit(user, tt.count)
			require.NoError(t, err)
			assert.False(t, res.Allowed)
			assert.Equal(t, tt.want, res.Reason)
		})
	}

	assert.Equal(t, 100, repo.credits(1), "denied admission must leave the balance untouched")
}

func TestSpendVoiceCredits(t *testing.T) {
	repo := newFakeEntitlementRepo()
	ledger := NewLedger(repo)
	require.NoError(t, repo.Create(activeSubscription(1, 100, time.Hour)))

	ok, err := ledger.SpendVoiceCredits(1, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ledger.SpendVoiceCredits(1, 10)
	require.NoError(t, err)
	assert.False(t, ok, "voice balance exhausted, spend reports false without error")
}
