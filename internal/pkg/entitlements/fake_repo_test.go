package entitlements

import (
	"sync"
	"time"

	"github.com/VoiceAsService/VoxGate/app/models"
	"gorm.io/gorm"
)

// fakeEntitlementRepo is an in-memory EntitlementRepository. Its conditional
// operations hold a mutex for the whole check-and-mutate, mirroring the
// atomicity the SQL layer provides with single UPDATE statements.
type fakeEntitlementRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*models.UserSubscription // keyed by row ID
}

func newFakeEntitlementRepo() *fakeEntitlementRepo {
	return &fakeEntitlementRepo{nextID: 1, rows: make(map[uint]*models.UserSubscription)}
}

func (f *fakeEntitlementRepo) activeRow(userID uint) *models.UserSubscription {
	for _, row := range f.rows {
		if row.UserID == userID && row.IsActive {
			return row
		}
	}
	return nil
}

func (f *fakeEntitlementRepo) GetActiveByUserID(userID uint) (*models.UserSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row := f.activeRow(userID); row != nil {
		copied := *row
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEntitlementRepo) HasActive(userID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.activeRow(userID) != nil, nil
}

func (f *fakeEntitlementRepo) Create(sub *models.UserSubscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub.ID = f.nextID
	f.nextID++
	copied := *sub
	f.rows[sub.ID] = &copied
	return nil
}

func (f *fakeEntitlementRepo) CreateIfNoneActive(sub *models.UserSubscription) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.activeRow(sub.UserID) != nil {
		return false, nil
	}
	sub.ID = f.nextID
	f.nextID++
	copied := *sub
	f.rows[sub.ID] = &copied
	return true, nil
}

func (f *fakeEntitlementRepo) Deactivate(userID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row := f.activeRow(userID); row != nil {
		row.IsActive = false
		return true, nil
	}
	return false, nil
}

func (f *fakeEntitlementRepo) ReserveCharacters(userID uint, amount int, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row := f.activeRow(userID)
	if row == nil || row.IsExpired(now) || row.CharacterCredits < amount {
		return false, nil
	}
	row.CharacterCredits -= amount
	return true, nil
}

func (f *fakeEntitlementRepo) SpendVoiceCredits(userID uint, amount int, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row := f.activeRow(userID)
	if row == nil || row.IsExpired(now) || row.VoiceCredits < amount {
		return false, nil
	}
	row.VoiceCredits -= amount
	return true, nil
}

func (f *fakeEntitlementRepo) CountActive() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, row := range f.rows {
		if row.IsActive {
			count++
		}
	}
	return count, nil
}

func (f *fakeEntitlementRepo) credits(userID uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row := f.activeRow(userID); row != nil {
		return row.CharacterCredits
	}
	return 0
}
