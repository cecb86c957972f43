package statistics

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/VoiceAsService/VoxGate/app/models"
	"github.com/VoiceAsService/VoxGate/internal/pkg/cache"
	"github.com/VoiceAsService/VoxGate/internal/pkg/database"
)

const (
	CacheKeyUsersTotal          = "statistics:users:total"
	CacheKeySubscriptionsActive = "statistics:subscriptions:active"
	CacheKeyCreditsTotal        = "statistics:credits:total"
	CacheExpiration             = 30 * time.Minute
)

// ProviderUsage is the per-configuration usage line of the statistics report.
type ProviderUsage struct {
	ConfigID    uint   `json:"config_id"`
	Provider    string `json:"provider"`
	ModelName   string `json:"model_name"`
	Active      bool   `json:"active"`
	CreditsUsed int64  `json:"credits_used"`
}

// UsageReport aggregates platform-wide usage numbers for the admin dashboard.
type UsageReport struct {
	TotalUsers          int64           `json:"total_users"`
	ActiveSubscriptions int64           `json:"active_subscriptions"`
	TotalCreditsUsed    int64           `json:"total_credits_used"`
	Providers           []ProviderUsage `json:"providers"`
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache reports whether the cached counters are due for a refresh
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the cached counters when the interval elapsed.
// Check and refresh happen under one lock acquisition so concurrent callers
// cannot both recompute.
func UpdateCacheIfNeeded() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	if time.Since(lastCacheUpdate) <= cacheUpdateInterval {
		return
	}

	if err := UpdateStatisticsCache(); err != nil {
		log.Printf("Error updating statistics cache: %v", err)
	} else {
		lastCacheUpdate = time.Now()
	}
}

// UpdateStatisticsCache recomputes the platform counters and stores them in
// the cache
func UpdateStatisticsCache() error {
	db := database.GetDB()

	var totalUsers int64
	if err := db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		log.Printf("Error counting total users: %v", err)
		return err
	}

	var activeSubs int64
	if err := db.Model(&models.UserSubscription{}).Where("is_active = ?", true).Count(&activeSubs).Error; err != nil {
		log.Printf("Error counting active subscriptions: %v", err)
		return err
	}

	var totalCredits int64
	if err := db.Model(&models.ProviderConfig{}).
		Select("COALESCE(SUM(credits_used), 0)").
		Scan(&totalCredits).Error; err != nil {
		log.Printf("Error summing provider credits: %v", err)
		return err
	}

	if err := cache.Set(CacheKeyUsersTotal, strconv.FormatInt(totalUsers, 10), CacheExpiration); err != nil {
		log.Printf("Error caching total users: %v", err)
		return err
	}
	if err := cache.Set(CacheKeySubscriptionsActive, strconv.FormatInt(activeSubs, 10), CacheExpiration); err != nil {
		log.Printf("Error caching active subscriptions: %v", err)
		return err
	}
	if err := cache.Set(CacheKeyCreditsTotal, strconv.FormatInt(totalCredits, 10), CacheExpiration); err != nil {
		log.Printf("Error caching total credits: %v", err)
		return err
	}

	return nil
}

// cachedInt64 resolves a counter from the cache, falling back to the loader
// and repopulating the cache on a miss.
func cachedInt64(key string, load func() (int64, error)) int64 {
	val, err := cache.Get(key)
	if err == nil {
		if count, parseErr := strconv.ParseInt(val, 10, 64); parseErr == nil {
			return count
		}
	}

	count, err := load()
	if err != nil {
		log.Printf("Error loading statistic %s: %v", key, err)
		return 0
	}
	if err := cache.Set(key, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
		log.Printf("Error caching statistic %s: %v", key, err)
	}
	return count
}

// BuildUsageReport assembles the full report. The per-provider breakdown is
// always read fresh; only the scalar counters go through the cache.
func BuildUsageReport() (*UsageReport, error) {
	db := database.GetDB()

	var configs []models.ProviderConfig
	if err := db.Order("id").Find(&configs).Error; err != nil {
		return nil, err
	}

	providers := make([]ProviderUsage, 0, len(configs))
	var totalCredits int64
	for _, c := range configs {
		providers = append(providers, ProviderUsage{
			ConfigID:    c.ID,
			Provider:    c.Provider,
			ModelName:   c.ModelName,
			Active:      c.Active,
			CreditsUsed: c.CreditsUsed,
		})
		totalCredits += c.CreditsUsed
	}

	totalUsers := cachedInt64(CacheKeyUsersTotal, func() (int64, error) {
		var n int64
		err := db.Model(&models.User{}).Count(&n).Error
		return n, err
	})
	activeSubs := cachedInt64(CacheKeySubscriptionsActive, func() (int64, error) {
		var n int64
		err := db.Model(&models.UserSubscription{}).Where("is_active = ?", true).Count(&n).Error
		return n, err
	})

	return &UsageReport{
		TotalUsers:          totalUsers,
		ActiveSubscriptions: activeSubs,
		TotalCreditsUsed:    totalCredits,
		Providers:           providers,
	}, nil
}
