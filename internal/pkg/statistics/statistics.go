package statistics

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/khudpay/onboard/app/repository"
	"github.com/khudpay/onboard/internal/pkg/cache"
)

const (
	CacheKeyClientsTotal  = "statistics:clients:total"
	CacheKeyBranchesTotal = "statistics:branches:total"
	CacheKeyAPIsTotal     = "statistics:apis:total"
	CacheExpiration       = 30 * time.Minute
)

// StatisticsData holds the totals shown in the console header.
type StatisticsData struct {
	TotalClients  int
	TotalBranches int
	TotalAPIs     int
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache checks whether the cached totals are due for a refresh.
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the cached totals when they are stale.
func UpdateCacheIfNeeded() {
	if ShouldUpdateCache() {
		cacheUpdateMutex.Lock()
		defer cacheUpdateMutex.Unlock()

		if err := UpdateStatisticsCache(); err != nil {
			log.Printf("Error updating statistics cache: %v", err)
		} else {
			lastCacheUpdate = time.Now()
		}
	}
}

// ResetCacheUpdateTimer forces the next UpdateCacheIfNeeded to refresh.
func ResetCacheUpdateTimer() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	lastCacheUpdate = time.Time{}
}

// UpdateStatisticsCache recounts the collection and stores the totals in
// the cache.
func UpdateStatisticsCache() error {
	collection := repository.GetGlobalRepositories().Client.Load()

	totalClients := len(collection)
	totalBranches := 0
	totalAPIs := 0
	for _, client := range collection {
		totalBranches += len(client.Branches)
		for _, branch := range client.Branches {
			totalAPIs += len(branch.Apis)
		}
	}

	if err := cache.Set(CacheKeyClientsTotal, strconv.Itoa(totalClients), CacheExpiration); err != nil {
		log.Printf("Error caching total clients: %v", err)
		return err
	}
	if err := cache.Set(CacheKeyBranchesTotal, strconv.Itoa(totalBranches), CacheExpiration); err != nil {
		log.Printf("Error caching total branches: %v", err)
		return err
	}
	if err := cache.Set(CacheKeyAPIsTotal, strconv.Itoa(totalAPIs), CacheExpiration); err != nil {
		log.Printf("Error caching total APIs: %v", err)
		return err
	}

	return nil
}

func getCachedCount(key string) int {
	count, err := cache.GetInt(key)
	if err != nil {
		return 0
	}
	return count
}

// GetStatisticsData returns the console totals, refreshing the cache when
// needed.
func GetStatisticsData() StatisticsData {
	UpdateCacheIfNeeded()

	return StatisticsData{
		TotalClients:  getCachedCount(CacheKeyClientsTotal),
		TotalBranches: getCachedCount(CacheKeyBranchesTotal),
		TotalAPIs:     getCachedCount(CacheKeyAPIsTotal),
	}
}
