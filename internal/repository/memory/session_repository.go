package memory

import (
	"time"

	"finverse-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository holds chat surface sessions in memory. Sessions expire
// with inactivity; there is no persistence beyond the active session.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Default expiration of 1 hour, expired entries purged every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(surfaceID string) (*store.Session, bool) {
	if x, found := r.cache.Get(surfaceID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(surfaceID string) {
	r.cache.Delete(surfaceID)
}
