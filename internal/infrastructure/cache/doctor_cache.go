package cache

import (
	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DoctorCache keeps recently read doctors in memory. Doctors are never
// updated after admission, so entries need no invalidation.
// A nil *DoctorCache is a cache that always misses.
type DoctorCache struct {
	cache *lru.Cache[uuid.UUID, entity.Doctor]
}

// NewDoctorCache returns nil when size is not positive (cache disabled).
func NewDoctorCache(size int) (*DoctorCache, error) {
	if size <= 0 {
		return nil, nil
	}
	c, err := lru.New[uuid.UUID, entity.Doctor](size)
	if err != nil {
		return nil, err
	}
	return &DoctorCache{cache: c}, nil
}

func (c *DoctorCache) Get(id uuid.UUID) (*entity.Doctor, bool) {
	if c == nil {
		return nil, false
	}
	doctor, ok := c.cache.Get(id)
	if !ok {
		return nil, false
	}
	return &doctor, true
}

func (c *DoctorCache) Add(doctor *entity.Doctor) {
	if c == nil || doctor == nil {
		return
	}
	c.cache.Add(doctor.ID, *doctor)
}

func (c *DoctorCache) Len() int {
	if c == nil {
		return 0
	}
	return c.cache.Len()
}
