package bloom

import (
	"hash/fnv"
	"math"
	"sync"
)

// Filter is an in-process bloom filter. The submission sink falls back to it
// for duplicate client-sale-id checks when Redis is not configured.
type Filter struct {
	bitset    []bool
	size      uint
	hashCount uint
	mutex     sync.RWMutex
}

func NewFilter(size, hashCount uint) *Filter {
	return &Filter{
		bitset:    make([]bool, size),
		size:      size,
		hashCount: hashCount,
	}
}

func NewFilterWithExpectedItems(expectedItems uint, falsePositiveProb float64) *Filter {
	size := optimalSize(expectedItems, falsePositiveProb)
	hashCount := optimalHashCount(size, expectedItems)

	return NewFilter(size, hashCount)
}

func (f *Filter) Add(item string) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	for i := uint(0); i < f.hashCount; i++ {
		position := f.hash(item, i)
		f.bitset[position] = true
	}
}

func (f *Filter) Contains(item string) bool {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	for i := uint(0); i < f.hashCount; i++ {
		position := f.hash(item, i)
		if !f.bitset[position] {
			return false
		}
	}

	return true
}

func (f *Filter) Clear() {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.bitset = make([]bool, f.size)
}

func (f *Filter) hash(item string, seed uint) uint {
	h := fnv.New64a()
	h.Write([]byte(item))
	h.Write([]byte{byte(seed)})
	return uint(h.Sum64() % uint64(f.size))
}

func optimalSize(expectedItems uint, falsePositiveProb float64) uint {
	return uint(math.Ceil(-float64(expectedItems) * math.Log(falsePositiveProb) / math.Pow(math.Log(2), 2)))
}

func optimalHashCount(size, expectedItems uint) uint {
	return uint(math.Max(1, math.Round(float64(size)/float64(expectedItems)*math.Log(2))))
}
