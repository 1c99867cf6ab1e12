package sharded

import (
	"hash/crc32"
	"sort"
	"strconv"
	"sync"
)

// Ring реализует consistent hashing с виртуальными нодами.
type Ring struct {
	replicas int
	hashes   []uint32          // отсортированные хэши
	owners   map[uint32]string // хэш -> имя шарда
	mu       sync.RWMutex
}

func NewRing(replicas int) *Ring {
	if replicas < 1 {
		replicas = 1
	}
	return &Ring{
		replicas: replicas,
		owners:   make(map[uint32]string),
	}
}

func (r *Ring) Add(shard string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 0; i < r.replicas; i++ {
		h := crc32.ChecksumIEEE([]byte(shard + "#" + strconv.Itoa(i)))
		if _, taken := r.owners[h]; taken {
			continue
		}
		r.hashes = append(r.hashes, h)
		r.owners[h] = shard
	}
	sort.Slice(r.hashes, func(i, j int) bool { return r.hashes[i] < r.hashes[j] })
}

func (r *Ring) Remove(shard string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.hashes[:0]
	for _, h := range r.hashes {
		if r.owners[h] != shard {
			kept = append(kept, h)
		} else {
			delete(r.owners, h)
		}
	}
	r.hashes = kept
}

// Owner returns the shard responsible for routing key, false on an empty
// ring.
func (r *Ring) Owner(routing []byte) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.hashes) == 0 {
		return "", false
	}

	h := crc32.ChecksumIEEE(routing)
	idx := sort.Search(len(r.hashes), func(i int) bool { return r.hashes[i] >= h })
	if idx == len(r.hashes) {
		idx = 0
	}
	return r.owners[r.hashes[idx]], true
}

// Shards returns the distinct shard names, sorted.
func (r *Ring) Shards() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]struct{}{}
	var out []string
	for _, name := range r.owners {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
