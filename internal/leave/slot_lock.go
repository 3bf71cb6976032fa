package leave

import "sync"

// slotLock menserialisasi admission per (shift, date). Submit untuk
// pasangan (shift, date) yang berbeda tidak pernah saling memblokir.
// Entry dihitung per pemegang dan dihapus saat pemegang terakhir unlock,
// jadi map tidak tumbuh seiring umur proses.
type slotLock struct {
	mu    sync.Mutex
	locks map[string]*slotEntry
}

type slotEntry struct {
	mu   sync.Mutex
	refs int
}

func newSlotLock() *slotLock {
	return &slotLock{locks: make(map[string]*slotEntry)}
}

// Lock mengambil mutex untuk key dan mengembalikan fungsi unlock yang
// harus dipanggil tepat satu kali.
func (s *slotLock) Lock(key string) func() {
	s.mu.Lock()
	e, exists := s.locks[key]
	if !exists {
		e = &slotEntry{}
		s.locks[key] = e
	}
	e.refs++
	s.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()

		s.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(s.locks, key)
		}
		s.mu.Unlock()
	}
}
