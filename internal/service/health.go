package service

import (
	"sync/atomic"

	"scoreboard/internal/registry"
)

type HealthService struct {
	live  atomic.Bool
	ready atomic.Bool
	store *registry.Store
}

func NewHealthService(store *registry.Store) *HealthService {
	s := &HealthService{store: store}
	s.live.Store(true)
	s.ready.Store(false) // 啟動完成後再打開
	return s
}

func (s *HealthService) SetReady(v bool) {
	s.ready.Store(v)
}

func (s *HealthService) IsLive() bool {
	return s.live.Load()
}

func (s *HealthService) IsReady() bool {
	return s.ready.Load()
}

// Stats 回傳 registry 筆數；store 未注入時為 0
func (s *HealthService) Stats() (users int, blacklisted int) {
	if s.store == nil {
		return 0, 0
	}
	return s.store.Stats()
}
