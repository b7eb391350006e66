package registry

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrMissingIdentity 代表 patch 沒有 id / account / phoneNumber 任一值
var ErrMissingIdentity = errors.New("user record has no id, account or phone number")

// Store 為使用者 registry：主表 + 次索引 + 黑名單。
// 所有公開方法都持有同一把鎖執行到底，每次異動後整包寫回 Persister。
type Store struct {
	mu sync.Mutex

	logger     *zap.Logger
	persister  Persister
	storageKey string
	now        func() time.Time

	records   map[string]*UserRecord
	order     []string
	index     *secondaryIndex
	blacklist map[string]struct{}
	blackList []string // 黑名單加入順序，export 時沿用
}

type Option func(*Store)

// WithClock 替換取得目前時間的函式（測試用）
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithStorageKey 替換 snapshot key，預設為 StorageKey
func WithStorageKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.storageKey = key
		}
	}
}

func NewStore(persister Persister, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		logger:     logger.Named("registry"),
		persister:  persister,
		storageKey: StorageKey,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resetLocked()
	return s
}

// Init 從 Persister 載入 snapshot。
// 找不到資料或解析失敗都視為空 registry，只記錄 log 不回傳錯誤。
func (s *Store) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
	if s.persister == nil {
		return nil
	}

	raw, err := s.persister.Load(ctx, s.storageKey)
	switch {
	case errors.Is(err, ErrSnapshotNotFound):
		s.logger.Info("no registry snapshot found, starting empty", zap.String("key", s.storageKey))
		return nil
	case err != nil:
		s.logger.Error("load registry snapshot failed", zap.String("key", s.storageKey), zap.Error(err))
		return nil
	case len(raw) == 0:
		return nil
	}

	snap, err := decodeSnapshot(raw)
	if err != nil {
		s.logger.Error("parse registry snapshot failed, starting empty", zap.String("key", s.storageKey), zap.Error(err))
		return nil
	}

	for _, key := range snap.Blacklist {
		s.addBlacklistLocked(key)
	}
	for _, e := range snap.Users {
		if e.Record == nil || e.Key == "" {
			continue
		}
		rec := e.Record.Clone()
		rec.ID = e.Key
		if rec.ExamData == nil {
			rec.ExamData = []json.RawMessage{}
		}
		if rec.IsBlacklisted {
			s.addBlacklistLocked(rec.ID)
		}
		s.insertLocked(rec)
	}
	s.syncFlagsLocked()

	s.logger.Info("registry snapshot loaded",
		zap.Int("users", len(s.order)),
		zap.Int("blacklisted", len(s.blackList)),
	)
	return nil
}

// Close 做最後一次寫回
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persister == nil {
		return nil
	}
	data, err := json.Marshal(s.snapshotLocked())
	if err != nil {
		return err
	}
	return s.persister.Save(context.WithoutCancel(ctx), s.storageKey, data)
}

// Upsert 新增或合併使用者資料。
// 先以 id 對應既有主鍵，再以 account / phoneNumber 透過次索引對應；
// 合併時沿用既有主鍵，loginTime 一律更新為現在。
func (s *Store) Upsert(ctx context.Context, patch UserPatch) (UserRecord, error) {
	key := patch.key()
	if key == "" {
		s.logger.Warn("upsert skipped: missing identity")
		return UserRecord{}, ErrMissingIdentity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var rec *UserRecord
	if existingKey, ok := s.resolveLocked(deref(patch.ID), deref(patch.Account), deref(patch.PhoneNumber)); ok {
		rec = s.records[existingKey]
		s.index.remove(*rec)
		mergeInto(rec, patch, now)
		s.index.add(*rec)
	} else {
		created := newRecord(key, patch, now)
		s.insertLocked(created)
		rec = s.records[key]
	}
	_, rec.IsBlacklisted = s.blacklist[rec.ID]

	s.flushLocked(ctx)
	return rec.Clone(), nil
}

// SetBlacklisted 調整黑名單；record 不存在時只異動黑名單集合。回傳 record 是否存在。
func (s *Store) SetBlacklisted(ctx context.Context, key string, blacklisted bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if blacklisted {
		s.addBlacklistLocked(key)
	} else {
		s.removeBlacklistLocked(key)
	}
	rec, ok := s.records[key]
	if ok {
		rec.IsBlacklisted = blacklisted
	}
	s.flushLocked(ctx)
	return ok
}

// IsBlacklisted 以主鍵判斷，找不到時再透過 account / phoneNumber 對應
func (s *Store) IsBlacklisted(identifier string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if identifier == "" {
		return false
	}
	if _, ok := s.blacklist[identifier]; ok {
		return true
	}
	if key, ok := s.index.lookup(identifier); ok {
		_, listed := s.blacklist[key]
		return listed
	}
	return false
}

// Delete 移除 record 並清除其黑名單狀態。回傳 record 是否存在。
func (s *Store) Delete(ctx context.Context, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	existed := s.removeLocked(key)
	s.removeBlacklistLocked(key)
	s.flushLocked(ctx)
	return existed
}

// ListAll 依加入順序回傳所有 record
func (s *Store) ListAll() []UserRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]UserRecord, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.records[key].Clone())
	}
	return out
}

func (s *Store) ListBlacklisted() []UserRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]UserRecord, 0, len(s.blackList))
	for _, key := range s.order {
		if rec := s.records[key]; rec.IsBlacklisted {
			out = append(out, rec.Clone())
		}
	}
	return out
}

func (s *Store) Get(key string) (UserRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return UserRecord{}, false
	}
	return rec.Clone(), true
}

// SaveExamData 覆寫既有 record 的考試清單；record 不存在時不做事
func (s *Store) SaveExamData(ctx context.Context, key string, exams []json.RawMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return false
	}
	if exams == nil {
		exams = []json.RawMessage{}
	}
	rec.ExamData = exams
	s.flushLocked(ctx)
	return true
}

// Clear 清空所有 record 與黑名單
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
	s.flushLocked(ctx)
}

// Stats 回傳 record 數與黑名單數
func (s *Store) Stats() (users int, blacklisted int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range s.order {
		if s.records[key].IsBlacklisted {
			blacklisted++
		}
	}
	return len(s.order), blacklisted
}

// ---- internal (caller holds s.mu) ----

func (s *Store) resetLocked() {
	s.records = make(map[string]*UserRecord)
	s.order = nil
	s.index = newSecondaryIndex()
	s.blacklist = make(map[string]struct{})
	s.blackList = nil
}

func (s *Store) resolveLocked(id, account, phone string) (string, bool) {
	if id != "" {
		if _, ok := s.records[id]; ok {
			return id, true
		}
	}
	if key, ok := s.index.lookup(account); ok {
		return key, true
	}
	if key, ok := s.index.lookup(phone); ok {
		return key, true
	}
	if id != "" {
		return s.index.lookup(id)
	}
	return "", false
}

func (s *Store) insertLocked(rec UserRecord) {
	if old, ok := s.records[rec.ID]; ok {
		s.index.remove(*old)
	} else {
		s.order = append(s.order, rec.ID)
	}
	r := rec
	s.records[rec.ID] = &r
	s.index.add(r)
}

func (s *Store) removeLocked(key string) bool {
	rec, ok := s.records[key]
	if !ok {
		return false
	}
	s.index.remove(*rec)
	delete(s.records, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *Store) addBlacklistLocked(key string) {
	if key == "" {
		return
	}
	if _, ok := s.blacklist[key]; ok {
		return
	}
	s.blacklist[key] = struct{}{}
	s.blackList = append(s.blackList, key)
}

func (s *Store) removeBlacklistLocked(key string) {
	if _, ok := s.blacklist[key]; !ok {
		return
	}
	delete(s.blacklist, key)
	for i, k := range s.blackList {
		if k == key {
			s.blackList = append(s.blackList[:i], s.blackList[i+1:]...)
			break
		}
	}
}

// syncFlagsLocked 讓每筆 record 的 flag 與黑名單集合一致
func (s *Store) syncFlagsLocked() {
	for _, rec := range s.records {
		_, rec.IsBlacklisted = s.blacklist[rec.ID]
	}
}

func (s *Store) snapshotLocked() snapshot {
	snap := snapshot{
		Users:     make([]entry, 0, len(s.order)),
		Blacklist: append([]string{}, s.blackList...),
	}
	for _, key := range s.order {
		rec := s.records[key].Clone()
		snap.Users = append(snap.Users, entry{Key: key, Record: &rec})
	}
	return snap
}

// flushLocked 整包寫回；失敗只記 log，不影響記憶體中的結果
func (s *Store) flushLocked(ctx context.Context) {
	if s.persister == nil {
		return
	}
	data, err := json.Marshal(s.snapshotLocked())
	if err != nil {
		s.logger.Error("encode registry snapshot failed", zap.Error(err))
		return
	}
	if err := s.persister.Save(context.WithoutCancel(ctx), s.storageKey, data); err != nil {
		s.logger.Error("persist registry snapshot failed",
			zap.String("key", s.storageKey),
			zap.Int("bytes", len(data)),
			zap.Error(err),
		)
	}
}
