package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	ExportVersion = "1.0"

	exportFilePrefix = "user_data_"
)

// ImportResult 為匯入結果；失敗時 ImportedCount 固定為 0
type ImportResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ImportedCount int    `json:"importedCount"`
}

// ExportFileName 回傳下載用檔名 user_data_<YYYY-MM-DD>.json
func ExportFileName(t time.Time) string {
	return exportFilePrefix + t.Format("2006-01-02") + ".json"
}

// snapshot 為持久層格式 {users:[[key,record]...], blacklist:[...]}
type snapshot struct {
	Users     []entry  `json:"users"`
	Blacklist []string `json:"blacklist"`
}

// exportDocument 為匯出檔格式
type exportDocument struct {
	Users      []entry  `json:"users"`
	Blacklist  []string `json:"blacklist"`
	ExportTime string   `json:"exportTime"`
	Version    string   `json:"version"`
}

// entry 以 [key, record] 二元陣列序列化；record 為 null 時 Record 為 nil
type entry struct {
	Key    string
	Record *UserRecord
}

func (e entry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Key, e.Record})
}

func (e *entry) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("entry is not a [key, record] pair: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("entry has %d elements, want 2", len(pair))
	}
	if err := json.Unmarshal(pair[0], &e.Key); err != nil {
		return fmt.Errorf("entry key is not a string: %w", err)
	}
	raw := bytes.TrimSpace(pair[1])
	if bytes.Equal(raw, []byte("null")) {
		e.Record = nil
		return nil
	}
	if len(raw) == 0 || raw[0] != '{' {
		e.Record = nil
		return nil
	}
	var rec UserRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return fmt.Errorf("entry %q has an invalid record: %w", e.Key, err)
	}
	rec.compactRaw()
	e.Record = &rec
	return nil
}

func decodeSnapshot(raw []byte) (snapshot, error) {
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return snapshot{}, err
	}
	return snap, nil
}

var errMissingUsers = errors.New("invalid data format: missing users array")

// parseImport 在任何異動前完整驗證匯入內容
func parseImport(text string) ([]entry, []string, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &top); err != nil {
		return nil, nil, err
	}
	rawUsers, ok := top["users"]
	if !ok {
		rawUsers, ok = top["records"]
	}
	if !ok {
		return nil, nil, errMissingUsers
	}
	trimmed := bytes.TrimSpace(rawUsers)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, nil, errMissingUsers
	}
	var entries []entry
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, nil, err
	}

	var blacklist []string
	if rawBlack, ok := top["blacklist"]; ok && !bytes.Equal(bytes.TrimSpace(rawBlack), []byte("null")) {
		if err := json.Unmarshal(rawBlack, &blacklist); err != nil {
			return nil, nil, fmt.Errorf("blacklist is not a list of keys: %w", err)
		}
	}
	return entries, blacklist, nil
}

// Export 以縮排 JSON 匯出整個 registry；失敗時回傳空字串
func (s *Store) Export() (string, error) {
	s.mu.Lock()
	snap := s.snapshotLocked()
	now := s.now()
	s.mu.Unlock()

	doc := exportDocument{
		Users:      snap.Users,
		Blacklist:  snap.Blacklist,
		ExportTime: FormatTime(now),
		Version:    ExportVersion,
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		s.logger.Error("export registry failed", zap.Error(err))
		return "", err
	}
	return string(b), nil
}

// Import 合併匯入資料：對到既有 record（主鍵、account、phoneNumber）時沿用既有主鍵，
// 否則以匯入的 key 新增。blacklist 中的 key 會換成合併後的主鍵。
// 整份內容驗證通過才會異動，最後只寫回一次。
func (s *Store) Import(ctx context.Context, text string) ImportResult {
	entries, blacklist, err := parseImport(text)
	if err != nil {
		if errors.Is(err, errMissingUsers) {
			return ImportResult{Success: false, Message: err.Error()}
		}
		s.logger.Warn("import rejected", zap.Error(err))
		return ImportResult{Success: false, Message: "import failed: " + err.Error()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	count := 0
	// 匯入 key → 實際落地的主鍵；合併到既有 record 時兩者不同
	landed := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Record == nil {
			continue
		}
		arriving := *e.Record
		patch := patchFromRecord(arriving)
		key := e.Key
		if key == "" {
			key = ResolveKey(arriving.ID, arriving.Account, arriving.PhoneNumber)
		}
		if key == "" {
			s.logger.Warn("import entry skipped: missing identity")
			continue
		}

		var target string
		if existingKey, ok := s.resolveLocked(key, arriving.Account, arriving.PhoneNumber); ok {
			rec := s.records[existingKey]
			s.index.remove(*rec)
			mergeInto(rec, patch, now)
			s.index.add(*rec)
			target = existingKey
		} else {
			s.insertLocked(newRecord(key, patch, now))
			target = key
		}
		landed[key] = target
		if arriving.IsBlacklisted {
			s.addBlacklistLocked(target)
		}
		count++
	}
	for _, key := range blacklist {
		if target, ok := landed[key]; ok {
			key = target
		}
		s.addBlacklistLocked(key)
	}
	s.syncFlagsLocked()
	s.flushLocked(ctx)

	s.logger.Info("registry import finished", zap.Int("imported", count), zap.Int("blacklist", len(blacklist)))
	return ImportResult{
		Success:       true,
		Message:       fmt.Sprintf("imported %d users", count),
		ImportedCount: count,
	}
}
