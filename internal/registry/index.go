package registry

// secondaryIndex 把 account / phoneNumber 的值對應回主鍵。
// 同一個值允許對應多個主鍵（匯入時可能出現），查詢時取最早加入者。
type secondaryIndex struct {
	refs map[string][]string
}

func newSecondaryIndex() *secondaryIndex {
	return &secondaryIndex{refs: make(map[string][]string)}
}

func (idx *secondaryIndex) add(r UserRecord) {
	for _, v := range identifiers(r) {
		keys := idx.refs[v]
		if !contains(keys, r.ID) {
			idx.refs[v] = append(keys, r.ID)
		}
	}
}

func (idx *secondaryIndex) remove(r UserRecord) {
	for _, v := range identifiers(r) {
		keys := idx.refs[v]
		for i, k := range keys {
			if k == r.ID {
				keys = append(keys[:i], keys[i+1:]...)
				break
			}
		}
		if len(keys) == 0 {
			delete(idx.refs, v)
		} else {
			idx.refs[v] = keys
		}
	}
}

// lookup 回傳 account 或 phoneNumber 等於 value 的第一個主鍵
func (idx *secondaryIndex) lookup(value string) (string, bool) {
	if value == "" {
		return "", false
	}
	keys := idx.refs[value]
	if len(keys) == 0 {
		return "", false
	}
	return keys[0], true
}

func identifiers(r UserRecord) []string {
	switch {
	case r.Account == "" && r.PhoneNumber == "":
		return nil
	case r.Account == "":
		return []string{r.PhoneNumber}
	case r.PhoneNumber == "" || r.PhoneNumber == r.Account:
		return []string{r.Account}
	default:
		return []string{r.Account, r.PhoneNumber}
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
