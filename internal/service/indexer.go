package service

// IndexBy 把平铺的子记录按外键归桶，桶内保持插入顺序。
// 每个索引单请求内构建单次使用，不做缓存。
func IndexBy[T any](items []T, key func(T) string) map[string][]T {
	idx := make(map[string][]T, len(items))
	for _, it := range items {
		k := key(it)
		idx[k] = append(idx[k], it)
	}
	return idx
}

// IndexUnique 一对一索引，键冲突时后写覆盖。评审按约定每条反馈
// 至多一条，写入侧已校验，读取侧对历史脏数据保持 last-write-wins。
func IndexUnique[T any](items []T, key func(T) string) map[string]T {
	idx := make(map[string]T, len(items))
	for _, it := range items {
		idx[key(it)] = it
	}
	return idx
}

// IndexFirst 一对一索引，键冲突时保留首条。标准目录查表用。
func IndexFirst[T any](items []T, key func(T) string) map[string]T {
	idx := make(map[string]T, len(items))
	for _, it := range items {
		k := key(it)
		if _, ok := idx[k]; !ok {
			idx[k] = it
		}
	}
	return idx
}
