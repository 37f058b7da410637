package docstore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore 纯内存版文档库，行为与 MongoClient 对齐：插入序即默认
// 返回序，分页语义一致。测试用，同时记录各操作调用次数。
type MemoryStore struct {
	mu    sync.Mutex
	colls map[string][]bson.M
	calls map[string]int
	// FailGets 中的 id 在 Get 时返回错误，模拟单条外部查询失败。
	FailGets map[string]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		colls:    make(map[string][]bson.M),
		calls:    make(map[string]int),
		FailGets: make(map[string]bool),
	}
}

// Calls 返回某操作在某集合上的累计调用次数，op 取 list/get/create/update。
func (s *MemoryStore) Calls(op, collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op+":"+collection]
}

func (s *MemoryStore) record(op, collection string) {
	s.calls[op+":"+collection]++
}

func (s *MemoryStore) List(ctx context.Context, collection string, q Query, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("list", collection)

	var matched []bson.M
	for _, doc := range s.colls[collection] {
		if matches(doc, q.Filter) {
			matched = append(matched, doc)
		}
	}

	if q.Order.Field != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			if q.Order.Desc {
				return less(matched[j][q.Order.Field], matched[i][q.Order.Field])
			}
			return less(matched[i][q.Order.Field], matched[j][q.Order.Field])
		})
	}

	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[q.Offset:]
		}
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	return decodeSlice(matched, out)
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("get", collection)

	if s.FailGets[id] {
		return fmt.Errorf("injected failure for %s", id)
	}

	for _, doc := range s.colls[collection] {
		if doc["_id"] == id {
			raw, err := bson.Marshal(doc)
			if err != nil {
				return err
			}
			return bson.Unmarshal(raw, out)
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) Create(ctx context.Context, collection string, doc any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("create", collection)

	m, err := ToDocument(doc)
	if err != nil {
		return "", err
	}
	id, _ := m["_id"].(string)
	if id == "" {
		id = primitive.NewObjectID().Hex()
		m["_id"] = id
	}
	s.colls[collection] = append(s.colls[collection], m)
	return id, nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("update", collection)

	for _, doc := range s.colls[collection] {
		if doc["_id"] == id {
			for k, v := range fields {
				doc[k] = v
			}
			return nil
		}
	}
	return ErrNotFound
}

func matches(doc bson.M, f Filter) bool {
	if f.IsZero() {
		return true
	}
	got := doc[f.Field]
	if len(f.Values) > 0 {
		str, ok := got.(string)
		if !ok {
			return false
		}
		for _, v := range f.Values {
			if v == str {
				return true
			}
		}
		return false
	}
	return got == f.Value
}

func less(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		return av < bv
	case int32:
		bv, _ := b.(int32)
		return av < bv
	case int64:
		bv, _ := b.(int64)
		return av < bv
	case float64:
		bv, _ := b.(float64)
		return av < bv
	case primitive.DateTime:
		bv, _ := b.(primitive.DateTime)
		return av < bv
	}
	return false
}

// decodeSlice 把匹配到的通用文档逐条解码进 *[]T。
func decodeSlice(docs []bson.M, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("out must be a pointer to a slice, got %T", out)
	}
	slice := rv.Elem()
	elemType := slice.Type().Elem()

	for _, doc := range docs {
		raw, err := bson.Marshal(doc)
		if err != nil {
			return err
		}
		elem := reflect.New(elemType)
		if err := bson.Unmarshal(raw, elem.Interface()); err != nil {
			return err
		}
		slice = reflect.Append(slice, elem.Elem())
	}
	rv.Elem().Set(slice)
	return nil
}
