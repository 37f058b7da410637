package docstore

import (
	"context"
	"errors"
)

// ErrNotFound 按 id 取文档未命中。
var ErrNotFound = errors.New("document not found")

// Filter 单字段过滤，等值或集合匹配二选一。文档库不支持复合过滤，
// 任何跨集合关联都在读取侧内存中完成。
type Filter struct {
	Field  string
	Value  any
	Values []string
}

func Eq(field string, value any) Filter {
	return Filter{Field: field, Value: value}
}

func In(field string, values []string) Filter {
	return Filter{Field: field, Values: values}
}

func (f Filter) IsZero() bool {
	return f.Field == ""
}

type Order struct {
	Field string
	Desc  bool
}

type Query struct {
	Filter Filter
	Order  Order
	Limit  int
	Offset int
}

// Client 文档库的全部能力：分页 list、按 id get、create、update。
// 没有原生 join，没有原生聚合。
type Client interface {
	List(ctx context.Context, collection string, q Query, out any) error
	Get(ctx context.Context, collection, id string, out any) error
	Create(ctx context.Context, collection string, doc any) (string, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) error
}
