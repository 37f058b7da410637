package docstore

import (
	"context"
	"fmt"
)

// ListAll 穷尽分页读取：按 pageSize 逐页推进 offset，最后一页恰好
// 等于 pageSize 时会再读一页（返回 0 条也算短页），保证总数为页大小
// 整数倍时也能正常终止。任何一页出错则整个读取失败，不返回半截结果。
func ListAll[T any](ctx context.Context, c Client, collection string, f Filter, order Order, pageSize int) ([]T, error) {
	if pageSize <= 0 {
		pageSize = 100
	}

	var all []T
	for offset := 0; ; offset += pageSize {
		var page []T
		q := Query{Filter: f, Order: order, Limit: pageSize, Offset: offset}
		if err := c.List(ctx, collection, q, &page); err != nil {
			return nil, fmt.Errorf("list %s: %w", collection, err)
		}
		all = append(all, page...)
		if len(page) < pageSize {
			break
		}
	}
	return all, nil
}

// ListAllIn 以 id 集合为过滤条件的 ListAll。键集为空时直接返回空，
// 不发起任何请求。
func ListAllIn[T any](ctx context.Context, c Client, collection, field string, ids []string, order Order, pageSize int) ([]T, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return ListAll[T](ctx, c, collection, In(field, ids), order, pageSize)
}
