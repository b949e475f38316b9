package shared

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageQuery 列表接口的页码参数
type PageQuery struct {
	Page     int
	PageSize int
}

// Offset 当前页首条记录的偏移
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// ParsePageQuery 读取 page / page_size，非法值回落到第一页与默认页大小，超出上限时截断
func ParsePageQuery(c *gin.Context) PageQuery {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.Query("page_size"))
	switch {
	case err != nil || size <= 0:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	return PageQuery{Page: page, PageSize: size}
}
