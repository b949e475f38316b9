package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tryon-shop/internal/config"

	"github.com/elastic/go-elasticsearch/v9"
)

const defaultIndex = "products"

// ProductDocument 商品索引文档
type ProductDocument struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Description  string  `json:"description"`
	BrandName    string  `json:"brand_name"`
	CategoryName string  `json:"category_name"`
	Gender       string  `json:"gender"`
	Price        float64 `json:"price"`
	IsActive     bool    `json:"is_active"`
}

// Client 商品搜索客户端
type Client struct {
	es    *elasticsearch.Client
	index string
}

// NewClient 按配置创建搜索客户端；未启用时返回 nil
func NewClient(cfg config.SearchConfig) (*Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	index := strings.TrimSpace(cfg.Index)
	if index == "" {
		index = defaultIndex
	}
	return &Client{es: es, index: index}, nil
}

// Index 索引名称
func (c *Client) Index() string {
	return c.index
}

// SearchProductIDs 全文检索商品，返回按相关度排序的候选 ID
func (c *Client) SearchProductIDs(ctx context.Context, query string, size int) ([]uint, error) {
	if size <= 0 {
		size = 500
	}
	body := map[string]interface{}{
		"_source": false,
		"size":    size,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":     query,
						"fields":    []string{"name^2", "description", "brand_name"},
						"fuzziness": "AUTO",
					},
				},
				"filter": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"is_active": true}},
				},
			},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("search", res.Status(), res.Body)
	}

	var r struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	ids := make([]uint, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		id, err := strconv.ParseUint(hit.ID, 10, 64)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// IndexProduct 写入或覆盖商品文档
func (c *Client) IndexProduct(ctx context.Context, doc ProductDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	res, err := c.es.Index(
		c.index,
		bytes.NewReader(data),
		c.es.Index.WithContext(ctx),
		c.es.Index.WithDocumentID(strconv.FormatUint(uint64(doc.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index", res.Status(), res.Body)
	}
	return nil
}

// DeleteProduct 删除商品文档，文档不存在视为成功
func (c *Client) DeleteProduct(ctx context.Context, productID uint) error {
	res, err := c.es.Delete(
		c.index,
		strconv.FormatUint(uint64(productID), 10),
		c.es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch delete: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode == 404 {
		return nil
	}
	if res.IsError() {
		return responseError("delete", res.Status(), res.Body)
	}
	return nil
}

func responseError(op, status string, body io.Reader) error {
	detail, _ := io.ReadAll(io.LimitReader(body, 512))
	return fmt.Errorf("elasticsearch %s failed: %s %s", op, status, strings.TrimSpace(string(detail)))
}
