package queue

import (
	"encoding/json"

	"github.com/tryon-shop/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderStatusNotify 订单状态通知任务
	TaskOrderStatusNotify = constants.TaskOrderStatusNotify
	// TaskImageResize 图片缩放任务
	TaskImageResize = constants.TaskImageResize
	// TaskProductIndex 商品搜索索引任务
	TaskProductIndex = constants.TaskProductIndex
)

// OrderStatusNotifyPayload 订单状态通知任务载荷
type OrderStatusNotifyPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// ImageResizePayload 图片缩放任务载荷
// Key 为存储中的对象 key，MaxSize 为长边上限（像素）
type ImageResizePayload struct {
	Key     string `json:"key"`
	MaxSize int    `json:"max_size"`
}

// ProductIndexPayload 商品索引任务载荷
type ProductIndexPayload struct {
	ProductID uint `json:"product_id"`
	Delete    bool `json:"delete"`
}

// NewOrderStatusNotifyTask 创建订单状态通知任务
func NewOrderStatusNotifyTask(payload OrderStatusNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusNotify, body), nil
}

// NewImageResizeTask 创建图片缩放任务
func NewImageResizeTask(payload ImageResizePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskImageResize, body), nil
}

// NewProductIndexTask 创建商品索引任务
func NewProductIndexTask(payload ProductIndexPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskProductIndex, body), nil
}
