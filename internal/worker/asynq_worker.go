package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"strings"

	"github.com/tryon-shop/internal/imaging"
	"github.com/tryon-shop/internal/logger"
	"github.com/tryon-shop/internal/models"
	"github.com/tryon-shop/internal/provider"
	"github.com/tryon-shop/internal/queue"
	"github.com/tryon-shop/internal/search"
	"github.com/tryon-shop/internal/service"
	"github.com/tryon-shop/internal/storage"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册任务处理函数，返回已注册的任务类型
func (c *Consumer) Register(mux *asynq.ServeMux) []string {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return nil
	}
	handlers := []struct {
		taskType string
		fn       func(context.Context, *asynq.Task) error
	}{
		{queue.TaskOrderStatusNotify, c.handleOrderStatusNotify},
		{queue.TaskImageResize, c.handleImageResize},
		{queue.TaskProductIndex, c.handleProductIndex},
	}
	types := make([]string, 0, len(handlers))
	for _, h := range handlers {
		mux.HandleFunc(h.taskType, h.fn)
		types = append(types, h.taskType)
	}
	return types
}

func (c *Consumer) handleOrderStatusNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderStatusNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_notify_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if !c.EmailService.Enabled() {
		logger.Debugw("worker_order_status_notify_skip_email_disabled", "order_id", payload.OrderID)
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_status_notify_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_status_notify_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}

	// 下单时填写的联系邮箱优先，账号邮箱兜底
	receiverEmail := strings.TrimSpace(order.Email)
	if receiverEmail == "" && order.UserID != 0 {
		user, err := c.UserRepo.GetByID(order.UserID)
		if err != nil {
			logger.Warnw("worker_order_status_notify_fetch_user_failed", "order_id", order.ID, "user_id", order.UserID, "error", err)
			return err
		}
		if user != nil {
			receiverEmail = strings.TrimSpace(user.Email)
		}
	}
	if receiverEmail == "" {
		logger.Debugw("worker_order_status_notify_skip_empty_receiver", "order_id", order.ID, "order_number", order.OrderNumber)
		return nil
	}

	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = order.Status
	}
	input := service.OrderStatusEmailInput{
		OrderNumber: order.OrderNumber,
		Status:      status,
		Amount:      order.TotalAmount,
		Currency:    c.currency(),
		TotalItems:  order.TotalItems(),
	}
	if err := c.EmailService.SendOrderStatusEmail(receiverEmail, input, ""); err != nil {
		if errors.Is(err, service.ErrEmailRecipientRejected) {
			logger.Warnw("worker_order_status_notify_recipient_rejected", "order_id", order.ID, "receiver_email", receiverEmail)
			return nil
		}
		logger.Warnw("worker_order_status_notify_send_failed",
			"order_id", order.ID,
			"order_number", order.OrderNumber,
			"receiver_email", receiverEmail,
			"status", status,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleImageResize(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_image_resize_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ImageResizePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_image_resize_unmarshal_failed", "error", err)
		return err
	}
	if strings.TrimSpace(payload.Key) == "" || payload.MaxSize <= 0 {
		logger.Debugw("worker_image_resize_skip_invalid_payload", "key", payload.Key, "max_size", payload.MaxSize)
		return nil
	}
	if c.Storage == nil {
		logger.Warnw("worker_image_resize_skip_storage_nil", "key", payload.Key)
		return nil
	}

	reader, err := c.Storage.Open(ctx, payload.Key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			logger.Debugw("worker_image_resize_skip_object_not_found", "key", payload.Key)
			return nil
		}
		logger.Warnw("worker_image_resize_open_failed", "key", payload.Key, "error", err)
		return err
	}
	result, err := imaging.FitWithin(reader, payload.MaxSize)
	_ = reader.Close()
	if err != nil {
		// 无法解码的文件重试也不会成功
		if errors.Is(err, image.ErrFormat) || errors.Is(err, imaging.ErrUnsupportedFormat) {
			logger.Warnw("worker_image_resize_skip_undecodable", "key", payload.Key, "error", err)
			return nil
		}
		logger.Warnw("worker_image_resize_decode_failed", "key", payload.Key, "error", err)
		return err
	}
	if !result.Resized {
		logger.Debugw("worker_image_resize_skip_within_bounds", "key", payload.Key, "width", result.Width, "height", result.Height)
		return nil
	}
	if err := c.Storage.Put(ctx, payload.Key, bytes.NewReader(result.Data), imaging.ContentType(result.Format)); err != nil {
		logger.Warnw("worker_image_resize_put_failed", "key", payload.Key, "error", err)
		return err
	}
	logger.Infow("worker_image_resized", "key", payload.Key, "width", result.Width, "height", result.Height)
	return nil
}

func (c *Consumer) handleProductIndex(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_product_index_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ProductIndexPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_product_index_unmarshal_failed", "error", err)
		return err
	}
	if payload.ProductID == 0 {
		logger.Debugw("worker_product_index_skip_invalid_payload", "product_id", payload.ProductID)
		return nil
	}
	if c.SearchClient == nil {
		logger.Debugw("worker_product_index_skip_search_disabled", "product_id", payload.ProductID)
		return nil
	}

	var product *models.Product
	if !payload.Delete {
		var err error
		product, err = c.ProductRepo.GetByID(payload.ProductID)
		if err != nil {
			logger.Warnw("worker_product_index_fetch_failed", "product_id", payload.ProductID, "error", err)
			return err
		}
	}
	// 已删除的商品从索引移除
	if product == nil {
		if err := c.SearchClient.DeleteProduct(ctx, payload.ProductID); err != nil {
			logger.Warnw("worker_product_index_delete_failed", "product_id", payload.ProductID, "error", err)
			return err
		}
		return nil
	}
	if err := c.SearchClient.IndexProduct(ctx, buildProductDocument(product)); err != nil {
		logger.Warnw("worker_product_index_failed", "product_id", product.ID, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) currency() string {
	if c.Config == nil {
		return ""
	}
	return c.Config.App.Currency
}

func buildProductDocument(product *models.Product) search.ProductDocument {
	doc := search.ProductDocument{
		ID:          product.ID,
		Name:        product.Name,
		Slug:        product.Slug,
		Description: product.Description,
		Gender:      product.Gender,
		Price:       product.CurrentPrice().InexactFloat64(),
		IsActive:    product.IsActive,
	}
	if product.Brand != nil {
		doc.BrandName = product.Brand.Name
	}
	if product.Category != nil {
		doc.CategoryName = product.Category.Name
	}
	return doc
}
