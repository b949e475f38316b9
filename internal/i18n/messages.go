package i18n

var messages = map[string]map[string]string{
	LocaleEN: {
		"common.healthy": "ok",

		"error.bad_request":            "Bad request",
		"error.unauthorized":           "Authentication required",
		"error.forbidden":              "You do not have permission to perform this action",
		"error.not_found":              "Resource not found",
		"error.internal":               "Internal server error",
		"error.too_many_requests":      "Too many requests, please try again later",
		"error.validation_failed":      "Validation failed",
		"error.field_required":         "This field is required",
		"error.field_invalid":          "Invalid value",
		"error.email_invalid":          "Enter a valid email address",
		"error.phone_invalid":          "Enter a valid 10-digit mobile number",
		"error.postal_code_invalid":    "Postal code must be 6 digits",
		"error.positive_number":        "Must be a positive number",
		"error.gender_invalid":         "Invalid gender",
		"error.preferred_size_invalid": "Invalid preferred size",
		"error.login_rate_limited":     "Too many login attempts, please try again later",

		"error.cart_quantity_range": "Quantity must be between 1 and 99",
		"error.cart_size_invalid":   "Selected size is not available for this product",
		"error.cart_color_invalid":  "Selected color is not available for this product",
		"error.cart_item_not_found": "Cart item not found",
		"error.cart_empty":          "Cart is empty",
		"error.cart_changed":        "Your cart changed during checkout, please review it and try again",

		"error.password_required":        "Password is required",
		"error.password_min_length":      "Password must be at least %d characters",
		"error.password_all_numeric":     "Password cannot be entirely numeric",
		"error.password_too_common":      "This password is too common",
		"error.password_too_similar":     "Password is too similar to your username or email",
		"error.password_require_upper":   "Password must contain an uppercase letter",
		"error.password_require_lower":   "Password must contain a lowercase letter",
		"error.password_require_number":  "Password must contain a number",
		"error.password_require_special": "Password must contain a special character",
		"error.password_mismatch":        "Password fields didn't match",
		"error.password_invalid":         "Old password is incorrect",
		"error.invalid_credentials":      "Invalid credentials",
		"error.user_disabled":            "User account is disabled",
		"error.admin_disabled":           "Admin account is disabled",
		"error.admin_exists":             "An admin with that username already exists",
		"error.admin_not_found":          "Admin not found",
		"error.role_invalid":             "Unknown admin role",
		"error.invalid_token":            "Token is invalid or expired",
		"error.username_exists":          "A user with that username already exists",
		"error.email_exists":             "A user with that email already exists",

		"error.product_not_found":        "Product not found",
		"error.product_not_available":    "Product is not available",
		"error.category_not_found":       "Category not found",
		"error.brand_not_found":          "Brand not found",
		"error.slug_exists":              "Slug already exists",
		"error.category_in_use":          "Category still has products",
		"error.brand_in_use":             "Brand still has products",
		"error.review_exists":            "You have already reviewed this product",
		"error.review_not_found":         "Review not found",
		"error.review_rating_range":      "Rating must be between 1 and 5",
		"error.image_not_found":          "Product image not found",
		"error.bulk_action_invalid":      "Invalid bulk action",
		"error.bulk_ids_required":        "No products selected",
		"error.import_file_invalid":      "Spreadsheet could not be read",
		"error.import_file_empty":        "Spreadsheet has no data rows",
		"error.import_header_missing":    "Spreadsheet is missing required columns",
		"error.address_not_found":        "Address not found",
		"error.order_not_found":          "Order not found",
		"error.order_cancel_not_allowed": "Order cannot be cancelled",
		"error.order_status_invalid":     "Invalid order status",
		"error.payment_status_invalid":   "Invalid payment status",
		"error.order_status_transition":  "Order status cannot change to the requested value",
		"error.file_too_large":           "File is too large",
		"error.file_type_not_allowed":    "File type is not allowed",
		"error.image_invalid":            "Image file is invalid",
		"error.storage_unavailable":      "File storage is not available",
		"error.upload_failed":            "Upload failed",
		"error.export_failed":            "Export failed",

		"cart.item_added":   "Item added to cart",
		"cart.item_updated": "Cart item quantity updated",
		"cart.item_removed": "Item removed from cart",
		"cart.cleared":      "Cart cleared",

		"order.created":   "Order created successfully",
		"order.cancelled": "Order cancelled successfully",

		"address.created":     "Address created",
		"address.updated":     "Address updated",
		"address.deleted":     "Address deleted",
		"address.default_set": "Default address updated",

		"auth.registered":       "User registered successfully",
		"auth.logged_in":        "Login successful",
		"auth.logged_out":       "Successfully logged out",
		"auth.password_changed": "Password changed successfully",
		"auth.token_valid":      "Token is valid",

		"review.created":         "Review submitted",
		"admin.bulk_action_done": "%d products updated",

		"order.status.pending":    "Pending",
		"order.status.confirmed":  "Confirmed",
		"order.status.processing": "Processing",
		"order.status.shipped":    "Shipped",
		"order.status.delivered":  "Delivered",
		"order.status.cancelled":  "Cancelled",
		"order.status.refunded":   "Refunded",

		"email.order_status.subject":        "Order %s: %s",
		"email.order_status.body":           "Your order %s is now %s.\n\nItems: %d\nTotal: %s %s",
		"email.order_status.body_created":   "Thank you for your order %s (%s).\n\nItems: %d\nTotal: %s %s",
		"email.order_status.body_cancelled": "Your order %s has been cancelled (%s).\n\nItems: %d\nAmount: %s %s",
	},
	LocaleZH: {
		"common.healthy": "正常",

		"error.bad_request":            "请求参数错误",
		"error.unauthorized":           "请先登录",
		"error.forbidden":              "无权执行该操作",
		"error.not_found":              "资源不存在",
		"error.internal":               "服务器内部错误",
		"error.too_many_requests":      "请求过于频繁，请稍后再试",
		"error.validation_failed":      "参数校验失败",
		"error.field_required":         "该字段必填",
		"error.field_invalid":          "取值无效",
		"error.email_invalid":          "邮箱格式不正确",
		"error.phone_invalid":          "请输入有效的 10 位手机号",
		"error.postal_code_invalid":    "邮编必须为 6 位数字",
		"error.positive_number":        "必须为正数",
		"error.gender_invalid":         "性别取值无效",
		"error.preferred_size_invalid": "偏好尺码取值无效",
		"error.login_rate_limited":     "登录尝试过多，请稍后再试",

		"error.cart_quantity_range": "数量必须在 1 到 99 之间",
		"error.cart_size_invalid":   "该商品没有所选尺码",
		"error.cart_color_invalid":  "该商品没有所选颜色",
		"error.cart_item_not_found": "购物车商品不存在",
		"error.cart_empty":          "购物车为空",
		"error.cart_changed":        "结算期间购物车发生变化，请确认后重试",

		"error.password_required":        "密码不能为空",
		"error.password_min_length":      "密码长度不能少于 %d 位",
		"error.password_all_numeric":     "密码不能全为数字",
		"error.password_too_common":      "密码过于常见",
		"error.password_too_similar":     "密码与用户名或邮箱过于相似",
		"error.password_require_upper":   "密码必须包含大写字母",
		"error.password_require_lower":   "密码必须包含小写字母",
		"error.password_require_number":  "密码必须包含数字",
		"error.password_require_special": "密码必须包含特殊字符",
		"error.password_mismatch":        "两次输入的密码不一致",
		"error.password_invalid":         "原密码错误",
		"error.invalid_credentials":      "用户名或密码错误",
		"error.user_disabled":            "账号已被禁用",
		"error.admin_disabled":           "管理员账号已被禁用",
		"error.admin_exists":             "管理员账号已存在",
		"error.admin_not_found":          "管理员不存在",
		"error.role_invalid":             "未知的管理员角色",
		"error.invalid_token":            "令牌无效或已过期",
		"error.username_exists":          "用户名已存在",
		"error.email_exists":             "邮箱已被注册",

		"error.product_not_found":        "商品不存在",
		"error.product_not_available":    "商品暂不可购买",
		"error.category_not_found":       "分类不存在",
		"error.brand_not_found":          "品牌不存在",
		"error.slug_exists":              "slug 已存在",
		"error.category_in_use":          "分类下仍有商品",
		"error.brand_in_use":             "品牌下仍有商品",
		"error.review_exists":            "您已评价过该商品",
		"error.review_not_found":         "评价不存在",
		"error.review_rating_range":      "评分必须在 1 到 5 之间",
		"error.image_not_found":          "商品图片不存在",
		"error.bulk_action_invalid":      "批量操作无效",
		"error.bulk_ids_required":        "未选择商品",
		"error.import_file_invalid":      "无法解析表格文件",
		"error.import_file_empty":        "表格没有数据行",
		"error.import_header_missing":    "表格缺少必需的列",
		"error.address_not_found":        "地址不存在",
		"error.order_not_found":          "订单不存在",
		"error.order_cancel_not_allowed": "当前订单状态不可取消",
		"error.order_status_invalid":     "订单状态无效",
		"error.payment_status_invalid":   "支付状态无效",
		"error.order_status_transition":  "订单状态不允许变更为目标状态",
		"error.file_too_large":           "文件过大",
		"error.file_type_not_allowed":    "文件类型不允许",
		"error.image_invalid":            "图片文件无效",
		"error.storage_unavailable":      "文件存储不可用",
		"error.upload_failed":            "上传失败",
		"error.export_failed":            "导出失败",

		"cart.item_added":   "已加入购物车",
		"cart.item_updated": "购物车数量已更新",
		"cart.item_removed": "已从购物车移除",
		"cart.cleared":      "购物车已清空",

		"order.created":   "下单成功",
		"order.cancelled": "订单已取消",

		"address.created":     "地址已创建",
		"address.updated":     "地址已更新",
		"address.deleted":     "地址已删除",
		"address.default_set": "默认地址已更新",

		"auth.registered":       "注册成功",
		"auth.logged_in":        "登录成功",
		"auth.logged_out":       "已退出登录",
		"auth.password_changed": "密码修改成功",
		"auth.token_valid":      "令牌有效",

		"review.created":         "评价已提交",
		"admin.bulk_action_done": "已更新 %d 件商品",

		"order.status.pending":    "待确认",
		"order.status.confirmed":  "已确认",
		"order.status.processing": "处理中",
		"order.status.shipped":    "已发货",
		"order.status.delivered":  "已签收",
		"order.status.cancelled":  "已取消",
		"order.status.refunded":   "已退款",

		"email.order_status.subject":        "订单 %s 状态更新：%s",
		"email.order_status.body":           "您的订单 %s 当前状态：%s。\n\n商品件数：%d\n订单金额：%s %s",
		"email.order_status.body_created":   "感谢您的购买，订单 %s（%s）已创建。\n\n商品件数：%d\n订单金额：%s %s",
		"email.order_status.body_cancelled": "您的订单 %s 已取消（%s）。\n\n商品件数：%d\n订单金额：%s %s",
	},
}
