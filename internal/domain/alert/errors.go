package alert

import (
	apperrors "github.com/lubrimax/lubestock/pkg/errors"
)

// 告警领域错误定义
var (
	// ErrAlertNotFound 告警不存在（调用方错误，不改变任何状态）
	ErrAlertNotFound = apperrors.New(apperrors.ErrCodeAlertNotFound, "库存告警不存在")

	// ErrMirrorRejected 远端镜像拒绝本次状态变更（本地已回滚）
	ErrMirrorRejected = apperrors.New(apperrors.ErrCodeMirrorRejected, "告警状态同步失败，请稍后重试")
)
