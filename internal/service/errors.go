package service

import "errors"

// 服务层业务错误，由各 handler 映射为对应的响应码。
var (
	ErrNotFound               = errors.New("记录不存在")
	ErrValidation             = errors.New("参数校验失败")
	ErrInvalidCredentials     = errors.New("用户名或密码错误")
	ErrCustomLinkTaken        = errors.New("自定义链接已被占用")
	ErrAffiliateNotApproved   = errors.New("推广账号未通过审核")
	ErrAffiliateStatusInvalid = errors.New("推广账号状态不允许该操作")
	ErrLinkOwnershipMismatch  = errors.New("推广链接不属于该推广账号")
	ErrAmountInvalid          = errors.New("金额不合法")
	ErrCommissionStatusInvalid = errors.New("佣金状态不允许该操作")
)
