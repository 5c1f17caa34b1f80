package errors

import "errors"

// 跨层持久化约束错误：Repository 在事务内判定，Service 负责映射为业务错误。

// ErrInsufficientCredits 积分余额不足，扣减被拒绝
var ErrInsufficientCredits = errors.New("积分不足")

// ErrDuplicateFill 同一用户重复填写同一问卷（唯一约束拦截）
var ErrDuplicateFill = errors.New("该问卷已填写过")

// ErrQuestionnaireClosed 问卷已达到目标份数，不再接受填写
var ErrQuestionnaireClosed = errors.New("问卷已截止")

// ErrOwnQuestionnaire 不允许填写自己发布的问卷
var ErrOwnQuestionnaire = errors.New("不能填写自己发布的问卷")

// ErrDuplicateActiveRequest 同一学号已存在进行中的组队请求（部分唯一索引拦截）
var ErrDuplicateActiveRequest = errors.New("已存在进行中的组队请求")
