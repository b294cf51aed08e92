package parser

import (
	"context"
	"time"
)

// matchBudget 模式匹配的时间预算
// Go的regexp是RE2线性时间引擎，单条正则不存在灾难性回溯，
// 但逐行扫描的循环在恶意构造的超长输入上仍可能累积耗时。
// 预算耗尽后所有后续测试按"未命中"处理，解析流程继续而不是中断。
type matchBudget struct {
	ctx      context.Context
	deadline time.Time
}

// newMatchBudget 创建一个从当前时刻起计时的预算
// ctx携带整体解析截止时间时，二者取先到者
func newMatchBudget(ctx context.Context, perCall time.Duration) *matchBudget {
	deadline := time.Now().Add(perCall)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	return &matchBudget{ctx: ctx, deadline: deadline}
}

// exhausted 预算是否已耗尽
func (b *matchBudget) exhausted() bool {
	if b == nil {
		return false
	}
	if b.ctx != nil && b.ctx.Err() != nil {
		return true
	}
	return time.Now().After(b.deadline)
}
