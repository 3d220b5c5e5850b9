package workflow

import (
	"context"
	"errors"
	"sync"
	"time"
)

// 同一个 HR 的名额会被多个审批/分配请求同时读写，
// 工作流操作在进入事务之前先按 HR 串行化：
// 进程内使用每个 HR 一把的互斥锁，多实例部署时再叠加 redis 上的咨询锁。

func (e *Engine) hrMutex(hrEmail string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, ok := e.hrLocks[hrEmail]
	if !ok {
		m = &sync.Mutex{}
		e.hrLocks[hrEmail] = m
	}
	return m
}

func (e *Engine) lockHR(hrEmail string) (func(), error) {
	m := e.hrMutex(hrEmail)
	m.Lock()

	if e.rdb == nil {
		return m.Unlock, nil
	}

	expiration := time.Duration(e.cfg.Redis.LockExpiration) * time.Second
	key := "workflow_lock:" + hrEmail

	ctx, cancel := context.WithTimeout(context.Background(), expiration)
	defer cancel()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		ok, err := e.rdb.SetNX(ctx, key, "1", expiration).Result()
		if err != nil {
			m.Unlock()
			return nil, err
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			m.Unlock()
			return nil, errors.New("获取工作流锁超时")
		case <-ticker.C:
		}
	}

	unlock := func() {
		delCtx, delCancel := context.WithTimeout(context.Background(), time.Duration(e.cfg.Redis.ConnectTimeout)*time.Second)
		defer delCancel()
		_ = e.rdb.Del(delCtx, key).Err()
		m.Unlock()
	}
	return unlock, nil
}
