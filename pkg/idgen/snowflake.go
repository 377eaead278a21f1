package idgen

import (
	"errors"
	"strconv"
	"sync"
	"time"
)

const (
	// Epoch 起始时间戳 (2024-01-01 00:00:00 UTC)，毫秒
	Epoch int64 = 1672502400000

	// 位数分配
	WorkerIDBits     = 5  // 工作机器ID位数
	DatacenterIDBits = 5  // 数据中心ID位数
	SequenceBits     = 12 // 序列号位数

	// 最大值计算
	MaxWorkerID     = -1 ^ (-1 << WorkerIDBits)     // 31
	MaxDatacenterID = -1 ^ (-1 << DatacenterIDBits) // 31
	MaxSequence     = -1 ^ (-1 << SequenceBits)     // 4095

	// 位移量
	WorkerIDShift     = SequenceBits
	DatacenterIDShift = SequenceBits + WorkerIDBits
	TimestampShift    = SequenceBits + WorkerIDBits + DatacenterIDBits

	// 等待下一毫秒时的休眠时间
	sleepDuration = 100 * time.Microsecond
)

var (
	// ErrInvalidWorkerID 工作机器ID超出有效范围
	ErrInvalidWorkerID = errors.New("invalid worker id: must be between 0 and 31")

	// ErrInvalidDatacenterID 数据中心ID超出有效范围
	ErrInvalidDatacenterID = errors.New("invalid datacenter id: must be between 0 and 31")

	// ErrClockMovedBackwards 检测到时钟回拨
	ErrClockMovedBackwards = errors.New("clock moved backwards: refusing to generate id")
)

// Snowflake Snowflake算法的请求ID生成器
// 互斥锁保护并发访问，同一毫秒内用序列号区分
type Snowflake struct {
	mu sync.Mutex

	lastTimestamp int64
	datacenterID  int64
	workerID      int64
	sequence      int64
}

// New 创建ID生成器
func New(datacenterID, workerID int64) (*Snowflake, error) {
	if workerID < 0 || workerID > MaxWorkerID {
		return nil, ErrInvalidWorkerID
	}
	if datacenterID < 0 || datacenterID > MaxDatacenterID {
		return nil, ErrInvalidDatacenterID
	}
	return &Snowflake{
		lastTimestamp: -1,
		datacenterID:  datacenterID,
		workerID:      workerID,
	}, nil
}

// NextID 生成下一个唯一ID
func (s *Snowflake) NextID() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := currentMillis()
	if now < s.lastTimestamp {
		return 0, ErrClockMovedBackwards
	}

	if now == s.lastTimestamp {
		s.sequence = (s.sequence + 1) & MaxSequence
		if s.sequence == 0 {
			// 序列号溢出，等待下一毫秒
			now = s.waitNextMillis(now)
		}
	} else {
		s.sequence = 0
	}
	s.lastTimestamp = now

	id := (now-Epoch)<<TimestampShift |
		s.datacenterID<<DatacenterIDShift |
		s.workerID<<WorkerIDShift |
		s.sequence
	return id, nil
}

// NextRequestID 以十六进制字符串形式生成请求ID
// 生成失败时退化为裸时间戳，请求ID只用于日志关联，不要求强唯一
func (s *Snowflake) NextRequestID() string {
	id, err := s.NextID()
	if err != nil {
		id = currentMillis()
	}
	return strconv.FormatInt(id, 16)
}

// waitNextMillis 自旋等待直到时间戳前进
func (s *Snowflake) waitNextMillis(current int64) int64 {
	for current <= s.lastTimestamp {
		time.Sleep(sleepDuration)
		current = currentMillis()
	}
	return current
}

func currentMillis() int64 {
	return time.Now().UnixMilli()
}
