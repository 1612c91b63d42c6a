package storage

import (
	"context"
	"errors"
	"sync"

	"resume-extract-go/internal/types"
)

var (
	ErrRecordNotFound = errors.New("候选人记录不存在")
	ErrDuplicateID    = errors.New("候选人记录ID已存在")
)

// CandidateRepository 候选人记录仓储接口
type CandidateRepository interface {
	// Create 保存一条候选人记录
	Create(ctx context.Context, record *types.CandidateRecord) error
	// GetByID 按ID查询候选人记录
	GetByID(ctx context.Context, id string) (*types.CandidateRecord, error)
	// List 按插入顺序返回所有候选人记录
	List(ctx context.Context) ([]*types.CandidateRecord, error)
	// Count 返回记录总数
	Count(ctx context.Context) (int, error)
	// DeleteAll 清空所有候选人记录，返回删除条数
	DeleteAll(ctx context.Context) (int, error)
}

// InMemoryCandidateStore 进程内候选人仓储。
// map按ID索引，order切片保持插入顺序，读写锁保护并发访问。
type InMemoryCandidateStore struct {
	mu      sync.RWMutex
	records map[string]*types.CandidateRecord
	order   []string
}

// NewInMemoryCandidateStore 创建进程内候选人仓储
func NewInMemoryCandidateStore() *InMemoryCandidateStore {
	return &InMemoryCandidateStore{
		records: make(map[string]*types.CandidateRecord),
	}
}

func (s *InMemoryCandidateStore) Create(ctx context.Context, record *types.CandidateRecord) error {
	if record == nil || record.Identity == "" {
		return errors.New("候选人记录或ID为空")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[record.Identity]; exists {
		return ErrDuplicateID
	}
	s.records[record.Identity] = record
	s.order = append(s.order, record.Identity)
	return nil
}

func (s *InMemoryCandidateStore) GetByID(ctx context.Context, id string) (*types.CandidateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.records[id]
	if !exists {
		return nil, ErrRecordNotFound
	}
	return record, nil
}

func (s *InMemoryCandidateStore) List(ctx context.Context) ([]*types.CandidateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*types.CandidateRecord, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.records[id])
	}
	return result, nil
}

func (s *InMemoryCandidateStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order), nil
}

func (s *InMemoryCandidateStore) DeleteAll(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := len(s.order)
	s.records = make(map[string]*types.CandidateRecord)
	s.order = nil
	return deleted, nil
}

var _ CandidateRepository = (*InMemoryCandidateStore)(nil)
