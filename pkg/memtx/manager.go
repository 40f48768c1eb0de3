package memtx

import (
	"context"
	"sync"
)

// Manager транзакции для in-memory хранилищ.
// Все мутации выполняются последовательно под одним мьютексом,
// а хранилища регистрируют компенсации через OnRollback.
type Manager struct {
	mu sync.Mutex
}

// NewManager создает менеджер
func NewManager() *Manager {
	return &Manager{}
}

type undoLog struct {
	fns []func()
}

func (l *undoLog) rollback() {
	for i := len(l.fns) - 1; i >= 0; i-- {
		l.fns[i]()
	}
	l.fns = nil
}

type logKey struct{}

// OnRollback регистрирует компенсацию для текущей транзакции.
// Вне транзакции ничего не делает.
func OnRollback(ctx context.Context, fn func()) {
	if log, ok := ctx.Value(logKey{}).(*undoLog); ok {
		log.fns = append(log.fns, fn)
	}
}

// InTransaction true, если контекст принадлежит транзакции
func InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(logKey{}).(*undoLog)
	return ok
}

// Do выполняет fn как единую логическую транзакцию
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoSerializable то же, что Do: транзакции in-memory всегда сериализуемы
func (m *Manager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *Manager) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if InTransaction(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	log := &undoLog{}
	txCtx := context.WithValue(ctx, logKey{}, log)

	defer func() {
		if p := recover(); p != nil {
			log.rollback()
			panic(p)
		}
	}()

	err = fn(txCtx)
	if err == nil {
		// Отменённый вызов не должен оставить частичных изменений
		err = ctx.Err()
	}
	if err != nil {
		log.rollback()
		return err
	}
	return nil
}
