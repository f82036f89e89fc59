package storage

import "database/sql"

// Postgres собирает репозитории поверх одного пула соединений
type Postgres struct {
	*userRepository
	*productRepository
	*orderRepository
	*paymentRepository
	db *sql.DB
}

var _ Storage = (*Postgres)(nil)

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{
		userRepository:    NewUserRepository(db),
		productRepository: NewProductRepository(db),
		orderRepository:   NewOrderRepository(db),
		paymentRepository: NewPaymentRepository(db),
		db:                db,
	}
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
