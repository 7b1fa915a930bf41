package repository

import (
	"context"
	"errors"

	"gamebets/internal/model"

	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *model.Customer) error {
	err := r.db.WithContext(ctx).Create(customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateName
		}
		return err
	}
	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// List 按名称升序返回全部客户
func (r *CustomerRepository) List(ctx context.Context) ([]*model.Customer, error) {
	var customers []*model.Customer
	err := r.db.WithContext(ctx).Order("name ASC").Find(&customers).Error
	return customers, err
}

// DeleteByID 删除指定客户，该客户的投注由外键级联删除
// 返回受影响行数，0 表示客户不存在（不视为错误）
func (r *CustomerRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&model.Customer{}, id)
	return result.RowsAffected, result.Error
}

// DeleteAll 清空客户表，仅供全量清空事务调用
func (r *CustomerRepository) DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.Customer{})
	return result.RowsAffected, result.Error
}
