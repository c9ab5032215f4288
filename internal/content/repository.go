package content

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("row not found")
	ErrUnknownTable  = errors.New("unknown table")
	ErrUnknownColumn = errors.New("unknown column")
	ErrReadOnly      = errors.New("column is not writable")
	ErrRowType       = errors.New("row type does not match table")
	ErrInvalidValue  = errors.New("invalid column value")
	ErrDuplicate     = errors.New("duplicate value for unique column")
)

// Op 是过滤条件的比较方式
type Op string

const (
	OpEq  Op = "eq"
	OpNeq Op = "neq"
)

// Filter restricts a listing to rows where Column compares to Value.
type Filter struct {
	Column string
	Op     Op
	Value  interface{}
}

// Eq builds an equality filter.
func Eq(column string, value interface{}) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

// Neq builds an inequality filter.
func Neq(column string, value interface{}) Filter {
	return Filter{Column: column, Op: OpNeq, Value: value}
}

// Order 描述单列排序
type Order struct {
	Column    string
	Ascending bool
}

// Query describes a filtered, ordered and limited read.
type Query struct {
	Filters []Filter
	Order   *Order
	Limit   int
}

// Desc is shorthand for a descending order on column.
func Desc(column string) *Order {
	return &Order{Column: column}
}

// Asc is shorthand for an ascending order on column.
func Asc(column string) *Order {
	return &Order{Column: column, Ascending: true}
}

// Repository is the table-level data access contract used by every view.
// It validates table and column names and otherwise delegates to gorm.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a Repository bound to gdb.
func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

// DB exposes the underlying gorm handle.
func (r *Repository) DB() *gorm.DB {
	return r.db
}

func (r *Repository) table(t Table) (schema, error) {
	s, ok := schemas[t]
	if !ok {
		return schema{}, fmt.Errorf("%w: %q", ErrUnknownTable, t)
	}
	return s, nil
}

func (r *Repository) scoped(ctx context.Context, t Table, s schema, filters []Filter) (*gorm.DB, error) {
	query := r.db.WithContext(ctx).Model(s.newOne())
	for _, f := range filters {
		if err := s.checkColumn(t, f.Column); err != nil {
			return nil, err
		}
		switch f.Op {
		case OpEq, "":
			if f.Value == nil {
				query = query.Where(f.Column + " IS NULL")
			} else {
				query = query.Where(f.Column+" = ?", f.Value)
			}
		case OpNeq:
			if f.Value == nil {
				query = query.Where(f.Column + " IS NOT NULL")
			} else {
				query = query.Where(f.Column+" <> ?", f.Value)
			}
		default:
			return nil, fmt.Errorf("unsupported filter operator %q", f.Op)
		}
	}
	return query, nil
}

// List loads rows of t matching q into dest, which must point to a slice of
// the table's model type.
func (r *Repository) List(ctx context.Context, t Table, q Query, dest interface{}) error {
	s, err := r.table(t)
	if err != nil {
		return err
	}
	if err := checkType(s.newList(), dest); err != nil {
		return err
	}

	query, err := r.scoped(ctx, t, s, q.Filters)
	if err != nil {
		return err
	}

	if q.Order != nil {
		if err := s.checkColumn(t, q.Order.Column); err != nil {
			return err
		}
		direction := "desc"
		if q.Order.Ascending {
			direction = "asc"
		}
		// id 作为第二排序键，保证同一时间戳下结果稳定
		query = query.Order(q.Order.Column + " " + direction).Order("id " + direction)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	return query.Find(dest).Error
}

// Get loads the row with the given id into dest.
func (r *Repository) Get(ctx context.Context, t Table, id uint, dest interface{}) error {
	s, err := r.table(t)
	if err != nil {
		return err
	}
	if err := checkType(s.newOne(), dest); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// GetBySlug loads the single row with slug, narrowed by extra filters.
func (r *Repository) GetBySlug(ctx context.Context, t Table, slug string, dest interface{}, filters ...Filter) error {
	s, err := r.table(t)
	if err != nil {
		return err
	}
	if !s.hasSlug {
		return fmt.Errorf("%w: %s.slug", ErrUnknownColumn, t)
	}
	if err := checkType(s.newOne(), dest); err != nil {
		return err
	}

	query, err := r.scoped(ctx, t, s, append([]Filter{Eq("slug", slug)}, filters...))
	if err != nil {
		return err
	}
	if err := query.First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Count returns the number of rows of t matching filters.
func (r *Repository) Count(ctx context.Context, t Table, filters ...Filter) (int64, error) {
	s, err := r.table(t)
	if err != nil {
		return 0, err
	}
	query, err := r.scoped(ctx, t, s, filters)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Insert persists row, a pointer to the table's model type. The generated id
// and timestamps are written back into row.
func (r *Repository) Insert(ctx context.Context, t Table, row interface{}) error {
	s, err := r.table(t)
	if err != nil {
		return err
	}
	if err := checkType(s.newOne(), row); err != nil {
		return err
	}
	return translate(r.db.WithContext(ctx).Create(row).Error)
}

// Update applies patch to the row with the given id. Keys must be writable
// columns; values are coerced to the column type.
func (r *Repository) Update(ctx context.Context, t Table, id uint, patch map[string]interface{}) error {
	s, err := r.table(t)
	if err != nil {
		return err
	}
	if len(patch) == 0 {
		return r.exists(ctx, s, id)
	}

	values := make(map[string]interface{}, len(patch))
	for column, value := range patch {
		if err := s.checkColumn(t, column); err != nil {
			return err
		}
		if !s.writable[column] {
			return fmt.Errorf("%w: %s.%s", ErrReadOnly, t, column)
		}
		coerced, err := coerce(s.columns[column], column, value)
		if err != nil {
			return err
		}
		values[column] = coerced
	}

	result := r.db.WithContext(ctx).Model(s.newOne()).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the row with the given id.
func (r *Repository) Delete(ctx context.Context, t Table, id uint) error {
	s, err := r.table(t)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(s.newOne(), id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) exists(ctx context.Context, s schema, id uint) error {
	var total int64
	if err := r.db.WithContext(ctx).Model(s.newOne()).Where("id = ?", id).Count(&total).Error; err != nil {
		return err
	}
	if total == 0 {
		return ErrNotFound
	}
	return nil
}

func checkType(want, got interface{}) error {
	if reflect.TypeOf(want) != reflect.TypeOf(got) {
		return fmt.Errorf("%w: want %T, got %T", ErrRowType, want, got)
	}
	return nil
}

// translate 把唯一约束冲突统一为 ErrDuplicate
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

// coerce 把 JSON 解码得到的通用值转换为列类型
func coerce(kind Kind, column string, value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	switch kind {
	case KindInt:
		var n int64
		switch v := value.(type) {
		case float64:
			// JSON 数字统一解码为 float64，只接受整数值
			if v != math.Trunc(v) || math.IsInf(v, 0) || v > math.MaxInt64 {
				return nil, fmt.Errorf("%w: %s must be an integer: %v", ErrInvalidValue, column, v)
			}
			n = int64(v)
		case int:
			n = int64(v)
		case int64:
			n = v
		case *int:
			if v == nil {
				return nil, nil
			}
			n = int64(*v)
		default:
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidValue, column, value)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: %s must not be negative: %d", ErrInvalidValue, column, n)
		}
		return n, nil
	case KindBool:
		if v, ok := value.(bool); ok {
			return v, nil
		}
	case KindTime:
		switch v := value.(type) {
		case time.Time:
			return v, nil
		case *time.Time:
			if v == nil {
				return nil, nil
			}
			return *v, nil
		case string:
			if strings.TrimSpace(v) == "" {
				return nil, nil
			}
			parsed, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return nil, fmt.Errorf("%w: timestamp for %s: %q", ErrInvalidValue, column, v)
			}
			return parsed, nil
		}
	default:
		switch v := value.(type) {
		case string:
			return v, nil
		case *string:
			if v == nil {
				return nil, nil
			}
			return *v, nil
		}
	}
	return nil, fmt.Errorf("%w: %s: %v", ErrInvalidValue, column, value)
}
