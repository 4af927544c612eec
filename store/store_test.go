package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		page, pageSize int
		total          int64
		wantPages      int
	}{
		{1, 10, 0, 0},
		{1, 10, 1, 1},
		{1, 10, 10, 1},
		{1, 10, 11, 2},
		{2, 10, 95, 10},
		{1, 1, 3, 3},
	}
	for _, tt := range tests {
		got := NewPagination(tt.page, tt.pageSize, tt.total)
		assert.Equal(t, tt.page, got.Page)
		assert.Equal(t, tt.pageSize, got.PageSize)
		assert.Equal(t, tt.total, got.Total)
		assert.Equal(t, tt.wantPages, got.TotalPages, "total=%d size=%d", tt.total, tt.pageSize)
	}
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))

	assert.ErrorIs(t, translateError(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translateError(gorm.ErrDuplicatedKey), ErrDuplicate)

	mysqlDup := fmt.Errorf("Error 1062 (23000): Duplicate entry 'hello' for key 'posts.idx_slug'")
	assert.ErrorIs(t, translateError(mysqlDup), ErrDuplicate)

	other := errors.New("connection refused")
	assert.Equal(t, other, translateError(other))
}
