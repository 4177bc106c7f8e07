package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Format(t *testing.T) {
	err := Validation("name", "Name is required")
	assert.Equal(t, "[validation] Name is required", err.Error())
	assert.Equal(t, "name", err.Field)

	cause := errors.New("disk full")
	err = Persistence("保存失败", cause)
	assert.Equal(t, "[persistence] 保存失败: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestIsKind_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("summarize: %w", NotFound("vCard not found"))

	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(wrapped, KindValidation))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
	assert.False(t, IsKind(nil, KindEncoding))
}
