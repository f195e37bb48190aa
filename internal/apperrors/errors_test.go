package apperrors

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestKinds(t *testing.T) {
	notFound := NotFound("repair job %s not found", "abc")
	badRequest := BadRequest("cannot delete a job in status %s", "IN_REPAIR")
	internal := Internal(errors.New("connection refused"), "failed to load job")

	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsBadRequest(notFound))
	assert.Equal(t, KindNotFound, KindOf(notFound))
	assert.Equal(t, "repair job abc not found", notFound.Error())

	assert.True(t, IsBadRequest(badRequest))
	assert.Equal(t, KindBadRequest, KindOf(badRequest))

	assert.False(t, IsDomain(internal))
	assert.True(t, errors.Is(internal, ErrInternal))
	assert.Equal(t, KindInternal, KindOf(internal))
}

func TestInternalHidesCause(t *testing.T) {
	err := Internal(errors.New("pq: password authentication failed"), "failed to load job")

	assert.Equal(t, "failed to load job", err.Error())
	assert.Contains(t, fmt.Sprintf("%+v", err), "password authentication failed")
}

func TestBoundary(t *testing.T) {
	assert.NoError(t, Boundary(nil, "failed"))

	domain := BadRequest("illegal transition")
	assert.Same(t, domain, Boundary(domain, "failed"))

	wrapped := Boundary(gorm.ErrInvalidTransaction, "failed to update repair job")
	assert.True(t, errors.Is(wrapped, ErrInternal))
	assert.Equal(t, "failed to update repair job", wrapped.Error())

	// already-internal errors are not wrapped twice
	assert.Same(t, wrapped, Boundary(wrapped, "other"))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "bad_request", KindBadRequest.String())
	assert.Equal(t, "internal", KindInternal.String())
}
