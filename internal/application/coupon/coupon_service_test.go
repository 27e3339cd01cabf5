package coupon

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/storefront/backend/internal/domain/coupon"
	"github.com/storefront/backend/internal/domain/shared"
)

type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) Create(ctx context.Context, c *coupon.Coupon) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coupon.Coupon), args.Error(1)
}

func (m *MockCouponRepository) FindAll(ctx context.Context) ([]*coupon.Coupon, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*coupon.Coupon), args.Error(1)
}

func (m *MockCouponRepository) DeleteExact(ctx context.Context, code string, pct decimal.Decimal) error {
	return m.Called(ctx, code, pct).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

func pct(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func publishedTypes(t *testing.T, p *MockPublisher) []string {
	t.Helper()
	var types []string
	for _, call := range p.Calls {
		for _, ev := range call.Arguments.Get(1).([]shared.DomainEvent) {
			types = append(types, ev.EventType())
		}
	}
	return types
}

func TestCouponService_CreatePublishesIssued(t *testing.T) {
	repo := new(MockCouponRepository)
	pub := new(MockPublisher)
	svc := NewCouponService(repo, pub, zap.NewNop())
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*coupon.Coupon")).Return(nil)
	pub.On("Publish", ctx, mock.Anything).Return(nil)

	res, err := svc.Create(ctx, CreateCouponRequest{Code: "SAVE10", DiscountPercentage: pct("10")})
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", res.Code)
	assert.Equal(t, []string{coupon.EventTypeCouponIssued}, publishedTypes(t, pub))
}

func TestCouponService_CreateRejects(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate code publishes nothing", func(t *testing.T) {
		repo := new(MockCouponRepository)
		pub := new(MockPublisher)
		svc := NewCouponService(repo, pub, zap.NewNop())
		repo.On("Create", ctx, mock.Anything).Return(coupon.ErrDuplicateCode)

		_, err := svc.Create(ctx, CreateCouponRequest{Code: "SAVE10", DiscountPercentage: pct("10")})
		assert.ErrorIs(t, err, coupon.ErrDuplicateCode)
		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("percentage out of range", func(t *testing.T) {
		svc := NewCouponService(new(MockCouponRepository), nil, zap.NewNop())
		for _, p := range []*decimal.Decimal{pct("0"), pct("-5"), pct("100.01"), nil} {
			_, err := svc.Create(ctx, CreateCouponRequest{Code: "X", DiscountPercentage: p})
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, "INVALID_DISCOUNT", de.Code)
		}
	})

	t.Run("percentage with more than two decimals", func(t *testing.T) {
		repo := new(MockCouponRepository)
		svc := NewCouponService(repo, nil, zap.NewNop())
		_, err := svc.Create(ctx, CreateCouponRequest{Code: "X", DiscountPercentage: pct("12.345")})
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_DISCOUNT", de.Code)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestCouponService_PublishFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	repo := new(MockCouponRepository)
	pub := new(MockPublisher)
	svc := NewCouponService(repo, pub, zap.New(core))
	ctx := context.Background()

	repo.On("Create", ctx, mock.Anything).Return(nil)
	pub.On("Publish", ctx, mock.Anything).Return(errors.New("event queue is full"))

	_, err := svc.Create(ctx, CreateCouponRequest{Code: "SAVE10", DiscountPercentage: pct("10")})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("failed to publish coupon events").Len())
}

func TestCouponService_Verify(t *testing.T) {
	repo := new(MockCouponRepository)
	svc := NewCouponService(repo, nil, zap.NewNop())
	ctx := context.Background()

	c, err := coupon.NewCoupon("SAVE10", decimal.NewFromInt(10))
	require.NoError(t, err)
	repo.On("FindByCode", ctx, "SAVE10").Return(c, nil)
	repo.On("FindByCode", ctx, "NOPE").Return(nil, coupon.ErrInvalidCode)

	res, err := svc.Verify(ctx, VerifyCouponRequest{Code: " SAVE10 "})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(res.DiscountPercentage))

	_, err = svc.Verify(ctx, VerifyCouponRequest{Code: "NOPE"})
	assert.ErrorIs(t, err, coupon.ErrInvalidCode)
}

func TestCouponService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("exact match publishes revoked", func(t *testing.T) {
		repo := new(MockCouponRepository)
		pub := new(MockPublisher)
		svc := NewCouponService(repo, pub, zap.NewNop())
		repo.On("DeleteExact", mock.Anything, "SAVE10", *pct("10")).Return(nil)
		pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

		require.NoError(t, svc.Delete(ctx, "SAVE10", *pct("10")))
		assert.Equal(t, []string{coupon.EventTypeCouponRevoked}, publishedTypes(t, pub))
	})

	t.Run("mismatch keeps the coupon", func(t *testing.T) {
		repo := new(MockCouponRepository)
		pub := new(MockPublisher)
		svc := NewCouponService(repo, pub, zap.NewNop())
		repo.On("DeleteExact", mock.Anything, "SAVE10", *pct("20")).Return(coupon.ErrCouponNotFound)

		err := svc.Delete(ctx, "SAVE10", *pct("20"))
		assert.ErrorIs(t, err, coupon.ErrCouponNotFound)
		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}
