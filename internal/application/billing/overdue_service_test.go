package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/irenerossetti/condominio-backend/internal/domain/billing"
	"github.com/irenerossetti/condominio-backend/internal/domain/identity"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMarkOverdue(t *testing.T) {
	asOf := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	t.Run("reports updated rows and publishes a summary", func(t *testing.T) {
		m := newLedgerMocks()
		publisher := NewMockEventPublisher()
		svc := NewOverdueService(m.fees, nil)
		svc.SetEventPublisher(publisher)

		m.fees.On("MarkOverdue", mock.Anything, asOf).Return(int64(3), nil)

		result, err := svc.MarkOverdue(context.Background(), identity.SystemCaller(), asOf)

		require.NoError(t, err)
		assert.Equal(t, int64(3), result.Updated)
		assert.Len(t, publisher.GetEventsByType(billing.EventTypeFeesMarkedOverdue), 1)
	})

	t.Run("second run changes nothing", func(t *testing.T) {
		m := newLedgerMocks()
		publisher := NewMockEventPublisher()
		svc := NewOverdueService(m.fees, nil)
		svc.SetEventPublisher(publisher)

		m.fees.On("MarkOverdue", mock.Anything, asOf).Return(int64(0), nil)

		result, err := svc.MarkOverdue(context.Background(), adminCaller(), asOf)

		require.NoError(t, err)
		assert.Equal(t, int64(0), result.Updated)
		assert.Empty(t, publisher.GetEventsByType(billing.EventTypeFeesMarkedOverdue))
	})

	t.Run("cutoff is the start of the calendar day", func(t *testing.T) {
		m := newLedgerMocks()
		svc := NewOverdueService(m.fees, nil)
		noon := time.Date(2025, time.March, 1, 12, 30, 0, 0, time.UTC)

		m.fees.On("MarkOverdue", mock.Anything, asOf).Return(int64(0), nil)

		result, err := svc.MarkOverdue(context.Background(), adminCaller(), noon)

		require.NoError(t, err)
		assert.Equal(t, "2025-03-01", result.AsOf)
		m.fees.AssertExpectations(t)
	})

	t.Run("offset timestamps use their UTC date", func(t *testing.T) {
		m := newLedgerMocks()
		svc := NewOverdueService(m.fees, nil)
		lateEvening := time.Date(2025, time.February, 28, 22, 0, 0, 0, time.FixedZone("BOT", -4*60*60))

		m.fees.On("MarkOverdue", mock.Anything, asOf).Return(int64(0), nil)

		_, err := svc.MarkOverdue(context.Background(), adminCaller(), lateEvening)

		require.NoError(t, err)
		m.fees.AssertExpectations(t)
	})

	t.Run("zero asOf sweeps up to today", func(t *testing.T) {
		m := newLedgerMocks()
		svc := NewOverdueService(m.fees, nil)

		m.fees.On("MarkOverdue", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
			return cutoff.Equal(startOfDay(cutoff)) && time.Since(cutoff) < 25*time.Hour
		})).Return(int64(0), nil)

		_, err := svc.MarkOverdue(context.Background(), adminCaller(), time.Time{})

		require.NoError(t, err)
		m.fees.AssertExpectations(t)
	})

	t.Run("owners may not run the sweep", func(t *testing.T) {
		m := newLedgerMocks()
		svc := NewOverdueService(m.fees, nil)

		_, err := svc.MarkOverdue(context.Background(), ownerCaller(), asOf)

		assert.ErrorIs(t, err, shared.ErrForbidden)
		m.fees.AssertNotCalled(t, "MarkOverdue", mock.Anything, mock.Anything)
	})

	t.Run("storage error propagates", func(t *testing.T) {
		m := newLedgerMocks()
		svc := NewOverdueService(m.fees, nil)
		dbErr := errors.New("timeout")

		m.fees.On("MarkOverdue", mock.Anything, mock.Anything).Return(int64(0), dbErr)

		_, err := svc.MarkOverdue(context.Background(), adminCaller(), time.Time{})

		assert.ErrorIs(t, err, dbErr)
	})
}
