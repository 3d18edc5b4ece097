package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/example/aurora-storefront/internal/domain"
)

var fixedNow = func() time.Time { return time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC) }

func filledSession(t *testing.T) *domain.Session {
	t.Helper()
	sess := domain.NewSession("sess_test")
	_, err := AddItem{Catalog: testCatalog()}.Execute(sess, CartInput{ProductID: "AUR-001", Color: "Black", Size: "M", Quantity: 2})
	require.NoError(t, err)
	return sess
}

func TestCheckoutFreezesCartAndClears(t *testing.T) {
	sess := filledSession(t)
	archive := &fakeArchive{}
	pub := &fakePublisher{}
	uc := Checkout{IDs: &seqIDs{}, Archive: archive, Publisher: pub, Now: fixedNow, Log: zaptest.NewLogger(t)}

	order, err := uc.Execute(context.Background(), sess, domain.Buyer{FirstName: "Ada", Email: "ada@example.com"}, domain.Payment{CardNumber: "4242424242424242", CVV: "999"})
	require.NoError(t, err)

	assert.Equal(t, "ORD-1", order.ID)
	assert.Equal(t, "79.98", order.Revenue.String())
	assert.Equal(t, "USA", order.Country)
	assert.Equal(t, "sess_test", order.SessionID)
	assert.Equal(t, fixedNow(), order.CreatedAt)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)

	assert.Zero(t, sess.Cart.Len())
	require.NotNil(t, sess.LastOrder)
	assert.Equal(t, order.ID, sess.LastOrder.ID)

	require.Contains(t, archive.rows, "ORD-1")
	require.Len(t, pub.msgs, 1)
	assert.NotContains(t, string(pub.msgs[0]), "4242424242424242")
	assert.NotContains(t, string(archive.rows["ORD-1"]), "4242424242424242")

	var published domain.Order
	require.NoError(t, json.Unmarshal(pub.msgs[0], &published))
	assert.Equal(t, "ORD-1", published.ID)
	assert.Equal(t, "ada@example.com", published.Email)
}

func TestCheckoutEmptyCartKeepsLastOrder(t *testing.T) {
	sess := filledSession(t)
	uc := Checkout{IDs: &seqIDs{}, Now: fixedNow}
	first, err := uc.Execute(context.Background(), sess, domain.Buyer{}, domain.Payment{})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), sess, domain.Buyer{FirstName: "Other"}, domain.Payment{})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	require.NotNil(t, sess.LastOrder)
	assert.Equal(t, first.ID, sess.LastOrder.ID)
}

func TestCheckoutSinkFailuresDoNotFail(t *testing.T) {
	sess := filledSession(t)
	uc := Checkout{
		IDs:       &seqIDs{},
		Archive:   &fakeArchive{err: errors.New("db down")},
		Publisher: &fakePublisher{err: errors.New("broker down")},
		Now:       fixedNow,
		Log:       zaptest.NewLogger(t),
	}
	order, err := uc.Execute(context.Background(), sess, domain.Buyer{}, domain.Payment{})
	require.NoError(t, err)
	assert.Equal(t, order.ID, sess.LastOrder.ID)
	assert.Zero(t, sess.Cart.Len())
}

func TestCheckoutSinksIgnoreRequestCancel(t *testing.T) {
	sess := filledSession(t)
	archive := &fakeArchive{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Checkout{IDs: &seqIDs{}, Archive: archive}.Execute(ctx, sess, domain.Buyer{}, domain.Payment{})
	require.NoError(t, err)
	assert.Len(t, archive.rows, 1)
}

func TestCheckoutReplacesLastOrder(t *testing.T) {
	catalog := testCatalog()
	sess := filledSession(t)
	uc := Checkout{IDs: &seqIDs{}}
	_, err := uc.Execute(context.Background(), sess, domain.Buyer{}, domain.Payment{})
	require.NoError(t, err)

	_, err = AddItem{Catalog: catalog}.Execute(sess, CartInput{ProductID: "AUR-002", Quantity: 1})
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), sess, domain.Buyer{}, domain.Payment{})
	require.NoError(t, err)

	_, err = GetOrder{}.Execute(sess, "ORD-1")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	got, err := GetOrder{}.Execute(sess, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "89.99", got.Revenue.String())
}

func TestGetOrder(t *testing.T) {
	sess := domain.NewSession("s")
	_, err := GetOrder{}.Execute(sess, "ORD-1")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	sess = filledSession(t)
	order, err := Checkout{IDs: &seqIDs{}}.Execute(context.Background(), sess, domain.Buyer{}, domain.Payment{})
	require.NoError(t, err)

	got, err := GetOrder{}.Execute(sess, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	assert.Equal(t, order.Revenue.String(), got.Revenue.String())

	_, err = GetOrder{}.Execute(sess, "ord-1")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestGetOrderReturnsCopy(t *testing.T) {
	sess := filledSession(t)
	order, err := Checkout{IDs: &seqIDs{}}.Execute(context.Background(), sess, domain.Buyer{}, domain.Payment{})
	require.NoError(t, err)

	got, err := GetOrder{}.Execute(sess, order.ID)
	require.NoError(t, err)
	got.Items[0].Quantity = 100
	assert.Equal(t, 2, sess.LastOrder.Items[0].Quantity)
}

func TestArchiveIncomingOrder(t *testing.T) {
	archive := &fakeArchive{}
	uc := ArchiveIncomingOrder{Archive: archive}

	o, err := uc.Execute(context.Background(), []byte(`{"id":"ORD-7","revenue":10.5,"items":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "ORD-7", o.ID)
	assert.Contains(t, archive.rows, "ORD-7")

	_, err = uc.Execute(context.Background(), []byte(`{"revenue":1}`))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Execute(context.Background(), []byte(`not json`))
	assert.Error(t, err)

	archive.err = errors.New("down")
	_, err = uc.Execute(context.Background(), []byte(`{"id":"ORD-8"}`))
	assert.Error(t, err)
}
