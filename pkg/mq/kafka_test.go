package mq

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPublisher struct{ calls int }

func (f *failingPublisher) Publish(context.Context, string, string, any) error {
	f.calls++
	return errors.New("broker unavailable")
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "storefront.product.saved", Topic("storefront", "product.saved"))
	assert.Equal(t, "product.saved", Topic("", "product.saved"))
}

func TestNewPublisherWithoutBrokers(t *testing.T) {
	p := NewPublisher(KafkaConfig{TopicPrefix: "storefront"})
	_, ok := p.(*LogPublisher)
	require.True(t, ok)
	assert.NoError(t, p.Publish(context.Background(), "contact.received", "1", map[string]string{"email": "a@b.c"}))
}

func TestLogPublisherRejectsUnmarshalable(t *testing.T) {
	p := NewLogPublisher("")
	assert.Error(t, p.Publish(context.Background(), "x", "k", make(chan int)))
}

func TestEmitSwallowsErrors(t *testing.T) {
	f := &failingPublisher{}
	assert.NotPanics(t, func() {
		Emit(context.Background(), f, "cart.updated", "7", struct{}{})
		Emit(context.Background(), nil, "cart.updated", "7", struct{}{})
	})
	assert.Equal(t, 1, f.calls)
}
