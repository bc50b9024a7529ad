package application

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/storefront/internal/contact/domain"
	"github.com/wyfcoding/storefront/internal/contact/infrastructure/persistence/mysql"
	"github.com/wyfcoding/storefront/pkg/db/dbtest"
	"github.com/wyfcoding/storefront/pkg/errorsx"
)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(_ context.Context, topic, _ string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return nil
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.New(t, mysql.Models()...)
	pub := &recordingPublisher{}
	svc := NewContactService(mysql.NewMessageRepository(conn), pub)

	msg, err := svc.Submit(ctx, SubmitCommand{Name: " Ada ", Email: "ada@example.com", Message: "Do you ship to Mars?"})
	require.NoError(t, err)
	assert.NotZero(t, msg.ID)
	assert.Equal(t, "Ada", msg.Name)
	assert.Equal(t, []string{domain.TopicMessageReceived}, pub.topics)

	recent, err := svc.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Do you ship to Mars?", recent[0].Message)

	cases := map[string]SubmitCommand{
		"blank message": {Name: "Ada", Email: "ada@example.com", Message: "   "},
		"bad email":     {Name: "Ada", Email: "ada", Message: "hi"},
		"long name":     {Name: strings.Repeat("a", 101), Email: "ada@example.com", Message: "hi"},
	}
	for name, cmd := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Submit(ctx, cmd)
			assert.True(t, errorsx.Is(err, errorsx.KindValidation))
		})
	}
	assert.Len(t, pub.topics, 1)
}
