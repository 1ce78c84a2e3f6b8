package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	whatsappclient "github.com/mamadbah2/foodcost/pkg/clients/whatsapp"
)

type fixedDigest struct {
	text string
	err  error
	at   time.Time
}

func (f *fixedDigest) WeeklyDigest(_ context.Context, now time.Time) (string, error) {
	f.at = now
	return f.text, f.err
}

type captureClient struct {
	sent []whatsappclient.SendTextMessageRequest
	err  error
}

func (c *captureClient) SendTextMessage(_ context.Context, req whatsappclient.SendTextMessageRequest) (*whatsappclient.SendTextMessageResponse, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.sent = append(c.sent, req)
	return &whatsappclient.SendTextMessageResponse{}, nil
}

func TestSendDigest_DeliversToRecipient(t *testing.T) {
	digest := &fixedDigest{text: "Purchases: 670 spent"}
	client := &captureClient{}
	s := NewScheduler("0 20 * * 5", time.UTC, digest, client, "886900", nil)
	clock := time.Date(2026, time.March, 6, 20, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	require.NoError(t, s.SendDigest(context.Background()))
	require.Len(t, client.sent, 1)
	assert.Equal(t, "886900", client.sent[0].To)
	assert.Equal(t, "Purchases: 670 spent", client.sent[0].Body)
	assert.Equal(t, clock, digest.at)
}

func TestSendDigest_LogsWithoutClient(t *testing.T) {
	s := NewScheduler("0 20 * * 5", nil, &fixedDigest{text: "ok"}, nil, "", nil)
	assert.NoError(t, s.SendDigest(context.Background()))
}

func TestSendDigest_Errors(t *testing.T) {
	s := NewScheduler("0 20 * * 5", nil, &fixedDigest{err: errors.New("ledger down")}, &captureClient{}, "886900", nil)
	assert.Error(t, s.SendDigest(context.Background()))

	client := &captureClient{err: errors.New("rate limited")}
	s = NewScheduler("0 20 * * 5", nil, &fixedDigest{text: "ok"}, client, "886900", nil)
	assert.ErrorIs(t, s.SendDigest(context.Background()), client.err)
}

func TestStart_RejectsInvalidSchedule(t *testing.T) {
	s := NewScheduler("every friday", nil, &fixedDigest{}, nil, "", nil)
	assert.Error(t, s.Start())
}

func TestStartStop(t *testing.T) {
	s := NewScheduler("0 20 * * 5", nil, &fixedDigest{}, nil, "", nil)
	require.NoError(t, s.Start())
	s.Stop()
}
