package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"succession-go/pkg/tasks"
)

type fakeReader struct {
	queue     []kafka.Message
	committed []kafka.Message
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.queue) == 0 {
		return kafka.Message{}, context.Canceled
	}
	m := r.queue[0]
	r.queue = r.queue[1:]
	return m, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

type fakeWriter struct {
	written []kafka.Message
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.written = append(w.written, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type fakeProcessor struct {
	err  error
	seen []tasks.MemberCommand
}

func (p *fakeProcessor) Process(ctx context.Context, cmd tasks.MemberCommand) error {
	p.seen = append(p.seen, cmd)
	return p.err
}

type flakyProcessor struct {
	failures int
	seen     []tasks.MemberCommand
}

func (p *flakyProcessor) Process(ctx context.Context, cmd tasks.MemberCommand) error {
	p.seen = append(p.seen, cmd)
	if p.failures > 0 {
		p.failures--
		return errors.New("roster source unavailable")
	}
	return nil
}

type cancelingProcessor struct {
	cancel context.CancelFunc
	calls  int
}

func (p *cancelingProcessor) Process(ctx context.Context, cmd tasks.MemberCommand) error {
	p.calls++
	p.cancel()
	return errors.New("roster source unavailable")
}

func commandIDs(cmds []tasks.MemberCommand) []string {
	out := make([]string, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, c.CommandID)
	}
	return out
}

type recordingCounter struct {
	fakeCounter
	peak int64
}

func (c *recordingCounter) Incr(ctx context.Context, key string) (int64, error) {
	n, err := c.fakeCounter.Incr(ctx, key)
	if n > c.peak {
		c.peak = n
	}
	return n, err
}

type fakeCounter struct {
	counts map[string]int64
}

func (c *fakeCounter) Incr(ctx context.Context, key string) (int64, error) {
	c.counts[key]++
	return c.counts[key], nil
}

func (c *fakeCounter) Reset(ctx context.Context, key string) error {
	delete(c.counts, key)
	return nil
}

func commandMessage(t *testing.T, cmd tasks.MemberCommand, offset int64) kafka.Message {
	t.Helper()
	value, err := json.Marshal(cmd)
	require.NoError(t, err)
	return kafka.Message{Topic: "succession-commands", Offset: offset, Value: value}
}

func TestProducer_PublishEvent(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w}

	err := p.PublishEvent(context.Background(), tasks.SuccessionEvent{EventID: "e1", Type: tasks.EventMemberRemoved, MemberID: 2})

	require.NoError(t, err)
	require.Len(t, w.written, 1)
	assert.Equal(t, "2", string(w.written[0].Key))
	var evt tasks.SuccessionEvent
	require.NoError(t, json.Unmarshal(w.written[0].Value, &evt))
	assert.Equal(t, "e1", evt.EventID)
	assert.Equal(t, tasks.EventMemberRemoved, evt.Type)
}

func TestConsumer_CommitsOnSuccess(t *testing.T) {
	r := &fakeReader{queue: []kafka.Message{commandMessage(t, tasks.MemberCommand{CommandID: "c1", Action: tasks.ActionRemove, MemberID: 2}, 0)}}
	p := &fakeProcessor{}
	counter := &fakeCounter{counts: map[string]int64{"kafka:attempts:c1": 1}}

	require.NoError(t, newConsumer(r, p, counter, 3, 0).Run(context.Background()))

	require.Len(t, p.seen, 1)
	assert.Equal(t, int64(2), p.seen[0].MemberID)
	assert.Len(t, r.committed, 1)
	assert.Empty(t, counter.counts)
	assert.True(t, r.closed)
}

func TestConsumer_CommitsMalformedMessage(t *testing.T) {
	r := &fakeReader{queue: []kafka.Message{{Value: []byte("not json")}}}
	p := &fakeProcessor{}

	require.NoError(t, newConsumer(r, p, nil, 3, 0).Run(context.Background()))

	assert.Empty(t, p.seen)
	assert.Len(t, r.committed, 1)
}

func TestConsumer_PermanentFailureIsNotRetried(t *testing.T) {
	r := &fakeReader{queue: []kafka.Message{commandMessage(t, tasks.MemberCommand{CommandID: "c1", Action: tasks.ActionRestore, MemberID: 1}, 0)}}
	p := &fakeProcessor{err: fmt.Errorf("%w: already active", tasks.ErrPermanent)}
	counter := &fakeCounter{counts: map[string]int64{}}

	require.NoError(t, newConsumer(r, p, counter, 3, 0).Run(context.Background()))

	assert.Len(t, r.committed, 1)
	assert.Empty(t, counter.counts)
}

func TestConsumer_RetriesTransientFailureBeforeNextMessage(t *testing.T) {
	first := commandMessage(t, tasks.MemberCommand{CommandID: "c1", Action: tasks.ActionReload}, 7)
	second := commandMessage(t, tasks.MemberCommand{CommandID: "c2", Action: tasks.ActionRemove, MemberID: 2}, 8)
	r := &fakeReader{queue: []kafka.Message{first, second}}
	p := &flakyProcessor{failures: 2}
	counter := &fakeCounter{counts: map[string]int64{}}

	require.NoError(t, newConsumer(r, p, counter, 3, 0).Run(context.Background()))

	// c1 fails twice and succeeds on the third try, all before c2 is fetched
	require.Len(t, p.seen, 4)
	assert.Equal(t, []string{"c1", "c1", "c1", "c2"}, commandIDs(p.seen))
	require.Len(t, r.committed, 2)
	assert.Equal(t, int64(7), r.committed[0].Offset)
	assert.Equal(t, int64(8), r.committed[1].Offset)
	assert.Empty(t, counter.counts)
}

func TestConsumer_GivesUpAfterMaxAttempts(t *testing.T) {
	r := &fakeReader{queue: []kafka.Message{commandMessage(t, tasks.MemberCommand{CommandID: "c1", Action: tasks.ActionReload}, 7)}}
	p := &fakeProcessor{err: errors.New("timeout")}
	counter := &recordingCounter{fakeCounter: fakeCounter{counts: map[string]int64{}}}

	require.NoError(t, newConsumer(r, p, counter, 3, 0).Run(context.Background()))

	assert.Len(t, p.seen, 3)
	assert.Len(t, r.committed, 1)
	assert.Equal(t, int64(3), counter.peak)
}

func TestConsumer_AttemptsSurviveRestart(t *testing.T) {
	msg := commandMessage(t, tasks.MemberCommand{CommandID: "c1", Action: tasks.ActionReload}, 7)
	p := &fakeProcessor{err: errors.New("timeout")}
	// two attempts were recorded before the previous consumer stopped
	counter := &fakeCounter{counts: map[string]int64{"kafka:attempts:c1": 2}}
	r := &fakeReader{queue: []kafka.Message{msg}}

	require.NoError(t, newConsumer(r, p, counter, 3, 0).Run(context.Background()))

	assert.Len(t, p.seen, 1)
	assert.Len(t, r.committed, 1)
}

func TestConsumer_RetriesWithoutCounter(t *testing.T) {
	r := &fakeReader{queue: []kafka.Message{commandMessage(t, tasks.MemberCommand{Action: tasks.ActionReload}, 7)}}
	p := &flakyProcessor{failures: 1}

	require.NoError(t, newConsumer(r, p, nil, 3, 0).Run(context.Background()))

	assert.Len(t, p.seen, 2)
	assert.Len(t, r.committed, 1)
}

func TestConsumer_StopsRetryingOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &fakeReader{queue: []kafka.Message{commandMessage(t, tasks.MemberCommand{CommandID: "c1", Action: tasks.ActionReload}, 7)}}
	p := &cancelingProcessor{cancel: cancel}

	require.NoError(t, newConsumer(r, p, nil, 5, time.Hour).Run(ctx))

	assert.Equal(t, 1, p.calls)
	assert.Empty(t, r.committed)
}

func TestAttemptsKey(t *testing.T) {
	msg := kafka.Message{Topic: "cmds", Partition: 1, Offset: 42}

	assert.Equal(t, "kafka:attempts:abc", attemptsKey(tasks.MemberCommand{CommandID: "abc"}, msg))
	assert.Equal(t, "kafka:attempts:cmds:1:42", attemptsKey(tasks.MemberCommand{}, msg))
}

func TestNewConsumer_DefaultMaxAttempts(t *testing.T) {
	c := newConsumer(&fakeReader{}, &fakeProcessor{}, nil, 0, 0)

	assert.Equal(t, int64(3), c.maxAttempts)
}

func TestBrokerList(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, brokerList("a:9092, b:9092,"))
	assert.Empty(t, brokerList(""))
}
