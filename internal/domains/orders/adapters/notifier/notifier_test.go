package notifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	notificationsdomain "github.com/Apurer/go-order-service/internal/domains/notifications/domain"
	notificationactivities "github.com/Apurer/go-order-service/internal/platform/temporal/activities/notifications"
	notificationworkflows "github.com/Apurer/go-order-service/internal/platform/temporal/workflows/notifications"
)

type fakeStarter struct {
	options  client.StartWorkflowOptions
	workflow interface{}
	args     []interface{}
	err      error
}

func (f *fakeStarter) ExecuteWorkflow(_ context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error) {
	f.options, f.workflow, f.args = options, workflow, args
	return nil, f.err
}

func TestTemporalNotifier_StartsOrderEventWorkflow(t *testing.T) {
	starter := &fakeStarter{}
	n := NewTemporalNotifier(starter)

	require.NoError(t, n.SendOrderConfirmation(context.Background(), 12, 3))
	require.True(t, strings.HasPrefix(starter.options.ID, "order-event-order_confirmation-12-"), starter.options.ID)
	require.Equal(t, notificationworkflows.OrderEventTaskQueue, starter.options.TaskQueue)
	require.Equal(t, notificationworkflows.OrderEventWorkflowName, starter.workflow)
	require.Equal(t, []interface{}{notificationactivities.OrderEventInput{
		Kind: notificationsdomain.KindOrderConfirmation, OrderID: 12, UserID: 3,
	}}, starter.args)
}

func TestTemporalNotifier_RepeatedOrderIDGetsFreshWorkflowID(t *testing.T) {
	starter := &fakeStarter{}
	n := NewTemporalNotifier(starter)

	require.NoError(t, n.SendOrderConfirmation(context.Background(), 1, 7))
	first := starter.options.ID
	require.NoError(t, n.SendOrderConfirmation(context.Background(), 1, 8))
	require.NotEqual(t, first, starter.options.ID)
	require.Equal(t, int64(8), starter.args[0].(notificationactivities.OrderEventInput).UserID)
}

func TestTemporalNotifier_DuplicateStartIsNotAnError(t *testing.T) {
	starter := &fakeStarter{err: serviceerror.NewWorkflowExecutionAlreadyStarted("exists", "", "run-1")}
	require.NoError(t, NewTemporalNotifier(starter).SendOrderCancellation(context.Background(), 1, 1))

	unavailable := errors.New("frontend unavailable")
	starter.err = unavailable
	require.ErrorIs(t, NewTemporalNotifier(starter).SendOrderCancellation(context.Background(), 1, 1), unavailable)
}

func TestInlineNotifier_Unconfigured(t *testing.T) {
	require.Error(t, NewInlineNotifier(nil).SendOrderConfirmation(context.Background(), 1, 1))
}
