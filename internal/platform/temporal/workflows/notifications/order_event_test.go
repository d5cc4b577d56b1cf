package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	notificationsdomain "github.com/Apurer/go-order-service/internal/domains/notifications/domain"
	usersports "github.com/Apurer/go-order-service/internal/domains/users/ports"
	notificationactivities "github.com/Apurer/go-order-service/internal/platform/temporal/activities/notifications"
)

type fakeNotifications struct {
	confirmations int
	cancellations int
	err           error
}

func (f *fakeNotifications) SendNotification(context.Context, string, string, string) error { return nil }
func (f *fakeNotifications) SendOrderConfirmation(context.Context, int64, int64) error {
	f.confirmations++
	return f.err
}
func (f *fakeNotifications) SendOrderCancellation(context.Context, int64, int64) error {
	f.cancellations++
	return f.err
}
func (f *fakeNotifications) SendPasswordReset(context.Context, string, string) error { return nil }
func (f *fakeNotifications) SendWelcomeEmail(context.Context, int64) {}
func (f *fakeNotifications) SendBulkNotifications(context.Context, []int64, string, string) notificationsdomain.BulkResult {
	return notificationsdomain.BulkResult{}
}

func newEnv(t *testing.T, svc *fakeNotifications) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	acts := notificationactivities.NewActivities(svc)
	env.RegisterWorkflowWithOptions(OrderEventWorkflow, workflow.RegisterOptions{Name: OrderEventWorkflowName})
	env.RegisterActivityWithOptions(acts.SendOrderEvent, activity.RegisterOptions{Name: notificationactivities.SendOrderEventActivityName})
	return env
}

func TestOrderEventWorkflow_DeliversConfirmation(t *testing.T) {
	svc := &fakeNotifications{}
	env := newEnv(t, svc)

	env.ExecuteWorkflow(OrderEventWorkflowName, notificationactivities.OrderEventInput{
		Kind: notificationsdomain.KindOrderConfirmation, OrderID: 1, UserID: 2,
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	require.Equal(t, 1, svc.confirmations)
}

func TestOrderEventWorkflow_RetriesTransientFailures(t *testing.T) {
	svc := &fakeNotifications{err: errors.New("relay timeout")}
	env := newEnv(t, svc)

	env.ExecuteWorkflow(OrderEventWorkflowName, notificationactivities.OrderEventInput{
		Kind: notificationsdomain.KindOrderCancellation, OrderID: 1, UserID: 2,
	})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	require.Equal(t, 3, svc.cancellations)
}

func TestOrderEventWorkflow_UnknownRecipientIsNotRetried(t *testing.T) {
	svc := &fakeNotifications{err: &notificationsdomain.NotificationError{
		Kind: notificationsdomain.KindOrderConfirmation, UserID: 2, Err: usersports.ErrNotFound,
	}}
	env := newEnv(t, svc)

	env.ExecuteWorkflow(OrderEventWorkflowName, notificationactivities.OrderEventInput{
		Kind: notificationsdomain.KindOrderConfirmation, OrderID: 1, UserID: 2,
	})

	require.Error(t, env.GetWorkflowError())
	require.Equal(t, 1, svc.confirmations)
}
