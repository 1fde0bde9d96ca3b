package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemakera2iruntime"
	"github.com/aws/aws-sdk-go-v2/service/sagemakera2iruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/scribo/internal/common"
	"github.com/ternarybob/scribo/internal/interfaces"
	"github.com/ternarybob/scribo/internal/models"
)

type fakeLoopAPI struct {
	status     types.HumanLoopStatus
	outputURI  string
	startCalls int
	stopCalls  int
}

func (f *fakeLoopAPI) StartHumanLoop(ctx context.Context, params *sagemakera2iruntime.StartHumanLoopInput, optFns ...func(*sagemakera2iruntime.Options)) (*sagemakera2iruntime.StartHumanLoopOutput, error) {
	f.startCalls++
	return &sagemakera2iruntime.StartHumanLoopOutput{HumanLoopArn: aws.String("arn:aws:sagemaker:us-east-1:0:human-loop/" + aws.ToString(params.HumanLoopName))}, nil
}

func (f *fakeLoopAPI) DescribeHumanLoop(ctx context.Context, params *sagemakera2iruntime.DescribeHumanLoopInput, optFns ...func(*sagemakera2iruntime.Options)) (*sagemakera2iruntime.DescribeHumanLoopOutput, error) {
	out := &sagemakera2iruntime.DescribeHumanLoopOutput{HumanLoopStatus: f.status}
	if f.outputURI != "" {
		out.HumanLoopOutput = &types.HumanLoopOutput{OutputS3Uri: aws.String(f.outputURI)}
	}
	return out, nil
}

func (f *fakeLoopAPI) StopHumanLoop(ctx context.Context, params *sagemakera2iruntime.StopHumanLoopInput, optFns ...func(*sagemakera2iruntime.Options)) (*sagemakera2iruntime.StopHumanLoopOutput, error) {
	f.stopCalls++
	return &sagemakera2iruntime.StopHumanLoopOutput{}, nil
}

func (f *fakeLoopAPI) ListHumanLoops(ctx context.Context, params *sagemakera2iruntime.ListHumanLoopsInput, optFns ...func(*sagemakera2iruntime.Options)) (*sagemakera2iruntime.ListHumanLoopsOutput, error) {
	return &sagemakera2iruntime.ListHumanLoopsOutput{}, nil
}

type fakeOutputs struct {
	data []byte
	err  error
}

func (f *fakeOutputs) ReadOutput(ctx context.Context, uri string) ([]byte, error) {
	return f.data, f.err
}

type memReviewStorage struct {
	reviews map[string]*models.PendingReview
}

func newMemReviewStorage() *memReviewStorage {
	return &memReviewStorage{reviews: make(map[string]*models.PendingReview)}
}

func (m *memReviewStorage) SavePending(ctx context.Context, review *models.PendingReview) error {
	m.reviews[review.LoopName] = review
	return nil
}

func (m *memReviewStorage) GetPending(ctx context.Context, loopName string) (*models.PendingReview, error) {
	review, ok := m.reviews[loopName]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return review, nil
}

func (m *memReviewStorage) ListOpen(ctx context.Context) ([]*models.PendingReview, error) {
	var open []*models.PendingReview
	for _, review := range m.reviews {
		if review.Open() {
			open = append(open, review)
		}
	}
	return open, nil
}

func (m *memReviewStorage) Update(ctx context.Context, review *models.PendingReview) error {
	m.reviews[review.LoopName] = review
	return nil
}

func serviceConfig() *common.ReviewConfig {
	return &common.ReviewConfig{
		Enabled:           true,
		FlowDefinitionArn: "arn:aws:sagemaker:us-east-1:0:flow-definition/readme-review",
		AlwaysBelow:       85,
		NeverAtOrAbove:    95,
		ComplexBelow:      90,
	}
}

func seedPending(store *memReviewStorage, loopName string, deadline time.Time) {
	store.reviews[loopName] = &models.PendingReview{
		LoopName:  loopName,
		UserID:    "user-1",
		RequestID: "req-1",
		RepoName:  "widget",
		Status:    models.ReviewStatusPending,
		StartedAt: time.Now().Add(-time.Minute),
		Deadline:  deadline,
	}
}

func TestStartReviewPersistsPendingState(t *testing.T) {
	api := &fakeLoopAPI{}
	store := newMemReviewStorage()
	svc := newServiceWithClient(serviceConfig(), api, &fakeOutputs{}, store, common.GetLogger())

	pending, err := svc.StartReview(context.Background(), &models.ReviewRequest{
		UserID:     "user-1",
		RequestID:  "req-1",
		RepoName:   "widget-tracker",
		Content:    "# widget-tracker\n\nA thing.",
		ContentKey: "review-drafts/acme/widget-tracker.md",
		Assessment: &models.QualityAssessment{Overall: 72.5},
		Complexity: "moderate",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, api.startCalls)
	assert.Equal(t, models.ReviewStatusPending, pending.Status)
	assert.True(t, pending.Deadline.After(pending.StartedAt))
	assert.Equal(t, "review-drafts/acme/widget-tracker.md", pending.ContentKey)

	stored, err := store.GetPending(context.Background(), pending.LoopName)
	require.NoError(t, err)
	assert.True(t, stored.Open())
}

func TestCheckReviewCompletedConvertsScale(t *testing.T) {
	output := `{"humanAnswers":[{"answerContent":{
		"quality_scores":{"completeness":5,"clarity":4,"technical_accuracy":5,"professional_tone":4,"formatting":5,"usability":4},
		"feedback":{"clarity":"tighten the overview"},
		"approval_status":"approved"}}]}`

	api := &fakeLoopAPI{status: types.HumanLoopStatusCompleted, outputURI: "s3://review-bucket/output.json"}
	store := newMemReviewStorage()
	svc := newServiceWithClient(serviceConfig(), api, &fakeOutputs{data: []byte(output)}, store, common.GetLogger())
	seedPending(store, "widget-abc", time.Now().Add(time.Hour))

	result, err := svc.CheckReview(context.Background(), "widget-abc")
	require.NoError(t, err)

	assert.Equal(t, models.ReviewStatusCompleted, result.Status)
	assert.InDelta(t, 90.0, result.Score, 0.001)
	assert.InDelta(t, 0.8, result.Confidence, 0.001)
	assert.Contains(t, result.Feedback, "tighten the overview")

	stored, _ := store.GetPending(context.Background(), "widget-abc")
	assert.False(t, stored.Open())
	assert.Equal(t, models.ReviewStatusCompleted, stored.Status)
}

func TestCheckReviewFailedLoop(t *testing.T) {
	api := &fakeLoopAPI{status: types.HumanLoopStatusFailed}
	store := newMemReviewStorage()
	svc := newServiceWithClient(serviceConfig(), api, &fakeOutputs{}, store, common.GetLogger())
	seedPending(store, "widget-abc", time.Now().Add(time.Hour))

	result, err := svc.CheckReview(context.Background(), "widget-abc")
	require.NoError(t, err)

	assert.Equal(t, models.ReviewStatusFailed, result.Status)
	assert.Zero(t, result.Score)
	assert.Zero(t, result.Confidence)
}

func TestCheckReviewTimeoutApproves(t *testing.T) {
	api := &fakeLoopAPI{status: types.HumanLoopStatusInProgress}
	store := newMemReviewStorage()
	svc := newServiceWithClient(serviceConfig(), api, &fakeOutputs{}, store, common.GetLogger())
	seedPending(store, "widget-abc", time.Now().Add(-time.Minute))

	result, err := svc.CheckReview(context.Background(), "widget-abc")
	require.NoError(t, err)

	assert.Equal(t, models.ReviewStatusTimeoutApproved, result.Status)
	assert.InDelta(t, 75.0, result.Score, 0.001)
	assert.InDelta(t, 0.6, result.Confidence, 0.001)
	assert.Equal(t, 1, api.stopCalls)
}

func TestCheckReviewStillPending(t *testing.T) {
	api := &fakeLoopAPI{status: types.HumanLoopStatusInProgress}
	store := newMemReviewStorage()
	svc := newServiceWithClient(serviceConfig(), api, &fakeOutputs{}, store, common.GetLogger())
	seedPending(store, "widget-abc", time.Now().Add(time.Hour))

	_, err := svc.CheckReview(context.Background(), "widget-abc")
	assert.True(t, errors.Is(err, interfaces.ErrReviewPending))

	stored, _ := store.GetPending(context.Background(), "widget-abc")
	assert.True(t, stored.Open())
}

func TestParseS3URI(t *testing.T) {
	bucket, key, err := parseS3URI("s3://review-bucket/a2i-output/loop/output.json")
	require.NoError(t, err)
	assert.Equal(t, "review-bucket", bucket)
	assert.Equal(t, "a2i-output/loop/output.json", key)

	_, _, err = parseS3URI("https://example.com/x")
	assert.Error(t, err)

	_, _, err = parseS3URI("s3://bucket-only")
	assert.Error(t, err)
}
