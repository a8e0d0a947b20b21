package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/artistkatta/jobservice/internal/common"
	"github.com/artistkatta/jobservice/internal/dynamox"
	"github.com/artistkatta/jobservice/internal/server/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	// RecordTypeAttr marks job items so a sparse date index only sees jobs.
	RecordTypeAttr = "recordType"
	RecordTypeJob  = "job"

	// UserKeyPrefix prefixes the partition key of profile items sharing the table.
	UserKeyPrefix = "USER#"
)

// DynamoRepository stores jobs in the jobs table keyed by jobId/postedDate.
// When dateIndex is set, date-range listing queries that index
// (hash recordType, range postedDate); otherwise it scans the table.
type DynamoRepository struct {
	api       dynamox.API
	table     string
	dateIndex string
}

func NewDynamoRepository(api dynamox.API, table, dateIndex string) *DynamoRepository {
	return &DynamoRepository{api: api, table: table, dateIndex: dateIndex}
}

func (r *DynamoRepository) Create(ctx context.Context, job *models.Job) error {
	item, err := attributevalue.MarshalMap(job)
	if err != nil {
		return fmt.Errorf("%w: marshal job: %v", common.ErrStore, err)
	}
	item[RecordTypeAttr] = &types.AttributeValueMemberS{Value: RecordTypeJob}

	cond := expression.AttributeNotExists(expression.Name("jobId"))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("%w: build condition: %v", common.ErrStore, err)
	}

	_, err = r.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.table),
		Item:                     item,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		if _, ok := dynamox.ConditionFailed(err); ok {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("%w: put job: %v", common.ErrStore, err)
	}
	return nil
}

// GetByID queries the jobId partition; no index is involved because jobId is
// the table's partition key.
func (r *DynamoRepository) GetByID(ctx context.Context, jobID string) (*models.Job, error) {
	if strings.HasPrefix(jobID, UserKeyPrefix) {
		return nil, common.ErrNotFound
	}

	keyCond := expression.Key("jobId").Equal(expression.Value(jobID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("%w: build key condition: %v", common.ErrStore, err)
	}

	out, err := r.api.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ConsistentRead:            aws.Bool(true),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query job: %v", common.ErrStore, err)
	}
	if len(out.Items) == 0 {
		return nil, common.ErrNotFound
	}

	job := &models.Job{}
	if err := attributevalue.UnmarshalMap(out.Items[0], job); err != nil {
		return nil, fmt.Errorf("%w: unmarshal job: %v", common.ErrStore, err)
	}
	return job, nil
}

func (r *DynamoRepository) Update(ctx context.Context, jobID, postedDate string, patch models.JobPatch, now time.Time) (*models.Job, error) {
	update := expression.Set(expression.Name("updatedAt"), expression.Value(now)).
		Add(expression.Name("version"), expression.Value(1))
	for name, value := range patch.Fields() {
		update = update.Set(expression.Name(name), expression.Value(value))
	}

	cond := expression.AttributeExists(expression.Name("jobId"))
	if patch.ExpectedVersion != nil {
		cond = cond.And(expression.Name("version").Equal(expression.Value(*patch.ExpectedVersion)))
	}

	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("%w: build update: %v", common.ErrStore, err)
	}

	out, err := r.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"jobId":      &types.AttributeValueMemberS{Value: jobID},
			"postedDate": &types.AttributeValueMemberS{Value: postedDate},
		},
		UpdateExpression:                    expr.Update(),
		ConditionExpression:                 expr.Condition(),
		ExpressionAttributeNames:            expr.Names(),
		ExpressionAttributeValues:           expr.Values(),
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		if old, ok := dynamox.ConditionFailed(err); ok {
			if len(old) > 0 {
				return nil, common.ErrVersionConflict
			}
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: update job: %v", common.ErrStore, err)
	}

	job := &models.Job{}
	if err := attributevalue.UnmarshalMap(out.Attributes, job); err != nil {
		return nil, fmt.Errorf("%w: unmarshal job: %v", common.ErrStore, err)
	}
	return job, nil
}

func (r *DynamoRepository) ListByDateRange(ctx context.Context, dr models.DateRange) ([]*models.Job, error) {
	var (
		items []map[string]types.AttributeValue
		err   error
	)
	if r.dateIndex != "" {
		items, err = r.queryDateIndex(ctx, dr)
	} else {
		items, err = r.scanDateRange(ctx, dr)
	}
	if err != nil {
		return nil, err
	}

	out := make([]*models.Job, 0, len(items))
	for _, item := range items {
		job := &models.Job{}
		if err := attributevalue.UnmarshalMap(item, job); err != nil {
			return nil, fmt.Errorf("%w: unmarshal job: %v", common.ErrStore, err)
		}
		out = append(out, job)
	}
	sortByPostedDate(out)
	return out, nil
}

func (r *DynamoRepository) queryDateIndex(ctx context.Context, dr models.DateRange) ([]map[string]types.AttributeValue, error) {
	keyCond := expression.Key(RecordTypeAttr).Equal(expression.Value(RecordTypeJob)).
		And(expression.Key("postedDate").Between(expression.Value(dr.Start), expression.Value(dr.End)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("%w: build key condition: %v", common.ErrStore, err)
	}

	p := dynamodb.NewQueryPaginator(r.api, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		IndexName:                 aws.String(r.dateIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(true),
	})

	var items []map[string]types.AttributeValue
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: query date index: %v", common.ErrStore, err)
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

// scanDateRange is the index-free fallback. Cost grows with the table size.
func (r *DynamoRepository) scanDateRange(ctx context.Context, dr models.DateRange) ([]map[string]types.AttributeValue, error) {
	filter := expression.Name("postedDate").Between(expression.Value(dr.Start), expression.Value(dr.End)).
		And(expression.Not(expression.Name("jobId").BeginsWith(UserKeyPrefix)))
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("%w: build filter: %v", common.ErrStore, err)
	}

	p := dynamodb.NewScanPaginator(r.api, &dynamodb.ScanInput{
		TableName:                 aws.String(r.table),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})

	var items []map[string]types.AttributeValue
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: scan jobs: %v", common.ErrStore, err)
		}
		items = append(items, page.Items...)
	}
	return items, nil
}
