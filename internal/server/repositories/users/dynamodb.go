package users

import (
	"context"
	"fmt"
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
	// KeyPrefix and ProfileSortKey place profile items in the jobs table
	// without colliding with job keys.
	KeyPrefix      = "USER#"
	ProfileSortKey = "PROFILE"
)

// DynamoRepository stores profiles as overloaded items of the jobs table.
type DynamoRepository struct {
	api   dynamox.API
	table string
}

func NewDynamoRepository(api dynamox.API, table string) *DynamoRepository {
	return &DynamoRepository{api: api, table: table}
}

func itemKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"jobId":      &types.AttributeValueMemberS{Value: KeyPrefix + userID},
		"postedDate": &types.AttributeValueMemberS{Value: ProfileSortKey},
	}
}

func (r *DynamoRepository) Get(ctx context.Context, userID string) (*models.User, error) {
	out, err := r.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            itemKey(userID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: get user: %v", common.ErrStore, err)
	}
	if len(out.Item) == 0 {
		return nil, common.ErrNotFound
	}

	u := &models.User{}
	if err := attributevalue.UnmarshalMap(out.Item, u); err != nil {
		return nil, fmt.Errorf("%w: unmarshal user: %v", common.ErrStore, err)
	}
	return u, nil
}

// Update is conditional on the item existing, so an unknown userId never
// creates a partial profile.
func (r *DynamoRepository) Update(ctx context.Context, patch models.UserPatch, now time.Time) (*models.User, error) {
	update := expression.Set(expression.Name("updatedAt"), expression.Value(now)).
		Add(expression.Name("version"), expression.Value(1))
	for name, value := range patch.Fields {
		update = update.Set(expression.Name(name), expression.Value(value))
	}

	cond := expression.AttributeExists(expression.Name("userId"))
	if patch.ExpectedVersion != nil {
		cond = cond.And(expression.Name("version").Equal(expression.Value(*patch.ExpectedVersion)))
	}

	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("%w: build update: %v", common.ErrStore, err)
	}

	out, err := r.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                           aws.String(r.table),
		Key:                                 itemKey(patch.UserID),
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
		return nil, fmt.Errorf("%w: update user: %v", common.ErrStore, err)
	}

	u := &models.User{}
	if err := attributevalue.UnmarshalMap(out.Attributes, u); err != nil {
		return nil, fmt.Errorf("%w: unmarshal user: %v", common.ErrStore, err)
	}
	return u, nil
}
