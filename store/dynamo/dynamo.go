package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gofrs/uuid/v5"

	"github.com/dkoval/notewave/models"
)

type DynamoNotewaveStore struct {
	client    *dynamodb.Client
	tableName string
}

func NewDynamoNotewaveStore(ctx context.Context, devMode bool, dynamodbEndpoint string, tableName string) (*DynamoNotewaveStore, error) {
	client, err := newDynamoDBClient(context.Background(), devMode, dynamodbEndpoint)
	if err != nil {
		return nil, err
	}

	tables, err := getTables(client, ctx)
	if err != nil {
		return nil, err
	}

	foundTable := false
	for _, table := range tables {
		if table == tableName {
			foundTable = true
			break
		}
	}
	if !foundTable {
		return nil, fmt.Errorf("given table name '%s' not found in dynamodb", tableName)
	}

	return &DynamoNotewaveStore{client: client, tableName: tableName}, nil
}

func (dynamoStore *DynamoNotewaveStore) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	userId, err := uuid.NewV4()
	if err != nil {
		return models.User{}, err
	}
	user.Id = userId.String()

	du := userToDynamo(user)
	du.Created = time.Now().Unix()
	du, _, err = ensureItem(dynamoStore, ctx, du)
	if err != nil {
		return models.User{}, err
	}

	return userFromDynamo(du), nil
}

func (dynamoStore *DynamoNotewaveStore) GetUser(ctx context.Context, provider string, providerId string) (models.User, error) {
	du, err := getItem[dynamoUser](dynamoStore, ctx, "USER#"+provider+"#"+providerId, "PROFILE", false)
	if err != nil {
		return models.User{}, err
	}

	return userFromDynamo(du), nil
}

func (dynamoStore *DynamoNotewaveStore) FindPage(ctx context.Context, externalId string, ownerId string) (models.Page, error) {
	dp, err := getItem[dynamoPage](dynamoStore, ctx, pagePK(ownerId), pageSK(externalId), false)
	if err != nil {
		return models.Page{}, err
	}

	return pageFromDynamo(dp), nil
}

func (dynamoStore *DynamoNotewaveStore) UpsertPage(ctx context.Context, page models.Page) error {
	return putItem(dynamoStore, ctx, pageToDynamo(page))
}

func (dynamoStore *DynamoNotewaveStore) DeletePage(ctx context.Context, externalId string, ownerId string) error {
	return deleteItem(dynamoStore, ctx, pagePK(ownerId), pageSK(externalId))
}

func (dynamoStore *DynamoNotewaveStore) ListPages(ctx context.Context, ownerId string) ([]models.Page, error) {
	dynamoPages, err := queryAllByPK[dynamoPage](dynamoStore, ctx, pagePK(ownerId), 0)
	if err != nil {
		return nil, err
	}

	pages := make([]models.Page, 0, len(dynamoPages))
	for _, dp := range dynamoPages {
		pages = append(pages, pageFromDynamo(dp))
	}

	return pages, nil
}

func (dynamoStore *DynamoNotewaveStore) ListStalePages(ctx context.Context, syncedBefore int64, limit int32) ([]models.Page, error) {
	dynamoPages, err := scanPagesSyncedBefore(dynamoStore, ctx, syncedBefore, limit)
	if err != nil {
		return nil, err
	}

	pages := make([]models.Page, 0, len(dynamoPages))
	for _, dp := range dynamoPages {
		pages = append(pages, pageFromDynamo(dp))
	}

	return pages, nil
}
