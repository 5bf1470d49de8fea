package dynamo

import (
	"encoding/json"

	"github.com/dkoval/notewave/models"
)

type dynamoUser struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	Id         string `dynamodbav:"Id"`
	Provider   string `dynamodbav:"Provider"`
	ProviderId string `dynamodbav:"ProviderId"`
	Username   string `dynamodbav:"Username"`
	Created    int64  `dynamodbav:"Created"`
}

// Map domain User -> Dynamo
func userToDynamo(u models.User) dynamoUser {
	return dynamoUser{
		PK:         "USER#" + u.Provider + "#" + u.ProviderId,
		SK:         "PROFILE",
		Id:         u.Id,
		Provider:   u.Provider,
		ProviderId: u.ProviderId,
		Username:   u.Username,
		Created:    u.Created,
	}
}

// Map Dynamo -> domain User
func userFromDynamo(du dynamoUser) models.User {
	return models.User{
		Id:         du.Id,
		Username:   du.Username,
		Provider:   du.Provider,
		ProviderId: du.ProviderId,
		Created:    du.Created,
	}
}

// dynamoPage stores the block tree and author as JSON documents: the tree is
// owned wholesale by its page and never queried independently, so a single
// document attribute keeps the item shape flat.
type dynamoPage struct {
	PK                 string `dynamodbav:"PK"`
	SK                 string `dynamodbav:"SK"`
	ExternalId         string `dynamodbav:"ExternalId"`
	OwnerId            string `dynamodbav:"OwnerId"`
	Title              string `dynamodbav:"Title"`
	Description        string `dynamodbav:"Description"`
	Author             string `dynamodbav:"Author"`
	CreatedDate        int64  `dynamodbav:"CreatedDate"`
	URL                string `dynamodbav:"URL"`
	Blocks             string `dynamodbav:"Blocks"`
	PlainText          string `dynamodbav:"PlainText"`
	AnalysisText       string `dynamodbav:"AnalysisText"`
	AnalyzedAt         int64  `dynamodbav:"AnalyzedAt"`
	LastSyncedAt       int64  `dynamodbav:"LastSyncedAt"`
	SourceLastEditedAt int64  `dynamodbav:"SourceLastEditedAt"`
}

func pagePK(ownerId string) string {
	return "OWNER#" + ownerId
}

func pageSK(externalId string) string {
	return "PAGE#" + externalId
}

// Map domain Page -> Dynamo
func pageToDynamo(p models.Page) dynamoPage {
	dp := dynamoPage{
		PK:                 pagePK(p.OwnerId),
		SK:                 pageSK(p.ExternalId),
		ExternalId:         p.ExternalId,
		OwnerId:            p.OwnerId,
		Title:              p.Title,
		Description:        p.Description,
		CreatedDate:        p.CreatedDate,
		URL:                p.URL,
		PlainText:          p.PlainText,
		AnalysisText:       p.AnalysisText,
		AnalyzedAt:         p.AnalyzedAt,
		LastSyncedAt:       p.LastSyncedAt,
		SourceLastEditedAt: p.SourceLastEditedAt,
	}

	if blocksJSON, err := json.Marshal(p.Blocks); err == nil {
		dp.Blocks = string(blocksJSON)
	}
	if p.Author != nil {
		if authorJSON, err := json.Marshal(p.Author); err == nil {
			dp.Author = string(authorJSON)
		}
	}

	return dp
}

// Map Dynamo -> domain Page
func pageFromDynamo(dp dynamoPage) models.Page {
	p := models.Page{
		ExternalId:         dp.ExternalId,
		OwnerId:            dp.OwnerId,
		Title:              dp.Title,
		Description:        dp.Description,
		CreatedDate:        dp.CreatedDate,
		URL:                dp.URL,
		PlainText:          dp.PlainText,
		AnalysisText:       dp.AnalysisText,
		AnalyzedAt:         dp.AnalyzedAt,
		LastSyncedAt:       dp.LastSyncedAt,
		SourceLastEditedAt: dp.SourceLastEditedAt,
	}

	if dp.Blocks != "" {
		var blocks []models.Block
		if err := json.Unmarshal([]byte(dp.Blocks), &blocks); err == nil {
			p.Blocks = blocks
		}
	}
	if dp.Author != "" {
		var author models.Author
		if err := json.Unmarshal([]byte(dp.Author), &author); err == nil {
			p.Author = &author
		}
	}

	return p
}
