package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pathform/config"
	"pathform/internal/model"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB)
	surveyColl := db.Collection("surveys")

	// Demo survey: section 1 branches on a radio question. "yes" jumps
	// straight to the feedback section, anything else walks through the
	// detail section first.
	survey := model.Survey{
		TenantID: "tenant_default",
		AuthorID: "author_demo",
		Title:    "Product Onboarding Check-in",
		Status:   model.SurveyDraft,
		Sections: []model.Section{
			{
				ID:    "sec-welcome",
				Order: 1,
				Title: "Getting started",
				Questions: []model.Question{
					{
						ID:     "q-setup-done",
						Type:   model.QuestionRadio,
						Prompt: "Did you finish setting up your workspace?",
						Options: []model.Option{
							{ID: "opt-yes", Label: "yes"},
							{ID: "opt-no", Label: "no"},
						},
					},
				},
				Branching: &model.BranchingRule{
					QuestionID: "q-setup-done",
					Conditions: []model.Condition{
						{Operator: model.OpEquals, Value: "yes", NextSectionID: model.ToSection("sec-feedback")},
					},
					DefaultNextSectionID: model.NextInOrder(),
				},
			},
			{
				ID:    "sec-setup-help",
				Order: 2,
				Title: "Where did setup get stuck?",
				Questions: []model.Question{
					{
						ID:     "q-stuck-step",
						Type:   model.QuestionParagraph,
						Prompt: "Describe the step where you got stuck.",
					},
				},
			},
			{
				ID:    "sec-feedback",
				Order: 3,
				Title: "Overall feedback",
				Questions: []model.Question{
					{
						ID:     "q-rating",
						Type:   model.QuestionScale,
						Prompt: "How smooth was your onboarding, 1 to 5?",
					},
				},
				Branching: &model.BranchingRule{
					QuestionID:           "q-rating",
					Conditions:           []model.Condition{},
					DefaultNextSectionID: model.EndSurvey(),
				},
			},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	result, err := surveyColl.InsertOne(ctx, &survey)
	if err != nil {
		log.Fatalf("Failed to insert survey: %v", err)
	}

	id := ""
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		id = oid.Hex()
	}
	fmt.Printf("Successfully created demo survey '%s' (%s) for tenant '%s'\n", survey.Title, id, survey.TenantID)
}
