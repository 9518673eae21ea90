package dao

import (
	"context"

	"github.com/viant/grader/model"
)

// RubricStore persists the rubric snapshot.
type RubricStore interface {
	Load(ctx context.Context) ([]model.RubricEntry, error)

	Save(ctx context.Context, entries []model.RubricEntry) error
}

// ExamStore persists exam records keyed by exam id.
type ExamStore interface {
	// List returns sorted exam ids.
	List(ctx context.Context) ([]string, error)

	Load(ctx context.Context, id string) (*model.ExamRecord, error)


	// SaveQuestion persists the status of a single question.
	SaveQuestion(ctx context.Context, id string, question int, marked bool) error

}
