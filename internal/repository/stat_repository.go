package repository

import (
	"context"

	"poll-quiz-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type StatRepository struct {
	Col *mongo.Collection
}

func NewStatRepository(db *mongo.Database) *StatRepository {
	return &StatRepository{Col: db.Collection("student_stats")}
}

func (r *StatRepository) FindByUser(ctx context.Context, userID string) (*models.StudentStat, error) {
	var stat models.StudentStat
	err := r.Col.FindOne(ctx, bson.M{"userId": userID}).Decode(&stat)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrStatNotFound
	}
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

// ApplyAttempt upserts the student's record and applies the increments
// in a single atomic update, then refreshes the derived averages from
// the post-increment totals. The $inc/$push is the consistency anchor;
// the derived fields are a pure function of the totals and self-heal on
// the next attempt if the second write is lost.
//
// The update filter excludes records that already carry a
// quiz_attempted entry for this quiz, so the write itself is the
// once-per-(student, quiz) boundary. When the record exists but the
// filter misses, the upsert collides with the unique userId index; one
// retry distinguishes a concurrently created record (the update now
// matches) from an already-counted attempt (it collides again).
func (r *StatRepository) ApplyAttempt(ctx context.Context, userID string, delta models.AttemptDelta, entry models.Activity) (*models.StudentStat, error) {
	filter := bson.M{
		"userId": userID,
		"activity": bson.M{"$not": bson.M{"$elemMatch": bson.M{
			"type":   models.ActivityQuizAttempted,
			"quizId": entry.QuizID,
		}}},
	}
	update := bson.M{
		"$inc": bson.M{
			"totalQuizzesAttempted": 1,
			"totalScore":            delta.Score,
			"totalQuestions":        delta.TotalQuestions,
			"correctAnswers":        delta.CorrectAnswers,
			"totalTimeTaken":        delta.TimeTaken,
		},
		"$set":  bson.M{"lastQuizAt": delta.At},
		"$push": bson.M{"activity": entry},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stat models.StudentStat
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		err = retryTransient(func() error {
			return r.Col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stat)
		})
		if !mongo.IsDuplicateKeyError(err) {
			break
		}
	}
	if mongo.IsDuplicateKeyError(err) {
		// Already counted: return the record unchanged.
		return r.FindByUser(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	stat.Recalculate()
	_, err = r.Col.UpdateOne(ctx, bson.M{"userId": userID}, bson.M{"$set": bson.M{
		"averageScore":       stat.AverageScore,
		"accuracy":           stat.Accuracy,
		"averageTimePerQuiz": stat.AverageTimePerQuiz,
	}})
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

// AddActivity appends a log entry without touching the totals, creating
// the record if needed (quiz_added notices arrive before any attempt).
func (r *StatRepository) AddActivity(ctx context.Context, userID string, entry models.Activity) error {
	opts := options.Update().SetUpsert(true)
	_, err := r.Col.UpdateOne(ctx, bson.M{"userId": userID},
		bson.M{"$push": bson.M{"activity": entry}}, opts)
	return err
}

func (r *StatRepository) HasAttemptActivity(ctx context.Context, userID string, quizID primitive.ObjectID) (bool, error) {
	count, err := r.Col.CountDocuments(ctx, bson.M{
		"userId": userID,
		"activity": bson.M{"$elemMatch": bson.M{
			"type":   models.ActivityQuizAttempted,
			"quizId": quizID,
		}},
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
