package repository

import (
	"context"
	"time"

	"poll-quiz-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type QuizRepository struct {
	Col *mongo.Collection
}

func NewQuizRepository(db *mongo.Database) *QuizRepository {
	return &QuizRepository{Col: db.Collection("quizzes")}
}

func (r *QuizRepository) FindActiveByCode(ctx context.Context, code string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.Col.FindOne(ctx, bson.M{
		"quizCode": models.NormalizeQuizCode(code),
		"status":   models.StatusActive,
	}).Decode(&quiz)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindByCode(ctx context.Context, code string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.Col.FindOne(ctx, bson.M{"quizCode": models.NormalizeQuizCode(code)}).Decode(&quiz)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&quiz)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) ListActive(ctx context.Context) ([]models.Quiz, error) {
	opts := options.Find().
		SetProjection(bson.M{"topic": 1, "difficulty": 1, "quizCode": 1, "status": 1, "createdBy": 1, "createdAt": 1}).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.Col.Find(ctx, bson.M{"status": models.StatusActive}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var quizzes []models.Quiz
	for cur.Next(ctx) {
		var q models.Quiz
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, cur.Err()
}

func (r *QuizRepository) ListByCreator(ctx context.Context, userID string) ([]models.Quiz, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.Col.Find(ctx, bson.M{"createdBy": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var quizzes []models.Quiz
	for cur.Next(ctx) {
		var q models.Quiz
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, cur.Err()
}

func (r *QuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	if quiz.ID.IsZero() {
		quiz.ID = primitive.NewObjectID()
	}
	_, err := r.Col.InsertOne(ctx, quiz)
	return err
}

func (r *QuizRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status, "updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrQuizNotFound
	}
	return nil
}

// AddParticipant appends an attempt with a conditional write keyed on
// (quiz, student). The participants.user $ne guard makes the push the
// atomicity boundary: of two concurrent submissions from the same
// student, exactly one matches.
func (r *QuizRepository) AddParticipant(ctx context.Context, quizID primitive.ObjectID, p models.Participant) error {
	return retryTransient(func() error {
		filter := bson.M{
			"_id":               quizID,
			"participants.user": bson.M{"$ne": p.User},
		}
		update := bson.M{
			"$push": bson.M{"participants": p},
			"$set":  bson.M{"updatedAt": time.Now()},
		}
		res, err := r.Col.UpdateOne(ctx, filter, update)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			if err := r.Col.FindOne(ctx, bson.M{"_id": quizID}).Err(); err == mongo.ErrNoDocuments {
				return models.ErrQuizNotFound
			}
			return models.ErrDuplicateSubmission
		}
		return nil
	})
}

func (r *QuizRepository) HasParticipant(ctx context.Context, quizID primitive.ObjectID, userID string) (bool, error) {
	count, err := r.Col.CountDocuments(ctx, bson.M{"_id": quizID, "participants.user": userID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SetParticipantTimeTaken retrofits timing onto an attempt recorded
// before the time was known. Callers treat failure as non-fatal.
func (r *QuizRepository) SetParticipantTimeTaken(ctx context.Context, quizID primitive.ObjectID, userID string, seconds int) error {
	filter := bson.M{"_id": quizID, "participants.user": userID}
	update := bson.M{"$set": bson.M{"participants.$.timeTaken": seconds}}
	res, err := r.Col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrAttemptNotRecorded
	}
	return nil
}

// CrossQuizTotals groups completed attempts by student across every
// quiz. Sorting and ranking happen in the leaderboard service.
func (r *QuizRepository) CrossQuizTotals(ctx context.Context) ([]models.AdminLeaderboardRow, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$participants"}},
		{{Key: "$match", Value: bson.M{"participants.completedAt": bson.M{"$gt": time.Time{}}}}},
		{{Key: "$group", Value: bson.M{
			"_id":            "$participants.user",
			"name":           bson.M{"$last": "$participants.name"},
			"email":          bson.M{"$last": "$participants.email"},
			"totalScore":     bson.M{"$sum": "$participants.score"},
			"lastSubmission": bson.M{"$max": "$participants.completedAt"},
		}}},
	}
	cur, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var rows []models.AdminLeaderboardRow
	for cur.Next(ctx) {
		var row models.AdminLeaderboardRow
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, cur.Err()
}
