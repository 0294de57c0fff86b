package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/msomdec/todo-api/internal/domain"
)

type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	Priority    string             `bson:"priority"`
	DueDate     *time.Time         `bson:"dueDate"`
	User        primitive.ObjectID `bson:"user"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d taskDocument) toDomain() *domain.Task {
	t := &domain.Task{
		ID:     d.ID.Hex(),
		UserID: d.User.Hex(),
		TaskFields: domain.TaskFields{
			Title:       d.Title,
			Description: d.Description,
			Status:      domain.TaskStatus(d.Status),
			Priority:    domain.TaskPriority(d.Priority),
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.DueDate != nil {
		due := d.DueDate.UTC()
		t.DueDate = &due
	}
	return t
}

// TaskRepository implements domain.TaskRepository on a tasks collection.
// Every filter includes the owner; writes use findAndModify so the owner
// match and the change are one server-side operation.
type TaskRepository struct {
	coll *mongo.Collection
}

func NewTaskRepository(coll *mongo.Collection) *TaskRepository {
	return &TaskRepository{coll: coll}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	owner, err := primitive.ObjectIDFromHex(task.UserID)
	if err != nil {
		return fmt.Errorf("owner id %q: %w", task.UserID, err)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := taskDocument{
		ID:          primitive.NewObjectID(),
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		DueDate:     task.DueDate,
		User:        owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	task.ID = doc.ID.Hex()
	task.CreatedAt = now
	task.UpdatedAt = now
	return nil
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Task, error) {
	tasks := []domain.Task{}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return tasks, nil
	}

	cur, err := r.coll.Find(ctx, bson.M{"user": owner}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc taskDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, *doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) GetByOwner(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	filter, ok := ownerFilter(ownerID, id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return decodeTask(r.coll.FindOne(ctx, filter), "find task")
}

func (r *TaskRepository) UpdateByOwner(ctx context.Context, ownerID, id string, fields domain.TaskFields) (*domain.Task, error) {
	return r.findAndSet(ctx, ownerID, id, bson.M{
		"title":       fields.Title,
		"description": fields.Description,
		"status":      string(fields.Status),
		"priority":    string(fields.Priority),
		"dueDate":     fields.DueDate,
	})
}

func (r *TaskRepository) UpdateStatusByOwner(ctx context.Context, ownerID, id string, status domain.TaskStatus) (*domain.Task, error) {
	return r.findAndSet(ctx, ownerID, id, bson.M{"status": string(status)})
}

func (r *TaskRepository) DeleteByOwner(ctx context.Context, ownerID, id string) error {
	filter, ok := ownerFilter(ownerID, id)
	if !ok {
		return domain.ErrNotFound
	}
	if err := r.coll.FindOneAndDelete(ctx, filter).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (r *TaskRepository) findAndSet(ctx context.Context, ownerID, id string, set bson.M) (*domain.Task, error) {
	filter, ok := ownerFilter(ownerID, id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	set["updatedAt"] = time.Now().UTC().Truncate(time.Millisecond)

	res := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After))
	return decodeTask(res, "update task")
}

// ownerFilter builds the {_id, user} match. Ids that are not valid
// ObjectIDs cannot name any document, so ok is false.
func ownerFilter(ownerID, id string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": oid, "user": owner}, true
}

func decodeTask(res *mongo.SingleResult, op string) (*domain.Task, error) {
	var doc taskDocument
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return doc.toDomain(), nil
}
